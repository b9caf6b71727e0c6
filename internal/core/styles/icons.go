package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconToastDefault = "\uf0f3" // bell
	IconToastInfo    = "\uf05a" // info-circle
	IconToastSuccess = "\uf058" // check-circle
	IconToastWarning = "\uf071" // warning
	IconToastDanger  = "\uf057" // times-circle
	IconClose        = "\uf00d" // times
	IconTimer        = "\uf017" // clock
)
