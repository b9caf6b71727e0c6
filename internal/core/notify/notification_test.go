package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_title_only(t *testing.T) {
	n := New("Saved")

	assert.Equal(t, "Saved", n.Title)
	assert.Equal(t, KindDefault, n.Kind)
	assert.False(t, n.Expires())
	assert.Empty(t, n.Body)
	assert.Empty(t, n.Actions)
}

func TestNotification_With_returns_copies(t *testing.T) {
	base := New("Saved")
	timed := base.WithLifetime(5 * time.Second).WithKind(KindSuccess)

	assert.False(t, base.Expires(), "original must not change")
	assert.Equal(t, KindDefault, base.Kind)
	assert.True(t, timed.Expires())
	assert.Equal(t, KindSuccess, timed.Kind)
}

func TestNotification_WithActions_does_not_alias(t *testing.T) {
	actions := []Action{{ID: "undo", Label: "Undo"}}
	n := New("Deleted").WithActions(actions...)

	actions[0].Label = "changed"

	require.Len(t, n.Actions, 1)
	assert.Equal(t, "Undo", n.Actions[0].Label)
}

func TestNotification_equality(t *testing.T) {
	a := Notification{Title: "Error", Kind: KindDanger, Body: "details"}
	b := New("Error").WithKind(KindDanger).WithBody("details")

	assert.Equal(t, a, b)
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "", want: KindDefault},
		{in: "info", want: KindInfo},
		{in: "success", want: KindSuccess},
		{in: "warning", want: KindWarning},
		{in: "danger", want: KindDanger},
		{in: "fatal", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNotification_String(t *testing.T) {
	assert.Equal(t, "[default] Saved", New("Saved").String())
	assert.Equal(t, "[info] Saved (5s)", New("Saved").WithKind(KindInfo).WithLifetime(5*time.Second).String())
}
