package replay

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/toaster/internal/core/notify"
)

func TestParse(t *testing.T) {
	script, err := Parse([]byte(`
until: 10s
steps:
  - at: 0s
    publish:
      title: Saved
      kind: success
      lifetime: 5s
      body: "**all** good"
      actions:
        - id: undo
          label: Undo
  - at: 2s
    close: 0
  - at: 3s
    note: after close
  - at: 4s
    unmount: true
  - at: 4s
    mount: true
`))
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, script.Until)
	require.Len(t, script.Steps, 5)

	pub := script.Steps[0].Publish
	require.NotNil(t, pub)
	n := pub.Notification()
	assert.Equal(t, "Saved", n.Title)
	assert.Equal(t, notify.KindSuccess, n.Kind)
	assert.Equal(t, 5*time.Second, n.Lifetime)
	assert.Equal(t, "**all** good", n.Body)
	assert.Equal(t, []notify.Action{{ID: "undo", Label: "Undo"}}, n.Actions)

	require.NotNil(t, script.Steps[1].Close)
	assert.Equal(t, uint64(0), *script.Steps[1].Close)
	assert.Equal(t, "after close", script.Steps[2].Note)
	assert.True(t, script.Steps[3].Unmount)
	assert.True(t, script.Steps[4].Mount)
}

func TestPublish_Notification_defaults(t *testing.T) {
	n := Publish{Title: "plain"}.Notification()
	assert.Equal(t, notify.KindDefault, n.Kind)
	assert.False(t, n.Expires())
	assert.Nil(t, n.Actions)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("steps: ["))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse script")
}

func TestScript_Validate(t *testing.T) {
	id := uint64(1)

	tests := []struct {
		name   string
		script Script
		fields []string
	}{
		{
			name:   "empty",
			script: Script{},
			fields: []string{"steps"},
		},
		{
			name: "no action",
			script: Script{Steps: []Step{
				{At: time.Second},
			}},
			fields: []string{"steps[0]"},
		},
		{
			name: "two actions",
			script: Script{Steps: []Step{
				{Publish: &Publish{Title: "a"}, Close: &id},
			}},
			fields: []string{"steps[0]"},
		},
		{
			name: "out of order",
			script: Script{Steps: []Step{
				{At: 2 * time.Second, Note: "late"},
				{At: time.Second, Note: "early"},
			}},
			fields: []string{"steps[1].at"},
		},
		{
			name: "negative offset",
			script: Script{Steps: []Step{
				{At: -time.Second, Note: "before start"},
			}},
			fields: []string{"steps[0].at"},
		},
		{
			name: "bad publish",
			script: Script{Steps: []Step{
				{Publish: &Publish{Kind: "critical"}},
			}},
			fields: []string{"steps[0].publish.title", "steps[0].publish.kind"},
		},
		{
			name: "until before last step",
			script: Script{Until: time.Second, Steps: []Step{
				{At: 2 * time.Second, Note: "x"},
			}},
			fields: []string{"until"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.script.Validate()

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)

			got := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				got = append(got, fe.Field)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps:\n  - note: hello\n"), 0o644))

	script, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", script.Steps[0].Note)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read script")
}
