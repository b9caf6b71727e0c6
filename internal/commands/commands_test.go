package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/toaster/internal/core/config"
	"github.com/hay-kot/toaster/internal/core/metrics"
	"github.com/hay-kot/toaster/internal/core/notify"
	"github.com/hay-kot/toaster/internal/printer"
	"github.com/hay-kot/toaster/internal/replay"
)

func testFlags(t *testing.T) *Flags {
	t.Helper()

	cfg := config.DefaultConfig()
	reg := prometheus.NewRegistry()
	return &Flags{
		ConfigPath: filepath.Join(t.TempDir(), "config.yaml"),
		Config:     &cfg,
		Registry:   reg,
		Metrics:    metrics.New(reg),
	}
}

func testApp(flags *Flags, out *bytes.Buffer) *cli.Command {
	app := NewRoot(flags)
	app.Writer = out
	app.ErrWriter = out
	return app
}

func TestNewRoot(t *testing.T) {
	root := NewRoot(&Flags{})

	names := make([]string, 0, len(root.Commands))
	for _, c := range root.Commands {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"tui", "replay", "config"}, names)
	assert.NotNil(t, root.Action)

	flagNames := make([]string, 0, len(root.Flags))
	for _, f := range root.Flags {
		flagNames = append(flagNames, f.Names()[0])
	}
	assert.Equal(t, []string{"log-level", "log-file", "config", "metrics-addr"}, flagNames)
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const script = `
steps:
  - publish: {title: Saved, kind: success, lifetime: 2s}
  - at: 1s
    note: waiting
`

func TestReplayCmd_simulate_text(t *testing.T) {
	var out bytes.Buffer
	flags := testFlags(t)

	err := testApp(flags, &out).Run(context.Background(), []string{"toaster", "replay", "--simulate", writeScript(t, script)})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "display")
	assert.Contains(t, lines[1], "waiting")
	assert.Contains(t, lines[2], "reap")
}

func TestReplayCmd_simulate_json(t *testing.T) {
	var out bytes.Buffer
	flags := testFlags(t)

	err := testApp(flags, &out).Run(context.Background(), []string{"toaster", "replay", "--simulate", "--format", "json", writeScript(t, script)})
	require.NoError(t, err)

	dec := json.NewDecoder(&out)
	var types []string
	for dec.More() {
		var e map[string]any
		require.NoError(t, dec.Decode(&e))
		types = append(types, e["type"].(string))
	}
	assert.Equal(t, []string{"display", "note", "reap"}, types)
}

func TestReplayCmd_realtime(t *testing.T) {
	var out bytes.Buffer
	flags := testFlags(t)

	path := writeScript(t, `
steps:
  - publish: {title: Quick, lifetime: 20ms}
`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, testApp(flags, &out).Run(ctx, []string{"toaster", "replay", path}))
	assert.Contains(t, out.String(), "display")
	assert.Contains(t, out.String(), "reap")
}

func TestReplayCmd_errors(t *testing.T) {
	flags := testFlags(t)

	var out bytes.Buffer
	err := testApp(flags, &out).Run(context.Background(), []string{"toaster", "replay"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script path is required")

	err = testApp(flags, &out).Run(context.Background(), []string{"toaster", "replay", "--format", "xml", writeScript(t, script)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")

	err = testApp(flags, &out).Run(context.Background(), []string{"toaster", "replay", writeScript(t, "steps: []")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid script")
}

func TestReadScript_stdin(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	_, err = f.WriteString(script)
	require.NoError(t, err)
	_, err = f.Seek(0, 0)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	s, err := readScript("-", f)
	require.NoError(t, err)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, "Saved", s.Steps[0].Publish.Title)
}

func TestYAMLFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.YML", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.yaml"), 0o755))

	assert.Equal(t, []string{"a.yaml", "b.YML"}, yamlFiles(dir))
}

func TestEventWriter_text(t *testing.T) {
	var out bytes.Buffer
	emit, err := eventWriter(&out, "text")
	require.NoError(t, err)

	emit(replay.Event{At: time.Second, Type: replay.EventNote, Text: "hello"})
	assert.Equal(t, "      1s  note     hello\n", out.String())
}

func TestConfigValidateCmd_json(t *testing.T) {
	var out bytes.Buffer
	flags := testFlags(t)

	err := testApp(flags, &out).Run(context.Background(), []string{"toaster", "config", "validate", "--format", "json"})
	require.NoError(t, err)

	var result struct {
		Valid  bool              `json:"valid"`
		Errors []validationError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestConfigValidateCmd_text(t *testing.T) {
	var out bytes.Buffer
	flags := testFlags(t)

	ctx := printer.NewContext(context.Background(), printer.New(&out))
	err := testApp(flags, &out).Run(ctx, []string{"toaster", "config", "validate"})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "timer backend: runtime")
	assert.Contains(t, text, "warning lifetime: 8s")
	assert.Contains(t, text, "Configuration is valid")
}

func TestValidationErrors(t *testing.T) {
	assert.Nil(t, validationErrors(nil))

	cfg := config.DefaultConfig()
	cfg.TUI.Theme = "nope"
	errs := validationErrors(cfg.Validate())
	require.Len(t, errs, 1)
	assert.Equal(t, "tui.theme", errs[0].Field)
	assert.Contains(t, errs[0].Message, "nope")

	errs = validationErrors(errors.New("boom"))
	assert.Equal(t, []validationError{{Message: "boom"}}, errs)

	var fieldErrs criterio.FieldErrors
	assert.False(t, errors.As(errors.New("plain"), &fieldErrs))
}

func TestSortedKinds(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Toasts.Lifetimes["zeta"] = time.Second
	cfg.Toasts.Lifetimes[notify.KindDanger] = 0

	kinds := sortedKinds(&cfg)
	assert.Equal(t, []notify.Kind{
		notify.KindDefault, notify.KindInfo, notify.KindSuccess, notify.KindWarning, notify.KindDanger, "zeta",
	}, kinds)

	assert.Equal(t, "until closed", lifetimeLabel(0))
	assert.Equal(t, "1.5s", lifetimeLabel(1500*time.Millisecond))
}
