package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pluginOutput = `up | color=red
down
---
Open site | href=https://example.com shortcut=cmd+o
Tools
--Echo | bash=/bin/echo param1=hi terminal=false
-----
--Reload | refresh=true
Done | checked=true
`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SCRIPTBAR_CONFIG_PATH", filepath.Join(t.TempDir(), "config.yaml"))
	t.Setenv("SCRIPTBAR_SERVICE_ADDR", "")
	t.Setenv("SCRIPTBAR_SERVICE_TOKEN", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderPrintsTree(t *testing.T) {
	out, err := execute(t, pluginOutput, "render", "--no-color", "--handles")
	require.NoError(t, err)

	assert.Contains(t, out, "Title\n  up\n  down\n")
	assert.Contains(t, out, "  [h] up\n")
	assert.Contains(t, out, "  [1] Open site  (open https://example.com, CMD+O)\n")
	assert.Contains(t, out, "  [2] Tools\n")
	assert.Contains(t, out, "    [2.0] Echo  (run /bin/echo hi)\n")
	assert.Contains(t, out, "    [2.1] "+separatorText+"\n")
	assert.Contains(t, out, "    [2.2] Reload  (refresh)\n")
	assert.Contains(t, out, "  [3] ✓ Done\n")
	assert.Contains(t, out, "Shortcuts\n  CMD+O")
}

func TestRenderFromFileWithPlaceholder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n\n"), 0o600))

	out, err := execute(t, "", "render", "--no-color", path)
	require.NoError(t, err)
	assert.Equal(t, "Title\n  ⚠️\nMenu\n", out)
}

func TestActivateDryRun(t *testing.T) {
	out, err := execute(t, pluginOutput, "activate", "--dry-run", "--path", "2.0")
	require.NoError(t, err)
	assert.Equal(t, "run /bin/echo hi\n", out)
}

func TestActivateRejectsDisplayOnlyEntry(t *testing.T) {
	_, err := execute(t, pluginOutput, "activate", "--dry-run", "--path", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not selectable")

	_, err = execute(t, pluginOutput, "activate", "--path", "9")
	assert.Error(t, err)

	_, err = execute(t, pluginOutput, "activate", "--path", "x.1")
	assert.Error(t, err)

	_, err = execute(t, pluginOutput, "activate")
	assert.Error(t, err)
}

func TestParsePath(t *testing.T) {
	got, err := parsePath("1.0.2")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 2}, got)

	_, err = parsePath("1.-1")
	assert.Error(t, err)
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scriptbar.yaml")

	out, err := execute(t, "", "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)
	assert.FileExists(t, path)

	_, err = execute(t, "", "--config", path, "config", "init")
	assert.Error(t, err)

	out, err = execute(t, "", "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "refreshInterval: 30s")
	assert.Contains(t, out, "cycleInterval: 5s")
	assert.Contains(t, out, "openColor: white")
}
