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

const validSnapshot = `{
  "nodes": [
    {"name": 0, "x": 0, "y": 0, "t": 0, "phase": ""},
    {"name": 1, "x": 1, "y": 0, "t": 1, "phase": "1/2"}
  ],
  "links": [{"source": 0, "target": 1, "t": 1}]
}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.toml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheck(t *testing.T) {
	good := writeFile(t, "good.json", validSnapshot)
	bad := writeFile(t, "bad.json", `{"nodes": [], "links": [{"source": 0, "target": 1, "t": 1}]}`)

	out, err := run(t, "check", good)
	require.NoError(t, err)
	assert.Contains(t, out, good+": ok")

	out, err = run(t, "check", good, bad)
	assert.Error(t, err)
	assert.Contains(t, out, bad+": ")
	assert.NotContains(t, out, bad+": ok")
}

func TestRender(t *testing.T) {
	in := writeFile(t, "graph.json", validSnapshot)
	base := filepath.Join(t.TempDir(), "graph")

	out, err := run(t, "render", in, "--format", "vis", "--out", base)
	require.NoError(t, err)
	assert.Equal(t, base+".html", strings.TrimSpace(out))

	data, err := os.ReadFile(base + ".html")
	require.NoError(t, err)
	assert.Contains(t, string(data), "vis.Network")
}

func TestRenderUnknownFormat(t *testing.T) {
	in := writeFile(t, "graph.json", validSnapshot)
	_, err := run(t, "render", in, "--format", "svg")
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zx", "config.toml")
	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", path, "--log-level", "debug", "config", "init"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `log_level = "debug"`)
	assert.Contains(t, string(data), `push_timeout = "5s"`)
}
