package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInspect_YAML(t *testing.T) {
	dir := t.TempDir()
	local := writeFile(t, dir, "local.xml", `<resources><string name="a">1</string><string name="old">x</string></resources>`)
	incoming := writeFile(t, dir, "incoming.xml", `<resources><string name="a">2</string><string name="new">y</string></resources>`)

	stdout, _, err := execute(t, "inspect", "-o", "yaml", local, incoming)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)

	var report inspectReport
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, "conflicted", report.State)
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, "a", report.Conflicts[0].Name)
	assert.Equal(t, "1", report.Conflicts[0].Local)
	assert.Equal(t, "2", report.Conflicts[0].Incoming)
	assert.Equal(t, []string{"old"}, report.Kept)
}

func TestInspect_Resolvable(t *testing.T) {
	dir := t.TempDir()
	local := writeFile(t, dir, "local.xml", `<resources><string name="a">1</string></resources>`)
	incoming := writeFile(t, dir, "incoming.xml", `<resources><string name="a">1</string><string name="b">2</string></resources>`)

	stdout, _, err := execute(t, "inspect", "-o", "yaml", local, incoming)
	require.NoError(t, err)

	var report inspectReport
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, "merged", report.State)
	assert.Equal(t, []string{"b"}, report.Added)
}

func TestInspect_Malformed(t *testing.T) {
	dir := t.TempDir()
	local := writeFile(t, dir, "local.xml", `<resources>`)
	incoming := writeFile(t, dir, "incoming.xml", `<resources/>`)

	stdout, _, err := execute(t, "inspect", "-o", "text", local, incoming)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Contains(t, stdout, "cannot merge entries")
}

func TestMerge_Diff3(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base", "<resources>\n    <string name=\"a\">1</string>\n</resources>\n")
	local := writeFile(t, dir, "local", "<resources>\n    <string name=\"a\">1</string>\n    <string name=\"b\">2</string>\n</resources>\n")
	incoming := writeFile(t, dir, "incoming", "<resources>\n    <string name=\"a\">1</string>\n    <string name=\"c\">3</string>\n</resources>\n")

	_, _, err := execute(t, "merge", "--text-merger", "diff3", local, base, incoming, "strings.xml")
	require.NoError(t, err)

	data, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<string name="b">2</string>`)
	assert.Contains(t, string(data), `<string name="c">3</string>`)
}

func TestMerge_Conflict(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base", "<resources>\n    <string name=\"a\">1</string>\n</resources>\n")
	local := writeFile(t, dir, "local", "<resources>\n    <string name=\"a\">one</string>\n</resources>\n")
	incoming := writeFile(t, dir, "incoming", "<resources>\n    <string name=\"a\">uno</string>\n</resources>\n")

	_, stderr, err := execute(t, "merge", "--text-merger", "diff3", local, base, incoming, "strings.xml")

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)
	assert.Contains(t, stderr, "strings.xml")

	data, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<<<<<<< ours:strings.xml")
}

func TestMerge_WrongArgs(t *testing.T) {
	_, _, err := execute(t, "merge", "only-one")
	assert.Error(t, err)
}

func TestExitError(t *testing.T) {
	err := errors.Wrap(&ExitError{Code: 1}, "merge")

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, "exit status 1", exitErr.Error())
}
