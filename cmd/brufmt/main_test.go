package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brufmt/internal/driver"
)

const (
	messyBru   = "meta {\n  name: messy\n}\n\nbody:json {\n  {\"a\":1}\n}\n"
	messyFixed = "meta {\n  name: messy\n}\n\nbody:json {\n  {\n    \"a\": 1\n  }\n}\n"
	cleanBru   = "meta {\n  name: clean\n}\n"
)

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

type cliRun struct {
	out, err string
	runErr   error
}

func runCLI(t *testing.T, stdin string, args ...string) cliRun {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	resetFlags(rootCmd)
	t.Cleanup(func() { color.NoColor = true })

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(append([]string{"--color=off", "--ui=off"}, args...))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	err := rootCmd.ExecuteContext(context.Background())
	return cliRun{out: out.String(), err: errOut.String(), runErr: err}
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFmt_CheckReportsChanges(t *testing.T) {
	dir := t.TempDir()
	messy := writeFixture(t, dir, "messy.bru", messyBru)
	writeFixture(t, dir, "clean.bru", cleanBru)

	res := runCLI(t, "", "fmt", "--backend=native", dir)
	require.ErrorIs(t, res.runErr, errReported)
	assert.Contains(t, res.out, "Found 2 .bru file(s)")
	assert.Contains(t, res.out, "Found blocks that need reformatting in 1 file(s):")
	assert.Contains(t, res.out, "Processed 2 .bru file(s): Found blocks that need reformatting in 1. Encountered errors in 0. 1 file(s) did not require any changes.")

	data, err := os.ReadFile(messy)
	require.NoError(t, err)
	assert.Equal(t, messyBru, string(data))
}

func TestFmt_WriteRewrites(t *testing.T) {
	dir := t.TempDir()
	messy := writeFixture(t, dir, "messy.bru", messyBru)

	res := runCLI(t, "", "fmt", "-w", "--backend=native", dir)
	require.NoError(t, res.runErr)
	assert.Contains(t, res.out, "Reformatted blocks in 1 file(s):")

	data, err := os.ReadFile(messy)
	require.NoError(t, err)
	assert.Equal(t, messyFixed, string(data))

	res = runCLI(t, "", "fmt", "--backend=native", dir)
	require.NoError(t, res.runErr)
	assert.Contains(t, res.out, "in 0. Encountered errors in 0. 1 file(s) did not require any changes.")
}

func TestFmt_BlockErrorsFail(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "broken.bru", "body:json {\n  {\"a\": }\n}\n")

	res := runCLI(t, "", "fmt", "-w", "--backend=native", dir)
	require.ErrorIs(t, res.runErr, errReported)
	assert.Contains(t, res.err, "Encountered errors in 1 file(s):")
	assert.Contains(t, res.err, "native could not format body:json because...")
}

func TestFmt_JSONReport(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "messy.bru", messyBru)

	res := runCLI(t, "", "fmt", "--format=json", "--backend=native", dir)
	require.ErrorIs(t, res.runErr, errReported)

	var report jsonReport
	require.NoError(t, json.Unmarshal([]byte(res.out), &report))
	assert.Equal(t, "check", report.Mode)
	require.Len(t, report.Files, 1)
	assert.True(t, report.Files[0].Changed)
	assert.Equal(t, 1, report.Summary.Changed)
}

func TestFmt_Stdin(t *testing.T) {
	res := runCLI(t, messyBru, "fmt", "--backend=native", "-")
	require.NoError(t, res.runErr)
	assert.Equal(t, messyFixed, res.out)
}

func TestFmt_StdoutMode(t *testing.T) {
	dir := t.TempDir()
	messy := writeFixture(t, dir, "messy.bru", messyBru)

	res := runCLI(t, "", "fmt", "--stdout", "--backend=native", messy)
	require.NoError(t, res.runErr)
	assert.Equal(t, messyFixed, res.out)
}

func TestFmt_InvalidOnly(t *testing.T) {
	res := runCLI(t, "", "fmt", "--only=headers", t.TempDir())
	require.Error(t, res.runErr)
	assert.Contains(t, res.runErr.Error(), "expected one of: body, body:json")
}

func TestFmt_FlagConflicts(t *testing.T) {
	res := runCLI(t, "", "fmt", "--stdout", "-w", t.TempDir())
	require.Error(t, res.runErr)
	res = runCLI(t, "", "fmt", "--format=yaml", t.TempDir())
	require.Error(t, res.runErr)
}

func TestFmt_NoFiles(t *testing.T) {
	res := runCLI(t, "", "fmt", t.TempDir())
	require.NoError(t, res.runErr)
	assert.Contains(t, res.err, "No .bru files found.")
}

func TestFmt_ConfigWarnings(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, ".prettifybrurc", `{"prettier": {"tabWidth": 4}, "colour": true}`)
	writeFixture(t, dir, "messy.bru", messyBru)

	res := runCLI(t, "", "fmt", "-w", "--backend=native", dir)
	require.NoError(t, res.runErr)
	assert.Contains(t, res.err, "colour is not a supported property")

	data, err := os.ReadFile(filepath.Join(dir, "messy.bru"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n      \"a\": 1\n")
}

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "collection")

	res := runCLI(t, "", "init", dir)
	require.NoError(t, res.runErr)
	assert.FileExists(t, filepath.Join(dir, "brufmt.toml"))

	res = runCLI(t, "", "init", dir)
	require.Error(t, res.runErr)
	assert.Contains(t, res.runErr.Error(), "already initialized")
}

func TestVersion_JSON(t *testing.T) {
	res := runCLI(t, "", "version", "--format=json")
	require.NoError(t, res.runErr)
	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(res.out), &payload))
	assert.Equal(t, "brufmt", payload.Tool)
	assert.NotEmpty(t, payload.Version)
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := readUIMode("sometimes")
	assert.Error(t, err)
	assert.False(t, shouldUseTUI(uiModeOff, 100))
	assert.True(t, shouldUseTUI(uiModeOn, 1))
}

func TestPrintReport(t *testing.T) {
	color.NoColor = true
	summary := driver.Summarize([]driver.FormatResult{
		{Path: "/c/a.bru", Changed: true},
		{Path: "/c/b.bru", Messages: []string{"native could not format body:json because...\nbad"}},
		{Path: "/c/c.bru"},
	})

	var out, errOut bytes.Buffer
	printReport(&out, &errOut, summary, driver.ModeWrite, "/c", false)

	assert.Equal(t, "Reformatted blocks in 1 file(s):\n\n  a.bru\n\n"+
		"Processed 3 .bru file(s): Reformatted blocks in 1. Encountered errors in 1. 1 file(s) did not require any changes.\n",
		out.String())
	assert.Equal(t, "Encountered errors in 1 file(s):\n\n1) b.bru\n\n   native could not format body:json because...\n   bad\n\n",
		errOut.String())
}
