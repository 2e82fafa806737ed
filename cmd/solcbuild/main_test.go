package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/umbracle/solcbuild"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr

	err := app.Run(append([]string{"solcbuild"}, args...))
	return stdout.String(), err
}

func TestConfigDump_Default(t *testing.T) {
	out, err := runApp(t, "config", "dump")
	require.NoError(t, err)

	cfg, err := solcbuild.DecodeJSON(bytes.NewBufferString(out))
	require.NoError(t, err)
	require.True(t, solcbuild.DefaultBuildConfig().Equal(cfg))
}

func TestConfigDump_TOML(t *testing.T) {
	out, err := runApp(t, "config", "dump", "--format", "toml")
	require.NoError(t, err)

	cfg, err := solcbuild.DecodeTOML(bytes.NewBufferString(out))
	require.NoError(t, err)
	require.True(t, solcbuild.DefaultBuildConfig().Equal(cfg))

	_, err = runApp(t, "config", "dump", "--format", "yaml")
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.json")
	require.NoError(t, os.WriteFile(valid, []byte(`{"compilers": [{"version": "0.8.23"}, {"version": "0.7.6"}]}`), 0644))

	out, err := runApp(t, "--config", valid, "config", "validate")
	require.NoError(t, err)
	require.Contains(t, out, "0.8.23,0.7.6")

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"compilers": [{"version": "latest"}]}`), 0644))

	_, err = runApp(t, "--config", invalid, "config", "validate")
	require.Error(t, err)
	require.Contains(t, err.Error(), "latest")
}

func TestVersions(t *testing.T) {
	dir := t.TempDir()

	out, err := runApp(t, "versions", "--svm.dir", dir)
	require.NoError(t, err)
	require.Contains(t, out, "No compilers installed")

	name := "solidity-0.8.23"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{}, 0755))

	out, err = runApp(t, "versions", "--svm.dir", dir)
	require.NoError(t, err)
	require.Equal(t, "0.8.23\n", out)
}

func TestCompile_UnknownLogFormat(t *testing.T) {
	_, err := runApp(t, "--log.format", "xml", "compile", "--contracts", t.TempDir())
	require.Error(t, err)
}
