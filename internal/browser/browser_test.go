package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeBrowser(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-browser")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
	return path
}

func TestResolvePrefersConfiguredPath(t *testing.T) {
	bin := fakeBrowser(t)

	path, name := Resolve(bin)

	assert.Equal(t, bin, path)
	assert.Equal(t, "configured browser", name)
}

func TestResolveIgnoresMissingConfiguredPath(t *testing.T) {
	t.Setenv(EdgePathEnv, fakeBrowser(t))

	path, name := Resolve(filepath.Join(t.TempDir(), "does-not-exist"))

	assert.NotEmpty(t, path)
	assert.Equal(t, "Microsoft Edge", name)
}

func TestEdgePathHonorsEnv(t *testing.T) {
	bin := fakeBrowser(t)
	t.Setenv(EdgePathEnv, bin)

	assert.Equal(t, bin, EdgePath())
}

func TestEnterprisePathHonorsEnv(t *testing.T) {
	bin := fakeBrowser(t)
	t.Setenv(EnterprisePathEnv, bin)

	assert.Equal(t, bin, EnterprisePath())
}

func TestEnvPointingNowhereIsSkipped(t *testing.T) {
	t.Setenv(EdgePathEnv, filepath.Join(t.TempDir(), "missing"))

	dir := t.TempDir()
	t.Setenv(EnterprisePathEnv, dir)

	assert.NotEqual(t, dir, EnterprisePath(), "directories must not count as executables")
}
