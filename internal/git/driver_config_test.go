package git

import (
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	return dir
}

func TestDriverConfig_RoundTrip(t *testing.T) {
	repo := New(initRepo(t))

	d, err := repo.Driver("xmlmerge")
	require.NoError(t, err)
	assert.Nil(t, d)

	want := DriverConfig{Name: "xmlmerge", Description: "XML entry merge", Command: "xmlmerge merge %A %O %B %P"}
	require.NoError(t, repo.InstallDriver(want))

	d, err = repo.Driver("xmlmerge")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, want, *d)

	removed, err := repo.UninstallDriver("xmlmerge")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.UninstallDriver("xmlmerge")
	require.NoError(t, err)
	assert.False(t, removed)

	d, err = repo.Driver("xmlmerge")
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestInstallDriver_Validation(t *testing.T) {
	repo := New(initRepo(t))
	assert.Error(t, repo.InstallDriver(DriverConfig{Name: "xmlmerge"}))
	assert.Error(t, repo.InstallDriver(DriverConfig{Command: "xmlmerge merge"}))
}

func TestInstallDriver_OutsideRepository(t *testing.T) {
	repo := New(t.TempDir())
	assert.Error(t, repo.InstallDriver(DriverConfig{Name: "x", Command: "x"}))
}

func TestRoot_FromSubdirectory(t *testing.T) {
	root := initRepo(t)
	sub := filepath.Join(root, "res", "values")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	got, err := New(sub).Root()
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	got, err = filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
