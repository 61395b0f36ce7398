package fs

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSecureDirFreshCreate(t *testing.T) {
	tmpPath := path.Join(t.TempDir(), "config")
	folder := CreateSecureFolder(tmpPath)
	require.Equal(t, tmpPath, folder)

	info, err := os.Lstat(tmpPath)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0740), info.Mode().Perm())
}

func TestSecureDirAlreadyHere(t *testing.T) {
	tmpPath := path.Join(t.TempDir(), "config")
	require.NoError(t, os.Mkdir(tmpPath, 0740))
	folder := CreateSecureFolder(tmpPath)
	require.Equal(t, tmpPath, folder)
}

func TestSecureDirAlreadyHereWrongPerm(t *testing.T) {
	tmpPath := path.Join(t.TempDir(), "config")
	require.NoError(t, os.Mkdir(tmpPath, 0700))
	folder := CreateSecureFolder(tmpPath)
	require.Equal(t, "", folder)
}

func TestSecureFile(t *testing.T) {
	tmpPath := path.Join(t.TempDir(), "zkp_id.private")
	fd, err := CreateSecureFile(tmpPath)
	require.NoError(t, err)
	defer fd.Close()

	info, err := os.Lstat(tmpPath)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFiles(t *testing.T) {
	tmpPath := t.TempDir()
	names := []string{"a.toml", "b.toml"}
	for _, n := range names {
		fd, err := os.Create(path.Join(tmpPath, n))
		require.NoError(t, err)
		fd.Close()
	}
	require.NoError(t, os.Mkdir(path.Join(tmpPath, "sub"), 0740))

	list, err := Files(tmpPath)
	require.NoError(t, err)
	require.Len(t, list, len(names))
	for _, n := range names {
		require.True(t, FileExists(tmpPath, path.Join(tmpPath, n)))
	}
}
