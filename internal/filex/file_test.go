package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureParentDir_CreatesDirectory(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	wd, err := os.Getwd()
	require.NoError(t, err)

	got, err := EnsureParentDir(filepath.Join("state", "session.db"))
	require.NoError(t, err)

	require.Equal(t, filepath.Join(wd, "state", "session.db"), got)

	fi, err := os.Stat(filepath.Join(tmp, "state"))
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureParentDir_FileInCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	wd, err := os.Getwd()
	require.NoError(t, err)

	got, err := EnsureParentDir("session.db")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(wd, "session.db"), got)
}

func TestEnsureParentDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()

	first, err := EnsureParentDir(filepath.Join(tmp, "a", "b.db"))
	require.NoError(t, err)

	second, err := EnsureParentDir(filepath.Join(tmp, "a", "b.db"))
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestEnsureParentDir_FailsIfFileBlocksDirectory(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "state"), []byte("x"), 0o600))

	_, err := EnsureParentDir(filepath.Join(tmp, "state", "session.db"))
	require.Error(t, err, "should fail when a file exists where the directory should be")
}
