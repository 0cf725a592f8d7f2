package env

import (
	"os"
	"path/filepath"
)

// WorkDir returns the default root for stages and configuration,
// <UserCacheDir>/.llar-root. It is not created.
func WorkDir() (string, error) {
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userCacheDir, ".llar-root"), nil
}

// StageDir returns the directory holding stages below workDir, creating it
// with 0700 permissions if needed.
func StageDir(workDir string) (string, error) {
	dir := filepath.Join(workDir, "stage")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}
