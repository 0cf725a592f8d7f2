package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goplus/llar-root/internal/env"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	work, err := env.WorkDir()
	require.NoError(t, err)
	assert.Equal(t, work, cfg.WorkDir)
	assert.Empty(t, cfg.Tools)
	assert.Equal(t, 0, cfg.Jobs)
}

func TestToolEnv(t *testing.T) {
	tests := []struct {
		jobs int
		want string
	}{
		{0, "-j" + strconv.Itoa(runtime.NumCPU())},
		{1, "-j1"},
		{12, "-j12"},
	}
	for _, tt := range tests {
		cfg := &Config{Jobs: tt.jobs}
		assert.Equal(t, map[string]string{"MAKEFLAGS": tt.want}, cfg.ToolEnv(), "jobs=%d", tt.jobs)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	data := `
work_dir: ~/llar-work
patch_dir: /srv/patches
tools:
  cmake: /opt/cmake/bin/cmake
jobs: 8
keep_stage: true
build_type: RelWithDebInfo
prefix_path:
  - /opt/gsl
  - ~/deps/fftw
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	home, err := homedir.Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "llar-work"), cfg.WorkDir)
	assert.Equal(t, "/srv/patches", cfg.PatchDir)
	assert.Equal(t, map[string]string{"cmake": "/opt/cmake/bin/cmake"}, cfg.Tools)
	assert.Equal(t, 8, cfg.Jobs)
	assert.True(t, cfg.KeepStage)
	assert.Equal(t, "RelWithDebInfo", cfg.BuildType)
	assert.Equal(t, []string{"/opt/gsl", filepath.Join(home, "deps/fftw")}, cfg.PrefixPath)
	assert.Equal(t, map[string]string{"MAKEFLAGS": "-j8"}, cfg.ToolEnv())
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("jobs: [1, 2"), 0o644))
	_, err := Load(bad)
	assert.Error(t, err)

	negative := filepath.Join(dir, "negative.yaml")
	require.NoError(t, os.WriteFile(negative, []byte("jobs: -1"), 0o644))
	_, err = Load(negative)
	assert.Error(t, err)
}
