// Package config loads the llar-root configuration file.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/goplus/llar-root/internal/env"
)

// FileName is the configuration file name inside the work directory.
const FileName = "config.yaml"

// Config holds the host settings of a build.
type Config struct {
	// WorkDir holds stages. Defaults to env.WorkDir().
	WorkDir string `yaml:"work_dir"`

	// PatchDir holds the patch files named by the recipe.
	PatchDir string `yaml:"patch_dir"`

	// Tools maps tool names (cmake, make, patch) to executables.
	Tools map[string]string `yaml:"tools"`

	// Jobs is the make parallelism, passed through MAKEFLAGS. 0 means the
	// number of CPUs.
	Jobs int `yaml:"jobs"`

	// KeepStage retains the stage after a successful install.
	KeepStage bool `yaml:"keep_stage"`

	// BuildType is passed to the standard cmake arguments when set.
	BuildType string `yaml:"build_type"`

	// PrefixPath lists dependency installation roots for CMAKE_PREFIX_PATH.
	PrefixPath []string `yaml:"prefix_path"`
}

// DefaultPath returns <work dir>/config.yaml.
func DefaultPath() (string, error) {
	dir, err := env.WorkDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Default returns the configuration used when no file exists.
func Default() (*Config, error) {
	dir, err := env.WorkDir()
	if err != nil {
		return nil, errors.Wrap(err, "locating work dir")
	}
	return &Config{WorkDir: dir, Tools: map[string]string{}}, nil
}

// Load reads the configuration at path. A missing file yields the
// defaults. Leading "~" in paths is expanded.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := cfg.expand(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	if cfg.Jobs < 0 {
		return nil, errors.Errorf("config %s: jobs must not be negative, got %d", path, cfg.Jobs)
	}
	if cfg.Tools == nil {
		cfg.Tools = map[string]string{}
	}
	return cfg, nil
}

func (c *Config) expand() error {
	var err error
	if c.WorkDir, err = homedir.Expand(c.WorkDir); err != nil {
		return err
	}
	if c.PatchDir, err = homedir.Expand(c.PatchDir); err != nil {
		return err
	}
	for k, v := range c.Tools {
		if c.Tools[k], err = homedir.Expand(v); err != nil {
			return err
		}
	}
	for i, p := range c.PrefixPath {
		if c.PrefixPath[i], err = homedir.Expand(p); err != nil {
			return err
		}
	}
	return nil
}

// ToolEnv returns the environment overrides for build tools.
func (c *Config) ToolEnv() map[string]string {
	jobs := c.Jobs
	if jobs == 0 {
		jobs = runtime.NumCPU()
	}
	return map[string]string{"MAKEFLAGS": "-j" + strconv.Itoa(jobs)}
}
