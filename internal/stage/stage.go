// Package stage prepares the working area of one build: it downloads and
// verifies the source archive, unpacks it, applies patches and guards the
// area with a file lock.
package stage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/hashicorp/go-getter"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/goplus/llar-root/mod/module"
	"github.com/goplus/llar-root/pkgs/buildsys"
)

// Stage layout:
//
//	<root>/<path>@<version>-<key>/
//	  .lock     # held for the duration of a build
//	  .fetched  # present once src was downloaded, verified and unpacked
//	  .patched  # present once patches were applied to src
//	  src/      # unpacked archive
//	    <top>/  # source tree
//	  build/    # cmake build tree
const (
	lockFile  = ".lock"
	fetchMark = ".fetched"
	patchMark = ".patched"
	srcDir    = "src"
	buildDir  = "build"
	lockRetry = 250 * time.Millisecond
)

// Stage is the working area of one build.
type Stage struct {
	dir    string
	lock   *flock.Flock
	logger hclog.Logger
}

// Key derives a short stable key from a spec description.
func Key(spec string) string {
	sum := sha256.Sum256([]byte(spec))
	return hex.EncodeToString(sum[:])[:12]
}

// New creates (if needed) the stage of mod below root.
func New(root string, mod module.Version, key string, logger hclog.Logger) (*Stage, error) {
	name, err := module.DirName(mod, key)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating stage")
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Stage{
		dir:    dir,
		lock:   flock.New(filepath.Join(dir, lockFile)),
		logger: logger.Named("stage"),
	}, nil
}

// Dir returns the stage directory.
func (s *Stage) Dir() string { return s.dir }

// BuildDir returns the directory the build runs in. It is not created.
func (s *Stage) BuildDir() string { return filepath.Join(s.dir, buildDir) }

// Lock blocks until this process holds the stage lock or ctx is done.
func (s *Stage) Lock(ctx context.Context) error {
	s.logger.Debug("waiting for stage lock", "dir", s.dir)
	ok, err := s.lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return errors.Wrap(err, "locking stage")
	}
	if !ok {
		return errors.Errorf("stage %s is locked", s.dir)
	}
	return nil
}

// Unlock releases the stage lock.
func (s *Stage) Unlock() error {
	return s.lock.Unlock()
}

// Fetch downloads url into the stage, verifies it against the MD5
// checksum and unpacks it. A source tree is reused only if an earlier
// Fetch completed; anything else under src is discarded.
func (s *Stage) Fetch(ctx context.Context, url, checksum string) error {
	dst := filepath.Join(s.dir, srcDir)
	if _, err := os.Stat(filepath.Join(s.dir, fetchMark)); err == nil {
		s.logger.Info("source already staged", "dir", dst)
		return nil
	}
	if err := s.clearSource(); err != nil {
		return err
	}

	pwd, err := os.Getwd()
	if err != nil {
		return err
	}
	src := url
	if checksum != "" {
		src += "?checksum=md5:" + checksum
	}
	s.logger.Info("fetching", "url", url)
	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  dst,
		Pwd:  pwd,
		Mode: getter.ClientModeDir,
	}
	if err := client.Get(); err != nil {
		return errors.Wrapf(err, "fetching %s", url)
	}
	return os.WriteFile(filepath.Join(s.dir, fetchMark), nil, 0o644)
}

// clearSource removes the unpacked source and its markers.
func (s *Stage) clearSource() error {
	for _, name := range []string{fetchMark, patchMark, srcDir} {
		if err := os.RemoveAll(filepath.Join(s.dir, name)); err != nil {
			return errors.Wrap(err, "clearing stale source")
		}
	}
	return nil
}

// SourceDir returns the unpacked source tree: the single top-level
// directory of the archive, or the unpack directory itself when the
// archive has no single top-level directory.
func (s *Stage) SourceDir() (string, error) {
	dst := filepath.Join(s.dir, srcDir)
	entries, err := os.ReadDir(dst)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", errors.Errorf("stage %s has no source", s.dir)
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(dst, entries[0].Name()), nil
	}
	return dst, nil
}

// ApplyPatches applies each patch file, relative to patchDir, to the
// staged source tree sourceDir with "patch -p1". A source tree is patched
// at most once. If a patch fails the staged source is discarded, so the
// next Fetch starts from a clean tree.
func (s *Stage) ApplyPatches(ctx context.Context, runner buildsys.Runner, sourceDir, patchDir string, files []string) error {
	mark := filepath.Join(s.dir, patchMark)
	if len(files) == 0 {
		return nil
	}
	if _, err := os.Stat(mark); err == nil {
		s.logger.Debug("source already patched")
		return nil
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = filepath.Join(patchDir, f)
		if _, err := os.Stat(paths[i]); err != nil {
			return errors.Wrapf(err, "patch %s", f)
		}
	}
	for i, f := range files {
		s.logger.Info("applying patch", "patch", f)
		if err := runner.Run(ctx, sourceDir, "patch", "-p1", "-i", paths[i]); err != nil {
			if cerr := s.clearSource(); cerr != nil {
				s.logger.Warn("failed to discard patched source", "error", cerr)
			}
			return errors.Wrapf(err, "applying patch %s", f)
		}
	}
	return os.WriteFile(mark, nil, 0o644)
}

// Destroy removes the stage directory.
func (s *Stage) Destroy() error {
	return os.RemoveAll(s.dir)
}
