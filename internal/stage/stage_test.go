package stage

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goplus/llar-root/mod/module"
	"github.com/goplus/llar-root/pkgs/buildsys/buildsystest"
)

var testMod = module.Version{Path: "root", Version: "6.06.04"}

// writeArchive writes a source tarball with a single top-level directory
// and returns its path and MD5.
func writeArchive(t *testing.T, dir string) (string, string) {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	files := map[string]string{
		"root-6.06.04/CMakeLists.txt": "project(ROOT)\n",
		"root-6.06.04/README":         "ROOT\n",
	}
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "root-6.06.04/", Typeflag: tar.TypeDir, Mode: 0o755}))
	for name, body := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0o644, Size: int64(len(body)), Typeflag: tar.TypeReg}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())

	path := filepath.Join(dir, "root_v6.06.04.source.tar.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	sum := md5.Sum(buf.Bytes())
	return path, hex.EncodeToString(sum[:])
}

func TestKey(t *testing.T) {
	a := Key("root@6.06.04+gdml platform=linux")
	assert.Len(t, a, 12)
	assert.Equal(t, a, Key("root@6.06.04+gdml platform=linux"))
	assert.NotEqual(t, a, Key("root@6.06.04 platform=linux"))
}

func TestNew(t *testing.T) {
	root := t.TempDir()
	s, err := New(root, testMod, "k1", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "root@6.06.04-k1"), s.Dir())
	assert.Equal(t, filepath.Join(root, "root@6.06.04-k1", "build"), s.BuildDir())
	assert.DirExists(t, s.Dir())

	_, err = New(root, module.Version{Path: "../escape", Version: "1"}, "", nil)
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	archive, sum := writeArchive(t, t.TempDir())
	s, err := New(t.TempDir(), testMod, "k", nil)
	require.NoError(t, err)

	_, err = s.SourceDir()
	assert.Error(t, err)

	require.NoError(t, s.Fetch(context.Background(), archive, sum))
	src, err := s.SourceDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "src", "root-6.06.04"), src)
	assert.FileExists(t, filepath.Join(src, "CMakeLists.txt"))

	assert.FileExists(t, filepath.Join(s.Dir(), ".fetched"))

	// a completed fetch is reused
	require.NoError(t, s.Fetch(context.Background(), "/does/not/exist.tar.gz", "00"))
}

func TestFetchChecksumMismatch(t *testing.T) {
	archive, _ := writeArchive(t, t.TempDir())
	s, err := New(t.TempDir(), testMod, "k", nil)
	require.NoError(t, err)

	err = s.Fetch(context.Background(), archive, "00000000000000000000000000000000")
	assert.Error(t, err)
	_, err = s.SourceDir()
	assert.Error(t, err)
}

func TestApplyPatches(t *testing.T) {
	s, err := New(t.TempDir(), testMod, "k", nil)
	require.NoError(t, err)
	patchDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(patchDir, "fix.patch"), []byte("--- a\n+++ b\n"), 0o644))

	r := &buildsystest.Runner{}
	ctx := context.Background()
	require.NoError(t, s.ApplyPatches(ctx, r, "/src", patchDir, []string{"fix.patch"}))
	require.Len(t, r.Calls, 1)
	assert.Equal(t, "/src", r.Calls[0].Dir)
	assert.Equal(t, "patch -p1 -i "+filepath.Join(patchDir, "fix.patch"), r.Calls[0].String())

	// a patched tree is not patched again
	require.NoError(t, s.ApplyPatches(ctx, r, "/src", patchDir, []string{"fix.patch"}))
	assert.Len(t, r.Calls, 1)
}

func TestFetchDiscardsUnfinishedSource(t *testing.T) {
	s, err := New(t.TempDir(), testMod, "k", nil)
	require.NoError(t, err)
	partial := filepath.Join(s.Dir(), "src", "root-6.06.04")
	require.NoError(t, os.MkdirAll(partial, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(partial, "half"), nil, 0o644))

	err = s.Fetch(context.Background(), filepath.Join(t.TempDir(), "missing.tar.gz"), "00000000000000000000000000000000")
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(partial, "half"))

	archive, sum := writeArchive(t, t.TempDir())
	require.NoError(t, s.Fetch(context.Background(), archive, sum))
	src, err := s.SourceDir()
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(src, "CMakeLists.txt"))
	assert.NoFileExists(t, filepath.Join(src, "half"))
}

func TestApplyPatchesFailureDiscardsSource(t *testing.T) {
	archive, sum := writeArchive(t, t.TempDir())
	s, err := New(t.TempDir(), testMod, "k", nil)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, s.Fetch(ctx, archive, sum))
	src, err := s.SourceDir()
	require.NoError(t, err)

	patchDir := t.TempDir()
	for _, f := range []string{"a.patch", "b.patch"} {
		require.NoError(t, os.WriteFile(filepath.Join(patchDir, f), []byte("--- a\n+++ b\n"), 0o644))
	}
	bPatch := "patch -p1 -i " + filepath.Join(patchDir, "b.patch")
	r := &buildsystest.Runner{Fail: map[string]error{bPatch: errors.New("hunk FAILED")}}
	err = s.ApplyPatches(ctx, r, src, patchDir, []string{"a.patch", "b.patch"})
	require.Error(t, err)
	assert.Len(t, r.Calls, 2)
	assert.NoDirExists(t, filepath.Join(s.Dir(), "src"))

	// the next run fetches and patches a clean tree
	require.NoError(t, s.Fetch(ctx, archive, sum))
	src, err = s.SourceDir()
	require.NoError(t, err)
	r = &buildsystest.Runner{}
	require.NoError(t, s.ApplyPatches(ctx, r, src, patchDir, []string{"a.patch", "b.patch"}))
	assert.Len(t, r.Calls, 2)
}

func TestApplyPatchesChecksFilesFirst(t *testing.T) {
	s, err := New(t.TempDir(), testMod, "k", nil)
	require.NoError(t, err)
	patchDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(patchDir, "a.patch"), nil, 0o644))
	r := &buildsystest.Runner{}
	err = s.ApplyPatches(context.Background(), r, "/src", patchDir, []string{"a.patch", "missing.patch"})
	assert.Error(t, err)
	assert.Empty(t, r.Calls)
}

func TestApplyPatchesMissingFile(t *testing.T) {
	s, err := New(t.TempDir(), testMod, "k", nil)
	require.NoError(t, err)
	r := &buildsystest.Runner{}
	err = s.ApplyPatches(context.Background(), r, "/src", t.TempDir(), []string{"missing.patch"})
	assert.Error(t, err)
	assert.Empty(t, r.Calls)
}

func TestLock(t *testing.T) {
	root := t.TempDir()
	a, err := New(root, testMod, "k", nil)
	require.NoError(t, err)
	b, err := New(root, testMod, "k", nil)
	require.NoError(t, err)

	require.NoError(t, a.Lock(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 600*time.Millisecond)
	defer cancel()
	assert.Error(t, b.Lock(ctx))

	require.NoError(t, a.Unlock())
	require.NoError(t, b.Lock(context.Background()))
	require.NoError(t, b.Unlock())
}

func TestDestroy(t *testing.T) {
	s, err := New(t.TempDir(), testMod, "k", nil)
	require.NoError(t, err)
	require.NoError(t, s.Destroy())
	assert.NoDirExists(t, s.Dir())
}
