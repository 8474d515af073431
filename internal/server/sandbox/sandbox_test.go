package sandbox

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/streamdesk/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTree lays out:
//
//	root/
//	  a.txt
//	  sub/b.txt
//	outside/secret.txt
func newTree(t *testing.T) (*Sandbox, string) {
	t.Helper()
	base := t.TempDir()
	root := filepath.Join(base, "root")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "outside"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.txt"), []byte("bee"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "outside", "secret.txt"), []byte("secret"), 0o644))

	s, err := New(root, DefaultVirtualPrefix)
	require.NoError(t, err)
	return s, base
}

func TestNew_RootValidation(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := New(filepath.Join(dir, "missing"), "")
	require.Error(t, err)

	_, err = New(file, "")
	assert.ErrorIs(t, err, ErrRootNotDirectory)
}

func TestResolve(t *testing.T) {
	s, _ := newTree(t)

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "empty is root", in: "", want: "."},
		{name: "slash is root", in: "/", want: "."},
		{name: "file", in: "a.txt", want: "a.txt"},
		{name: "nested", in: "/sub/b.txt", want: "sub/b.txt"},
		{name: "virtual prefix", in: "/data/hls/sub/b.txt", want: "sub/b.txt"},
		{name: "virtual prefix alone", in: "/data/hls", want: "."},
		{name: "backslashes", in: `sub\b.txt`, want: "sub/b.txt"},
		{name: "inner dotdot stays inside", in: "sub/../a.txt", want: "a.txt"},
		{name: "absolute path is rooted", in: "/etc/passwd", wantErr: common.ErrorNotFound},
		{name: "prefix without boundary", in: "/data/hlsx/a.txt", wantErr: common.ErrorNotFound},
		{name: "missing", in: "nope.txt", wantErr: common.ErrorNotFound},
		{name: "parent", in: "..", wantErr: common.ErrorForbidden},
		{name: "traversal", in: "sub/../../etc/passwd", wantErr: common.ErrorForbidden},
		{name: "traversal to sibling", in: "../outside/secret.txt", wantErr: common.ErrorForbidden},
		{name: "backslash traversal", in: `..\outside\secret.txt`, wantErr: common.ErrorForbidden},
		{name: "traversal after prefix", in: "/data/hls/../../etc", wantErr: common.ErrorForbidden},
		{name: "nul byte", in: "a.txt\x00.png", wantErr: common.ErrorForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Resolve(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(s.Root(), filepath.FromSlash(tt.want)), got)
		})
	}
}

func TestResolve_SymlinkEscape(t *testing.T) {
	s, base := newTree(t)
	if err := os.Symlink(filepath.Join(base, "outside"), filepath.Join(s.Root(), "escape")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(s.Root(), "sub"), filepath.Join(s.Root(), "inner")))

	_, err := s.Resolve("escape/secret.txt")
	assert.ErrorIs(t, err, common.ErrorForbidden)

	_, err = s.Open("escape/secret.txt")
	assert.ErrorIs(t, err, common.ErrorForbidden)

	_, err = s.List("escape")
	assert.ErrorIs(t, err, common.ErrorForbidden)

	got, err := s.Resolve("inner/b.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Root(), "sub", "b.txt"), got)
}

func TestList_Ordering(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"beta", "Alpha", "gamma"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, d), 0o755))
	}
	for _, f := range []string{"b.txt", "A.txt", "a.txt", "C.mp4"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, f), []byte("x"), 0o644))
	}
	s, err := New(root, "")
	require.NoError(t, err)

	entries, err := s.List("")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Alpha", "beta", "gamma", "A.txt", "a.txt", "b.txt", "C.mp4"}, names)
	assert.Equal(t, KindFolder, entries[0].Kind)
	assert.Equal(t, int64(0), entries[0].Size)
	assert.Equal(t, int64(1), entries[3].Size)
}

func TestList_SkipsBrokenSymlinks(t *testing.T) {
	s, _ := newTree(t)
	if err := os.Symlink(filepath.Join(s.Root(), "gone"), filepath.Join(s.Root(), "dangling")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	entries, err := s.List("/")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "sub", entries[0].Name)
	assert.Equal(t, "a.txt", entries[1].Name)
}

func TestList_NotADirectory(t *testing.T) {
	s, _ := newTree(t)

	_, err := s.List("a.txt")
	assert.ErrorIs(t, err, ErrNotADirectory)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.List("missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestEntry_JSON(t *testing.T) {
	mod := time.Date(2026, 2, 3, 4, 5, 6, 0, time.FixedZone("X", 3600))
	b, err := json.Marshal([]Entry{
		{Name: "clips", Kind: KindFolder, Modified: mod},
		{Name: "a.ts", Kind: KindFile, Size: 42, Modified: mod},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"name":"clips","type":"folder","size":0,"modified":"2026-02-03T03:05:06Z"},
		{"name":"a.ts","type":"file","size":42,"modified":"2026-02-03T03:05:06Z"}
	]`, string(b))
}

func TestOpen(t *testing.T) {
	s, _ := newTree(t)

	d, err := s.Open("/data/hls/a.txt")
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, "a.txt", d.Name)
	assert.Equal(t, int64(5), d.Size)
	b, err := io.ReadAll(d.Reader(context.Background()))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
}

func TestOpen_Rejections(t *testing.T) {
	s, _ := newTree(t)

	_, err := s.Open("sub")
	assert.ErrorIs(t, err, ErrNotRegularFile)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.Open("nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.Open("sub/../../outside/secret.txt")
	assert.ErrorIs(t, err, common.ErrorForbidden)
}

func TestDownloadReader_StopsOnCancel(t *testing.T) {
	d := &Download{Body: io.NopCloser(strings.NewReader(strings.Repeat("x", 1024)))}
	ctx, cancel := context.WithCancel(context.Background())

	r := d.Reader(ctx)
	buf := make([]byte, 16)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 16, n)

	cancel()
	n, err = r.Read(buf)
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, context.Canceled)
}
