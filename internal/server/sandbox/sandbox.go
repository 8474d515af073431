// Package sandbox resolves client-supplied paths against a single root
// directory and serves listings and file streams that never escape it.
package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/streamdesk/internal/common"
)

// DefaultVirtualPrefix is the client-visible mount point of the root.
const DefaultVirtualPrefix = "/data/hls"

var (
	ErrRootNotDirectory = errors.New("sandbox root is not a directory")
	// ErrNotADirectory matches common.ErrorNotFound as well.
	ErrNotADirectory = fmt.Errorf("not a directory: %w", common.ErrorNotFound)
	// ErrNotRegularFile matches common.ErrorNotFound as well.
	ErrNotRegularFile = fmt.Errorf("not a regular file: %w", common.ErrorNotFound)
)

// Sandbox is safe for concurrent use; it holds no mutable state.
type Sandbox struct {
	root          string
	virtualPrefix string
}

// New canonicalizes root once. root must exist and be a directory.
func New(root, virtualPrefix string) (*Sandbox, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("sandbox root: %w", err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("sandbox root: %w", err)
	}
	fi, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("sandbox root: %w", err)
	}
	if !fi.IsDir() {
		return nil, ErrRootNotDirectory
	}

	return &Sandbox{
		root:          canonical,
		virtualPrefix: strings.TrimRight(virtualPrefix, "/"),
	}, nil
}

// Root returns the canonical root directory.
func (s *Sandbox) Root() string {
	return s.root
}

// Resolve maps requested to a canonical absolute path inside the root.
// Escapes fail with common.ErrorForbidden, missing targets with
// common.ErrorNotFound.
func (s *Sandbox) Resolve(requested string) (string, error) {
	if strings.ContainsRune(requested, 0) {
		return "", common.ErrorForbidden
	}

	rel := strings.ReplaceAll(requested, `\`, "/")
	rel = s.stripPrefix(rel)

	joined := filepath.Join(s.root, filepath.FromSlash(path.Clean("/"+rel)))
	if rawEscapes(rel) || !s.contains(joined) {
		return "", common.ErrorForbidden
	}

	canonical, err := filepath.EvalSymlinks(joined)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return "", common.ErrorNotFound
		case errors.Is(err, fs.ErrPermission):
			return "", common.ErrorForbidden
		default:
			return "", fmt.Errorf("resolve: %w", common.ErrorNotFound)
		}
	}

	if !s.contains(canonical) {
		return "", common.ErrorForbidden
	}
	return canonical, nil
}

func (s *Sandbox) stripPrefix(p string) string {
	if s.virtualPrefix == "" {
		return p
	}
	if p == s.virtualPrefix {
		return "/"
	}
	if strings.HasPrefix(p, s.virtualPrefix+"/") {
		return p[len(s.virtualPrefix):]
	}
	return p
}

// rawEscapes reports whether the relative path climbs above its start at any
// point, e.g. "sub/../../etc". Cleaning against "/" alone would silently
// clamp such paths to the root.
func rawEscapes(p string) bool {
	depth := 0
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
		case "..":
			depth--
			if depth < 0 {
				return true
			}
		default:
			depth++
		}
	}
	return false
}

func (s *Sandbox) contains(p string) bool {
	if p == s.root {
		return true
	}
	prefix := s.root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(p, prefix)
}
