package sandbox

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Kind distinguishes folders from files in a listing.
type Kind int

const (
	KindFile Kind = iota
	KindFolder
)

func (k Kind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "file"
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Entry is one row of a directory listing.
type Entry struct {
	Name     string    `json:"name"`
	Kind     Kind      `json:"type"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	type entry Entry
	return json.Marshal(struct {
		entry
		Modified string `json:"modified"`
	}{
		entry:    entry(e),
		Modified: e.Modified.UTC().Format(time.RFC3339),
	})
}

// List returns the entries of the requested directory, folders first, then
// by case-insensitive name. Entries whose metadata cannot be read are skipped.
func (s *Sandbox) List(requested string) ([]Entry, error) {
	dir, err := s.Resolve(requested)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat: %w", ErrNotADirectory)
	}
	if !fi.IsDir() {
		return nil, ErrNotADirectory
	}

	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	out := make([]Entry, 0, len(des))
	for _, de := range des {
		// Stat follows symlinks so a link to a folder lists as a folder.
		info, err := os.Stat(filepath.Join(dir, de.Name()))
		if err != nil {
			continue
		}
		e := Entry{Name: de.Name(), Kind: KindFile, Size: info.Size(), Modified: info.ModTime()}
		if info.IsDir() {
			e.Kind = KindFolder
			e.Size = 0
		}
		out = append(out, e)
	}

	SortEntries(out)
	return out, nil
}

// SortEntries orders folders before files, then by case-insensitive name,
// falling back to byte order so that the result is total.
func SortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Kind != b.Kind {
			return a.Kind == KindFolder
		}
		la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if la != lb {
			return la < lb
		}
		return a.Name < b.Name
	})
}
