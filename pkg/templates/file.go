package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// File is one rendered template output: a slash-separated path relative to the
// working tree root, the final body bytes, and the mode to write it with.
type File struct {
	path string
	body []byte
	mode fs.FileMode
}

// NewFile validates and constructs a File. Paths must be relative, slash
// separated, and must not escape the tree via "..".
func NewFile(p string, body []byte, mode fs.FileMode) (File, error) {
	cleaned, err := cleanPath(p)
	if err != nil {
		return File{}, err
	}
	if mode == 0 {
		mode = 0o644
	}
	return File{
		path: cleaned,
		body: append([]byte(nil), body...),
		mode: mode,
	}, nil
}

// MustNewFile panics when construction fails. Useful for fixtures.
func MustNewFile(p string, body []byte, mode fs.FileMode) File {
	f, err := NewFile(p, body, mode)
	if err != nil {
		panic(err)
	}
	return f
}

// Path returns the slash-separated destination path.
func (f File) Path() string {
	return f.path
}

// Body returns a defensive copy of the file contents.
func (f File) Body() []byte {
	return append([]byte(nil), f.body...)
}

// Mode returns the file mode the applier should write with.
func (f File) Mode() fs.FileMode {
	return f.mode
}

// IsZero reports whether the file was never constructed.
func (f File) IsZero() bool {
	return f.path == ""
}

// Set is an immutable collection of Files keyed by path. Construction rejects
// duplicate paths; iteration order is the sorted path order.
type Set struct {
	files map[string]File
	order []string
}

// NewSet validates the supplied files and builds a Set.
func NewSet(files ...File) (Set, error) {
	byPath := make(map[string]File, len(files))
	order := make([]string, 0, len(files))
	for _, f := range files {
		if f.IsZero() {
			return Set{}, errors.New("templates: set contains an unconstructed file")
		}
		if _, exists := byPath[f.path]; exists {
			return Set{}, fmt.Errorf("templates: duplicate path %q in set", f.path)
		}
		byPath[f.path] = f
		order = append(order, f.path)
	}
	sort.Strings(order)
	return Set{files: byPath, order: order}, nil
}

// MustNewSet panics when construction fails.
func MustNewSet(files ...File) Set {
	set, err := NewSet(files...)
	if err != nil {
		panic(err)
	}
	return set
}

// Len returns the number of files in the set.
func (s Set) Len() int {
	return len(s.order)
}

// Paths returns the sorted destination paths.
func (s Set) Paths() []string {
	return append([]string(nil), s.order...)
}

// File looks up a file by path.
func (s Set) File(p string) (File, bool) {
	f, ok := s.files[p]
	return f, ok
}

// Files returns the files in sorted path order.
func (s Set) Files() []File {
	out := make([]File, 0, len(s.order))
	for _, p := range s.order {
		out = append(out, s.files[p])
	}
	return out
}

func cleanPath(p string) (string, error) {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		return "", errors.New("templates: file path is required")
	}
	if strings.Contains(trimmed, "\\") {
		return "", fmt.Errorf("templates: path %q must use forward slashes", p)
	}
	cleaned := path.Clean(trimmed)
	if path.IsAbs(cleaned) {
		return "", fmt.Errorf("templates: path %q must be relative", p)
	}
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("templates: path %q escapes the working tree", p)
	}
	return cleaned, nil
}
