package templates_test

import (
	"testing"

	"github.com/goliatone/go-scaffold/pkg/templates"
)

func TestNewFile_Validation(t *testing.T) {
	cases := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "plain", path: "LICENSE"},
		{name: "nested", path: ".github/workflows/ci.yaml"},
		{name: "empty", path: "", wantErr: true},
		{name: "absolute", path: "/etc/passwd", wantErr: true},
		{name: "parent escape", path: "../outside", wantErr: true},
		{name: "sneaky escape", path: "a/../../outside", wantErr: true},
		{name: "backslash", path: "a\\b", wantErr: true},
		{name: "dot", path: ".", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := templates.NewFile(tc.path, []byte("body"), 0o644)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error for path %q", tc.path)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error for path %q: %v", tc.path, err)
			}
		})
	}
}

func TestFile_DefensiveCopies(t *testing.T) {
	body := []byte("original")
	file, err := templates.NewFile("LICENSE", body, 0o644)
	if err != nil {
		t.Fatalf("new file: %v", err)
	}

	body[0] = 'X'
	if got := string(file.Body()); got != "original" {
		t.Fatalf("file body aliased caller slice: %q", got)
	}

	out := file.Body()
	out[0] = 'Y'
	if got := string(file.Body()); got != "original" {
		t.Fatalf("file body aliased returned slice: %q", got)
	}
}

func TestFile_DefaultMode(t *testing.T) {
	file, err := templates.NewFile("LICENSE", nil, 0)
	if err != nil {
		t.Fatalf("new file: %v", err)
	}
	if file.Mode() != 0o644 {
		t.Fatalf("expected default mode 0644, got %v", file.Mode())
	}
}

func TestNewSet_RejectsDuplicates(t *testing.T) {
	a := templates.MustNewFile("LICENSE", []byte("a"), 0o644)
	b := templates.MustNewFile("LICENSE", []byte("b"), 0o644)

	if _, err := templates.NewSet(a, b); err == nil {
		t.Fatalf("expected duplicate path rejection")
	}
}

func TestSet_SortedPaths(t *testing.T) {
	set := templates.MustNewSet(
		templates.MustNewFile("b.txt", nil, 0o644),
		templates.MustNewFile("a.txt", nil, 0o644),
		templates.MustNewFile(".github/ci.yaml", nil, 0o644),
	)

	want := []string{".github/ci.yaml", "a.txt", "b.txt"}
	got := set.Paths()
	if len(got) != len(want) {
		t.Fatalf("path count mismatch: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("paths not sorted: %v", got)
		}
	}

	files := set.Files()
	for i, f := range files {
		if f.Path() != want[i] {
			t.Fatalf("files not in path order: %v", files)
		}
	}
}

func TestSet_Lookup(t *testing.T) {
	set := templates.MustNewSet(templates.MustNewFile("LICENSE", []byte("text"), 0o644))

	file, ok := set.File("LICENSE")
	if !ok {
		t.Fatalf("expected LICENSE in set")
	}
	if string(file.Body()) != "text" {
		t.Fatalf("body mismatch: %q", file.Body())
	}
	if _, ok := set.File("missing"); ok {
		t.Fatalf("unexpected hit for missing path")
	}
}
