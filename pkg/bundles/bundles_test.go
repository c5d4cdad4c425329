package bundles_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-scaffold/pkg/bundles"
	"github.com/goliatone/go-scaffold/pkg/manifest"
	"github.com/goliatone/go-scaffold/pkg/testsupport"
)

func TestCommon_RegistersBuiltinKinds(t *testing.T) {
	registry, err := bundles.Common()
	if err != nil {
		t.Fatalf("common: %v", err)
	}

	kinds := registry.Kinds()
	want := []string{"go", "node"}
	if diff := testsupport.CompareGolden(want, kinds); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestNodeLibrary_RendersCommonFiles(t *testing.T) {
	m := manifest.Manifest{
		Name:          "@acme/speech",
		Version:       "3.1.0",
		Description:   "Acme Speech client for Node.js",
		Repository:    "https://github.com/acme/speech-node",
		DefaultBranch: "main",
		ReleaseLevel:  "stable",
		DocsURL:       "https://docs.acme.com/speech",
	}

	set, err := bundles.NodeLibrary(testsupport.Context(), m)
	if err != nil {
		t.Fatalf("node library: %v", err)
	}

	for _, rel := range []string{
		"LICENSE",
		"README.md",
		"CONTRIBUTING.md",
		"CODE_OF_CONDUCT.md",
		".github/workflows/ci.yaml",
		".eslintrc.json",
		".prettierrc.js",
		".mocharc.js",
		".nycrc",
		".gitattributes",
		".gitignore",
		"renovate.json",
	} {
		if _, ok := set.File(rel); !ok {
			t.Fatalf("node bundle missing %s, got %v", rel, set.Paths())
		}
	}

	readme, _ := set.File("README.md")
	body := string(readme.Body())
	if !strings.Contains(body, "@acme/speech") {
		t.Fatalf("README not templated with name:\n%s", body)
	}
	if !strings.Contains(body, "3.1.0") {
		t.Fatalf("README not templated with version:\n%s", body)
	}

	ci, _ := set.File(".github/workflows/ci.yaml")
	if !strings.Contains(string(ci.Body()), "- main") {
		t.Fatalf("CI workflow not templated with branch:\n%s", ci.Body())
	}
	if !strings.Contains(string(ci.Body()), "${{ matrix.node }}") {
		t.Fatalf("CI workflow lost its actions expression:\n%s", ci.Body())
	}

	license, _ := set.File("LICENSE")
	if !strings.Contains(string(license.Body()), "Apache License") {
		t.Fatalf("LICENSE not the Apache text")
	}
}

func TestGoLibrary_RendersCommonFiles(t *testing.T) {
	m := manifest.Manifest{
		Name:          "cloud.example.com/go/speech",
		DefaultBranch: "main",
	}

	set, err := bundles.GoLibrary(testsupport.Context(), m)
	if err != nil {
		t.Fatalf("go library: %v", err)
	}

	for _, rel := range []string{"LICENSE", "README.md", ".github/workflows/ci.yaml", ".golangci.yml", ".gitignore"} {
		if _, ok := set.File(rel); !ok {
			t.Fatalf("go bundle missing %s, got %v", rel, set.Paths())
		}
	}

	readme, _ := set.File("README.md")
	if !strings.Contains(string(readme.Body()), "go get cloud.example.com/go/speech") {
		t.Fatalf("README not templated:\n%s", readme.Body())
	}
}

func TestNodeLibrary_NoRawTemplatesInSet(t *testing.T) {
	set, err := bundles.NodeLibrary(testsupport.Context(), manifest.Manifest{})
	if err != nil {
		t.Fatalf("node library: %v", err)
	}
	for _, path := range set.Paths() {
		if strings.HasSuffix(path, ".tpl") {
			t.Fatalf("raw template leaked into set: %s", path)
		}
	}
}
