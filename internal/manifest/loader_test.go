package manifest_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	internalmanifest "github.com/goliatone/go-scaffold/internal/manifest"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, body := range files {
		target := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(target, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return dir
}

func TestLoad_EmptyTree(t *testing.T) {
	loader := internalmanifest.New()
	m, err := loader.Load(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// An empty tree still resolves the configuration default kind.
	if m.Kind != "node" {
		t.Fatalf("expected default kind, got %q", m.Kind)
	}
	if m.Name != "" || m.Version != "" {
		t.Fatalf("expected empty manifest fields, got %+v", m)
	}
}

func TestLoad_PackageJSON(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"package.json": `{
  "name": "@acme/speech",
  "version": "3.1.0",
  "description": "Speech client for Node.js",
  "repository": {"type": "git", "url": "https://github.com/acme/speech-node"}
}`,
	})

	m, err := internalmanifest.New().Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Name != "@acme/speech" || m.Version != "3.1.0" {
		t.Fatalf("package.json fields not loaded: %+v", m)
	}
	if m.Repository != "https://github.com/acme/speech-node" {
		t.Fatalf("repository object form not handled: %q", m.Repository)
	}
	if m.Kind != "node" {
		t.Fatalf("kind mismatch: %q", m.Kind)
	}
}

func TestLoad_RepoMetadataOverridesPackageJSON(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"package.json": `{"name": "@acme/speech", "description": "from package.json"}`,
		".repo-metadata.json": `{
  "name": "speech",
  "name_pretty": "Acme Speech",
  "language": "nodejs",
  "repo": "acme/speech-node",
  "release_level": "stable",
  "api_id": "speech.acme.com",
  "client_documentation": "https://docs.acme.com/speech",
  "distribution_name": "@acme/speech-client"
}`,
	})

	m, err := internalmanifest.New().Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Name != "@acme/speech-client" {
		t.Fatalf("repo metadata should win: %+v", m)
	}
	if m.Repository != "https://github.com/acme/speech-node" {
		t.Fatalf("repo URL mismatch: %q", m.Repository)
	}
	if m.ReleaseLevel != "stable" || m.APIID != "speech.acme.com" {
		t.Fatalf("metadata fields missing: %+v", m)
	}
	if m.DocsURL != "https://docs.acme.com/speech" {
		t.Fatalf("docs url mismatch: %q", m.DocsURL)
	}
}

func TestLoad_ConfigOverridesEverything(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"package.json":        `{"name": "@acme/speech"}`,
		".repo-metadata.json": `{"distribution_name": "@acme/speech-client", "language": "nodejs"}`,
		".scaffold.yaml": `kind: node
manifest:
  name: "@acme/speech-final"
  year: 2026
`,
	})

	m, err := internalmanifest.New().Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Name != "@acme/speech-final" {
		t.Fatalf("config override should win: %+v", m)
	}
	if m.Year != 2026 {
		t.Fatalf("year override missing: %+v", m)
	}
}

func TestLoad_MalformedPackageJSON(t *testing.T) {
	dir := writeTree(t, map[string]string{"package.json": "{not json"})
	if _, err := internalmanifest.New().Load(context.Background(), dir); err == nil {
		t.Fatalf("expected error for malformed package.json")
	}
}
