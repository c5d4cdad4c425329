// Package manifest implements the default metadata loader: it merges what
// the working tree already knows about the library from package.json,
// .repo-metadata.json, and the .scaffold.yaml overrides, in that priority
// order (later sources win).
package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-scaffold/pkg/manifest"
	"github.com/goliatone/go-scaffold/pkg/pipeline/config"
)

const (
	packageJSONName  = "package.json"
	repoMetadataName = ".repo-metadata.json"
)

// Loader is the built-in manifest.Loader for generated library trees.
type Loader struct{}

// Ensure the implementation satisfies the public interface.
var _ manifest.Loader = (*Loader)(nil)

// New constructs the default loader.
func New() *Loader {
	return &Loader{}
}

// Load resolves the manifest for dir. Every source file is optional; an
// entirely empty manifest is a valid result.
func (l *Loader) Load(ctx context.Context, dir string) (manifest.Manifest, error) {
	if err := ctx.Err(); err != nil {
		return manifest.Manifest{}, err
	}
	if strings.TrimSpace(dir) == "" {
		return manifest.Manifest{}, errors.New("manifest: directory is required")
	}

	out, err := fromPackageJSON(dir)
	if err != nil {
		return manifest.Manifest{}, err
	}

	repoMeta, err := fromRepoMetadata(dir)
	if err != nil {
		return manifest.Manifest{}, err
	}
	out = out.Merge(repoMeta)

	cfg, err := config.Load(dir)
	if err != nil {
		return manifest.Manifest{}, err
	}
	out = out.Merge(cfg.Manifest)

	if out.Kind == "" {
		out.Kind = cfg.Kind
	}
	return out, nil
}

// packageJSONFile mirrors the subset of package.json the loader consumes.
type packageJSONFile struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Repository  json.RawMessage `json:"repository"`
}

func fromPackageJSON(dir string) (manifest.Manifest, error) {
	raw, ok, err := readOptional(filepath.Join(dir, packageJSONName))
	if err != nil || !ok {
		return manifest.Manifest{}, err
	}

	var doc packageJSONFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return manifest.Manifest{}, fmt.Errorf("manifest: parse %s: %w", packageJSONName, err)
	}

	return manifest.Manifest{
		Name:        doc.Name,
		Version:     doc.Version,
		Description: doc.Description,
		Repository:  repositoryURL(doc.Repository),
		Kind:        "node",
	}, nil
}

// repositoryURL accepts both the string and the {type,url} object forms of
// the package.json repository field.
func repositoryURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asObject struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &asObject); err == nil {
		return asObject.URL
	}
	return ""
}

// repoMetadataFile mirrors the .repo-metadata.json record generators leave in
// the tree.
type repoMetadataFile struct {
	Name             string `json:"name"`
	NamePretty       string `json:"name_pretty"`
	Language         string `json:"language"`
	Repo             string `json:"repo"`
	ReleaseLevel     string `json:"release_level"`
	APIID            string `json:"api_id"`
	ClientDocsURL    string `json:"client_documentation"`
	DefaultBranch    string `json:"default_branch"`
	DistributionName string `json:"distribution_name"`
}

func fromRepoMetadata(dir string) (manifest.Manifest, error) {
	raw, ok, err := readOptional(filepath.Join(dir, repoMetadataName))
	if err != nil || !ok {
		return manifest.Manifest{}, err
	}

	var doc repoMetadataFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return manifest.Manifest{}, fmt.Errorf("manifest: parse %s: %w", repoMetadataName, err)
	}

	out := manifest.Manifest{
		Name:          doc.DistributionName,
		Kind:          kindFromLanguage(doc.Language),
		Description:   doc.NamePretty,
		ReleaseLevel:  doc.ReleaseLevel,
		APIID:         doc.APIID,
		DocsURL:       doc.ClientDocsURL,
		DefaultBranch: doc.DefaultBranch,
	}
	if doc.Repo != "" {
		out.Repository = "https://github.com/" + doc.Repo
	}
	return out, nil
}

func kindFromLanguage(language string) string {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "nodejs", "node", "javascript", "typescript":
		return "node"
	case "go", "golang":
		return "go"
	default:
		return ""
	}
}

func readOptional(path string) ([]byte, bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("manifest: read %s: %w", filepath.Base(path), err)
	}
	return raw, true, nil
}
