package node

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-scaffold/pkg/manifest"
	"github.com/goliatone/go-scaffold/pkg/workdir"
)

var (
	readmePolicyOnce sync.Once
	readmePolicy     *bluemonday.Policy
)

// readmeStep sanitises the HTML fragments the generators embed in README
// partial files. Partial values occasionally carry markup lifted from service
// documentation; only the badge and anchor subset survives. Plain markdown,
// including the staged README.md itself, passes through untouched.
type readmeStep struct{}

func (readmeStep) name() string { return "readme" }

func (readmeStep) run(ctx context.Context, tree *workdir.Tree, _ manifest.Manifest) error {
	return tree.Walk(func(rel string, info fs.FileInfo) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !isReadmePartial(rel) {
			return nil
		}

		raw, err := tree.ReadFile(rel)
		if err != nil {
			return err
		}

		cleaned, err := sanitizePartials(raw)
		if err != nil {
			return fmt.Errorf("sanitise %s: %w", rel, err)
		}
		if bytes.Equal(raw, cleaned) {
			return nil
		}
		return tree.WriteFile(rel, cleaned, info.Mode())
	})
}

func isReadmePartial(rel string) bool {
	if strings.HasPrefix(rel, "node_modules/") || strings.HasPrefix(rel, ".git/") {
		return false
	}
	base := rel
	if idx := strings.LastIndex(rel, "/"); idx >= 0 {
		base = rel[idx+1:]
	}
	return base == ".readme-partials.yaml" || base == ".readme-partials.yml"
}

// sanitizePartials rewrites the string values of a partials document and
// leaves the YAML structure alone. Files whose values are already clean come
// back byte-identical.
func sanitizePartials(raw []byte) ([]byte, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	changed := false
	for key, value := range doc {
		next, dirty := sanitizeValue(value)
		if dirty {
			doc[key] = next
			changed = true
		}
	}
	if !changed {
		return raw, nil
	}
	return yaml.Marshal(doc)
}

func sanitizeValue(value any) (any, bool) {
	switch v := value.(type) {
	case string:
		cleaned := readmeSanitizer().Sanitize(v)
		return cleaned, cleaned != v
	case map[string]any:
		changed := false
		for key, item := range v {
			next, dirty := sanitizeValue(item)
			if dirty {
				v[key] = next
				changed = true
			}
		}
		return v, changed
	case []any:
		changed := false
		for i, item := range v {
			next, dirty := sanitizeValue(item)
			if dirty {
				v[i] = next
				changed = true
			}
		}
		return v, changed
	default:
		return value, false
	}
}

func readmeSanitizer() *bluemonday.Policy {
	readmePolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()

		// Badge and anchor markup the generators emit around the title block.
		policy.AllowStandardURLs()
		policy.AllowElements("a", "img", "br", "code", "pre", "p")
		policy.AllowAttrs("href", "title").OnElements("a")
		policy.AllowAttrs("src", "alt", "width", "height").OnElements("img")
		policy.AllowDataURIImages()

		readmePolicy = policy
	})
	return readmePolicy
}
