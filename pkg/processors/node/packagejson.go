package node

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/goliatone/go-scaffold/pkg/manifest"
	"github.com/goliatone/go-scaffold/pkg/workdir"
)

const packageJSONPath = "package.json"

// topLevelKeyOrder is the canonical key order for package.json. Keys not
// listed here are appended afterwards, sorted.
var topLevelKeyOrder = []string{
	"name",
	"version",
	"description",
	"repository",
	"license",
	"author",
	"main",
	"files",
	"keywords",
	"scripts",
	"dependencies",
	"devDependencies",
	"engines",
}

// requiredScripts are the script entries every generated library must expose.
// Existing entries win; only missing ones are added.
var requiredScripts = map[string]string{
	"test":    "c8 mocha build/test",
	"lint":    "gts check",
	"fix":     "gts fix",
	"docs":    "jsdoc -c .jsdoc.js",
	"compile": "tsc -p .",
}

// pinnedRanges pins dependency ranges the generators are known to emit with
// drifting versions.
var pinnedRanges = map[string]string{
	"google-gax":   "^4.0.0",
	"protobufjs":   "^7.2.5",
	"@types/mocha": "^10.0.0",
	"@types/node":  "^20.0.0",
	"gts":          "^5.0.0",
	"typescript":   "^5.1.0",
}

// packageJSONStep normalises package.json: repository URL from the manifest,
// required script entries, pinned dependency ranges, canonical key order.
type packageJSONStep struct{}

func (packageJSONStep) name() string { return "packagejson" }

func (packageJSONStep) run(ctx context.Context, tree *workdir.Tree, m manifest.Manifest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !tree.Exists(packageJSONPath) {
		return nil
	}

	raw, err := tree.ReadFile(packageJSONPath)
	if err != nil {
		return err
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", packageJSONPath, err)
	}

	if m.Repository != "" {
		doc["repository"] = m.Repository
	}
	if m.Name != "" {
		doc["name"] = m.Name
	}
	if _, ok := doc["license"]; !ok {
		doc["license"] = "Apache-2.0"
	}

	setMergedMap(doc, "scripts", mergeStringMap(doc["scripts"], requiredScripts, false))
	setMergedMap(doc, "dependencies", mergeStringMap(doc["dependencies"], pinnedRanges, true))
	setMergedMap(doc, "devDependencies", mergeStringMap(doc["devDependencies"], pinnedRanges, true))

	out, err := marshalOrdered(doc)
	if err != nil {
		return err
	}

	if bytes.Equal(raw, out) {
		return nil
	}
	return tree.WriteFile(packageJSONPath, out, 0o644)
}

// mergeStringMap folds defaults into a decoded JSON object. When overwrite is
// true, defaults replace existing entries that are already present; otherwise
// defaults only fill gaps. Keys absent from the original stay absent when
// overwrite is set, so pinning never introduces dependencies.
func mergeStringMap(raw any, defaults map[string]string, overwrite bool) map[string]any {
	out := map[string]any{}
	if existing, ok := raw.(map[string]any); ok {
		for k, v := range existing {
			out[k] = v
		}
	}
	for k, v := range defaults {
		if _, present := out[k]; present {
			if overwrite {
				out[k] = v
			}
			continue
		}
		if !overwrite {
			out[k] = v
		}
	}
	return out
}

// setMergedMap stores a merged object under key, dropping the key entirely
// when the merge produced nothing. A file without a dependencies block must
// not gain an empty one.
func setMergedMap(doc map[string]any, key string, merged map[string]any) {
	if len(merged) == 0 {
		delete(doc, key)
		return
	}
	doc[key] = merged
}

// marshalOrdered writes the document with the canonical top-level key order
// and two-space indentation, matching what the generators emit.
func marshalOrdered(doc map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")

	keys := orderedKeys(doc)
	for i, key := range keys {
		value := doc[key]
		if value == nil {
			continue
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("encode key %q: %w", key, err)
		}
		encodedValue, err := encodeValue(value, "  ")
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", key, err)
		}
		buf.WriteString("  ")
		buf.Write(encodedKey)
		buf.WriteString(": ")
		buf.Write(encodedValue)
		if i < len(keys)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}

	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func orderedKeys(doc map[string]any) []string {
	seen := make(map[string]bool, len(doc))
	out := make([]string, 0, len(doc))
	for _, key := range topLevelKeyOrder {
		if doc[key] != nil {
			out = append(out, key)
			seen[key] = true
		}
	}
	rest := make([]string, 0, len(doc))
	for key := range doc {
		if !seen[key] && doc[key] != nil {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// encodeValue renders a value with sorted object keys so repeated runs are
// byte-stable.
func encodeValue(value any, indent string) ([]byte, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		data, err := json.MarshalIndent(value, indent, "  ")
		if err != nil {
			return nil, err
		}
		return data, nil
	}

	if len(obj) == 0 {
		return []byte("{}"), nil
	}

	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteString("{\n")
	inner := indent + "  "
	for i, key := range keys {
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		encodedValue, err := encodeValue(obj[key], inner)
		if err != nil {
			return nil, err
		}
		buf.WriteString(inner)
		buf.Write(encodedKey)
		buf.WriteString(": ")
		buf.Write(encodedValue)
		if i < len(keys)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString(indent)
	buf.WriteString("}")
	return buf.Bytes(), nil
}
