package node

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"regexp"
	"strings"

	"github.com/goliatone/go-scaffold/pkg/manifest"
	"github.com/goliatone/go-scaffold/pkg/workdir"
)

const headerTemplate = `// Copyright %d Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
`

var copyrightYearPattern = regexp.MustCompile(`(// Copyright )(\d{4})( Google LLC)`)

// headersStep ensures generated .js/.ts sources carry the Apache-2.0 header
// and rewrites stale copyright years to the manifest year.
type headersStep struct{}

func (headersStep) name() string { return "headers" }

func (headersStep) run(ctx context.Context, tree *workdir.Tree, m manifest.Manifest) error {
	year := m.CopyrightYear()

	return tree.Walk(func(rel string, info fs.FileInfo) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !isSourceFile(rel) || skipGeneratedDir(rel) {
			return nil
		}

		raw, err := tree.ReadFile(rel)
		if err != nil {
			return err
		}

		updated := normaliseHeader(raw, year)
		if bytes.Equal(raw, updated) {
			return nil
		}
		if err := tree.WriteFile(rel, updated, info.Mode()); err != nil {
			return fmt.Errorf("rewrite header: %w", err)
		}
		return nil
	})
}

func normaliseHeader(raw []byte, year int) []byte {
	if copyrightYearPattern.Match(raw) {
		return copyrightYearPattern.ReplaceAll(raw, []byte(fmt.Sprintf("${1}%d${3}", year)))
	}
	header := fmt.Sprintf(headerTemplate, year)
	return append([]byte(header+"\n"), raw...)
}

func isSourceFile(rel string) bool {
	switch {
	case strings.HasSuffix(rel, ".d.ts"):
		return false
	case strings.HasSuffix(rel, ".js"), strings.HasSuffix(rel, ".ts"):
		return true
	default:
		return false
	}
}

// skipGeneratedDir excludes vendored and build output trees the generators
// never own.
func skipGeneratedDir(rel string) bool {
	for _, prefix := range []string{"node_modules/", ".git/", "build/", "coverage/"} {
		if strings.HasPrefix(rel, prefix) {
			return true
		}
	}
	// Tool configs at the root keep their own shape.
	switch rel {
	case ".prettierrc.js", ".mocharc.js", ".jsdoc.js":
		return true
	}
	return false
}
