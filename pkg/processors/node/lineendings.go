package node

import (
	"bytes"
	"context"
	"io/fs"
	"strings"

	"github.com/goliatone/go-scaffold/pkg/manifest"
	"github.com/goliatone/go-scaffold/pkg/workdir"
)

// lineEndingsStep rewrites CRLF line endings to LF across text files so the
// tree matches the .gitattributes contract regardless of the platform the
// generator ran on.
type lineEndingsStep struct{}

func (lineEndingsStep) name() string { return "lineendings" }

func (lineEndingsStep) run(ctx context.Context, tree *workdir.Tree, _ manifest.Manifest) error {
	return tree.Walk(func(rel string, info fs.FileInfo) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if strings.HasPrefix(rel, "node_modules/") || strings.HasPrefix(rel, ".git/") {
			return nil
		}

		raw, err := tree.ReadFile(rel)
		if err != nil {
			return err
		}
		if isBinary(raw) || !bytes.Contains(raw, []byte("\r\n")) {
			return nil
		}

		normalised := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
		return tree.WriteFile(rel, normalised, info.Mode())
	})
}

// isBinary uses the same heuristic git does: any NUL byte in the head of the
// file marks it binary.
func isBinary(raw []byte) bool {
	probe := raw
	if len(probe) > 8000 {
		probe = probe[:8000]
	}
	return bytes.IndexByte(probe, 0x00) >= 0
}
