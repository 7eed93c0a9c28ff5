// Package export renders an outline document to shareable artifacts: a
// markdown report and a static SVG/PNG snapshot.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/treetop-tui/treetop/pkg/analysis"
	"github.com/treetop-tui/treetop/pkg/model"
)

// GenerateMarkdown creates a markdown report of the outline: a summary
// block, per-kind counts, and the indented node listing.
func GenerateMarkdown(title string, tree *model.Tree, now time.Time) (string, error) {
	if tree == nil || tree.First == nil {
		return "", fmt.Errorf("no nodes to export")
	}
	if strings.TrimSpace(title) == "" {
		title = "Outline"
	}
	stats := analysis.Compute(title, tree)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC1123)))

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Nodes**: %d\n", stats.NodeCount))
	sb.WriteString(fmt.Sprintf("- **Roots**: %d\n", stats.RootCount))
	sb.WriteString(fmt.Sprintf("- **Containers**: %d\n", stats.Containers))
	sb.WriteString(fmt.Sprintf("- **Max depth**: %d\n\n", stats.Depth.Max))

	sb.WriteString("### By kind\n\n")
	for _, kind := range kindOrder {
		if c := stats.ByKind[kind]; c > 0 {
			sb.WriteString(fmt.Sprintf("- %s: %d\n", kind, c))
		}
	}
	sb.WriteString("\n---\n\n## Outline\n\n")

	for n := tree.First; n != nil; n = n.Next {
		indent := strings.Repeat("  ", n.Level)
		line := nodeLine(n)
		sb.WriteString(fmt.Sprintf("%s- %s\n", indent, line))
		if n.Comment != "" {
			sb.WriteString(fmt.Sprintf("%s  - *%s*\n", indent, n.Comment))
		}
	}
	return sb.String(), nil
}

// kindOrder keeps the per-kind summary stable across runs.
var kindOrder = []model.Kind{
	model.KindWindow, model.KindGroup, model.KindClass, model.KindFunction,
	model.KindCodeBlock, model.KindDeclBlock, model.KindWidget, model.KindButton,
	model.KindInput, model.KindCode, model.KindDecl, model.KindComment, model.KindData,
}

func nodeLine(n *model.Node) string {
	switch {
	case n.IsCodeLike() && n.Body != "":
		return fmt.Sprintf("`%s`", firstLine(n.Body))
	case n.Name != "" && n.Label != "":
		return fmt.Sprintf("**%s** %s (%q)", n.TypeName(), n.Name, n.Label)
	case n.Name != "":
		return fmt.Sprintf("**%s** %s", n.TypeName(), n.Name)
	case n.Label != "":
		return fmt.Sprintf("**%s** %q", n.TypeName(), n.Label)
	default:
		return fmt.Sprintf("**%s**", n.TypeName())
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
