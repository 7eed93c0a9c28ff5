package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/treetop-tui/treetop/pkg/model"
)

// Fold affordance glyphs. Filled triangles mark containers with children,
// hollow ones empty containers; a pressed affordance previews the state the
// release would produce by showing the opposite direction.
const (
	triClosedFilled = "▸"
	triOpenFilled   = "▾"
	triClosedHollow = "▹"
	triOpenHollow   = "▿"
)

// commentBudget bounds the second-line annotation text.
const commentBudget = 80

func iconFor(k model.Kind) string {
	switch k {
	case model.KindWindow:
		return "□"
	case model.KindGroup:
		return "▣"
	case model.KindClass:
		return "◆"
	case model.KindFunction:
		return "ƒ"
	case model.KindCodeBlock, model.KindCode:
		return "≡"
	case model.KindDeclBlock, model.KindDecl:
		return "#"
	case model.KindButton:
		return "▪"
	case model.KindInput:
		return "¤"
	case model.KindComment:
		return "~"
	case model.KindData:
		return "@"
	default:
		return "·"
	}
}

// RenderOutline paints the rows intersecting the viewport into a single
// frame string. Rows are built at full width, then each line is cut to the
// horizontal scroll window.
func RenderOutline(b *Browser, t Theme) string {
	width, height := b.Size()
	if width <= 0 || height <= 0 {
		return ""
	}
	rows := b.VisibleRows()
	if len(rows) == 0 {
		return ""
	}

	var lines []string
	for _, r := range rows {
		lines = append(lines, renderRow(b, t, r.node)...)
	}

	scrollX, scrollY := b.Scroll()
	// The first visible row may start above the viewport when it is a
	// two-line row cut at the top.
	skip := scrollY - rows[0].top
	if skip < 0 {
		skip = 0
	}
	if skip > len(lines) {
		skip = len(lines)
	}
	end := skip + height
	if end > len(lines) {
		end = len(lines)
	}
	lines = lines[skip:end]

	for i := range lines {
		lines[i] = ansi.Cut(lines[i], scrollX, scrollX+width)
	}
	return strings.Join(lines, "\n")
}

// renderRow builds the one or two lines of a node row.
func renderRow(b *Browser, t Theme, n *model.Node) []string {
	m := b.Metrics()
	indent := strings.Repeat(" ", leftMargin+n.Level*m.Indent)

	affGlyph := " "
	pushed := n == b.Pushed()
	if n.CanHaveChildren() {
		// The pressed affordance previews the toggled direction.
		closed := n.Folded != pushed
		switch {
		case n.HasChildren() && closed:
			affGlyph = triClosedFilled
		case n.HasChildren():
			affGlyph = triOpenFilled
		case closed:
			affGlyph = triClosedHollow
		default:
			affGlyph = triOpenHollow
		}
	}

	text := m.RowText(n)
	var first string
	switch {
	case n.Selected:
		first = t.RowSelected.Render(indent + affGlyph + " " + iconFor(n.Kind) + " " + text)
	case n.PendingSelected:
		first = t.RowPending.Render(indent + affGlyph + " " + iconFor(n.Kind) + " " + text)
	default:
		affStyle := t.Affordance
		if pushed {
			affStyle = t.Pushed
		}
		first = indent + affStyle.Render(affGlyph) + " " +
			t.Icon.Render(iconFor(n.Kind)) + " " + t.textStyle(n).Render(text)
	}

	if m.ShowComments && n.Comment != "" {
		pad := strings.Repeat(" ", affordanceWidth+iconWidth)
		comment := Truncate(n.Comment, commentBudget, false, true)
		return []string{first, indent + pad + t.Comment.Render(comment)}
	}
	return []string{first}
}
