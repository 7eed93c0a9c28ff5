package ui

import (
	"github.com/mattn/go-runewidth"

	"github.com/treetop-tui/treetop/pkg/model"
)

// Fixed cell widths of the row chrome left of the text.
const (
	leftMargin      = 1 // gutter before the fold affordance
	affordanceWidth = 2 // triangle plus trailing space
	iconWidth       = 2 // kind glyph plus trailing space
)

// Metrics carries the display settings that measurement depends on. Both
// measurement functions are pure given a Metrics value and the node's state;
// callers re-measure after any settings or content change.
type Metrics struct {
	Indent       int  // cells per tree level
	TruncateAt   int  // label budget in characters
	ShowComments bool // render comments as a second row line
	QuoteLabels  bool // wrap literal labels in double quotes
}

// DefaultMetrics mirrors the configuration defaults.
func DefaultMetrics() Metrics {
	return Metrics{Indent: 2, TruncateAt: 32, ShowComments: true, QuoteLabels: true}
}

// RowHeight returns the height of a node's row in cells. Invisible nodes
// report zero so the virtualization skips them entirely; a comment adds a
// second line when comments are enabled.
func (m Metrics) RowHeight(n *model.Node) int {
	if n == nil || !n.Visible {
		return 0
	}
	if m.ShowComments && n.Comment != "" {
		return 2
	}
	return 1
}

// RowText returns the display string for a node's primary line: the type
// name, then the object name or the quoted literal label, falling back to
// truncated content for code-like nodes.
func (m Metrics) RowText(n *model.Node) string {
	typeName := n.TypeName()
	switch {
	case n.IsCodeLike():
		return Truncate(n.Title(), m.TruncateAt, false, false)
	case n.Name != "":
		return typeName + " " + n.Name
	case n.Label != "":
		return typeName + " " + Truncate(n.Label, m.TruncateAt, m.QuoteLabels, false)
	default:
		return typeName
	}
}

// RowWidth returns the full width of a node's row in cells: margin,
// affordance, icon, indentation, and the measured text. Wide runes count
// their terminal cell width, not their rune count.
func (m Metrics) RowWidth(n *model.Node) int {
	if n == nil || !n.Visible {
		return 0
	}
	w := leftMargin + affordanceWidth + iconWidth + n.Level*m.Indent
	return w + runewidth.StringWidth(m.RowText(n))
}

// AffordanceSpan returns the horizontal cell range [x0, x1) of a node's
// fold affordance. The affordance sits after the indent so deeper levels
// shift it right with the row text.
func (m Metrics) AffordanceSpan(n *model.Node) (int, int) {
	x0 := leftMargin + n.Level*m.Indent
	return x0, x0 + affordanceWidth
}
