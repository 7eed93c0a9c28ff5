package ui

import (
	"sort"

	"github.com/treetop-tui/treetop/pkg/model"
)

// row is one visible node with its vertical placement, built by Rebuild as
// a prefix sum over visible row heights.
type row struct {
	node   *model.Node
	top    int
	height int
}

// Browser virtualizes the flattened outline: it enumerates visible rows,
// maps pointer positions back to nodes, and keeps the scroll position
// stable across structural rebuilds.
type Browser struct {
	tree    *model.Tree
	metrics Metrics

	width  int
	height int

	scrollX int
	scrollY int

	rows        []row
	totalHeight int
	maxWidth    int

	savedX, savedY int
	hasSaved       bool

	pushed *model.Node // affordance showing pressed feedback
}

// NewBrowser builds a browser over a tree and computes the initial layout.
func NewBrowser(tree *model.Tree, metrics Metrics) *Browser {
	b := &Browser{tree: tree, metrics: metrics}
	b.Rebuild()
	return b
}

// SetTree swaps in a new tree, keeping the scroll position as stable as the
// new extent allows.
func (b *Browser) SetTree(tree *model.Tree) {
	b.SaveScroll()
	b.tree = tree
	b.pushed = nil
	b.Rebuild()
	b.RestoreScroll()
}

// SetMetrics applies new display settings and re-measures every row.
func (b *Browser) SetMetrics(m Metrics) {
	b.metrics = m
	b.Rebuild()
}

// Metrics returns the current display settings.
func (b *Browser) Metrics() Metrics { return b.metrics }

// Tree returns the browsed tree.
func (b *Browser) Tree() *model.Tree { return b.tree }

// SetSize resizes the viewport and re-clamps the scroll offsets.
func (b *Browser) SetSize(width, height int) {
	b.width = width
	b.height = height
	b.clamp()
}

// Size returns the viewport dimensions.
func (b *Browser) Size() (int, int) { return b.width, b.height }

// Rebuild recomputes the visible-row prefix sums after any fold, content,
// or settings change. Scroll offsets are clamped against the new extent.
func (b *Browser) Rebuild() {
	b.rows = b.rows[:0]
	b.totalHeight = 0
	b.maxWidth = 0
	if b.tree != nil {
		for n := b.tree.First; n != nil; n = n.Next {
			h := b.metrics.RowHeight(n)
			if h == 0 {
				continue
			}
			b.rows = append(b.rows, row{node: n, top: b.totalHeight, height: h})
			b.totalHeight += h
			if w := b.metrics.RowWidth(n); w > b.maxWidth {
				b.maxWidth = w
			}
		}
	}
	b.clamp()
}

// SaveScroll captures the scroll offsets before a structural rebuild.
func (b *Browser) SaveScroll() {
	b.savedX, b.savedY = b.scrollX, b.scrollY
	b.hasSaved = true
}

// RestoreScroll reapplies the captured offsets, clamping against the
// current extent. Without a prior SaveScroll it is a no-op.
func (b *Browser) RestoreScroll() {
	if !b.hasSaved {
		return
	}
	b.scrollX, b.scrollY = b.savedX, b.savedY
	b.hasSaved = false
	b.clamp()
}

// Scroll returns the current offsets.
func (b *Browser) Scroll() (x, y int) { return b.scrollX, b.scrollY }

// ScrollTo sets the vertical offset, clamped to the scrollable extent.
func (b *Browser) ScrollTo(y int) {
	b.scrollY = y
	b.clamp()
}

// ScrollBy adjusts the vertical offset by delta rows.
func (b *Browser) ScrollBy(delta int) {
	b.ScrollTo(b.scrollY + delta)
}

// MaxScroll returns the largest valid vertical offset.
func (b *Browser) MaxScroll() int {
	max := b.totalHeight - b.height
	if max < 0 {
		return 0
	}
	return max
}

// TotalHeight returns the summed height of all visible rows.
func (b *Browser) TotalHeight() int { return b.totalHeight }

// VisibleRows returns the rows intersecting the viewport, in order.
func (b *Browser) VisibleRows() []row {
	if len(b.rows) == 0 || b.height <= 0 {
		return nil
	}
	first := b.rowIndexAt(b.scrollY)
	if first < 0 {
		return nil
	}
	var out []row
	for i := first; i < len(b.rows); i++ {
		if b.rows[i].top >= b.scrollY+b.height {
			break
		}
		out = append(out, b.rows[i])
	}
	return out
}

// NodeAt maps a viewport-relative vertical position to the node whose row
// covers it, or nil when the position is past the last row.
func (b *Browser) NodeAt(y int) *model.Node {
	i := b.rowIndexAt(b.scrollY + y)
	if i < 0 {
		return nil
	}
	return b.rows[i].node
}

// rowIndexAt binary-searches the prefix sums for the row covering an
// absolute vertical offset.
func (b *Browser) rowIndexAt(abs int) int {
	if abs < 0 || len(b.rows) == 0 {
		return -1
	}
	i := sort.Search(len(b.rows), func(i int) bool {
		return b.rows[i].top+b.rows[i].height > abs
	})
	if i >= len(b.rows) {
		return -1
	}
	return i
}

// HitAffordance reports the node whose fold affordance covers the given
// viewport-relative position; ok is false for plain row hits. Only nodes
// that can have children expose an affordance.
func (b *Browser) HitAffordance(x, y int) (*model.Node, bool) {
	n := b.NodeAt(y)
	if n == nil || !n.CanHaveChildren() {
		return n, false
	}
	x0, x1 := b.metrics.AffordanceSpan(n)
	x += b.scrollX
	return n, x >= x0 && x < x1
}

// Offset returns the absolute vertical offset of a node's row, or -1 when
// the node is not currently visible.
func (b *Browser) Offset(n *model.Node) int {
	for _, r := range b.rows {
		if r.node == n {
			return r.top
		}
	}
	return -1
}

// Reveal scrolls the minimal amount that places the node comfortably in
// view: a margin of two base rows above or below, capped at half the
// viewport. An already comfortably visible node leaves the offset alone,
// so repeated calls are idempotent.
func (b *Browser) Reveal(n *model.Node) {
	if n == nil {
		return
	}
	if !n.Visible {
		model.EnsureVisible(n)
		b.Rebuild()
	}
	top := b.Offset(n)
	if top < 0 {
		return
	}
	h := b.metrics.RowHeight(n)
	margin := 2 * 2 // two rows at the tallest row height
	if margin > b.height/2 {
		margin = b.height / 2
	}
	switch {
	case top < b.scrollY+margin:
		b.ScrollTo(top - margin)
	case top > b.scrollY+b.height-margin-h:
		b.ScrollTo(top - b.height + margin + h)
	}
}

// SetPushed marks the affordance drawn with pressed feedback; nil clears it.
func (b *Browser) SetPushed(n *model.Node) { b.pushed = n }

// Pushed returns the affordance currently showing pressed feedback.
func (b *Browser) Pushed() *model.Node { return b.pushed }

func (b *Browser) clamp() {
	if b.scrollY > b.MaxScroll() {
		b.scrollY = b.MaxScroll()
	}
	if b.scrollY < 0 {
		b.scrollY = 0
	}
	maxX := b.maxWidth - b.width
	if maxX < 0 {
		maxX = 0
	}
	if b.scrollX > maxX {
		b.scrollX = maxX
	}
	if b.scrollX < 0 {
		b.scrollX = 0
	}
}
