package ui

import (
	"time"

	"github.com/treetop-tui/treetop/pkg/model"
)

// DoubleClickWindow is the longest gap between two releases on the same
// node that still counts as a double activation.
const DoubleClickWindow = 400 * time.Millisecond

type gesturePhase int

const (
	gestureIdle gesturePhase = iota
	gestureArmed
	gestureDragging
)

// GestureResult tells the caller what a pointer event changed. Redraw asks
// for a repaint, Rebuild for a layout pass too; Toggled and Opened name the
// node a release acted on. SelectionChanged fires only on release.
type GestureResult struct {
	Redraw           bool
	Rebuild          bool
	Toggled          *model.Node
	Opened           *model.Node
	SelectionChanged bool
}

// Gesture is the pointer interaction state machine. A fold only toggles
// when press and release land on the same affordance; dragging off and
// back is tracked but decides nothing until release. Selection commits on
// release, never mid-drag.
type Gesture struct {
	phase gesturePhase
	armed *model.Node // affordance the press landed on
	over  *model.Node // armed node currently hovered, nil when off

	pressedRow *model.Node // row the press landed on, selection candidate

	lastRelease     time.Time
	lastReleaseNode *model.Node
}

// Phase helpers used by the renderer and tests.
func (g *Gesture) Idle() bool { return g.phase == gestureIdle }
func (g *Gesture) ArmedOn() *model.Node {
	if g.phase == gestureIdle {
		return nil
	}
	return g.over
}

// Press handles pointer-down at a viewport-relative position.
func (g *Gesture) Press(b *Browser, x, y int) GestureResult {
	n, onAffordance := b.HitAffordance(x, y)
	if onAffordance {
		g.phase = gestureArmed
		g.armed = n
		g.over = n
		b.SetPushed(n)
		return GestureResult{Redraw: true}
	}
	g.phase = gestureIdle
	g.armed = nil
	g.over = nil
	g.pressedRow = n
	if n != nil && !n.Selected {
		n.PendingSelected = true
		return GestureResult{Redraw: true}
	}
	return GestureResult{}
}

// Move handles pointer motion with the button held.
func (g *Gesture) Move(b *Browser, x, y int) GestureResult {
	if g.phase == gestureIdle {
		return g.moveSelection(b, x, y)
	}
	n, onAffordance := b.HitAffordance(x, y)
	var over *model.Node
	if onAffordance && n == g.armed {
		over = n
	}
	if over == g.over {
		return GestureResult{}
	}
	g.over = over
	g.phase = gestureDragging
	b.SetPushed(over)
	return GestureResult{Redraw: true}
}

// moveSelection drags the pending selection across rows before release.
func (g *Gesture) moveSelection(b *Browser, x, y int) GestureResult {
	if g.pressedRow == nil {
		return GestureResult{}
	}
	n := b.NodeAt(y)
	if n == nil || n == g.pressedRow {
		return GestureResult{}
	}
	g.pressedRow.PendingSelected = false
	g.pressedRow = n
	n.PendingSelected = true
	return GestureResult{Redraw: true}
}

// Release handles pointer-up. An armed release on the original affordance
// toggles the fold; an idle release commits the selection and detects
// double or modifier-qualified activation.
func (g *Gesture) Release(b *Browser, x, y int, now time.Time, modifier bool) GestureResult {
	if g.phase != gestureIdle {
		armed, over := g.armed, g.over
		g.phase = gestureIdle
		g.armed = nil
		g.over = nil
		b.SetPushed(nil)

		n, onAffordance := b.HitAffordance(x, y)
		if over != nil && onAffordance && n == armed {
			model.ToggleFold(armed)
			b.SaveScroll()
			b.Rebuild()
			b.RestoreScroll()
			return GestureResult{Redraw: true, Rebuild: true, Toggled: armed}
		}
		// Cancelled gesture: no partial visual state survives.
		return GestureResult{Redraw: true}
	}

	n := b.NodeAt(y)
	if g.pressedRow != nil && g.pressedRow != n && g.pressedRow.PendingSelected {
		g.pressedRow.PendingSelected = false
	}
	g.pressedRow = nil
	res := GestureResult{}

	if n != nil {
		wasSelected := n.Selected
		doubleHit := g.lastReleaseNode == n && now.Sub(g.lastRelease) <= DoubleClickWindow
		if wasSelected && (doubleHit || modifier) {
			res.Opened = n
		}
		if !wasSelected {
			model.Deselect(b.Tree())
			n.Selected = true
			res.SelectionChanged = true
			res.Redraw = true
		} else if n.PendingSelected {
			n.PendingSelected = false
			res.Redraw = true
		}
		g.lastReleaseNode = n
		g.lastRelease = now
	} else {
		g.lastReleaseNode = nil
	}
	return res
}
