package model

import (
	"testing"

	"pgregory.net/rapid"
)

// visibleIDs returns the IDs of visible nodes in list order.
func visibleIDs(t *Tree) []string {
	var out []string
	for n := t.First; n != nil; n = n.Next {
		if n.Visible {
			out = append(out, n.ID)
		}
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// checkInvariant verifies visible(n) == (no ancestor folded) for every node.
func checkInvariant(t *testing.T, tree *Tree) {
	t.Helper()
	for n := tree.First; n != nil; n = n.Next {
		want := true
		for p := n.Parent; p != nil; p = p.Parent {
			if p.Folded {
				want = false
				break
			}
		}
		if n.Visible != want {
			t.Fatalf("node %s: visible=%v, want %v (fold state of ancestors)", n.ID, n.Visible, want)
		}
	}
}

func TestToggleFold_HidesSubtree(t *testing.T) {
	tree := buildOutline(t)
	win := tree.Find("win")

	ToggleFold(win)

	if !win.Folded {
		t.Fatal("win should be folded")
	}
	want := []string{"main", "win", "setup", "helpers", "cb", "cb_code"}
	if got := visibleIDs(tree); !equalIDs(got, want) {
		t.Fatalf("visible after fold = %v, want %v", got, want)
	}
	checkInvariant(t, tree)
}

func TestToggleFold_RoundTrip(t *testing.T) {
	tree := buildOutline(t)
	before := visibleIDs(tree)

	header := tree.Find("header")
	ToggleFold(header)
	ToggleFold(header)

	if got := visibleIDs(tree); !equalIDs(got, before) {
		t.Fatalf("fold+unfold changed visibility: %v != %v", got, before)
	}
	checkInvariant(t, tree)
}

func TestToggleFold_UnfoldSkipsFoldedDescendant(t *testing.T) {
	tree := buildOutline(t)
	win := tree.Find("win")
	header := tree.Find("header")

	// Fold the inner group first, then the window, then unfold the window:
	// header's children must stay hidden.
	ToggleFold(header)
	ToggleFold(win)
	ToggleFold(win)

	if !header.Folded {
		t.Fatal("header must remain folded")
	}
	if !header.Visible {
		t.Fatal("header itself must be revealed")
	}
	if tree.Find("title_lbl").Visible || tree.Find("close_btn").Visible {
		t.Fatal("children of a folded descendant must not be re-revealed")
	}
	if !tree.Find("body").Visible || !tree.Find("name_in").Visible {
		t.Fatal("unrelated siblings must be revealed")
	}
	checkInvariant(t, tree)
}

func TestToggleFold_Locality(t *testing.T) {
	tree := buildOutline(t)
	header := tree.Find("header")
	end := header.SubtreeEnd()

	inSubtree := map[string]bool{}
	for k := header.Next; k != end; k = k.Next {
		inSubtree[k.ID] = true
	}
	before := map[string]bool{}
	for n := tree.First; n != nil; n = n.Next {
		before[n.ID] = n.Visible
	}

	ToggleFold(header)

	for n := tree.First; n != nil; n = n.Next {
		if inSubtree[n.ID] {
			continue
		}
		if n.Visible != before[n.ID] {
			t.Fatalf("node %s outside subtree changed visibility", n.ID)
		}
	}
}

func TestToggleFold_NilIsNoOp(t *testing.T) {
	ToggleFold(nil) // must not panic
	EnsureVisible(nil)
	UpdateVisibility(nil)
}

func TestToggleFold_OnHiddenNodeKeepsSubtreeHidden(t *testing.T) {
	tree := buildOutline(t)
	win := tree.Find("win")
	header := tree.Find("header")

	ToggleFold(header) // fold inner
	ToggleFold(win)    // hide everything under win
	// Unfolding the hidden header must not reveal its children while win is
	// still folded.
	ToggleFold(header)

	if tree.Find("title_lbl").Visible {
		t.Fatal("title_lbl revealed under a folded ancestor")
	}
	checkInvariant(t, tree)
}

func TestEnsureVisible_UnfoldsAncestorChain(t *testing.T) {
	tree := buildOutline(t)
	ToggleFold(tree.Find("header"))
	ToggleFold(tree.Find("win"))
	ToggleFold(tree.Find("main"))

	deep := tree.Find("title_lbl")
	if deep.Visible {
		t.Fatal("precondition: title_lbl should be hidden")
	}

	EnsureVisible(deep)

	if !deep.Visible {
		t.Fatal("title_lbl should be visible after EnsureVisible")
	}
	for p := deep.Parent; p != nil; p = p.Parent {
		if p.Folded {
			t.Fatalf("ancestor %s still folded", p.ID)
		}
	}
	checkInvariant(t, tree)
}

func TestEnsureVisible_RootIsNoOp(t *testing.T) {
	tree := buildOutline(t)
	before := visibleIDs(tree)
	EnsureVisible(tree.Find("main"))
	if got := visibleIDs(tree); !equalIDs(got, before) {
		t.Fatalf("EnsureVisible on a root changed visibility: %v", got)
	}
}

func TestEnsureVisible_LeavesSiblingFoldsAlone(t *testing.T) {
	tree := buildOutline(t)
	ToggleFold(tree.Find("header"))
	ToggleFold(tree.Find("cb"))

	EnsureVisible(tree.Find("name_in"))

	if !tree.Find("cb").Folded {
		t.Fatal("fold state outside the ancestor chain must be untouched")
	}
	if tree.Find("cb_code").Visible {
		t.Fatal("cb_code must stay hidden")
	}
	checkInvariant(t, tree)
}

func TestFoldAll_UnfoldAll(t *testing.T) {
	tree := buildOutline(t)

	FoldAll(tree)
	want := []string{"main", "helpers"}
	if got := visibleIDs(tree); !equalIDs(got, want) {
		t.Fatalf("after FoldAll visible = %v, want %v", got, want)
	}
	checkInvariant(t, tree)

	UnfoldAll(tree)
	if got := visibleIDs(tree); len(got) != tree.Len() {
		t.Fatalf("after UnfoldAll %d visible, want %d", len(got), tree.Len())
	}
	checkInvariant(t, tree)
}

func TestSelectionHelpers(t *testing.T) {
	tree := buildOutline(t)
	tree.Find("win").Selected = true
	tree.Find("setup").Selected = true
	tree.Find("body").PendingSelected = true

	if got := Selection(tree); got == nil || got.ID != "win" {
		t.Fatalf("Selection = %v, want win (first in list order)", got)
	}
	if got := SelectedNodes(tree); len(got) != 2 {
		t.Fatalf("SelectedNodes = %d nodes, want 2", len(got))
	}

	Deselect(tree)
	if Selection(tree) != nil {
		t.Fatal("Deselect left a selected node")
	}
	if tree.Find("body").PendingSelected {
		t.Fatal("Deselect left a pending-selected node")
	}
}

// generateTree builds a random pre-order outline: each node's level is drawn
// from [0, prev+1], containers wherever a child follows.
func generateTree(rt *rapid.T) *Tree {
	n := rapid.IntRange(1, 60).Draw(rt, "n")
	levels := make([]int, n)
	levels[0] = 0
	for i := 1; i < n; i++ {
		levels[i] = rapid.IntRange(0, levels[i-1]+1).Draw(rt, "level")
	}

	tree := &Tree{}
	var stack []*Node
	for i, lvl := range levels {
		kind := KindCode
		if i+1 < n && levels[i+1] > lvl {
			kind = KindGroup
		} else if rapid.Bool().Draw(rt, "container-leaf") {
			kind = KindGroup // container without children
		}
		stack = stack[:lvl]
		var parent *Node
		if lvl > 0 {
			parent = stack[lvl-1]
		}
		node := &Node{
			ID:     "n" + string(rune('A'+i%26)) + string(rune('0'+i/26)),
			Kind:   kind,
			Level:  lvl,
			Parent: parent,
		}
		tree.Append(node)
		stack = append(stack, node)
	}
	return tree
}

func TestToggleFold_InvariantProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tree := generateTree(rt)

		var containers []*Node
		for n := tree.First; n != nil; n = n.Next {
			if n.CanHaveChildren() {
				containers = append(containers, n)
			}
		}
		if len(containers) == 0 {
			return
		}

		ops := rapid.IntRange(1, 40).Draw(rt, "ops")
		for i := 0; i < ops; i++ {
			pick := rapid.IntRange(0, len(containers)-1).Draw(rt, "pick")
			ToggleFold(containers[pick])

			for n := tree.First; n != nil; n = n.Next {
				want := true
				for p := n.Parent; p != nil; p = p.Parent {
					if p.Folded {
						want = false
						break
					}
				}
				if n.Visible != want {
					rt.Fatalf("node %s: visible=%v, want %v after op %d", n.ID, n.Visible, want, i)
				}
			}
		}
	})
}

func TestEnsureVisible_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tree := generateTree(rt)

		var containers, all []*Node
		for n := tree.First; n != nil; n = n.Next {
			all = append(all, n)
			if n.CanHaveChildren() {
				containers = append(containers, n)
			}
		}
		if len(containers) == 0 {
			return
		}

		folds := rapid.IntRange(0, 15).Draw(rt, "folds")
		for i := 0; i < folds; i++ {
			pick := rapid.IntRange(0, len(containers)-1).Draw(rt, "fold-pick")
			ToggleFold(containers[pick])
		}

		target := all[rapid.IntRange(0, len(all)-1).Draw(rt, "target")]
		EnsureVisible(target)

		if !target.Visible {
			rt.Fatalf("node %s not visible after EnsureVisible", target.ID)
		}
		for n := tree.First; n != nil; n = n.Next {
			want := true
			for p := n.Parent; p != nil; p = p.Parent {
				if p.Folded {
					want = false
					break
				}
			}
			if n.Visible != want {
				rt.Fatalf("node %s: invariant broken after EnsureVisible", n.ID)
			}
		}
	})
}
