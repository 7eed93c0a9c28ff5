package model

// Visibility propagation over the flattened list.
//
// The invariant maintained here: a node is visible iff none of its ancestors
// is folded. Root-level nodes are always visible. All operations are linear
// in the affected subtree; no recursion, no global rebuild.

// ToggleFold flips the fold state of n and cascades visibility through its
// descendant run. Folding hides the entire subtree in one forward pass.
// Unfolding reveals direct descendants, skipping the subtrees of descendants
// that are themselves folded containers. A nil node is a no-op.
func ToggleFold(n *Node) {
	if n == nil {
		return
	}
	if !n.Folded {
		n.Folded = true
		for k := n.Next; k != nil && k.Level > n.Level; k = k.Next {
			k.Visible = false
		}
		return
	}
	n.Folded = false
	if !n.Visible {
		// A folded ancestor still hides the subtree; clearing the flag is
		// enough, the descendants are already invisible.
		return
	}
	for k := n.Next; k != nil && k.Level > n.Level; {
		k.Visible = true
		if k.CanHaveChildren() && k.Folded {
			k = k.SubtreeEnd()
		} else {
			k = k.Next
		}
	}
}

// EnsureVisible unfolds every ancestor of n and recomputes visibility for the
// ancestor chain's whole subtree, so that n can be displayed. Nodes at root
// level need no work. A nil node is a no-op.
func EnsureVisible(n *Node) {
	if n == nil || n.Parent == nil {
		return
	}
	top := n.Parent
	for {
		if top.Folded {
			top.Folded = false
		}
		if top.Parent == nil {
			break
		}
		top = top.Parent
	}
	UpdateVisibility(top)
}

// UpdateVisibility restores the visibility invariant for n and its subtree
// from the current fold flags.
func UpdateVisibility(n *Node) {
	if n == nil {
		return
	}
	n.Visible = true
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Folded {
			n.Visible = false
			break
		}
	}
	vis := n.Visible && !n.Folded
	end := n.SubtreeEnd()
	for k := n.Next; k != end; {
		k.Visible = vis
		if k.CanHaveChildren() && k.Folded {
			sub := k.SubtreeEnd()
			for j := k.Next; j != sub; j = j.Next {
				j.Visible = false
			}
			k = sub
		} else {
			k = k.Next
		}
	}
}

// FoldAll folds every container in the tree, leaving only roots visible.
func FoldAll(t *Tree) {
	for n := t.First; n != nil; n = n.Next {
		if n.CanHaveChildren() {
			n.Folded = true
		}
		n.Visible = n.Level == 0
	}
}

// UnfoldAll unfolds every node in the tree.
func UnfoldAll(t *Tree) {
	for n := t.First; n != nil; n = n.Next {
		n.Folded = false
		n.Visible = true
	}
}

// Deselect clears both committed and pending selection on every node.
func Deselect(t *Tree) {
	for n := t.First; n != nil; n = n.Next {
		n.Selected = false
		n.PendingSelected = false
	}
}

// Selection returns the first selected node in list order, or nil. The
// browser reports this as the primary selection.
func Selection(t *Tree) *Node {
	for n := t.First; n != nil; n = n.Next {
		if n.Selected {
			return n
		}
	}
	return nil
}

// SelectedNodes returns all selected nodes in list order.
func SelectedNodes(t *Tree) []*Node {
	var out []*Node
	for n := t.First; n != nil; n = n.Next {
		if n.Selected {
			out = append(out, n)
		}
	}
	return out
}
