// Package model holds the outline document model: a tree of design nodes
// kept as a pre-order flattened, doubly linked list. The list order is the
// single source of truth for traversal; child relationships are recovered
// from the Level field.
package model

import "strings"

// Kind categorizes a node in a design document.
type Kind string

const (
	// Container kinds (may hold children)
	KindWindow    Kind = "window"
	KindGroup     Kind = "group"
	KindClass     Kind = "class"
	KindFunction  Kind = "function"
	KindCodeBlock Kind = "codeblock"
	KindDeclBlock Kind = "declblock"

	// Leaf kinds
	KindWidget  Kind = "widget"
	KindButton  Kind = "button"
	KindInput   Kind = "input"
	KindCode    Kind = "code"
	KindDecl    Kind = "decl"
	KindComment Kind = "comment"
	KindData    Kind = "data"
)

// IsValid returns true if the kind is a recognized value.
func (k Kind) IsValid() bool {
	switch k {
	case KindWindow, KindGroup, KindClass, KindFunction, KindCodeBlock,
		KindDeclBlock, KindWidget, KindButton, KindInput, KindCode,
		KindDecl, KindComment, KindData:
		return true
	}
	return false
}

// CanHaveChildren returns true for container kinds. This capability drives
// whether the browser draws and hit-tests a fold affordance for the node.
func (k Kind) CanHaveChildren() bool {
	switch k {
	case KindWindow, KindGroup, KindClass, KindFunction, KindCodeBlock, KindDeclBlock:
		return true
	}
	return false
}

// IsWidget returns true for kinds that represent visual widgets.
func (k Kind) IsWidget() bool {
	switch k {
	case KindWindow, KindGroup, KindWidget, KindButton, KindInput:
		return true
	}
	return false
}

// IsCodeLike returns true for kinds whose title is a fragment of source text.
func (k Kind) IsCodeLike() bool {
	switch k {
	case KindCode, KindCodeBlock, KindDecl, KindDeclBlock, KindFunction:
		return true
	}
	return false
}

// Node is one entry in the pre-order flattened representation of the tree.
//
// Prev/Next form the flattened list in pre-order traversal order. Parent is a
// lookup-only back reference used for upward walks (reveal-to-root); it never
// owns the node. Level is the depth from root (roots are level 0), and the
// level sequence of the list always matches a pre-order walk: no node's level
// exceeds its predecessor's level plus one.
//
// The browser reads linkage and content but mutates only the flag set
// (Folded, Visible, Selected, PendingSelected). List surgery belongs to the
// document layer.
type Node struct {
	ID      string
	Kind    Kind
	Name    string // identifier, e.g. a member or variable name
	Label   string // user-visible label text, quoted in the browser
	Comment string // annotation shown as a second row when enabled
	Body    string // source text for code-like nodes

	Level  int
	Prev   *Node
	Next   *Node
	Parent *Node

	Folded          bool
	Visible         bool
	Selected        bool
	PendingSelected bool
}

// CanHaveChildren reports whether this node may hold children.
func (n *Node) CanHaveChildren() bool {
	return n.Kind.CanHaveChildren()
}

// IsCodeLike reports whether the node's title is a fragment of source text.
func (n *Node) IsCodeLike() bool {
	return n.Kind.IsCodeLike()
}

// HasChildren reports whether the node actually has at least one child,
// i.e. the immediate successor is one level deeper.
func (n *Node) HasChildren() bool {
	return n.Next != nil && n.Next.Level > n.Level
}

// Title returns the primary display text for the node: the first line of the
// body for code-like nodes, otherwise the name or label.
func (n *Node) Title() string {
	if n.Kind.IsCodeLike() || n.Kind == KindComment || n.Kind == KindData {
		if n.Body != "" {
			return n.Body
		}
	}
	if n.Name != "" {
		return n.Name
	}
	return n.Label
}

// TypeName returns the kind's display name, e.g. "Window" for KindWindow.
func (n *Node) TypeName() string {
	if n.Kind == "" {
		return ""
	}
	s := string(n.Kind)
	return strings.ToUpper(s[:1]) + s[1:]
}

// SubtreeEnd returns the first node after n that is not a descendant of n,
// or nil if n's subtree runs to the end of the list.
func (n *Node) SubtreeEnd() *Node {
	k := n.Next
	for k != nil && k.Level > n.Level {
		k = k.Next
	}
	return k
}

// IsAncestorOf reports whether n is a strict ancestor of other.
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other.Parent; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// Path returns the slash-joined titles from the root down to n.
func (n *Node) Path() string {
	var parts []string
	for p := n; p != nil; p = p.Parent {
		t := p.Title()
		if t == "" {
			t = p.TypeName()
		}
		parts = append(parts, t)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// Tree owns the flattened node list of one document.
type Tree struct {
	First *Node
	Last  *Node
}

// Append links n at the end of the flattened list. Level and Parent must
// already be set; Append validates the pre-order level invariant and fixes
// Visible according to the ancestors' fold state.
func (t *Tree) Append(n *Node) {
	if n == nil {
		return
	}
	if t.Last == nil {
		t.First = n
		t.Last = n
		n.Prev = nil
		n.Next = nil
	} else {
		n.Prev = t.Last
		n.Next = nil
		t.Last.Next = n
		t.Last = n
	}
	n.Visible = true
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Folded {
			n.Visible = false
			break
		}
	}
}

// Len returns the number of nodes in the list.
func (t *Tree) Len() int {
	c := 0
	for n := t.First; n != nil; n = n.Next {
		c++
	}
	return c
}

// Contains reports whether n is a member of this tree's list.
func (t *Tree) Contains(n *Node) bool {
	for k := t.First; k != nil; k = k.Next {
		if k == n {
			return true
		}
	}
	return false
}

// Find returns the first node with the given ID, or nil.
func (t *Tree) Find(id string) *Node {
	for n := t.First; n != nil; n = n.Next {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Validate checks the structural invariants of the flattened list: the level
// sequence matches a pre-order walk and parent links agree with levels.
func (t *Tree) Validate() error {
	prevLevel := -1
	for n := t.First; n != nil; n = n.Next {
		if n.Level < 0 {
			return &StructureError{Node: n, Reason: "negative level"}
		}
		if n.Level > prevLevel+1 {
			return &StructureError{Node: n, Reason: "level jump exceeds parent level + 1"}
		}
		if n.Level == 0 {
			if n.Parent != nil {
				return &StructureError{Node: n, Reason: "root node has a parent"}
			}
		} else {
			if n.Parent == nil {
				return &StructureError{Node: n, Reason: "non-root node has no parent"}
			}
			if n.Parent.Level != n.Level-1 {
				return &StructureError{Node: n, Reason: "parent level mismatch"}
			}
		}
		prevLevel = n.Level
	}
	return nil
}

// StructureError reports a violated flattened-list invariant.
type StructureError struct {
	Node   *Node
	Reason string
}

func (e *StructureError) Error() string {
	id := "<nil>"
	if e.Node != nil {
		id = e.Node.ID
	}
	return "invalid outline structure at " + id + ": " + e.Reason
}
