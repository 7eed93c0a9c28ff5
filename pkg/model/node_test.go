package model

import (
	"strings"
	"testing"
)

// buildOutline flattens a document fixture shaped like the fluid-style
// designs treetop browses:
//
//	main (function)
//	  win (window)
//	    header (group)
//	      title_lbl (widget)
//	      close_btn (button)
//	    body (group)
//	      name_in (input)
//	  setup code (code)
//	helpers (class)
//	  cb (function)
//	    cb code (code)
func buildOutline(t *testing.T) *Tree {
	t.Helper()
	doc := &Document{
		Title: "demo",
		Nodes: []Record{
			{ID: "main", Kind: KindFunction, Name: "main", Children: []Record{
				{ID: "win", Kind: KindWindow, Name: "win", Label: "Demo", Children: []Record{
					{ID: "header", Kind: KindGroup, Name: "header", Children: []Record{
						{ID: "title_lbl", Kind: KindWidget, Name: "title_lbl", Label: "Title"},
						{ID: "close_btn", Kind: KindButton, Name: "close_btn", Label: "Close"},
					}},
					{ID: "body", Kind: KindGroup, Name: "body", Children: []Record{
						{ID: "name_in", Kind: KindInput, Name: "name_in", Comment: "user-facing"},
					}},
				}},
				{ID: "setup", Kind: KindCode, Body: "init_app();\nload_prefs();"},
			}},
			{ID: "helpers", Kind: KindClass, Name: "Helpers", Children: []Record{
				{ID: "cb", Kind: KindFunction, Name: "cb", Children: []Record{
					{ID: "cb_code", Kind: KindCode, Body: "do_callback();"},
				}},
			}},
		},
	}
	tree, err := doc.BuildTree()
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	return tree
}

func TestBuildTree_PreOrderLevels(t *testing.T) {
	tree := buildOutline(t)

	wantOrder := []string{
		"main", "win", "header", "title_lbl", "close_btn", "body", "name_in",
		"setup", "helpers", "cb", "cb_code",
	}
	wantLevels := []int{0, 1, 2, 3, 3, 2, 3, 1, 0, 1, 2}

	i := 0
	for n := tree.First; n != nil; n = n.Next {
		if i >= len(wantOrder) {
			t.Fatalf("more nodes than expected (%d)", tree.Len())
		}
		if n.ID != wantOrder[i] {
			t.Errorf("position %d: got %s, want %s", i, n.ID, wantOrder[i])
		}
		if n.Level != wantLevels[i] {
			t.Errorf("node %s: level %d, want %d", n.ID, n.Level, wantLevels[i])
		}
		if !n.Visible {
			t.Errorf("node %s: expected visible after build", n.ID)
		}
		i++
	}
	if i != len(wantOrder) {
		t.Fatalf("got %d nodes, want %d", i, len(wantOrder))
	}
	if err := tree.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestBuildTree_BackLinks(t *testing.T) {
	tree := buildOutline(t)

	var prev *Node
	for n := tree.First; n != nil; n = n.Next {
		if n.Prev != prev {
			t.Fatalf("node %s: broken Prev link", n.ID)
		}
		prev = n
	}
	if tree.Last != prev {
		t.Fatalf("Last points at %v, want %v", tree.Last, prev)
	}

	title := tree.Find("title_lbl")
	if title == nil || title.Parent == nil || title.Parent.ID != "header" {
		t.Fatalf("title_lbl parent: got %v", title.Parent)
	}
	win := tree.Find("win")
	if !win.IsAncestorOf(title) {
		t.Error("win should be an ancestor of title_lbl")
	}
	if title.IsAncestorOf(win) {
		t.Error("title_lbl must not be an ancestor of win")
	}
}

func TestBuildTree_RejectsChildrenUnderLeaf(t *testing.T) {
	doc := &Document{Nodes: []Record{
		{Kind: KindCode, Body: "x();", Children: []Record{
			{Kind: KindCode, Body: "y();"},
		}},
	}}
	if _, err := doc.BuildTree(); err == nil {
		t.Fatal("expected error for children under a leaf kind")
	}
}

func TestBuildTree_RejectsUnknownKind(t *testing.T) {
	doc := &Document{Nodes: []Record{{Kind: "sprocket"}}}
	if _, err := doc.BuildTree(); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestNode_HasChildrenVsCanHaveChildren(t *testing.T) {
	tree := buildOutline(t)

	tests := []struct {
		id       string
		can, has bool
	}{
		{"main", true, true},
		{"win", true, true},
		{"body", true, true},
		{"title_lbl", false, false},
		{"setup", false, false},
		{"cb", true, true},
	}
	for _, tt := range tests {
		n := tree.Find(tt.id)
		if n == nil {
			t.Fatalf("node %s not found", tt.id)
		}
		if got := n.CanHaveChildren(); got != tt.can {
			t.Errorf("%s: CanHaveChildren = %v, want %v", tt.id, got, tt.can)
		}
		if got := n.HasChildren(); got != tt.has {
			t.Errorf("%s: HasChildren = %v, want %v", tt.id, got, tt.has)
		}
	}
}

func TestNode_SubtreeEnd(t *testing.T) {
	tree := buildOutline(t)

	tests := []struct {
		id   string
		want string // "" means end of list
	}{
		{"win", "setup"},
		{"header", "body"},
		{"main", "helpers"},
		{"helpers", ""},
		{"title_lbl", "close_btn"},
	}
	for _, tt := range tests {
		n := tree.Find(tt.id)
		end := n.SubtreeEnd()
		got := ""
		if end != nil {
			got = end.ID
		}
		if got != tt.want {
			t.Errorf("%s: SubtreeEnd = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestNode_TitleAndPath(t *testing.T) {
	tree := buildOutline(t)

	setup := tree.Find("setup")
	if got := setup.Title(); got != "init_app();\nload_prefs();" {
		t.Errorf("code title = %q", got)
	}
	lbl := tree.Find("title_lbl")
	if got := lbl.Title(); got != "title_lbl" {
		t.Errorf("widget title = %q, want name", got)
	}
	if got := lbl.Path(); got != "main/win/header/title_lbl" {
		t.Errorf("Path = %q", got)
	}
	if got := lbl.TypeName(); got != "Widget" {
		t.Errorf("TypeName = %q", got)
	}
}

func TestDocument_CountNodes(t *testing.T) {
	tree := buildOutline(t)
	if tree.Len() != 11 {
		t.Fatalf("Len = %d, want 11", tree.Len())
	}
}

func TestStructureError_Message(t *testing.T) {
	err := &StructureError{Node: &Node{ID: "x"}, Reason: "level jump exceeds parent level + 1"}
	if !strings.Contains(err.Error(), "x") || !strings.Contains(err.Error(), "level jump") {
		t.Fatalf("unhelpful error: %v", err)
	}
}
