package ui

import (
	"strings"
	"testing"

	"github.com/treetop-tui/treetop/pkg/model"
)

func renderFixture(t *testing.T) (*Browser, Theme) {
	t.Helper()
	b := NewBrowser(buildTree(t), DefaultMetrics())
	b.SetSize(60, 12)
	return b, TestTheme()
}

func TestRenderOutline_Rows(t *testing.T) {
	b, theme := renderFixture(t)
	out := RenderOutline(b, theme)
	lines := strings.Split(out, "\n")

	if len(lines) != 12 {
		t.Fatalf("rendered %d lines, want 12", len(lines))
	}
	if !strings.Contains(lines[0], "▾ ƒ main") {
		t.Errorf("root line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "▾ □ Window win") {
		t.Errorf("window line = %q", lines[1])
	}
	if !strings.Contains(lines[3], `· Widget "Window Title"`) {
		t.Errorf("widget line = %q", lines[3])
	}
	// Commented row renders a dimmed second line.
	if !strings.Contains(lines[7], "user-facing") {
		t.Errorf("comment line = %q", lines[7])
	}
	// Indentation deepens with level.
	if !strings.HasPrefix(lines[3], strings.Repeat(" ", 1+3*2)) {
		t.Errorf("level-3 indent missing: %q", lines[3])
	}
}

func TestRenderOutline_FoldChangesTriangle(t *testing.T) {
	b, theme := renderFixture(t)
	tree := b.Tree()

	model.ToggleFold(tree.Find("win"))
	b.Rebuild()
	out := RenderOutline(b, theme)
	lines := strings.Split(out, "\n")

	if !strings.Contains(lines[1], "▸ □ Window win") {
		t.Errorf("folded window line = %q", lines[1])
	}
	for _, l := range lines {
		if strings.Contains(l, "header") {
			t.Fatalf("folded subtree leaked into output: %q", l)
		}
	}
}

func TestRenderOutline_EmptyContainerHollow(t *testing.T) {
	doc := &model.Document{Nodes: []model.Record{
		{ID: "g", Kind: model.KindGroup, Name: "empty"},
	}}
	tree, err := doc.BuildTree()
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	b := NewBrowser(tree, DefaultMetrics())
	b.SetSize(40, 4)

	out := RenderOutline(b, TestTheme())
	if !strings.Contains(out, "▿") {
		t.Fatalf("empty open container should use a hollow triangle: %q", out)
	}
}

func TestRenderOutline_PushedPreview(t *testing.T) {
	b, theme := renderFixture(t)
	win := b.Tree().Find("win")

	b.SetPushed(win)
	out := RenderOutline(b, theme)
	lines := strings.Split(out, "\n")
	// Unfolded but pushed previews the closed direction.
	if !strings.Contains(lines[1], "▸") {
		t.Fatalf("pushed affordance should preview the toggle: %q", lines[1])
	}
}

func TestRenderOutline_ViewportWindow(t *testing.T) {
	b, theme := renderFixture(t)
	b.SetSize(60, 3)
	b.ScrollTo(8)

	out := RenderOutline(b, theme)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("rendered %d lines, want 3", len(lines))
	}
	if !strings.Contains(lines[0], "init_app();") {
		t.Errorf("first line = %q, want the setup row", lines[0])
	}
}

func TestRenderOutline_PartialTopRow(t *testing.T) {
	b, theme := renderFixture(t)
	b.SetSize(60, 3)
	b.ScrollTo(7) // the comment line of name_in

	out := RenderOutline(b, theme)
	lines := strings.Split(out, "\n")
	if !strings.Contains(lines[0], "user-facing") {
		t.Errorf("cut row should start at its second line: %q", lines[0])
	}
	if strings.Contains(lines[0], "name_in") {
		t.Errorf("first line of the cut row must be off-screen: %q", lines[0])
	}
}

func TestRenderOutline_CommentsDisabled(t *testing.T) {
	b, theme := renderFixture(t)
	m := b.Metrics()
	m.ShowComments = false
	b.SetMetrics(m)

	out := RenderOutline(b, theme)
	if strings.Contains(out, "user-facing") {
		t.Fatal("comments disabled but still rendered")
	}
	if len(strings.Split(out, "\n")) != 11 {
		t.Fatal("row heights should all be 1 with comments off")
	}
}

func TestRenderOutline_HorizontalScroll(t *testing.T) {
	b, theme := renderFixture(t)
	b.scrollX = 4

	out := RenderOutline(b, theme)
	lines := strings.Split(out, "\n")
	if strings.Contains(lines[0], "▾") {
		t.Fatalf("scrolled-off affordance still present: %q", lines[0])
	}
	if !strings.Contains(lines[0], "main") {
		t.Fatalf("row text should survive the cut: %q", lines[0])
	}
}
