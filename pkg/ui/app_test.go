package ui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treetop-tui/treetop/internal/datasource"
	"github.com/treetop-tui/treetop/pkg/config"
	"github.com/treetop-tui/treetop/pkg/model"
)

func testDoc() *model.Document {
	return &model.Document{
		Title: "demo",
		Nodes: []model.Record{
			{ID: "main", Kind: model.KindFunction, Name: "main", Children: []model.Record{
				{ID: "win", Kind: model.KindWindow, Name: "win", Label: "Demo", Children: []model.Record{
					{ID: "header", Kind: model.KindGroup, Name: "header", Children: []model.Record{
						{ID: "title_lbl", Kind: model.KindWidget, Label: "Window Title"},
						{ID: "close_btn", Kind: model.KindButton, Name: "close_btn", Label: "Close"},
					}},
				}},
				{ID: "setup", Kind: model.KindCode, Body: "init_app();"},
			}},
			{ID: "helpers", Kind: model.KindClass, Name: "Helpers"},
		},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("TREETOP_CONFIG_DIR", t.TempDir())
	prefs, err := config.OpenPrefsFrom(filepath.Join(t.TempDir(), "prefs.json"))
	if err != nil {
		t.Fatalf("prefs: %v", err)
	}
	a, err := NewApp(testDoc(), datasource.Source{Type: datasource.SourceTypeYAML, Path: "outline.yaml"},
		"outline.yaml", config.DefaultConfig(), prefs, TestTheme())
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	a.resize(80, 20)
	return a
}

func keyPress(a *App, key string) {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEscape}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	a.Update(msg)
}

func TestApp_MoveSelection(t *testing.T) {
	a := newTestApp(t)

	keyPress(a, "j")
	if sel := model.Selection(a.tree); sel == nil || sel.ID != "main" {
		t.Fatalf("first j selects the first row, got %v", sel)
	}
	keyPress(a, "j")
	keyPress(a, "j")
	if sel := model.Selection(a.tree); sel.ID != "header" {
		t.Fatalf("selection = %s, want header", sel.ID)
	}
	keyPress(a, "k")
	if sel := model.Selection(a.tree); sel.ID != "win" {
		t.Fatalf("selection = %s, want win", sel.ID)
	}

	keyPress(a, "G")
	if sel := model.Selection(a.tree); sel.ID != "helpers" {
		t.Fatalf("G selects last row, got %s", sel.ID)
	}
	keyPress(a, "j") // clamped at the end
	if sel := model.Selection(a.tree); sel.ID != "helpers" {
		t.Fatalf("selection moved past the end: %s", sel.ID)
	}
	keyPress(a, "g")
	if sel := model.Selection(a.tree); sel.ID != "main" {
		t.Fatalf("g selects first row, got %s", sel.ID)
	}
}

func TestApp_FoldKeys(t *testing.T) {
	a := newTestApp(t)
	win := a.tree.Find("win")

	keyPress(a, "j")
	keyPress(a, "j") // select win
	keyPress(a, "h")
	if !win.Folded {
		t.Fatal("h folds the selected container")
	}
	if a.tree.Find("header").Visible {
		t.Fatal("folding hides the subtree")
	}
	keyPress(a, "h") // already folded, no-op
	if !win.Folded {
		t.Fatal("h on a folded container stays folded")
	}
	keyPress(a, "l")
	if win.Folded {
		t.Fatal("l unfolds")
	}
	if !a.tree.Find("header").Visible {
		t.Fatal("unfolding reveals the subtree")
	}
}

func TestApp_FoldAllKeys(t *testing.T) {
	a := newTestApp(t)

	keyPress(a, "z")
	if got := a.browser.TotalHeight(); got != 2 {
		t.Fatalf("fold-all leaves %d rows, want 2 roots", got)
	}
	keyPress(a, "Z")
	if got := a.browser.TotalHeight(); got != a.tree.Len() {
		t.Fatalf("unfold-all rows = %d, want %d", got, a.tree.Len())
	}
}

func TestApp_SearchJumpsIntoFoldedSubtree(t *testing.T) {
	a := newTestApp(t)

	model.ToggleFold(a.tree.Find("win"))
	a.rebuildKeepScroll()

	a.runSearch("close")
	sel := model.Selection(a.tree)
	if sel == nil || sel.ID != "close_btn" {
		t.Fatalf("search selected %v, want close_btn", sel)
	}
	if !sel.Visible {
		t.Fatal("search jump must unfold the ancestor chain")
	}
	if a.browser.Offset(sel) < 0 {
		t.Fatal("revealed match must be in the layout")
	}
}

func TestApp_SearchCycle(t *testing.T) {
	a := newTestApp(t)

	a.runSearch("l") // title_lbl (label), close_btn (label+name), helpers...
	if len(a.matches) < 2 {
		t.Fatalf("expected multiple matches, got %d", len(a.matches))
	}
	first := model.Selection(a.tree)
	a.cycleMatch(1)
	second := model.Selection(a.tree)
	if first == second {
		t.Fatal("n must advance to the next match")
	}
	a.cycleMatch(-1)
	if model.Selection(a.tree) != first {
		t.Fatal("N must cycle back")
	}
}

func TestApp_ReloadKeepsFoldStateAndSelection(t *testing.T) {
	a := newTestApp(t)

	model.ToggleFold(a.tree.Find("header"))
	a.tree.Find("setup").Selected = true
	a.rebuildKeepScroll()

	a.applyReload(DocumentReloadedMsg{Doc: testDoc(), Source: a.source})

	if !a.tree.Find("header").Folded {
		t.Fatal("fold state lost across reload")
	}
	if a.tree.Find("title_lbl").Visible {
		t.Fatal("visibility invariant broken after reload")
	}
	if sel := model.Selection(a.tree); sel == nil || sel.ID != "setup" {
		t.Fatalf("selection after reload = %v, want setup", sel)
	}
}

func TestApp_ReloadErrorKeepsTree(t *testing.T) {
	a := newTestApp(t)
	before := a.tree

	a.applyReload(DocumentReloadedMsg{Err: errFake})
	if a.tree != before {
		t.Fatal("a failed reload must keep the current tree")
	}
	if a.status == "" {
		t.Fatal("a failed reload should surface in the status bar")
	}
}

var errFake = &model.StructureError{Node: &model.Node{ID: "x"}, Reason: "boom"}

func TestApp_PersistAndRestoreState(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TREETOP_CONFIG_DIR", dir)
	prefs, _ := config.OpenPrefsFrom(filepath.Join(dir, "prefs.json"))

	a, err := NewApp(testDoc(), datasource.Source{}, "outline.yaml", config.DefaultConfig(), prefs, TestTheme())
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	a.resize(80, 20)
	model.ToggleFold(a.tree.Find("win"))
	a.tree.Find("setup").Selected = true
	a.rebuildKeepScroll()
	a.persistState()

	b, err := NewApp(testDoc(), datasource.Source{}, "outline.yaml", config.DefaultConfig(), prefs, TestTheme())
	if err != nil {
		t.Fatalf("NewApp second: %v", err)
	}
	if !b.tree.Find("win").Folded {
		t.Fatal("restored app must fold win")
	}
	if b.tree.Find("header").Visible {
		t.Fatal("restored fold must hide descendants")
	}
	if sel := model.Selection(b.tree); sel == nil || sel.ID != "setup" {
		t.Fatalf("restored selection = %v, want setup", sel)
	}
}

func TestApp_CommentToggleUpdatesPrefs(t *testing.T) {
	a := newTestApp(t)
	before := a.browser.Metrics().ShowComments

	keyPress(a, "c")
	if a.browser.Metrics().ShowComments == before {
		t.Fatal("c must flip comment visibility")
	}
	got := a.prefs.GetBool(config.PrefShowComments, before)
	if got == before {
		t.Fatal("comment toggle must be recorded in prefs")
	}
}

func TestApp_ViewRenders(t *testing.T) {
	a := newTestApp(t)
	keyPress(a, "j")

	out := a.View()
	if out == "" {
		t.Fatal("empty view")
	}
	// Status bar names the document.
	if !strings.Contains(out, "demo") {
		t.Errorf("view missing document title")
	}
}

func mouseClick(a *App, x, y int) {
	a.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	a.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
}

func TestApp_DetailPaneMouseLeavesOutlineAlone(t *testing.T) {
	a := newTestApp(t)
	a.resize(140, 20)
	if !a.isSplit {
		t.Fatal("width 140 must use the split layout")
	}

	keyPress(a, "G") // select helpers
	keyPress(a, "enter")
	if !a.showDetail {
		t.Fatal("enter must open the detail pane")
	}

	// A click over the detail pane must not re-select by row.
	w, _ := a.browser.Size()
	mouseClick(a, w+10, 1)
	if sel := model.Selection(a.tree); sel == nil || sel.ID != "helpers" {
		t.Fatalf("detail-pane click changed selection to %v", sel)
	}

	// Clicks inside the outline pane still select.
	mouseClick(a, 20, 0)
	if sel := model.Selection(a.tree); sel == nil || sel.ID != "main" {
		t.Fatalf("outline click selected %v, want main", sel)
	}
}

func TestApp_FullScreenDetailSwallowsMouse(t *testing.T) {
	a := newTestApp(t)
	if a.isSplit {
		t.Fatal("width 80 must not split")
	}

	keyPress(a, "G")
	keyPress(a, "enter")
	if !a.showDetail {
		t.Fatal("enter must open the detail view")
	}

	mouseClick(a, 10, 0)
	if sel := model.Selection(a.tree); sel == nil || sel.ID != "helpers" {
		t.Fatalf("detail-view click changed selection to %v", sel)
	}
}
