package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/treetop-tui/treetop/internal/datasource"
	"github.com/treetop-tui/treetop/pkg/config"
	"github.com/treetop-tui/treetop/pkg/model"
)

// SplitViewThreshold is the terminal width above which the detail pane
// docks beside the outline instead of replacing it.
const SplitViewThreshold = 100

type focus int

const (
	focusOutline focus = iota
	focusDetail
)

// DocumentReloadedMsg arrives when the watched document changed on disk.
type DocumentReloadedMsg struct {
	Doc    *model.Document
	Source datasource.Source
	Err    error
}

// App is the top-level bubbletea model: the outline browser, the detail
// pane, search, and the status bar.
type App struct {
	cfg   config.Config
	prefs *config.Prefs
	theme Theme

	docPath string
	source  datasource.Source
	doc     *model.Document
	tree    *model.Tree

	browser *Browser
	gesture *Gesture

	viewport viewport.Model
	renderer *glamour.TermRenderer
	search   textinput.Model

	focused    focus
	isSplit    bool
	showDetail bool
	showHelp   bool
	searching  bool
	ready      bool

	matches  []*model.Node
	matchIdx int

	status string

	width  int
	height int
}

// NewApp assembles the application model around a loaded document.
func NewApp(doc *model.Document, src datasource.Source, docPath string, cfg config.Config, prefs *config.Prefs, theme Theme) (*App, error) {
	tree, err := doc.BuildTree()
	if err != nil {
		return nil, err
	}

	metrics := Metrics{
		Indent:       cfg.Display.Indent,
		TruncateAt:   cfg.Display.TruncateAt,
		ShowComments: prefs.GetBool(config.PrefShowComments, cfg.Display.ShowComments),
		QuoteLabels:  cfg.Display.QuoteLabels,
	}

	search := textinput.New()
	search.Placeholder = "search"
	search.Prompt = "/"
	search.CharLimit = 120

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)

	a := &App{
		cfg:      cfg,
		prefs:    prefs,
		theme:    theme.ApplyPrefs(prefs),
		docPath:  docPath,
		source:   src,
		doc:      doc,
		tree:     tree,
		browser:  NewBrowser(tree, metrics),
		gesture:  &Gesture{},
		search:   search,
		renderer: renderer,
	}
	a.restoreState()
	return a, nil
}

// Tree exposes the current tree for tests and export hooks.
func (a *App) Tree() *model.Tree { return a.tree }

// Browser exposes the outline browser.
func (a *App) Browser() *Browser { return a.browser }

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case DocumentReloadedMsg:
		a.applyReload(msg)

	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)

	case tea.MouseMsg:
		a.handleMouse(msg)

	case tea.KeyMsg:
		if a.searching {
			return a.updateSearch(msg)
		}
		if a.showHelp {
			switch msg.String() {
			case "esc", "?", "q":
				a.showHelp = false
			}
			return a, nil
		}
		if cmd, handled := a.handleKey(msg); handled {
			return a, cmd
		}
		if a.focused == focusDetail {
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		a.persistState()
		return tea.Quit, true
	case "esc":
		if a.showDetail && !a.isSplit {
			a.showDetail = false
			a.focused = focusOutline
			return nil, true
		}
	case "?":
		a.showHelp = true
		return nil, true
	case "tab":
		if a.isSplit {
			if a.focused == focusOutline {
				a.focused = focusDetail
			} else {
				a.focused = focusOutline
			}
			return nil, true
		}
	}

	if a.focused != focusOutline {
		return nil, false
	}

	switch msg.String() {
	case "j", "down":
		a.moveSelection(1)
	case "k", "up":
		a.moveSelection(-1)
	case "g", "home":
		a.selectRow(0)
	case "G", "end":
		a.selectRow(len(a.browser.rows) - 1)
	case "ctrl+d":
		a.browser.ScrollBy(a.outlineHeight() / 2)
	case "ctrl+u":
		a.browser.ScrollBy(-a.outlineHeight() / 2)
	case "h", "left":
		if n := model.Selection(a.tree); n != nil && n.CanHaveChildren() && !n.Folded {
			a.toggleFold(n)
		}
	case "l", "right":
		if n := model.Selection(a.tree); n != nil && n.CanHaveChildren() && n.Folded {
			a.toggleFold(n)
		}
	case " ":
		if n := model.Selection(a.tree); n != nil && n.CanHaveChildren() {
			a.toggleFold(n)
		}
	case "z":
		model.FoldAll(a.tree)
		a.rebuildKeepScroll()
	case "Z":
		model.UnfoldAll(a.tree)
		a.rebuildKeepScroll()
	case "enter":
		if n := model.Selection(a.tree); n != nil {
			a.openDetail(n)
		}
	case "c":
		m := a.browser.Metrics()
		m.ShowComments = !m.ShowComments
		a.browser.SetMetrics(m)
		a.prefs.Set(config.PrefShowComments, fmt.Sprintf("%v", m.ShowComments))
	case "y":
		a.copySelection()
	case "/":
		a.searching = true
		a.search.SetValue("")
		return a.search.Focus(), true
	case "n":
		a.cycleMatch(1)
	case "N":
		a.cycleMatch(-1)
	default:
		return nil, false
	}
	return nil, true
}

func (a *App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.searching = false
		a.search.Blur()
		return a, nil
	case "enter":
		a.searching = false
		a.search.Blur()
		a.runSearch(a.search.Value())
		return a, nil
	}
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	return a, cmd
}

func (a *App) handleMouse(msg tea.MouseMsg) {
	if msg.Y >= a.outlineHeight() {
		return
	}
	// The gesture machine only sees events inside the outline pane. Events
	// over the detail pane scroll the detail viewport instead.
	if a.showDetail {
		if !a.isSplit {
			a.viewport, _ = a.viewport.Update(msg)
			return
		}
		if w, _ := a.browser.Size(); msg.X >= w {
			a.viewport, _ = a.viewport.Update(msg)
			return
		}
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.browser.ScrollBy(-3)
		return
	case tea.MouseButtonWheelDown:
		a.browser.ScrollBy(3)
		return
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		a.gesture.Press(a.browser, msg.X, msg.Y)
	case tea.MouseActionMotion:
		a.gesture.Move(a.browser, msg.X, msg.Y)
	case tea.MouseActionRelease:
		res := a.gesture.Release(a.browser, msg.X, msg.Y, time.Now(), msg.Ctrl)
		if res.SelectionChanged || res.Toggled != nil {
			a.refreshDetail()
		}
		if res.Opened != nil {
			a.openDetail(res.Opened)
		}
	}
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height
	a.isSplit = width > SplitViewThreshold
	a.ready = true

	if a.isSplit {
		outlineWidth := int(float64(width) * 0.4)
		a.browser.SetSize(outlineWidth, a.outlineHeight())
		a.viewport = viewport.New(width-outlineWidth-4, a.outlineHeight()-2)
		a.renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(a.viewport.Width),
		)
	} else {
		a.browser.SetSize(width, a.outlineHeight())
		a.viewport = viewport.New(width, a.outlineHeight()-2)
	}
	a.refreshDetail()
}

// outlineHeight is the height left for the outline above the status bar.
func (a *App) outlineHeight() int {
	h := a.height - 1
	if h < 0 {
		return 0
	}
	return h
}

func (a *App) moveSelection(delta int) {
	rows := a.browser.rows
	if len(rows) == 0 {
		return
	}
	sel := model.Selection(a.tree)
	idx := -1
	for i, r := range rows {
		if r.node == sel {
			idx = i
			break
		}
	}
	a.selectRow(idx + delta)
}

func (a *App) selectRow(idx int) {
	rows := a.browser.rows
	if len(rows) == 0 {
		return
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(rows) {
		idx = len(rows) - 1
	}
	n := rows[idx].node
	model.Deselect(a.tree)
	n.Selected = true
	a.browser.Reveal(n)
	a.refreshDetail()
}

func (a *App) toggleFold(n *model.Node) {
	model.ToggleFold(n)
	a.rebuildKeepScroll()
}

func (a *App) rebuildKeepScroll() {
	a.browser.SaveScroll()
	a.browser.Rebuild()
	a.browser.RestoreScroll()
}

func (a *App) openDetail(n *model.Node) {
	if !n.Selected {
		model.Deselect(a.tree)
		n.Selected = true
	}
	a.showDetail = true
	if !a.isSplit {
		a.focused = focusDetail
	}
	a.refreshDetail()
}

func (a *App) copySelection() {
	n := model.Selection(a.tree)
	if n == nil {
		return
	}
	if err := clipboard.WriteAll(n.Path()); err != nil {
		a.status = "clipboard unavailable"
		return
	}
	a.status = "copied " + n.Path()
}

func (a *App) runSearch(query string) {
	query = strings.ToLower(strings.TrimSpace(query))
	a.matches = a.matches[:0]
	a.matchIdx = 0
	if query == "" {
		return
	}
	for n := a.tree.First; n != nil; n = n.Next {
		hay := strings.ToLower(n.Name + " " + n.Label + " " + n.Body)
		if strings.Contains(hay, query) {
			a.matches = append(a.matches, n)
		}
	}
	if len(a.matches) == 0 {
		a.status = fmt.Sprintf("no match for %q", query)
		return
	}
	a.status = fmt.Sprintf("%d matches", len(a.matches))
	a.jumpTo(a.matches[0])
}

func (a *App) cycleMatch(dir int) {
	if len(a.matches) == 0 {
		return
	}
	a.matchIdx = (a.matchIdx + dir + len(a.matches)) % len(a.matches)
	a.jumpTo(a.matches[a.matchIdx])
}

// jumpTo selects a node that may be buried under folded ancestors: reveal
// unfolds the chain, relayouts, and scrolls it into view.
func (a *App) jumpTo(n *model.Node) {
	model.Deselect(a.tree)
	n.Selected = true
	a.browser.Reveal(n)
	a.refreshDetail()
}

func (a *App) applyReload(msg DocumentReloadedMsg) {
	if msg.Err != nil {
		a.status = "reload failed: " + msg.Err.Error()
		return
	}
	tree, err := msg.Doc.BuildTree()
	if err != nil {
		a.status = "reload failed: " + err.Error()
		return
	}

	// Carry fold state and selection across by node ID.
	var folded []string
	selected := ""
	for n := a.tree.First; n != nil; n = n.Next {
		if n.Folded {
			folded = append(folded, n.ID)
		}
		if n.Selected {
			selected = n.ID
		}
	}
	a.doc = msg.Doc
	a.source = msg.Source
	a.tree = tree
	applyFolds(tree, folded)
	if n := tree.Find(selected); n != nil {
		n.Selected = true
	}
	a.browser.SetTree(tree)
	a.matches = nil
	a.status = "document reloaded"
	a.refreshDetail()
}

func (a *App) restoreState() {
	st, err := config.LoadState(a.docPath)
	if err != nil {
		return
	}
	applyFolds(a.tree, st.FoldedIDs)
	a.browser.Rebuild()
	if n := a.tree.Find(st.SelectedID); n != nil {
		n.Selected = true
	}
	a.browser.ScrollTo(st.ScrollY)
}

func (a *App) persistState() {
	var folded []string
	selected := ""
	for n := a.tree.First; n != nil; n = n.Next {
		if n.Folded {
			folded = append(folded, n.ID)
		}
		if n.Selected {
			selected = n.ID
		}
	}
	sort.Strings(folded)
	_, y := a.browser.Scroll()
	_ = config.SaveState(a.docPath, config.OutlineState{
		FoldedIDs:  folded,
		SelectedID: selected,
		ScrollY:    y,
	})
	_ = a.prefs.Save()
}

// applyFolds folds the listed containers and restores the visibility
// invariant for every root.
func applyFolds(tree *model.Tree, ids []string) {
	if len(ids) == 0 {
		return
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for n := tree.First; n != nil; n = n.Next {
		if want[n.ID] && n.CanHaveChildren() {
			n.Folded = true
		}
	}
	for n := tree.First; n != nil; n = n.SubtreeEnd() {
		model.UpdateVisibility(n)
	}
}

func (a *App) refreshDetail() {
	n := model.Selection(a.tree)
	if n == nil {
		a.viewport.SetContent("No node selected")
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", n.Title()))
	sb.WriteString(fmt.Sprintf("`%s`\n\n", n.Path()))
	sb.WriteString(fmt.Sprintf("| Kind | Name | Label |\n|---|---|---|\n| %s | %s | %s |\n\n",
		n.TypeName(), n.Name, n.Label))
	if n.Comment != "" {
		sb.WriteString("### Comment\n" + n.Comment + "\n\n")
	}
	if n.Body != "" {
		sb.WriteString("### Body\n```\n" + n.Body + "\n```\n")
	}
	if a.renderer == nil {
		a.viewport.SetContent(sb.String())
		return
	}
	rendered, err := a.renderer.Render(sb.String())
	if err != nil {
		a.viewport.SetContent(sb.String())
		return
	}
	a.viewport.SetContent(rendered)
}

func (a *App) View() string {
	if !a.ready {
		return "Loading outline..."
	}

	var body string
	switch {
	case a.showHelp:
		body = lipgloss.Place(a.width, a.outlineHeight(), lipgloss.Center, lipgloss.Center,
			RenderHelp(a.helpContext(), a.theme, a.width))
	case a.isSplit && a.showDetail:
		outline := RenderOutline(a.browser, a.theme)
		w, _ := a.browser.Size()
		outlinePane := lipgloss.NewStyle().Width(w).Height(a.outlineHeight()).Render(outline)
		detailPane := a.theme.Detail.Width(a.viewport.Width + 2).Render(a.viewport.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, outlinePane, detailPane)
	case a.showDetail:
		body = a.viewport.View()
	default:
		body = lipgloss.NewStyle().Height(a.outlineHeight()).Render(RenderOutline(a.browser, a.theme))
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, a.renderStatusBar())
}

func (a *App) helpContext() Context {
	switch {
	case a.searching:
		return ContextSearch
	case a.focused == focusDetail:
		return ContextDetail
	default:
		return ContextOutline
	}
}

func (a *App) renderStatusBar() string {
	if a.searching {
		return a.search.View()
	}

	left := a.theme.StatusInfo.Render(fmt.Sprintf(" %s ", a.doc.Title))
	counts := fmt.Sprintf(" %d nodes ", a.tree.Len())
	if sel := model.Selection(a.tree); sel != nil {
		counts = fmt.Sprintf(" %s · %d nodes ", sel.Path(), a.tree.Len())
	}
	mid := a.theme.StatusBar.Render(counts)

	msg := ""
	if a.status != "" {
		msg = a.theme.Search.Render(" " + a.status + " ")
	}
	keys := a.theme.StatusBar.Render("j/k nav · h/l fold · / search · ? help · q quit ")

	used := lipgloss.Width(left) + lipgloss.Width(mid) + lipgloss.Width(msg) + lipgloss.Width(keys)
	filler := ""
	if remaining := a.width - used; remaining > 0 {
		filler = strings.Repeat(" ", remaining)
	}
	return left + mid + msg + filler + keys
}
