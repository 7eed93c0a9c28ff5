package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Context identifies which part of the app the help overlay describes.
type Context int

const (
	ContextOutline Context = iota
	ContextDetail
	ContextSearch
)

var contextHelpContent = map[Context]string{
	ContextOutline: contextHelpOutline,
	ContextDetail:  contextHelpDetail,
	ContextSearch:  contextHelpSearch,
}

// HelpFor returns the compact help text for a context.
func HelpFor(ctx Context) string {
	if content, ok := contextHelpContent[ctx]; ok {
		return content
	}
	return contextHelpOutline
}

// RenderHelp renders the compact help modal for the current context.
func RenderHelp(ctx Context, t Theme, width int) string {
	modalWidth := 52
	if modalWidth > width-4 {
		modalWidth = width - 4
	}

	var b strings.Builder
	b.WriteString(t.StatusKey.Render("Quick Reference"))
	b.WriteString("\n")
	b.WriteString(t.StatusBar.Render(strings.Repeat("─", modalWidth-4)))
	b.WriteString("\n\n")
	b.WriteString(t.StatusInfo.Render(HelpFor(ctx)))
	b.WriteString("\n\n")
	b.WriteString(t.Comment.Render("Esc or ? to close"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2).
		Width(modalWidth)
	return modal.Render(b.String())
}

const contextHelpOutline = `Outline

  j/k       Move selection
  h/l       Fold / unfold container
  g/G       Jump to top / bottom
  ctrl+d/u  Half page down / up
  enter     Open detail pane
  z/Z       Fold all / unfold all

  /         Search titles
  n/N       Next / previous match
  c         Toggle comment lines
  y         Copy node path
  q         Quit`

const contextHelpDetail = `Detail

  j/k       Scroll content
  esc       Back to outline
  tab       Switch focus in split view

The pane shows the node's path, kind,
label, comment, and body.`

const contextHelpSearch = `Search

  enter     Jump to first match
  esc       Cancel search
  n/N       Cycle matches afterwards

Matches are case-insensitive over
name, label, and body text.`
