package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/treetop-tui/treetop/pkg/config"
	"github.com/treetop-tui/treetop/pkg/model"
)

// Theme holds the resolved styles for every piece of the outline view.
type Theme struct {
	Profile colorprofile.Profile

	Row         lipgloss.Style
	RowSelected lipgloss.Style
	RowPending  lipgloss.Style
	Affordance  lipgloss.Style
	Pushed      lipgloss.Style
	Icon        lipgloss.Style
	Comment     lipgloss.Style

	Label lipgloss.Style
	Class lipgloss.Style
	Func  lipgloss.Style
	Code  lipgloss.Style

	StatusBar  lipgloss.Style
	StatusKey  lipgloss.Style
	StatusInfo lipgloss.Style
	Search     lipgloss.Style
	Detail     lipgloss.Style
}

// DefaultTheme detects the terminal's color capabilities and builds the
// standard palette. Adaptive colors keep the outline readable on both
// light and dark backgrounds.
func DefaultTheme() Theme {
	profile := colorprofile.Detect(os.Stderr, os.Environ())
	return themeWithProfile(profile)
}

// TestTheme renders without color so test assertions see plain text.
func TestTheme() Theme {
	return themeWithProfile(colorprofile.NoTTY)
}

func themeWithProfile(profile colorprofile.Profile) Theme {
	text := lipgloss.AdaptiveColor{Light: "#1a1a2e", Dark: "#e0e0e8"}
	dim := lipgloss.AdaptiveColor{Light: "#6b6b80", Dark: "#8a8a9a"}
	accent := lipgloss.AdaptiveColor{Light: "#0550ae", Dark: "#79b8ff"}
	warm := lipgloss.AdaptiveColor{Light: "#953800", Dark: "#ffa657"}
	green := lipgloss.AdaptiveColor{Light: "#116329", Dark: "#7ee787"}
	selBg := lipgloss.AdaptiveColor{Light: "#d0e2ff", Dark: "#2d4f67"}
	pendBg := lipgloss.AdaptiveColor{Light: "#e8eefc", Dark: "#25374a"}

	t := Theme{
		Profile:     profile,
		Row:         lipgloss.NewStyle().Foreground(text),
		RowSelected: lipgloss.NewStyle().Foreground(text).Background(selBg).Bold(true),
		RowPending:  lipgloss.NewStyle().Foreground(text).Background(pendBg),
		Affordance:  lipgloss.NewStyle().Foreground(dim),
		Pushed:      lipgloss.NewStyle().Foreground(accent).Bold(true),
		Icon:        lipgloss.NewStyle().Foreground(accent),
		Comment:     lipgloss.NewStyle().Foreground(dim).Italic(true),

		Label: lipgloss.NewStyle().Foreground(text),
		Class: lipgloss.NewStyle().Foreground(warm).Bold(true),
		Func:  lipgloss.NewStyle().Foreground(accent),
		Code:  lipgloss.NewStyle().Foreground(green),

		StatusBar:  lipgloss.NewStyle().Foreground(dim),
		StatusKey:  lipgloss.NewStyle().Foreground(accent).Bold(true),
		StatusInfo: lipgloss.NewStyle().Foreground(text),
		Search:     lipgloss.NewStyle().Foreground(warm),
		Detail:     lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(dim),
	}
	if profile == colorprofile.NoTTY || profile == colorprofile.Ascii {
		return stripColors(t)
	}
	return t
}

func stripColors(t Theme) Theme {
	plain := lipgloss.NewStyle()
	t.Row = plain
	t.RowSelected = plain.Reverse(true)
	t.RowPending = plain
	t.Affordance = plain
	t.Pushed = plain
	t.Icon = plain
	t.Comment = plain
	t.Label = plain
	t.Class = plain
	t.Func = plain
	t.Code = plain
	t.StatusBar = plain
	t.StatusKey = plain
	t.StatusInfo = plain
	t.Search = plain
	t.Detail = plain.BorderStyle(lipgloss.RoundedBorder())
	return t
}

// ApplyPrefs overlays persisted display preferences onto the theme. Color
// values are lipgloss color strings (ANSI index or hex); style values pick
// plain, bold, or italic.
func (t Theme) ApplyPrefs(p *config.Prefs) Theme {
	t.Label = overlay(t.Label, p.Get(config.PrefLabelColor, ""), p.GetInt(config.PrefLabelStyle, -1))
	t.Class = overlay(t.Class, p.Get(config.PrefClassColor, ""), p.GetInt(config.PrefClassStyle, -1))
	t.Func = overlay(t.Func, p.Get(config.PrefFuncColor, ""), p.GetInt(config.PrefFuncStyle, -1))
	t.Code = overlay(t.Code, p.Get(config.PrefCodeColor, ""), p.GetInt(config.PrefCodeStyle, -1))
	t.Comment = overlay(t.Comment, p.Get(config.PrefCommentColor, ""), p.GetInt(config.PrefCommentStyle, -1))
	return t
}

func overlay(s lipgloss.Style, color string, style int) lipgloss.Style {
	if color != "" {
		s = s.Foreground(lipgloss.Color(color))
	}
	switch style {
	case config.StylePlain:
		s = s.Bold(false).Italic(false)
	case config.StyleBold:
		s = s.Bold(true).Italic(false)
	case config.StyleItalic:
		s = s.Bold(false).Italic(true)
	}
	return s
}

// textStyle picks the style for a node's primary text by kind.
func (t Theme) textStyle(n *model.Node) lipgloss.Style {
	switch {
	case n.Kind == model.KindClass:
		return t.Class
	case n.Kind == model.KindFunction || n.Kind == model.KindCodeBlock || n.Kind == model.KindDeclBlock:
		return t.Func
	case n.IsCodeLike():
		return t.Code
	default:
		return t.Label
	}
}
