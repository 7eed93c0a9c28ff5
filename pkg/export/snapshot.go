package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/treetop-tui/treetop/pkg/model"
)

// SnapshotOptions controls outline snapshot export.
type SnapshotOptions struct {
	Path   string // output path; format inferred from extension when Format empty
	Format string // "svg" or "png", case-insensitive
	Title  string
	Tree   *model.Tree
}

// Layout constants, in pixels.
const (
	snapPadding    = 24.0
	snapHeader     = 56.0
	snapRowH       = 26.0
	snapIndent     = 28.0
	snapBoxH       = 20.0
	snapCharW      = 7.0 // basicfont glyph advance
	snapLabelLimit = 48
)

var (
	colorBackdrop  = color.RGBA{0x15, 0x17, 0x21, 0xff}
	colorHeaderBG  = color.RGBA{0x1f, 0x23, 0x35, 0xff}
	colorText      = color.RGBA{0xe6, 0xe6, 0xef, 0xff}
	colorSubtle    = color.RGBA{0x9a, 0x9a, 0xb0, 0xff}
	colorStroke    = color.RGBA{0x3a, 0x3f, 0x58, 0xff}
	colorContainer = color.RGBA{0x2d, 0x4f, 0x67, 0xff}
	colorWidgetBox = color.RGBA{0x35, 0x52, 0x3e, 0xff}
	colorCodeBox   = color.RGBA{0x52, 0x43, 0x35, 0xff}
	colorGuide     = color.RGBA{0x2a, 0x2e, 0x44, 0xff}
)

type snapRow struct {
	node *model.Node
	x, y float64
	w    float64
	text string
}

type snapLayout struct {
	rows   []snapRow
	width  int
	height int
	title  string
	total  int
}

// SaveSnapshot renders the visible outline rows to a static image. Folded
// subtrees are omitted, matching what the browser shows on screen.
func SaveSnapshot(opts SnapshotOptions) error {
	if opts.Tree == nil || opts.Tree.First == nil {
		return fmt.Errorf("no nodes to export")
	}
	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".png":
			format = "png"
		case ".svg":
			format = "svg"
		default:
			format = "svg"
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path += ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent dir: %w", err)
		}
	}

	layout := buildSnapLayout(opts)

	switch format {
	case "png":
		return renderPNG(opts.Path, layout)
	default:
		file, err := os.Create(opts.Path)
		if err != nil {
			return err
		}
		defer file.Close()
		return renderSVGToWriter(file, layout)
	}
}

func buildSnapLayout(opts SnapshotOptions) snapLayout {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = "Outline Snapshot"
	}

	var rows []snapRow
	maxRight := 0.0
	y := snapPadding + snapHeader
	total := 0
	for n := opts.Tree.First; n != nil; n = n.Next {
		total++
		if !n.Visible {
			continue
		}
		text := rowLabel(n)
		x := snapPadding + float64(n.Level)*snapIndent
		w := float64(len(text))*snapCharW + 20
		rows = append(rows, snapRow{node: n, x: x, y: y, w: w, text: text})
		if x+w > maxRight {
			maxRight = x + w
		}
		y += snapRowH
	}

	width := int(maxRight + snapPadding)
	if width < 640 {
		width = 640
	}
	height := int(y + snapPadding)
	if height < 240 {
		height = 240
	}
	return snapLayout{rows: rows, width: width, height: height, title: title, total: total}
}

func rowLabel(n *model.Node) string {
	text := n.TypeName()
	switch {
	case n.IsCodeLike() && n.Body != "":
		text = firstLine(n.Body)
	case n.Name != "":
		text += " " + n.Name
	case n.Label != "":
		text += " \"" + n.Label + "\""
	}
	if r := []rune(text); len(r) > snapLabelLimit {
		text = string(r[:snapLabelLimit-3]) + "..."
	}
	if n.CanHaveChildren() && n.Folded {
		text += " [+]"
	}
	return text
}

func boxColor(n *model.Node) color.RGBA {
	switch {
	case n.CanHaveChildren():
		return colorContainer
	case n.Kind.IsWidget():
		return colorWidgetBox
	default:
		return colorCodeBox
	}
}

func renderPNG(path string, layout snapLayout) error {
	dc := gg.NewContext(layout.width, layout.height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(layout.width)-32, snapHeader-16, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(colorText)
	dc.DrawStringAnchored(layout.title, 32, 34, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(fmt.Sprintf("nodes: %d  visible: %d", layout.total, len(layout.rows)), 32, 52, 0, 0.5)

	// Indent guides connect each row to its parent's column.
	dc.SetColor(colorGuide)
	dc.SetLineWidth(1)
	for _, r := range layout.rows {
		if r.node.Level == 0 {
			continue
		}
		gx := r.x - snapIndent + 8
		dc.DrawLine(gx, r.y+snapBoxH/2, r.x-4, r.y+snapBoxH/2)
		dc.Stroke()
	}

	for _, r := range layout.rows {
		dc.SetColor(boxColor(r.node))
		dc.DrawRoundedRectangle(r.x, r.y, r.w, snapBoxH, 6)
		dc.Fill()
		dc.SetColor(colorStroke)
		dc.SetLineWidth(1.2)
		dc.DrawRoundedRectangle(r.x, r.y, r.w, snapBoxH, 6)
		dc.Stroke()

		dc.SetColor(colorText)
		dc.DrawStringAnchored(r.text, r.x+10, r.y+snapBoxH/2, 0, 0.5)
	}

	return dc.SavePNG(path)
}

func renderSVGToWriter(w io.Writer, layout snapLayout) error {
	canvas := svg.New(w)
	canvas.Start(layout.width, layout.height)
	canvas.Rect(0, 0, layout.width, layout.height, "fill:"+css(colorBackdrop))
	canvas.Roundrect(16, 16, layout.width-32, int(snapHeader-16), 10, 10, "fill:"+css(colorHeaderBG))

	canvas.Text(32, 38, layout.title,
		"fill:"+css(colorText)+";font-size:14px;font-family:monospace;font-weight:bold")
	canvas.Text(32, 54, fmt.Sprintf("nodes: %d  visible: %d", layout.total, len(layout.rows)),
		"fill:"+css(colorSubtle)+";font-size:11px;font-family:monospace")

	for _, r := range layout.rows {
		if r.node.Level == 0 {
			continue
		}
		gx := int(r.x - snapIndent + 8)
		cy := int(r.y + snapBoxH/2)
		canvas.Line(gx, cy, int(r.x-4), cy, "stroke:"+css(colorGuide)+";stroke-width:1")
	}

	for _, r := range layout.rows {
		canvas.Roundrect(int(r.x), int(r.y), int(r.w), int(snapBoxH), 6, 6,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1.2", css(boxColor(r.node)), css(colorStroke)))
		canvas.Text(int(r.x)+10, int(r.y)+14, r.text,
			"fill:"+css(colorText)+";font-size:12px;font-family:monospace")
	}

	canvas.End()
	return nil
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
