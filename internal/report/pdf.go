// Package report renders markdown analysis reports as PDF documents.
package report

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/jung-kurt/gofpdf"
)

const (
	fontFamily = "Helvetica"
	lineHeight = 6.0
	margin     = 15.0
)

var headingSizes = map[int]float64{1: 18, 2: 15, 3: 13}

// WritePDF renders markdown into an A4 PDF and writes it to w. Headings,
// bullet lists, horizontal rules and paragraphs are laid out; other markup is
// printed as text with emphasis markers removed.
func WritePDF(w io.Writer, title, markdown string) error {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(true, margin)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetTitle(title, true)
	doc.SetCreator("pitchdeck", true)
	doc.SetFooterFunc(func() {
		doc.SetY(-margin)
		doc.SetFont(fontFamily, "I", 8)
		doc.CellFormat(0, 10, fmt.Sprintf("%d", doc.PageNo()), "", 0, "C", false, 0, "")
	})
	doc.AddPage()

	text := func(s string) string { return tr(plain(s)) }

	for _, line := range strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			doc.Ln(lineHeight / 2)
		case trimmed == "---" || trimmed == "***":
			y := doc.GetY() + 2
			pageW, _ := doc.GetPageSize()
			doc.Line(margin, y, pageW-margin, y)
			doc.Ln(5)
		case strings.HasPrefix(trimmed, "#"):
			level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
			size, ok := headingSizes[level]
			if !ok {
				size = 12
			}
			doc.Ln(2)
			doc.SetFont(fontFamily, "B", size)
			doc.MultiCell(0, size/2+1, text(strings.TrimSpace(trimmed[level:])), "", "L", false)
			doc.Ln(1)
		case isBullet(trimmed):
			doc.SetFont(fontFamily, "", 11)
			indent := margin + 4 + float64(len(line)-len(strings.TrimLeft(line, " ")))
			doc.SetX(indent)
			doc.CellFormat(5, lineHeight, tr("•"), "", 0, "L", false, 0, "")
			doc.SetLeftMargin(indent + 5)
			doc.MultiCell(0, lineHeight, text(trimmed[2:]), "", "L", false)
			doc.SetLeftMargin(margin)
		default:
			doc.SetFont(fontFamily, "", 11)
			doc.MultiCell(0, lineHeight, text(trimmed), "", "L", false)
		}
	}

	return doc.Output(w)
}

func isBullet(s string) bool {
	return strings.HasPrefix(s, "- ") || strings.HasPrefix(s, "* ") || strings.HasPrefix(s, "+ ")
}

// plain drops emphasis markers and the symbol runes (emoji and friends) the
// core fonts cannot draw.
func plain(s string) string {
	s = strings.NewReplacer("**", "", "__", "", "`", "").Replace(s)
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\u200d' || r == '\ufe0f':
			return -1
		case r > 0xff && unicode.Is(unicode.So, r):
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
