// Package export renders a brief session into a fixed-canvas, paginated
// PDF: cover page, sections, annotation cards, saved sources, and a
// per-page footer with a page counter.
package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/MitreaRazvan/wisebrief/internal/annotation"
	"github.com/MitreaRazvan/wisebrief/internal/brief"
)

// A4 portrait in millimetres.
const (
	pageW    = 210.0
	pageH    = 297.0
	margin   = 20.0
	contentW = pageW - margin*2
)

type rgb struct{ r, g, b int }

var (
	colorBg       = rgb{8, 11, 20}
	colorAccent   = rgb{245, 230, 66}
	colorWhite    = rgb{250, 250, 250}
	colorGray     = rgb{160, 168, 184}
	colorDarkGray = rgb{107, 114, 128}
	colorSurface  = rgb{26, 29, 46}
)

// Options describes one export invocation.
type Options struct {
	BrandDescription string
	Sections         []brief.Section
	Annotations      []annotation.Annotation

	// GeneratedAt is stamped on the cover; the zero value means now.
	GeneratedAt time.Time
}

type doc struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// Render produces the encoded PDF. Empty input is not an error: the result
// is a valid document with at least the cover page.
func Render(opts Options) ([]byte, error) {
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}

	highlights, comments, sources := annotation.Partition(opts.Annotations)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")
	d := &doc{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	// Footer on every page: brand tag left, page counter right. The total
	// is an alias substituted once the page count is known, which is the
	// deferred second pass over the already-paginated document.
	brandTag := fmt.Sprintf("Wise Creative Director · %s", opts.BrandDescription)
	pdf.SetFooterFunc(func() {
		pdf.SetFont("Helvetica", "", 7)
		d.setText(colorDarkGray)
		pdf.Text(margin, pageH-8, d.tr(brandTag))
		// Right-align inside a fixed cell ending at the margin. Measuring
		// the alias string instead would misplace the counter once the
		// total is substituted in.
		counter := fmt.Sprintf("%d / {nb}", pdf.PageNo())
		pdf.SetXY(pageW-margin-24, pageH-11)
		pdf.CellFormat(24, 5, counter, "", 0, "R", false, 0, "")
	})

	d.cover(opts, len(highlights), len(comments), len(sources))
	d.sections(opts.Sections)
	if len(highlights) > 0 || len(comments) > 0 {
		d.annotations(highlights, comments)
	}
	if len(sources) > 0 {
		d.sources(sources)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// addPage starts a fresh dark page and returns the reset write cursor.
func (d *doc) addPage() float64 {
	d.pdf.AddPage()
	d.setFill(colorBg)
	d.pdf.Rect(0, 0, pageW, pageH, "F")
	return margin + 10
}

// checkPageBreak starts a new page when a block of the given height would
// cross the bottom margin. Called before every logical block so no block
// is split mid-render.
func (d *doc) checkPageBreak(y, needed float64) float64 {
	if y+needed > pageH-margin {
		return d.addPage()
	}
	return y
}

// lineHeight derives the vertical advance from the font size.
func lineHeight(size float64) float64 {
	return size*0.4 + 1.5
}

type textOpts struct {
	size     float64
	color    rgb
	maxWidth float64
	bold     bool
	italic   bool
	maxLines int // 0 means unlimited
}

// drawText writes wrapped text at (x, y) and returns the advanced cursor.
func (d *doc) drawText(text string, x, y float64, o textOpts) float64 {
	if o.size == 0 {
		o.size = 10
	}
	if o.color == (rgb{}) {
		o.color = colorGray
	}
	if o.maxWidth == 0 {
		o.maxWidth = contentW
	}
	style := ""
	if o.bold {
		style += "B"
	}
	if o.italic {
		style += "I"
	}
	d.pdf.SetFont("Helvetica", style, o.size)
	d.setText(o.color)

	lines := d.pdf.SplitText(d.tr(text), o.maxWidth)
	if o.maxLines > 0 && len(lines) > o.maxLines {
		lines = lines[:o.maxLines]
	}
	lh := lineHeight(o.size)
	for i, line := range lines {
		d.pdf.Text(x, y+float64(i)*lh, line)
	}
	return y + float64(len(lines))*lh
}

// sectionHeader draws the accent-barred uppercase label that opens each
// part of the document.
func (d *doc) sectionHeader(label string, y float64) float64 {
	d.setFill(colorAccent)
	d.pdf.Rect(margin, y-4, 2, 8, "F")
	d.pdf.SetFont("Helvetica", "B", 8)
	d.setText(colorAccent)
	d.pdf.Text(margin+6, y, label)
	return y + 12
}

func (d *doc) cover(opts Options, highlightCount, commentCount, sourceCount int) {
	pdf := d.pdf
	pdf.AddPage()
	d.setFill(colorBg)
	pdf.Rect(0, 0, pageW, pageH, "F")

	// Accent bar down the left edge.
	d.setFill(colorAccent)
	pdf.Rect(0, 0, 4, pageH, "F")

	// Badge.
	d.setFill(colorAccent)
	pdf.RoundedRect(margin, 40, 28, 12, 2, "1234", "F")
	pdf.SetFont("Helvetica", "B", 11)
	d.setText(colorBg)
	pdf.Text(margin+6, 48, "WISE")

	pdf.SetFont("Helvetica", "", 9)
	d.setText(colorDarkGray)
	pdf.Text(margin+32, 48, "AI Creative Director")

	pdf.SetFont("Helvetica", "", 10)
	d.setText(colorAccent)
	pdf.Text(margin, 82, "CREATIVE BRIEF")

	d.drawText(opts.BrandDescription, margin, 90, textOpts{size: 28, color: colorWhite, bold: true})

	pdf.SetFont("Helvetica", "", 9)
	d.setText(colorDarkGray)
	pdf.Text(margin, pageH-20, d.tr("Generated "+opts.GeneratedAt.Format("2 January 2006")))

	stats := []struct {
		value int
		label string
	}{
		{len(opts.Sections), "SECTIONS"},
		{highlightCount, "HIGHLIGHTS"},
		{commentCount, "COMMENTS"},
		{sourceCount, "SOURCES"},
	}
	statsY := pageH - 40
	for i, stat := range stats {
		x := margin + float64(i)*44
		pdf.SetFont("Helvetica", "B", 16)
		d.setText(colorAccent)
		pdf.Text(x, statsY, fmt.Sprintf("%d", stat.value))
		pdf.SetFont("Helvetica", "", 7)
		d.setText(colorDarkGray)
		pdf.Text(x, statsY+5, stat.label)
	}
}

func (d *doc) sections(sections []brief.Section) {
	pdf := d.pdf
	y := d.addPage()
	y = d.sectionHeader("CREATIVE BRIEF", y)

	for idx, section := range sections {
		// Number, title, and at least the first content line stay together.
		y = d.checkPageBreak(y, 30)

		pdf.SetFont("Helvetica", "B", 8)
		d.setText(colorAccent)
		pdf.Text(margin, y, fmt.Sprintf("%02d", idx+1))

		pdf.SetFont("Helvetica", "B", 9)
		d.setText(colorGray)
		pdf.Text(margin+8, y, d.tr(strings.ToUpper(section.Title)))
		y += 6

		// Body is laid out line by line and may continue across a break.
		pdf.SetFont("Helvetica", "", 10)
		d.setText(colorGray)
		lh := lineHeight(10)
		for _, line := range pdf.SplitText(d.tr(section.Content), contentW-8) {
			y = d.checkPageBreak(y, lh)
			pdf.Text(margin+8, y, line)
			y += lh
		}

		y += 4
		pdf.SetDrawColor(60, 64, 80)
		pdf.SetLineWidth(0.2)
		pdf.Line(margin, y, pageW-margin, y)
		y += 8
	}
}

func (d *doc) annotations(highlights, comments []annotation.Annotation) {
	pdf := d.pdf
	y := d.addPage()
	y = d.sectionHeader("ANNOTATIONS", y)

	for _, a := range highlights {
		y = d.checkPageBreak(y, 24)

		d.setFill(colorSurface)
		pdf.RoundedRect(margin, y-4, contentW, 20, 2, "1234", "F")
		d.setFill(colorAccent)
		pdf.Rect(margin, y-4, 2, 20, "F")

		pdf.SetFont("Helvetica", "B", 7)
		d.setText(colorAccent)
		pdf.Text(margin+6, y+1, d.tr("HIGHLIGHT · "+strings.ToUpper(a.SectionTitle)))

		d.drawText(`"`+a.Text+`"`, margin+6, y+7, textOpts{
			size: 9, color: colorWhite, maxWidth: contentW - 12, maxLines: 2,
		})
		y += 26
	}

	for _, a := range comments {
		y = d.checkPageBreak(y, 32)

		d.setFill(colorSurface)
		pdf.RoundedRect(margin, y-4, contentW, 28, 2, "1234", "F")

		pdf.SetFont("Helvetica", "B", 7)
		d.setText(colorDarkGray)
		pdf.Text(margin+6, y+1, d.tr("COMMENT · "+strings.ToUpper(a.SectionTitle)))

		excerpt := a.Text
		if r := []rune(excerpt); len(r) > 100 {
			excerpt = string(r[:100])
		}
		d.drawText(`"`+excerpt+`..."`, margin+6, y+7, textOpts{
			size: 8, color: colorGray, italic: true, maxWidth: contentW - 12, maxLines: 1,
		})

		d.drawText(a.Comment, margin+6, y+14, textOpts{
			size: 9, color: colorWhite, maxWidth: contentW - 12, maxLines: 2,
		})
		y += 34
	}
}

func (d *doc) sources(sources []annotation.Annotation) {
	pdf := d.pdf
	y := d.addPage()
	y = d.sectionHeader("SAVED SOURCES", y)

	for _, a := range sources {
		y = d.checkPageBreak(y, 20)

		d.setFill(colorSurface)
		pdf.RoundedRect(margin, y-4, contentW, 16, 2, "1234", "F")

		title := a.SourceTitle
		if title == "" {
			title = "Source"
		}
		pdf.SetFont("Helvetica", "B", 9)
		d.setText(colorAccent)
		pdf.Text(margin+6, y+2, d.tr(title))

		if a.SourceURL != "" {
			pdf.SetFont("Helvetica", "", 8)
			d.setText(colorDarkGray)
			pdf.SetXY(margin+6, y+5)
			pdf.CellFormat(contentW-12, 5, d.tr(a.SourceURL), "", 0, "L", false, 0, a.SourceURL)
		}
		y += 22
	}
}

func (d *doc) setFill(c rgb) { d.pdf.SetFillColor(c.r, c.g, c.b) }
func (d *doc) setText(c rgb) { d.pdf.SetTextColor(c.r, c.g, c.b) }

var whitespaceRun = regexp.MustCompile(`\s+`)

// Filename derives the download name from the brand description: the first
// 30 characters lowercased with whitespace runs collapsed to hyphens.
func Filename(brand string) string {
	s := brand
	if len(s) > 30 {
		s = s[:30]
	}
	s = whitespaceRun.ReplaceAllString(s, "-")
	return "wise-brief-" + strings.ToLower(s) + ".pdf"
}
