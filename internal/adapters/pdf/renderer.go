package pdf

import (
	"context"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"stagepass/internal/domain"
)

const (
	pageMargin = 15.0
	lineHeight = 7.0
)

type renderer struct{}

// NewRenderer returns a ReportRenderer that produces A4 portrait PDFs.
func NewRenderer() domain.ReportRenderer {
	return &renderer{}
}

func (r *renderer) Render(ctx context.Context, w io.Writer, doc *domain.ReportDocument) error {
	if doc == nil {
		return fmt.Errorf("report document is nil")
	}
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 9, doc.Title, "", "L", false)
	pdf.Ln(2)

	if len(doc.Summary) > 0 {
		pdf.SetFont("Helvetica", "", 10)
		for _, kv := range doc.Summary {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(55, lineHeight, kv[0], "", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, lineHeight, kv[1], "", "L", false)
		}
		pdf.Ln(2)
	}

	for _, note := range doc.Notes {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(0, 5.5, note, "", "L", false)
	}
	if len(doc.Notes) > 0 {
		pdf.Ln(2)
	}

	for _, section := range doc.Sections {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.renderSection(ctx, pdf, &section)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}

func (r *renderer) renderSection(ctx context.Context, pdf *fpdf.Fpdf, section *domain.ReportSection) {
	pageWidth, _ := pdf.GetPageSize()
	printable := pageWidth - 2*pageMargin
	widths := columnWidths(section, printable)

	writeHeader := func(continued bool) {
		title := section.Title
		if continued {
			title += " (continued)"
		}
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 8, title, "", "L", false)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(235, 235, 235)
		for i, h := range section.Headers {
			pdf.CellFormat(widths[i], lineHeight, h, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}

	writeHeader(false)
	_, pageHeight := pdf.GetPageSize()
	for _, row := range section.Rows {
		if ctx.Err() != nil {
			return
		}
		if pdf.GetY()+lineHeight > pageHeight-pageMargin {
			pdf.AddPage()
			writeHeader(true)
		}
		for i := range section.Headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(widths[i], lineHeight, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

// columnWidths scales the section's relative weights to the printable width.
func columnWidths(section *domain.ReportSection, printable float64) []float64 {
	n := len(section.Headers)
	widths := make([]float64, n)
	if len(section.Widths) != n {
		for i := range widths {
			widths[i] = printable / float64(n)
		}
		return widths
	}
	total := 0.0
	for _, w := range section.Widths {
		total += w
	}
	if total <= 0 {
		for i := range widths {
			widths[i] = printable / float64(n)
		}
		return widths
	}
	for i, w := range section.Widths {
		widths[i] = printable * w / total
	}
	return widths
}
