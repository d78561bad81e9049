package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
	"github.com/google/uuid"
)

// inlineStampRE matches [MM:SS]-style markers in exported text. They are
// navigation anchors for the frontend, noise on paper.
var inlineStampRE = regexp.MustCompile(`\s*\[\d{1,3}:\d{2}(?::\d{2})?\]`)

// ExportSummaryPDF renders a markdown summary to an A4 PDF and returns the
// written file path. The file lands in the OS temp dir under a unique name;
// callers stream it and may remove it afterwards.
func ExportSummaryPDF(input PDFExportInput) (string, error) {
	IncrPDFExports()

	title := strings.TrimSpace(input.VideoTitle)
	if title == "" {
		title = "Video Summary"
	}
	summary := inlineStampRE.ReplaceAllString(input.Summary, "")

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(15, 20, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, tr(title), "", "L", false)
	pdf.Ln(4)

	doc := parser.NewWithExtensions(parser.CommonExtensions).Parse([]byte(summary))
	for _, block := range doc.GetChildren() {
		writePDFBlock(pdf, tr, block)
	}

	path := filepath.Join(os.TempDir(), fmt.Sprintf("summary_%s.pdf", uuid.NewString()))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("pdf export: %w", err)
	}
	return path, nil
}

// writePDFBlock lays out one top-level markdown block.
func writePDFBlock(pdf *fpdf.Fpdf, tr func(string) string, block ast.Node) {
	switch n := block.(type) {
	case *ast.Heading:
		size := 16 - 2*float64(n.Level)
		if size < 10 {
			size = 10
		}
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", size)
		pdf.MultiCell(0, 7, tr(inlineText(n)), "", "L", false)
		pdf.Ln(1)
	case *ast.List:
		pdf.SetFont("Helvetica", "", 11)
		for _, item := range n.GetChildren() {
			pdf.MultiCell(0, 6, tr("- "+inlineText(item)), "", "L", false)
		}
		pdf.Ln(2)
	default:
		text := inlineText(block)
		if text == "" {
			return
		}
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(text), "", "L", false)
		pdf.Ln(2)
	}
}

// inlineText flattens a block's inline children to plain text.
func inlineText(node ast.Node) string {
	var sb strings.Builder
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Literal)
		case *ast.Code:
			sb.Write(t.Literal)
		}
		return ast.GoToNext
	})
	return strings.TrimSpace(sb.String())
}
