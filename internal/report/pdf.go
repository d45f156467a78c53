package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/krisfkt/PaddleOCR-Tools/internal/processor"
)

func (w Writer) writePDF(res *processor.Result, sourcePath, outPath string, verbosity Verbosity) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("PaddleOCR Recognition Result", true)
	pdf.AddPage()

	// Core fonts only cover cp1252; a configured TTF takes over for CJK
	// content, mirroring the optional-font behavior of the text formats.
	family := "Helvetica"
	bold := "B"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	render := tr
	if w.PDFFont != "" {
		if _, err := os.Stat(w.PDFFont); err == nil {
			pdf.AddUTF8Font("report", "", w.PDFFont)
			family = "report"
			bold = ""
			render = func(s string) string { return s }
		}
	}

	if verbosity == Minimal {
		pdf.SetFont(family, "", 11)
		for _, line := range splitParagraphs(res.Filtered.Text()) {
			pdf.MultiCell(0, 6, render(line), "", "L", false)
		}
		return pdf.OutputFileAndClose(outPath)
	}

	pdf.SetFont(family, bold, 16)
	pdf.CellFormat(0, 10, render("PaddleOCR Recognition Result"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(family, "", 11)
	info := fmt.Sprintf("Source file: %s\nProcessed at: %s",
		filepath.Base(sourcePath),
		time.Now().Format("2006-01-02 15:04:05"),
	)
	if w.Stats {
		stats := res.Stats
		info += fmt.Sprintf("\nDetected lines: %d\nAccepted lines: %d\nCharacters: %d\nAverage confidence: %.3f",
			stats.TotalDetected,
			stats.AcceptedCount,
			stats.TotalChars,
			stats.AverageConfidence,
		)
	}
	pdf.MultiCell(0, 6, render(info), "", "L", false)
	pdf.Ln(6)

	pdf.SetFont(family, bold, 13)
	pdf.CellFormat(0, 8, render("Recognized Text"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(family, "", 11)
	for _, line := range splitParagraphs(res.Filtered.Text()) {
		pdf.MultiCell(0, 6, render(line), "", "L", false)
		pdf.Ln(1)
	}

	if len(res.Filtered.Rejected) > 0 {
		pdf.Ln(4)
		pdf.SetFont(family, bold, 13)
		pdf.CellFormat(0, 8, render("Rejected Lines"), "", 1, "L", false, 0, "")
		pdf.SetFont(family, "", 10)
		for i, ln := range res.Filtered.Rejected {
			pdf.MultiCell(0, 5, render(fmt.Sprintf("Line %d: '%s' (confidence: %.3f)", i+1, ln.Text, ln.Confidence)), "", "L", false)
		}
	}

	return pdf.OutputFileAndClose(outPath)
}
