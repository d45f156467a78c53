package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gingfrederik/docx"

	"github.com/krisfkt/PaddleOCR-Tools/internal/processor"
)

func (w Writer) writeDocx(res *processor.Result, sourcePath, outPath string, verbosity Verbosity) error {
	f := docx.NewFile()

	if verbosity == Minimal {
		for _, line := range splitParagraphs(res.Filtered.Text()) {
			f.AddParagraph().AddText(line)
		}
		return f.Save(outPath)
	}

	f.AddParagraph().AddText("PaddleOCR Recognition Result").Size(28)
	f.AddParagraph().AddText(fmt.Sprintf("Source file: %s", filepath.Base(sourcePath)))
	f.AddParagraph().AddText(fmt.Sprintf("Processed at: %s", time.Now().Format("2006-01-02 15:04:05")))
	f.AddParagraph()

	if w.Stats {
		stats := res.Stats
		f.AddParagraph().AddText("Statistics").Size(22)
		f.AddParagraph().AddText(fmt.Sprintf("Processing time: %.2fs", stats.ProcessingTime.Seconds()))
		f.AddParagraph().AddText(fmt.Sprintf("Detected lines: %d", stats.TotalDetected))
		f.AddParagraph().AddText(fmt.Sprintf("Accepted lines: %d", stats.AcceptedCount))
		f.AddParagraph().AddText(fmt.Sprintf("Characters: %d", stats.TotalChars))
		f.AddParagraph().AddText(fmt.Sprintf("Average confidence: %.3f", stats.AverageConfidence))
		f.AddParagraph()
	}

	f.AddParagraph().AddText(strings.Repeat("=", 50))
	f.AddParagraph().AddText("Recognized Text").Size(22)
	for _, line := range splitParagraphs(res.Filtered.Text()) {
		f.AddParagraph().AddText(line)
	}

	if len(res.Filtered.Rejected) > 0 {
		f.AddParagraph()
		f.AddParagraph().AddText("Rejected Lines").Size(22)
		for i, ln := range res.Filtered.Rejected {
			f.AddParagraph().AddText(fmt.Sprintf("Line %d: '%s' (confidence: %.3f)", i+1, ln.Text, ln.Confidence))
		}
	}

	return f.Save(outPath)
}

func splitParagraphs(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
