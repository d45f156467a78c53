package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/krisfkt/PaddleOCR-Tools/internal/ocr"
	"github.com/krisfkt/PaddleOCR-Tools/internal/processor"
)

func (w Writer) writeText(res *processor.Result, sourcePath, outPath string, verbosity Verbosity) error {
	var b strings.Builder

	if verbosity == Minimal {
		b.WriteString(res.Filtered.Text())
		b.WriteString("\n")
		return os.WriteFile(outPath, []byte(b.String()), 0o644)
	}

	b.WriteString("=== PaddleOCR Processing Result ===\n")
	fmt.Fprintf(&b, "Source file: %s\n", filepath.Base(sourcePath))
	fmt.Fprintf(&b, "Processed at: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	if w.Stats {
		writeStatsBlock(&b, res.Stats)
	}

	b.WriteString("=== Recognized Text (filtered) ===\n")
	b.WriteString(res.Filtered.Text())
	b.WriteString("\n\n")

	b.WriteString("=== Line Details ===\n")
	for i, ln := range res.Filtered.Accepted {
		fmt.Fprintf(&b, "Line %d: '%s' (confidence: %.3f)\n", i+1, ln.Text, ln.Confidence)
		if ln.Poly != nil {
			fmt.Fprintf(&b, "  Geometry: %s\n", formatPoly(ln.Poly))
		}
		b.WriteString("\n")
	}

	if len(res.Filtered.Rejected) > 0 {
		b.WriteString("=== Rejected Lines (below threshold) ===\n")
		for i, ln := range res.Filtered.Rejected {
			fmt.Fprintf(&b, "Line %d: '%s' (confidence: %.3f)\n", i+1, ln.Text, ln.Confidence)
		}
	}

	return os.WriteFile(outPath, []byte(b.String()), 0o644)
}

func writeStatsBlock(b *strings.Builder, stats ocr.Stats) {
	b.WriteString("=== Statistics ===\n")
	fmt.Fprintf(b, "Processing time: %.2fs\n", stats.ProcessingTime.Seconds())
	fmt.Fprintf(b, "Detected lines: %d\n", stats.TotalDetected)
	fmt.Fprintf(b, "Accepted lines: %d\n", stats.AcceptedCount)
	fmt.Fprintf(b, "Characters: %d\n", stats.TotalChars)
	fmt.Fprintf(b, "Words: %d\n", stats.TotalWords)
	fmt.Fprintf(b, "Confidence threshold: %.2f\n", stats.ConfidenceThreshold)
	fmt.Fprintf(b, "Average confidence: %.3f\n\n", stats.AverageConfidence)
}

func formatPoly(poly ocr.Polygon) string {
	pts := make([]string, len(poly))
	for i, p := range poly {
		pts[i] = fmt.Sprintf("(%.1f,%.1f)", p.X, p.Y)
	}
	return "[" + strings.Join(pts, " ") + "]"
}
