package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/krisfkt/PaddleOCR-Tools/internal/processor"
	"github.com/krisfkt/PaddleOCR-Tools/internal/telemetry"
)

// Format selects the serialization of a processing result.
type Format string

const (
	FormatText Format = "txt"
	FormatDocx Format = "docx"
	FormatPDF  Format = "pdf"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText:
		return FormatText, nil
	case FormatDocx:
		return FormatDocx, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want txt, docx or pdf)", s)
	}
}

// Verbosity selects the report layout. Minimal emits only the accepted
// text under a stable filename (latest result wins); Detailed emits the
// full header/stats/line dump under a timestamped filename (every run
// leaves a new artifact).
type Verbosity int

const (
	Detailed Verbosity = iota
	Minimal
)

// Writer serializes processing results into the output folder.
type Writer struct {
	Folder  string
	PDFFont string // optional TTF path for CJK-capable PDF output
	SaveRaw bool   // also dump the raw engine JSON next to the report
	Stats   bool   // include the statistics block in detailed reports
}

// Write serializes res and returns the path produced.
func (w Writer) Write(res *processor.Result, sourcePath string, format Format, verbosity Verbosity) (string, error) {
	if err := os.MkdirAll(w.Folder, 0o755); err != nil {
		return "", fmt.Errorf("creating output folder %s: %w", w.Folder, err)
	}

	outPath := w.outputPath(sourcePath, format, verbosity, time.Now())

	var err error
	switch format {
	case FormatText:
		err = w.writeText(res, sourcePath, outPath, verbosity)
	case FormatDocx:
		err = w.writeDocx(res, sourcePath, outPath, verbosity)
	case FormatPDF:
		err = w.writePDF(res, sourcePath, outPath, verbosity)
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return "", err
	}

	if w.SaveRaw && len(res.Raw) > 0 {
		rawPath := filepath.Join(w.Folder, baseName(sourcePath)+"_raw.json")
		if err := os.WriteFile(rawPath, res.Raw, 0o644); err != nil {
			telemetry.L().Warn().Err(err).Str("path", rawPath).Msg("could not save raw engine result")
		}
	}

	telemetry.L().Info().Str("output", outPath).Msg("report written")
	return outPath, nil
}

// outputPath is deterministic for minimal verbosity and timestamped for
// detailed verbosity.
func (w Writer) outputPath(sourcePath string, format Format, verbosity Verbosity, now time.Time) string {
	base := baseName(sourcePath)
	if verbosity == Minimal {
		return filepath.Join(w.Folder, fmt.Sprintf("%s_ocr.%s", base, format))
	}
	return filepath.Join(w.Folder, fmt.Sprintf("%s_%s.%s", base, now.Format("20060102_150405"), format))
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
