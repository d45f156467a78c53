package ocr

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Stats summarizes one processing call. All counts refer to the filtered
// (accepted) lines except TotalDetected.
type Stats struct {
	ProcessingTime      time.Duration `json:"processing_time"`
	TotalDetected       int           `json:"total_detected"`
	AcceptedCount       int           `json:"accepted_count"`
	TotalChars          int           `json:"total_chars"`
	TotalWords          int           `json:"total_words"`
	ConfidenceThreshold float64       `json:"confidence_threshold"`
	AverageConfidence   float64       `json:"average_confidence"`
}

// ComputeStats derives the read-only statistics from a filtered result.
// AverageConfidence is 0 when nothing was accepted.
func ComputeStats(f FilteredResult, elapsed time.Duration) Stats {
	text := f.Text()

	var sum float64
	for _, ln := range f.Accepted {
		sum += ln.Confidence
	}
	avg := 0.0
	if len(f.Accepted) > 0 {
		avg = sum / float64(len(f.Accepted))
	}

	chars := 0
	if text != "" {
		chars = utf8.RuneCountInString(text)
	}

	return Stats{
		ProcessingTime:      elapsed,
		TotalDetected:       len(f.Accepted) + len(f.Rejected),
		AcceptedCount:       len(f.Accepted),
		TotalChars:          chars,
		TotalWords:          len(strings.Fields(text)),
		ConfidenceThreshold: f.Threshold,
		AverageConfidence:   avg,
	}
}
