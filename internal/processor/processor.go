package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/krisfkt/PaddleOCR-Tools/internal/engine"
	"github.com/krisfkt/PaddleOCR-Tools/internal/imageio"
	"github.com/krisfkt/PaddleOCR-Tools/internal/ocr"
	"github.com/krisfkt/PaddleOCR-Tools/internal/telemetry"
)

// ErrEngineNotReady means Process was called before a successful
// bootstrap.
var ErrEngineNotReady = errors.New("no OCR engine has been bootstrapped")

// ProcessingError wraps any decode or inference failure for one image.
type ProcessingError struct {
	Path string
	Err  error
}

func (e *ProcessingError) Error() string { return fmt.Sprintf("processing %s: %v", e.Path, e.Err) }
func (e *ProcessingError) Unwrap() error { return e.Err }

// Result is everything one processing call produced. It is handed to the
// report sink or the caller and not retained.
type Result struct {
	Source     string
	Raw        json.RawMessage
	Normalized ocr.NormalizedResult
	Filtered   ocr.FilteredResult
	Stats      ocr.Stats
}

// Processor runs the load → recognize → normalize → filter → stats chain
// for single images. It holds no mutable state beyond the engine handle.
type Processor struct {
	handle  *engine.Handle
	timeout time.Duration
}

// New wraps a bootstrapped engine handle. timeout bounds one engine
// invocation; zero disables the bound.
func New(handle *engine.Handle, timeout time.Duration) *Processor {
	return &Processor{handle: handle, timeout: timeout}
}

// Process runs the full chain for one image. Failures: ErrImageNotFound
// when the path does not resolve, ErrEngineNotReady without a bootstrap,
// ProcessingError wrapping anything else.
func (p *Processor) Process(ctx context.Context, path string, threshold float64) (*Result, error) {
	if p == nil || p.handle == nil {
		return nil, ErrEngineNotReady
	}

	start := time.Now()

	img, err := imageio.Load(path)
	if err != nil {
		if errors.Is(err, imageio.ErrImageNotFound) {
			return nil, err
		}
		return nil, &ProcessingError{Path: path, Err: err}
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	raw, err := p.handle.Recognize(ctx, img)
	if err != nil {
		return nil, &ProcessingError{Path: path, Err: err}
	}

	normalized := ocr.Normalize(raw)
	filtered := ocr.Filter(normalized, threshold)
	stats := ocr.ComputeStats(filtered, time.Since(start))

	telemetry.L().Info().
		Str("image", path).
		Int("detected", stats.TotalDetected).
		Int("accepted", stats.AcceptedCount).
		Float64("avg_confidence", stats.AverageConfidence).
		Dur("elapsed", stats.ProcessingTime).
		Msg("image processed")

	return &Result{
		Source:     path,
		Raw:        raw,
		Normalized: normalized,
		Filtered:   filtered,
		Stats:      stats,
	}, nil
}
