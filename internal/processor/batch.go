package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/krisfkt/PaddleOCR-Tools/internal/imageio"
	"github.com/krisfkt/PaddleOCR-Tools/internal/telemetry"
)

// Sink serializes one result and returns the path it wrote. The batch
// runner stays format-agnostic; the caller closes over format and
// verbosity.
type Sink func(res *Result, sourcePath string) (string, error)

// RunBatch processes every supported image in folder, in directory-listing
// order. A per-file failure is recorded and the run continues; the batch
// never aborts over one image. Returns the output paths actually produced
// and the per-file failures.
func (p *Processor) RunBatch(ctx context.Context, folder string, threshold float64, write Sink) ([]string, map[string]error) {
	outputs := []string{}
	failures := map[string]error{}

	entries, err := os.ReadDir(folder)
	if err != nil {
		failures[folder] = fmt.Errorf("reading folder %s: %w", folder, err)
		return outputs, failures
	}

	total := 0
	for _, entry := range entries {
		if entry.IsDir() || !imageio.IsImageFile(entry.Name()) {
			continue
		}
		total++
		path := filepath.Join(folder, entry.Name())

		res, err := p.Process(ctx, path, threshold)
		if err != nil {
			telemetry.L().Warn().Str("image", path).Err(err).Msg("batch item failed")
			failures[path] = err
			continue
		}

		out, err := write(res, path)
		if err != nil {
			telemetry.L().Warn().Str("image", path).Err(err).Msg("writing batch result failed")
			failures[path] = err
			continue
		}
		outputs = append(outputs, out)
	}

	telemetry.L().Info().
		Str("folder", folder).
		Int("total", total).
		Int("succeeded", len(outputs)).
		Int("failed", len(failures)).
		Msg("batch finished")

	return outputs, failures
}
