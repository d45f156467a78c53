package engine

import (
	"errors"
	"fmt"

	"github.com/krisfkt/PaddleOCR-Tools/internal/config"
	"github.com/krisfkt/PaddleOCR-Tools/internal/telemetry"
)

// ErrEngineUnavailable means every candidate configuration failed to
// construct a working engine. Nothing downstream can run without one.
var ErrEngineUnavailable = errors.New("no engine candidate could be initialized")

// Handle is the bootstrapped engine plus the candidate that won. It is
// built once per process; a reconfiguration request builds a new one.
type Handle struct {
	Engine
	cfg Config
}

// ActiveConfig reports the candidate that constructed successfully.
func (h *Handle) ActiveConfig() Config { return h.cfg }

type constructor func(Config) (Engine, error)

// Bootstrap tries each candidate in order and returns a handle around the
// first one that constructs. Each candidate is attempted exactly once; no
// retries, no backoff. When the list is exhausted the error wraps
// ErrEngineUnavailable together with every candidate failure.
func Bootstrap(candidates []Config) (*Handle, error) {
	return bootstrap(candidates, New)
}

func bootstrap(candidates []Config, construct constructor) (*Handle, error) {
	errs := make([]error, 0, len(candidates))
	for _, cand := range candidates {
		telemetry.L().Debug().Stringer("candidate", cand).Msg("trying engine candidate")
		eng, err := construct(cand)
		if err != nil {
			telemetry.L().Warn().Stringer("candidate", cand).Err(err).Msg("engine candidate failed")
			errs = append(errs, fmt.Errorf("%s: %w", cand, err))
			continue
		}
		telemetry.L().Info().Stringer("candidate", cand).Msg("engine initialized")
		return &Handle{Engine: eng, cfg: cand}, nil
	}
	return nil, errors.Join(append([]error{ErrEngineUnavailable}, errs...)...)
}

// DefaultCandidates builds the fallback ladder for a run: the configured
// engine first, then the simplified-Chinese and English paddle presets,
// then the local tesseract backend as a last resort.
func DefaultCandidates(cfg config.Config) []Config {
	return []Config{
		{
			Kind:       KindPaddle,
			Lang:       cfg.Lang,
			AngleClass: cfg.UseAngleCls,
			UseGPU:     cfg.UseGPU,
			Verbose:    cfg.ShowLog,
			ServerURL:  cfg.ServerURL,
		},
		{Kind: KindPaddle, Lang: "ch", AngleClass: true, ServerURL: cfg.ServerURL},
		{Kind: KindPaddle, Lang: "en", AngleClass: true, ServerURL: cfg.ServerURL},
		{Kind: KindTesseract, Lang: cfg.Lang},
	}
}
