package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
)

// Kind selects the engine backend.
type Kind string

const (
	KindPaddle    Kind = "paddle"
	KindTesseract Kind = "tesseract"
)

// Config is one fully-specified engine candidate. It is fixed once an
// engine instance has been built from it.
type Config struct {
	Kind       Kind
	Lang       string
	AngleClass bool
	UseGPU     bool
	Verbose    bool
	ServerURL  string
}

func (c Config) String() string {
	return fmt.Sprintf("%s(lang=%s angle_cls=%t gpu=%t)", c.Kind, c.Lang, c.AngleClass, c.UseGPU)
}

// Engine is the recognition capability the processor consumes. The raw
// response stays opaque JSON; shape reconciliation is the normalizer's
// job.
type Engine interface {
	Recognize(ctx context.Context, img image.Image) (json.RawMessage, error)
	Describe() string
	Close() error
}

// New constructs an engine instance from one candidate config.
// Construction is where the expensive setup and the server capability
// probe happen; a candidate either comes up here or is abandoned.
func New(cfg Config) (Engine, error) {
	switch cfg.Kind {
	case KindPaddle, "":
		return NewPaddleEngine(cfg)
	case KindTesseract:
		return NewTesseractEngine(cfg)
	default:
		return nil, fmt.Errorf("unknown engine kind: %s", cfg.Kind)
	}
}
