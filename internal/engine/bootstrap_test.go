package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/krisfkt/PaddleOCR-Tools/internal/config"
)

func testAppConfig(lang string) config.Config {
	return config.Default().WithLang(lang)
}

type fakeEngine struct {
	cfg Config
}

func (f *fakeEngine) Recognize(ctx context.Context, img image.Image) (json.RawMessage, error) {
	return json.RawMessage(`[]`), nil
}
func (f *fakeEngine) Describe() string { return "fake " + string(f.cfg.Kind) }
func (f *fakeEngine) Close() error     { return nil }

func TestBootstrap_ThirdCandidateWins(t *testing.T) {
	// arrange
	candidates := []Config{
		{Kind: KindPaddle, Lang: "ch"},
		{Kind: KindPaddle, Lang: "en"},
		{Kind: KindTesseract, Lang: "ch"},
	}
	attempts := make(map[string]int)
	construct := func(cfg Config) (Engine, error) {
		attempts[cfg.String()]++
		if cfg.Kind != KindTesseract {
			return nil, errors.New("refused")
		}
		return &fakeEngine{cfg: cfg}, nil
	}

	// act
	handle, err := bootstrap(candidates, construct)

	// assert
	if err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if handle.ActiveConfig() != candidates[2] {
		t.Errorf("active config should be the third candidate, got %s", handle.ActiveConfig())
	}
	for cfg, n := range attempts {
		if n != 1 {
			t.Errorf("candidate %s attempted %d times, expected exactly once", cfg, n)
		}
	}
	if len(attempts) != 3 {
		t.Errorf("expected 3 candidates attempted, got %d", len(attempts))
	}
}

func TestBootstrap_FirstWinStopsProbing(t *testing.T) {
	candidates := []Config{
		{Kind: KindPaddle, Lang: "ch"},
		{Kind: KindPaddle, Lang: "en"},
	}
	attempts := 0
	construct := func(cfg Config) (Engine, error) {
		attempts++
		return &fakeEngine{cfg: cfg}, nil
	}

	handle, err := bootstrap(candidates, construct)

	if err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if attempts != 1 {
		t.Errorf("remaining candidates must not be tried after a success, got %d attempts", attempts)
	}
	if handle.ActiveConfig() != candidates[0] {
		t.Errorf("unexpected active config %s", handle.ActiveConfig())
	}
}

func TestBootstrap_Exhausted(t *testing.T) {
	candidates := []Config{
		{Kind: KindPaddle, Lang: "ch"},
		{Kind: KindPaddle, Lang: "en"},
	}
	construct := func(cfg Config) (Engine, error) {
		return nil, fmt.Errorf("no server for %s", cfg.Lang)
	}

	_, err := bootstrap(candidates, construct)

	if !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable, got %v", err)
	}
}

func TestBootstrap_NoCandidates(t *testing.T) {
	_, err := bootstrap(nil, func(Config) (Engine, error) {
		t.Fatal("constructor must not be called with no candidates")
		return nil, nil
	})

	if !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable, got %v", err)
	}
}

func TestDefaultCandidates_Ladder(t *testing.T) {
	cfg := testAppConfig("chinese_cht")

	candidates := DefaultCandidates(cfg)

	if len(candidates) != 4 {
		t.Fatalf("expected 4 candidates, got %d", len(candidates))
	}
	if candidates[0].Lang != "chinese_cht" || candidates[0].Kind != KindPaddle {
		t.Errorf("first candidate must carry the configured language, got %s", candidates[0])
	}
	if candidates[1].Lang != "ch" || candidates[2].Lang != "en" {
		t.Errorf("fallback ladder must be ch then en, got %s / %s", candidates[1], candidates[2])
	}
	if candidates[3].Kind != KindTesseract {
		t.Errorf("last candidate must be the local tesseract fallback, got %s", candidates[3])
	}
}
