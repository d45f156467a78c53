package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine is the local fallback backend, used when no paddle
// server candidate comes up. It renders the gosseract line output into
// the same rec_texts layout the paddle server produces, so the normalizer
// stays backend-agnostic.
type TesseractEngine struct {
	cfg  Config
	lang string
}

// NewTesseractEngine verifies the tesseract installation can load the
// requested language data before accepting the candidate.
func NewTesseractEngine(cfg Config) (*TesseractEngine, error) {
	lang := tessLang(cfg.Lang)

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(strings.Split(lang, "+")...); err != nil {
		return nil, fmt.Errorf("tesseract language %s unavailable: %w", lang, err)
	}

	return &TesseractEngine{cfg: cfg, lang: lang}, nil
}

func tessLang(lang string) string {
	switch lang {
	case "en":
		return "eng"
	case "chinese_cht":
		return "chi_tra+eng"
	default:
		return "chi_sim+eng"
	}
}

func (t *TesseractEngine) Recognize(ctx context.Context, img image.Image) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding image for tesseract: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(strings.Split(t.lang, "+")...); err != nil {
		return nil, fmt.Errorf("setting tesseract language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return nil, fmt.Errorf("setting page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("setting tesseract image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		// Degrade to plain text with no scores; the normalizer fills in
		// the default confidence.
		text, textErr := client.Text()
		if textErr != nil {
			return nil, fmt.Errorf("tesseract recognition failed: %w", textErr)
		}
		return marshalLines(splitLines(text), nil, nil)
	}

	texts := make([]string, 0, len(boxes))
	scores := make([]float64, 0, len(boxes))
	polys := make([][][]float64, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		texts = append(texts, text)
		scores = append(scores, clamp01(box.Confidence/100))
		polys = append(polys, [][]float64{
			{float64(box.Box.Min.X), float64(box.Box.Min.Y)},
			{float64(box.Box.Max.X), float64(box.Box.Min.Y)},
			{float64(box.Box.Max.X), float64(box.Box.Max.Y)},
			{float64(box.Box.Min.X), float64(box.Box.Max.Y)},
		})
	}
	return marshalLines(texts, scores, polys)
}

func (t *TesseractEngine) Describe() string {
	return fmt.Sprintf("tesseract %s (local)", t.lang)
}

func (t *TesseractEngine) Close() error { return nil }

func marshalLines(texts []string, scores []float64, polys [][][]float64) (json.RawMessage, error) {
	page := map[string]any{"rec_texts": texts}
	if scores != nil {
		page["rec_scores"] = scores
	}
	if polys != nil {
		page["rec_polys"] = polys
	}
	raw, err := json.Marshal([]any{page})
	if err != nil {
		return nil, fmt.Errorf("marshaling tesseract result: %w", err)
	}
	return json.RawMessage(raw), nil
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if lines == nil {
		lines = []string{}
	}
	return lines
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
