package ocr

import (
	"encoding/json"
	"strconv"

	"github.com/krisfkt/PaddleOCR-Tools/internal/telemetry"
)

// Shape identifies which of the known engine response layouts a raw
// payload carries.
type Shape int

const (
	// ShapeUnknown is anything the normalizer cannot place.
	ShapeUnknown Shape = iota
	// ShapeObject is the newer API: a sequence whose first element is an
	// object exposing rec_texts with parallel rec_scores/rec_polys.
	ShapeObject
	// ShapeMap is the same layout but loosely typed: a keyed mapping with
	// a rec_texts key whose parallel fields may carry mixed types.
	ShapeMap
	// ShapeLegacy is the old call convention's list-of-tuples:
	// [[poly, [text, score]], ...], possibly wrapped once per image.
	ShapeLegacy
)

func (s Shape) String() string {
	switch s {
	case ShapeObject:
		return "object"
	case ShapeMap:
		return "map"
	case ShapeLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// resultPage is the strictly typed form of the newer API response.
type resultPage struct {
	RecTexts  []string      `json:"rec_texts"`
	RecScores []float64     `json:"rec_scores"`
	RecPolys  [][][]float64 `json:"rec_polys"`
}

// DetectShape classifies raw without converting it. The object form is
// tried before the map form; both lose to ShapeUnknown when the payload is
// not a non-empty sequence.
func DetectShape(raw json.RawMessage) Shape {
	if len(raw) == 0 {
		return ShapeUnknown
	}

	var pages []resultPage
	if err := json.Unmarshal(raw, &pages); err == nil && len(pages) > 0 && pages[0].RecTexts != nil {
		return ShapeObject
	}

	var maps []map[string]any
	if err := json.Unmarshal(raw, &maps); err == nil && len(maps) > 0 {
		if _, ok := maps[0]["rec_texts"]; ok {
			return ShapeMap
		}
	}

	if lines := parseLegacy(raw); lines != nil {
		return ShapeLegacy
	}

	return ShapeUnknown
}

// Normalize converts a raw engine response into the canonical line set. It
// is total: any payload that is not one of the recognized shapes degrades
// to an empty result, never an error.
func Normalize(raw json.RawMessage) NormalizedResult {
	shape := DetectShape(raw)
	switch shape {
	case ShapeObject:
		var pages []resultPage
		if err := json.Unmarshal(raw, &pages); err != nil || len(pages) == 0 {
			return empty()
		}
		p := pages[0]
		return NormalizedResult{Lines: zipLines(p.RecTexts, p.RecScores, polysFromFloats(p.RecPolys))}
	case ShapeMap:
		var maps []map[string]any
		if err := json.Unmarshal(raw, &maps); err != nil || len(maps) == 0 {
			return empty()
		}
		return normalizeMap(maps[0])
	case ShapeLegacy:
		return NormalizedResult{Lines: parseLegacy(raw)}
	default:
		telemetry.L().Debug().Int("bytes", len(raw)).Msg("unrecognized engine response shape, returning empty result")
		return empty()
	}
}

func empty() NormalizedResult {
	return NormalizedResult{Lines: []Line{}}
}

// zipLines pairs texts with scores and polys by index. Short or absent
// score/poly arrays fill with defaults (1.0, nil); extra entries beyond
// the texts are ignored.
func zipLines(texts []string, scores []float64, polys []Polygon) []Line {
	lines := make([]Line, 0, len(texts))
	for i, text := range texts {
		conf := 1.0
		if i < len(scores) {
			conf = scores[i]
		}
		var poly Polygon
		if i < len(polys) {
			poly = polys[i]
		}
		lines = append(lines, Line{Text: text, Confidence: conf, Poly: poly})
	}
	return lines
}

func normalizeMap(m map[string]any) NormalizedResult {
	rawTexts, ok := m["rec_texts"].([]any)
	if !ok {
		return empty()
	}

	texts := make([]string, 0, len(rawTexts))
	for _, t := range rawTexts {
		s, ok := t.(string)
		if !ok {
			continue
		}
		texts = append(texts, s)
	}

	var scores []float64
	if rawScores, ok := m["rec_scores"].([]any); ok {
		scores = make([]float64, 0, len(rawScores))
		for _, v := range rawScores {
			f, ok := asFloat(v)
			if !ok {
				f = 1.0
			}
			scores = append(scores, f)
		}
	}

	var polys []Polygon
	if rawPolys, ok := m["rec_polys"].([]any); ok {
		polys = make([]Polygon, 0, len(rawPolys))
		for _, v := range rawPolys {
			polys = append(polys, polyFromAny(v))
		}
	}

	return NormalizedResult{Lines: zipLines(texts, scores, polys)}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func polysFromFloats(raw [][][]float64) []Polygon {
	if raw == nil {
		return nil
	}
	polys := make([]Polygon, 0, len(raw))
	for _, p := range raw {
		var poly Polygon
		for _, pt := range p {
			if len(pt) < 2 {
				continue
			}
			poly = append(poly, Point{X: pt[0], Y: pt[1]})
		}
		polys = append(polys, poly)
	}
	return polys
}

func polyFromAny(v any) Polygon {
	pts, ok := v.([]any)
	if !ok {
		return nil
	}
	var poly Polygon
	for _, p := range pts {
		pair, ok := p.([]any)
		if !ok || len(pair) < 2 {
			continue
		}
		x, okX := asFloat(pair[0])
		y, okY := asFloat(pair[1])
		if !okX || !okY {
			continue
		}
		poly = append(poly, Point{X: x, Y: y})
	}
	return poly
}

// parseLegacy decodes the pre-3.x list-of-tuples layout. It returns nil
// when raw does not carry it, which doubles as the shape check.
func parseLegacy(raw json.RawMessage) []Line {
	var outer []json.RawMessage
	if err := json.Unmarshal(raw, &outer); err != nil || len(outer) == 0 {
		return nil
	}

	if lines := parseLegacyLines(outer); lines != nil {
		return lines
	}

	// The old API wraps the per-image line list once more.
	var inner []json.RawMessage
	if err := json.Unmarshal(outer[0], &inner); err != nil || len(inner) == 0 {
		return nil
	}
	return parseLegacyLines(inner)
}

func parseLegacyLines(entries []json.RawMessage) []Line {
	lines := make([]Line, 0, len(entries))
	for _, entry := range entries {
		var tuple []json.RawMessage
		if err := json.Unmarshal(entry, &tuple); err != nil || len(tuple) != 2 {
			return nil
		}

		var coords [][]float64
		if err := json.Unmarshal(tuple[0], &coords); err != nil {
			return nil
		}

		var rec []any
		if err := json.Unmarshal(tuple[1], &rec); err != nil || len(rec) < 1 {
			return nil
		}
		text, ok := rec[0].(string)
		if !ok {
			return nil
		}
		conf := 1.0
		if len(rec) > 1 {
			if f, ok := asFloat(rec[1]); ok {
				conf = f
			}
		}

		var poly Polygon
		for _, pt := range coords {
			if len(pt) < 2 {
				continue
			}
			poly = append(poly, Point{X: pt[0], Y: pt[1]})
		}
		lines = append(lines, Line{Text: text, Confidence: conf, Poly: poly})
	}
	if len(lines) == 0 {
		return nil
	}
	return lines
}
