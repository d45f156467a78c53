package ocr

import (
	"encoding/json"
	"testing"
)

func TestNormalize_ObjectShape(t *testing.T) {
	// arrange
	raw := json.RawMessage(`[{"rec_texts":["A","B"],"rec_scores":[0.9,0.4],"rec_polys":[null,null]}]`)

	// act
	result := Normalize(raw)

	// assert
	if len(result.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(result.Lines))
	}
	if result.Lines[0].Text != "A" || result.Lines[0].Confidence != 0.9 {
		t.Errorf("line 0 mismatch: %+v", result.Lines[0])
	}
	if result.Lines[1].Text != "B" || result.Lines[1].Confidence != 0.4 {
		t.Errorf("line 1 mismatch: %+v", result.Lines[1])
	}
}

func TestNormalize_ShortScoresDefaultToOne(t *testing.T) {
	raw := json.RawMessage(`[{"rec_texts":["A","B"],"rec_scores":[0.9]}]`)

	result := Normalize(raw)

	if len(result.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(result.Lines))
	}
	if result.Lines[0].Confidence != 0.9 {
		t.Errorf("expected 0.9 for line 0, got %v", result.Lines[0].Confidence)
	}
	if result.Lines[1].Confidence != 1.0 {
		t.Errorf("expected default 1.0 for line 1, got %v", result.Lines[1].Confidence)
	}
}

func TestNormalize_ExtraScoresIgnored(t *testing.T) {
	raw := json.RawMessage(`[{"rec_texts":["A"],"rec_scores":[0.9,0.8,0.7],"rec_polys":[[[0,0],[10,0],[10,5],[0,5]],[[1,1]]]}]`)

	result := Normalize(raw)

	if len(result.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(result.Lines))
	}
	if len(result.Lines[0].Poly) != 4 {
		t.Errorf("expected 4 polygon points, got %d", len(result.Lines[0].Poly))
	}
	if result.Lines[0].Poly[2] != (Point{X: 10, Y: 5}) {
		t.Errorf("unexpected polygon point: %+v", result.Lines[0].Poly[2])
	}
}

func TestNormalize_MapShape(t *testing.T) {
	// Mixed score types only decode through the loose map path.
	raw := json.RawMessage(`[{"rec_texts":["hello","world"],"rec_scores":["0.75",1]}]`)

	result := Normalize(raw)

	if len(result.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(result.Lines))
	}
	if result.Lines[0].Confidence != 0.75 {
		t.Errorf("expected coerced score 0.75, got %v", result.Lines[0].Confidence)
	}
	if result.Lines[1].Confidence != 1.0 {
		t.Errorf("expected coerced score 1.0, got %v", result.Lines[1].Confidence)
	}
}

func TestNormalize_LegacyShape(t *testing.T) {
	raw := json.RawMessage(`[[[[10,20],[110,20],[110,50],[10,50]],["invoice",0.97]],[[[10,60],[90,60],[90,88],[10,88]],["total",0.42]]]`)

	result := Normalize(raw)

	if len(result.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(result.Lines))
	}
	if result.Lines[0].Text != "invoice" || result.Lines[0].Confidence != 0.97 {
		t.Errorf("line 0 mismatch: %+v", result.Lines[0])
	}
	if len(result.Lines[1].Poly) != 4 {
		t.Errorf("expected geometry on legacy lines, got %d points", len(result.Lines[1].Poly))
	}
}

func TestNormalize_LegacyWrappedPerImage(t *testing.T) {
	raw := json.RawMessage(`[[[[[0,0],[5,0],[5,5],[0,5]],["wrapped",0.8]]]]`)

	result := Normalize(raw)

	if len(result.Lines) != 1 || result.Lines[0].Text != "wrapped" {
		t.Fatalf("expected single wrapped legacy line, got %+v", result.Lines)
	}
}

func TestNormalize_TotalFunction(t *testing.T) {
	// Nothing here should panic or produce a nil Lines slice.
	cases := []struct {
		name string
		raw  json.RawMessage
	}{
		{"nil payload", nil},
		{"empty payload", json.RawMessage(``)},
		{"not json", json.RawMessage(`not json at all`)},
		{"bare string", json.RawMessage(`"text"`)},
		{"number", json.RawMessage(`42`)},
		{"empty array", json.RawMessage(`[]`)},
		{"array of numbers", json.RawMessage(`[1,2,3]`)},
		{"object without rec_texts", json.RawMessage(`[{"other":"field"}]`)},
		{"null", json.RawMessage(`null`)},
		{"truncated", json.RawMessage(`[{"rec_texts":["A"`)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Normalize(tc.raw)
			if result.Lines == nil {
				t.Fatal("Lines must never be nil")
			}
			if len(result.Lines) != 0 {
				t.Errorf("expected empty result, got %d lines", len(result.Lines))
			}
		})
	}
}

func TestNormalize_EmptyRecTexts(t *testing.T) {
	raw := json.RawMessage(`[{"rec_texts":[],"rec_scores":[]}]`)

	result := Normalize(raw)

	if result.Lines == nil {
		t.Fatal("Lines must never be nil")
	}
	if len(result.Lines) != 0 {
		t.Errorf("expected empty result for empty rec_texts, got %d lines", len(result.Lines))
	}
}

func TestDetectShape_Priority(t *testing.T) {
	cases := []struct {
		name     string
		raw      json.RawMessage
		expected Shape
	}{
		{"typed object wins", json.RawMessage(`[{"rec_texts":["A"],"rec_scores":[0.5]}]`), ShapeObject},
		{"loose types fall to map", json.RawMessage(`[{"rec_texts":["A"],"rec_scores":["0.5"]}]`), ShapeMap},
		{"legacy tuples", json.RawMessage(`[[[[0,0],[1,0],[1,1],[0,1]],["x",0.9]]]`), ShapeLegacy},
		{"garbage", json.RawMessage(`{"no":"shape"}`), ShapeUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectShape(tc.raw); got != tc.expected {
				t.Errorf("expected shape %v, got %v", tc.expected, got)
			}
		})
	}
}
