package ocr

import "strings"

// Point is one vertex of a detection polygon, in pixel coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is the bounding geometry the engine reported for a line. It is
// nil when the engine did not report geometry.
type Polygon []Point

// Line is one unit of recognized text. Order among lines from one image is
// recognition order; nothing here reorders spatially.
type Line struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Poly       Polygon `json:"poly,omitempty"`
}

// NormalizedResult is the canonical record set produced from a raw engine
// response. Lines is always non-nil; empty means no text was detected.
type NormalizedResult struct {
	Lines []Line `json:"lines"`
}

// FilteredResult partitions a normalized result by confidence threshold.
// Accepted and Rejected together reconstruct the original sequence, order
// preserved within each subset.
type FilteredResult struct {
	Accepted  []Line  `json:"accepted"`
	Rejected  []Line  `json:"rejected"`
	Threshold float64 `json:"threshold"`
}

// Text joins the accepted lines with newlines, the form every report
// format serializes.
func (f FilteredResult) Text() string {
	texts := make([]string, len(f.Accepted))
	for i, ln := range f.Accepted {
		texts[i] = ln.Text
	}
	return strings.Join(texts, "\n")
}

// AllText joins every normalized line, accepted or not.
func (n NormalizedResult) AllText() string {
	texts := make([]string, len(n.Lines))
	for i, ln := range n.Lines {
		texts[i] = ln.Text
	}
	return strings.Join(texts, "\n")
}
