package ocr

// Filter partitions the normalized lines by confidence threshold. The
// boundary is inclusive: a line whose confidence equals the threshold is
// accepted. The partition is stable and complete.
func Filter(n NormalizedResult, threshold float64) FilteredResult {
	accepted := make([]Line, 0, len(n.Lines))
	rejected := make([]Line, 0)
	for _, ln := range n.Lines {
		if ln.Confidence >= threshold {
			accepted = append(accepted, ln)
		} else {
			rejected = append(rejected, ln)
		}
	}
	return FilteredResult{Accepted: accepted, Rejected: rejected, Threshold: threshold}
}
