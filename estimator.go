package pdfprep

import "math"

// estimateWindow computes the initial pages-per-segment window from the
// whole-document average bytes per page, discounted by the safety
// margin: max(1, floor(maxSize*margin / (totalSize/pageCount))).
//
// Average bytes per page is a coarse predictor of segment size. It is a
// whole-document property, so the window is estimated once per run and
// re-applied to subsequent segments rather than re-derived; correction
// happens through the partitioner's shrink retries.
func estimateWindow(totalSize int64, pageCount int, maxSize int64, margin float64) int {
	avgBytesPerPage := float64(totalSize) / float64(pageCount)
	window := int(math.Floor(float64(maxSize) * margin / avgBytesPerPage))
	if window < 1 {
		return 1
	}
	return window
}

// shrinkWindow reduces a window by shrinkRatio, removing at least one
// page, never dropping below one.
func shrinkWindow(window int) int {
	step := int(math.Floor(float64(window) * shrinkRatio))
	if step < 1 {
		step = 1
	}
	if window-step < 1 {
		return 1
	}
	return window - step
}
