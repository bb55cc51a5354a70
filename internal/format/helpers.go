package format

import "fmt"

// FmtBands summarizes a spectral wavelength list as "31 bands 400..700 nm".
// An empty list yields "none".
func FmtBands(nms []int) string {
	if len(nms) == 0 {
		return "none"
	}
	return fmt.Sprintf("%d bands %d..%d nm", len(nms), nms[0], nms[len(nms)-1])
}

// FmtRange formats a numeric value range as "0.1234 .. 98.7654".
func FmtRange(lo, hi float64) string {
	return fmt.Sprintf("%.4f .. %.4f", lo, hi)
}

// Truncate shortens s to maxLen characters, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// BoolMark returns "✓" for true and "✗" for false.
func BoolMark(v bool) string {
	if v {
		return "✓"
	}
	return "✗"
}
