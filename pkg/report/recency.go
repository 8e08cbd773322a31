package report

import "strings"

// RecencyFunc orders two report files by how recently they were generated.
// It returns a negative number when a is older than b, zero when they rank
// the same and a positive number when a is newer.
type RecencyFunc func(a, b ReportFile) int

// CompareByFileName ranks reports by their file names. The names embed
// zero-padded YYMMDD_HHMMSS so lexicographic order follows generation order.
// Names without a readable timestamp are always older than names with one.
func CompareByFileName(a, b ReportFile) int {
	aKnown := a.Precision != PrecisionUnknown
	bKnown := b.Precision != PrecisionUnknown
	switch {
	case aKnown && !bKnown:
		return 1
	case !aKnown && bKnown:
		return -1
	}
	return strings.Compare(a.FileName, b.FileName)
}

// CompareByGeneratedAt ranks reports by the parsed generation time, falling
// back to CompareByFileName when the times are equal or unknown.
func CompareByGeneratedAt(a, b ReportFile) int {
	if a.Precision != PrecisionUnknown && b.Precision != PrecisionUnknown {
		if c := a.GeneratedAt.Compare(b.GeneratedAt); c != 0 {
			return c
		}
	}
	return CompareByFileName(a, b)
}
