package pdf

import (
	"math"
	"net/url"
	"sort"
	"strings"
)

// DefaultRowTolerance is the vertical distance within which fragments share a row
const DefaultRowTolerance = 0.5

// Row is a band of fragments that share a vertical position
type Row struct {
	Y         float64
	Fragments []Fragment // sorted left to right
	Indexes   []int      // positions of Fragments in the page slice, same order
}

// Texts returns the text of each cell in the row
func (r Row) Texts() []string {
	out := make([]string, len(r.Fragments))
	for i, f := range r.Fragments {
		out[i] = f.Text
	}
	return out
}

// GroupRows bands a page's fragments into rows for display. Fragments are
// sorted top to bottom and a row collects every fragment within tolerance of
// the row's first fragment. Inside a row, fragments are ordered by ascending X; ties
// keep page order.
func GroupRows(fragments []Fragment, tolerance float64) []Row {
	if len(fragments) == 0 {
		return nil
	}

	order := make([]int, len(fragments))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return fragments[order[i]].Y < fragments[order[j]].Y
	})

	var rows []Row
	var current []int
	anchor := fragments[order[0]].Y

	for _, idx := range order {
		if math.Abs(fragments[idx].Y-anchor) > tolerance {
			rows = append(rows, newRow(fragments, current, anchor))
			current = nil
			anchor = fragments[idx].Y
		}
		current = append(current, idx)
	}
	rows = append(rows, newRow(fragments, current, anchor))

	return rows
}

func newRow(fragments []Fragment, indexes []int, y float64) Row {
	sort.SliceStable(indexes, func(i, j int) bool {
		a, b := fragments[indexes[i]], fragments[indexes[j]]
		if a.X != b.X {
			return a.X < b.X
		}
		return indexes[i] < indexes[j]
	})

	row := Row{
		Y:         y,
		Fragments: make([]Fragment, len(indexes)),
		Indexes:   indexes,
	}
	for i, idx := range indexes {
		row.Fragments[i] = fragments[idx]
	}
	return row
}

// RowAround collects every fragment within tolerance of the fragment at
// anchor, measured from the anchor's own y, ordered by ascending X
func RowAround(fragments []Fragment, anchor int, tolerance float64) Row {
	y := fragments[anchor].Y
	var indexes []int
	for i, f := range fragments {
		if math.Abs(f.Y-y) <= tolerance {
			indexes = append(indexes, i)
		}
	}
	return newRow(fragments, indexes, y)
}

// DecodeText undoes percent-encoding some report generators apply to text.
// Text that is not valid percent-encoding is returned unchanged.
func DecodeText(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
