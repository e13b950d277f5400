package content

import (
	"cmp"
	"slices"
	"strings"
)

// SortPages orders pages in place. Pages with equal keys keep their relative order.
//
// Pages without the sort key go last under both policies: after the oldest
// page for SortByDate and after the heaviest page for SortByWeight, even though
// weights sort ascending. Give every page a weight to control its position.
func SortPages(pages []*Page, by SortBy) {
	switch by {
	case SortByTitle:
		slices.SortStableFunc(pages, func(a, b *Page) int {
			return strings.Compare(a.Metadata.Title, b.Metadata.Title)
		})
	case SortByDate:
		slices.SortStableFunc(pages, func(a, b *Page) int {
			da, db := a.Metadata.Date, b.Metadata.Date
			if c, ok := absentLast(da == nil, db == nil); ok {
				return c
			}
			return db.Compare(*da)
		})
	case SortByWeight:
		slices.SortStableFunc(pages, func(a, b *Page) int {
			wa, wb := a.Metadata.Weight, b.Metadata.Weight
			if c, ok := absentLast(wa == nil, wb == nil); ok {
				return c
			}
			return cmp.Compare(*wa, *wb)
		})
	}
}

// absentLast orders missing values after present ones. ok is false
// when both values are present and need a real comparison.
func absentLast(aMissing, bMissing bool) (int, bool) {
	switch {
	case aMissing && bMissing:
		return 0, true
	case aMissing:
		return 1, true
	case bMissing:
		return -1, true
	}
	return 0, false
}
