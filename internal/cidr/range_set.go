package cidr

import (
	"sort"

	"ipranges/internal/domain"
)

// ZoneRange ties a converted range to the country zone it came from.
type ZoneRange struct {
	CountryCode string
	domain.IPRange
}

// RangeSet answers containment queries over a collection of zone ranges.
// Country zone files do not overlap, so a binary search over ranges sorted
// by start address finds the containing block.
type RangeSet struct {
	entries []ZoneRange
}

// NewRangeSet copies the entries and sorts them by numeric start address.
func NewRangeSet(entries []ZoneRange) *RangeSet {
	sorted := append([]ZoneRange(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End < sorted[j].End
		}
		return sorted[i].Start < sorted[j].Start
	})
	return &RangeSet{entries: sorted}
}

// Len returns the number of ranges in the set.
func (s *RangeSet) Len() int {
	return len(s.entries)
}

// Lookup finds the range containing the numeric address.
func (s *RangeSet) Lookup(addr uint32) (ZoneRange, bool) {
	lo, hi := 0, len(s.entries)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case addr < s.entries[mid].Start:
			hi = mid
		case addr > s.entries[mid].End:
			lo = mid + 1
		default:
			return s.entries[mid], true
		}
	}
	return ZoneRange{}, false
}
