package domain

// IPRange is one CIDR block converted to its inclusive address bounds. The
// serialized fields carry the dotted-quad rendering; Start and End hold the
// numeric form for sorting, sampling and lookups.
type IPRange struct {
	CIDR     string `json:"cidr"`
	StartIP  string `json:"start_ip"`
	EndIP    string `json:"end_ip"`
	TotalIPs uint64 `json:"total_ips"`

	Start uint32 `json:"-"`
	End   uint32 `json:"-"`
}

// Contains reports whether the numeric address falls inside the range.
func (r IPRange) Contains(addr uint32) bool {
	return addr >= r.Start && addr <= r.End
}
