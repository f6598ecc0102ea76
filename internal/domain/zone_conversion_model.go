package domain

// ZoneConversion is the converted form of one country zone file. Field order
// matches the serialized JSON layout; Ranges keeps the input line order.
type ZoneConversion struct {
	CountryCode string    `json:"country_code"`
	TotalRanges int       `json:"total_ranges"`
	TotalIPs    uint64    `json:"total_ips"`
	SampleRate  float64   `json:"sample_rate"`
	Ranges      []IPRange `json:"ranges"`
}
