package support

import "testing"

func TestCountryCode(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"data/zones/us.zone", "US"},
		{"de.zone", "DE"},
		{"/tmp/zones/FR.zone", "FR"},
		{"data/zones/gb", "GB"},
	}

	for _, tt := range tests {
		if got := CountryCode(tt.path); got != tt.want {
			t.Fatalf("CountryCode(%q) returned %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestOutputStem(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"data/zones/US.zone", "us"},
		{"de.zone", "de"},
		{"/tmp/zones/fr.zone", "fr"},
	}

	for _, tt := range tests {
		if got := OutputStem(tt.path); got != tt.want {
			t.Fatalf("OutputStem(%q) returned %s, want %s", tt.path, got, tt.want)
		}
	}
}
