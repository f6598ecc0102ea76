package converter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeZone(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), os.ModePerm); err != nil {
		t.Fatalf("writing zone file: %v", err)
	}
	return path
}

func rollSequence(values ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := values[i%len(values)]
		i++
		return v
	}
}

func TestParseZoneFile(t *testing.T) {
	path := writeZone(t, "us.zone", "# header comment\n14.1.64.0/19\n\n999.1.1.1/24\n192.168.1.0/24\n10.0.0.1/32\n")

	zone, warnings, err := LoadZone(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadZone returned error: %v", err)
	}

	if zone.CountryCode != "US" {
		t.Fatalf("country code is %s, want US", zone.CountryCode)
	}
	if zone.TotalRanges != 3 || len(zone.Ranges) != 3 {
		t.Fatalf("parsed %d ranges, want 3", zone.TotalRanges)
	}
	if warnings != 1 {
		t.Fatalf("recorded %d warnings, want 1 for the invalid entry", warnings)
	}
	if want := uint64(8192 + 256 + 1); zone.TotalIPs != want {
		t.Fatalf("total addresses is %d, want %d", zone.TotalIPs, want)
	}
	if zone.SampleRate != 1 {
		t.Fatalf("sample rate is %v, want 1", zone.SampleRate)
	}

	wantOrder := []string{"14.1.64.0/19", "192.168.1.0/24", "10.0.0.1/32"}
	for i, want := range wantOrder {
		if zone.Ranges[i].CIDR != want {
			t.Fatalf("range %d is %s, want %s", i, zone.Ranges[i].CIDR, want)
		}
	}
}

func TestParseZoneFileMissing(t *testing.T) {
	_, _, err := LoadZone(context.Background(), filepath.Join(t.TempDir(), "absent.zone"))
	if !errors.Is(err, ErrFileRead) {
		t.Fatalf("LoadZone returned %v, want ErrFileRead", err)
	}
}

func TestParseZoneFileExpiredContext(t *testing.T) {
	path := writeZone(t, "de.zone", "5.8.0.0/16\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := LoadZone(ctx, path)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("LoadZone returned %v, want context.Canceled", err)
	}
}

func TestParseZoneFileSampleAll(t *testing.T) {
	path := writeZone(t, "sm.zone", "10.0.0.0/24\n10.0.1.0/24\n10.0.2.0/24\n10.0.3.0/24\n")

	keep := &sampler{rate: 0.5, roll: rollSequence(0.9, 0.1, 0.9, 0.1)}
	zone, warnings, err := parseZoneFile(context.Background(), path, keep, true)
	if err != nil {
		t.Fatalf("parseZoneFile returned error: %v", err)
	}
	if warnings != 0 {
		t.Fatalf("recorded %d warnings, want 0", warnings)
	}

	if zone.TotalRanges != 2 {
		t.Fatalf("retained %d ranges, want 2", zone.TotalRanges)
	}
	if zone.Ranges[0].CIDR != "10.0.1.0/24" || zone.Ranges[1].CIDR != "10.0.3.0/24" {
		t.Fatalf("retained %s and %s, want 10.0.1.0/24 and 10.0.3.0/24", zone.Ranges[0].CIDR, zone.Ranges[1].CIDR)
	}
	if want := uint64(512); zone.TotalIPs != want {
		t.Fatalf("total addresses is %d, want %d", zone.TotalIPs, want)
	}
	if zone.SampleRate != 0.5 {
		t.Fatalf("sample rate is %v, want 0.5", zone.SampleRate)
	}
}
