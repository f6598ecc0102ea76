package converter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"ipranges/internal/domain"
)

func testOptions(sources []string, outputDir string) Options {
	return Options{
		Sources:    sources,
		OutputDir:  outputDir,
		Formats:    []Format{FormatJSON},
		TXTLayout:  LayoutRanges,
		Threads:    2,
		SampleRate: 1,
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.zone", "a.zone", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("10.0.0.0/8\n"), os.ModePerm); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}

	got, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	want := []string{filepath.Join(dir, "a.zone"), filepath.Join(dir, "b.zone")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Discover returned %v, want %v", got, want)
	}

	single := filepath.Join(dir, "notes.txt")
	got, err = Discover(single)
	if err != nil {
		t.Fatalf("Discover returned error for a file: %v", err)
	}
	if !reflect.DeepEqual(got, []string{single}) {
		t.Fatalf("Discover returned %v, want the file itself", got)
	}

	if _, err := Discover(filepath.Join(dir, "absent")); !errors.Is(err, ErrFileRead) {
		t.Fatalf("Discover returned %v, want ErrFileRead", err)
	}
}

func TestRunWritesAllFormats(t *testing.T) {
	source := writeZone(t, "de.zone", "5.8.0.0/16\n172.16.0.0/18\n")
	outDir := filepath.Join(t.TempDir(), "ranges")

	opts := testOptions([]string{source}, outDir)
	opts.Formats = []Format{FormatJSON, FormatCSV, FormatTXT}

	stats, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if stats.Converted != 1 || stats.Failed != 0 {
		t.Fatalf("stats report %d converted and %d failed, want 1 and 0", stats.Converted, stats.Failed)
	}
	if stats.Files != 3 {
		t.Fatalf("stats report %d files, want 3", stats.Files)
	}
	if stats.Ranges != 2 {
		t.Fatalf("stats report %d ranges, want 2", stats.Ranges)
	}
	if want := uint64(65536 + 16384); stats.Addresses != want {
		t.Fatalf("stats report %d addresses, want %d", stats.Addresses, want)
	}

	for _, name := range []string{"de_ranges.json", "de_ranges.csv", "de_ranges.txt"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("expected output %s: %v", name, err)
		}
	}
}

func TestRunRoundTripAndIdempotence(t *testing.T) {
	source := writeZone(t, "de.zone", "# RIPE block\n5.8.0.0/16\n172.16.0.0/18\n")

	first := filepath.Join(t.TempDir(), "first")
	second := filepath.Join(t.TempDir(), "second")

	if _, err := Run(context.Background(), testOptions([]string{source}, first)); err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}
	if _, err := Run(context.Background(), testOptions([]string{source}, second)); err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}

	a, err := os.ReadFile(filepath.Join(first, "de_ranges.json"))
	if err != nil {
		t.Fatalf("reading first output: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(second, "de_ranges.json"))
	if err != nil {
		t.Fatalf("reading second output: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("two conversions of the same zone produced different output")
	}

	var zone domain.ZoneConversion
	if err := json.Unmarshal(a, &zone); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if zone.CountryCode != "DE" || zone.TotalRanges != 2 {
		t.Fatalf("decoded zone is %s with %d ranges, want DE with 2", zone.CountryCode, zone.TotalRanges)
	}
	if want := uint64(65536 + 16384); zone.TotalIPs != want {
		t.Fatalf("decoded total is %d, want %d", zone.TotalIPs, want)
	}
	if zone.Ranges[0].CIDR != "5.8.0.0/16" || zone.Ranges[1].CIDR != "172.16.0.0/18" {
		t.Fatalf("decoded ranges out of order: %v", zone.Ranges)
	}
}

func TestRunContinuesPastUnreadableSource(t *testing.T) {
	good := writeZone(t, "nl.zone", "145.0.0.0/16\n")
	missing := filepath.Join(t.TempDir(), "xx.zone")
	outDir := filepath.Join(t.TempDir(), "ranges")

	stats, err := Run(context.Background(), testOptions([]string{missing, good}, outDir))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if stats.Failed != 1 || stats.Converted != 1 {
		t.Fatalf("stats report %d failed and %d converted, want 1 and 1", stats.Failed, stats.Converted)
	}
	if _, err := os.Stat(filepath.Join(outDir, "nl_ranges.json")); err != nil {
		t.Fatalf("expected the readable zone to be converted: %v", err)
	}
}

func TestRunPerFileTimeout(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 256; i++ {
		for j := 0; j < 16; j++ {
			fmt.Fprintf(&b, "10.%d.%d.0/24\n", i, j)
		}
	}
	source := writeZone(t, "us.zone", b.String())
	outDir := filepath.Join(t.TempDir(), "ranges")

	opts := testOptions([]string{source}, outDir)
	opts.FileTimeout = time.Nanosecond

	stats, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.Failed != 1 || stats.Converted != 0 {
		t.Fatalf("stats report %d failed and %d converted, want the zone to hit its deadline", stats.Failed, stats.Converted)
	}
}

func TestRunWritesSingleOutputFile(t *testing.T) {
	source := writeZone(t, "fr.zone", "92.128.0.0/9\n")
	outFile := filepath.Join(t.TempDir(), "out", "fr.json")

	opts := testOptions([]string{source}, "")
	opts.OutputFile = outFile

	stats, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.Files != 1 {
		t.Fatalf("stats report %d files, want 1", stats.Files)
	}
	if _, err := os.Stat(outFile); err != nil {
		t.Fatalf("expected output at %s: %v", outFile, err)
	}
}
