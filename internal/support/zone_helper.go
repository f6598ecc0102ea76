package support

import (
	"path/filepath"
	"strings"
)

// CountryCode derives the country code reported for a zone file from its
// file name, e.g. "data/zones/us.zone" yields "US".
func CountryCode(path string) string {
	return strings.ToUpper(stem(path))
}

// OutputStem derives the base name used for converted output files,
// e.g. "data/zones/US.zone" yields "us".
func OutputStem(path string) string {
	return strings.ToLower(stem(path))
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
