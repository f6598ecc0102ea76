package converter

import (
	"errors"
	"fmt"
	"strings"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatTXT  Format = "txt"

	formatAll = "all"
)

type Layout string

const (
	LayoutRanges Layout = "ranges"
	LayoutIPs    Layout = "ips"
)

var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrUnknownLayout = errors.New("unknown txt layout")
)

// ParseFormats expands comma separated format lists into a deduplicated
// selection, preserving first-seen order. The keyword "all" selects every
// supported format.
func ParseFormats(raw ...string) ([]Format, error) {
	var formats []Format
	seen := map[Format]bool{}

	add := func(f Format) {
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}

	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			if part == formatAll {
				add(FormatJSON)
				add(FormatCSV)
				add(FormatTXT)
				continue
			}
			switch f := Format(part); f {
			case FormatJSON, FormatCSV, FormatTXT:
				add(f)
			default:
				return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, part)
			}
		}
	}

	if len(formats) == 0 {
		return nil, fmt.Errorf("%w: nothing selected", ErrUnknownFormat)
	}
	return formats, nil
}

func ParseLayout(raw string) (Layout, error) {
	switch l := Layout(strings.ToLower(strings.TrimSpace(raw))); l {
	case LayoutRanges, LayoutIPs:
		return l, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownLayout, raw)
	}
}
