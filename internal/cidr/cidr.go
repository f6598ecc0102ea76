package cidr

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"ipranges/internal/domain"
)

const ipv4Bits = 32

var (
	// ErrInvalidCIDRFormat reports a line that is not valid IPv4 CIDR notation.
	ErrInvalidCIDRFormat = errors.New("invalid CIDR format")

	// ErrUnsupportedFamily reports an entry for an address family the
	// converter does not handle. IPv6 entries land here.
	ErrUnsupportedFamily = errors.New("unsupported address family")
)

// IsSkippable reports whether a trimmed zone-file line carries no entry:
// blank lines and # comments.
func IsSkippable(line string) bool {
	return line == "" || strings.HasPrefix(line, "#")
}

// Parse splits a trimmed CIDR line into its numeric address and prefix length.
func Parse(line string) (uint32, int, error) {
	addrPart, prefixPart, found := strings.Cut(line, "/")
	if !found {
		return 0, 0, fmt.Errorf("%w: %q has no prefix separator", ErrInvalidCIDRFormat, line)
	}

	if strings.Contains(addrPart, ":") {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnsupportedFamily, line)
	}

	parsed := net.ParseIP(addrPart)
	if parsed == nil || parsed.To4() == nil {
		return 0, 0, fmt.Errorf("%w: bad address in %q", ErrInvalidCIDRFormat, line)
	}

	prefix, err := strconv.Atoi(prefixPart)
	if err != nil || prefix < 0 || prefix > ipv4Bits {
		return 0, 0, fmt.Errorf("%w: bad prefix length in %q", ErrInvalidCIDRFormat, line)
	}

	return addrToUint32(parsed.To4()), prefix, nil
}

// Mask returns the network mask for a prefix length. Prefix 0 and 32 are
// handled explicitly so no shift ever reaches the word size.
func Mask(prefix int) uint32 {
	switch {
	case prefix <= 0:
		return 0
	case prefix >= ipv4Bits:
		return ^uint32(0)
	default:
		return ^uint32(0) << (ipv4Bits - prefix)
	}
}

// Convert turns one CIDR line into its inclusive address range. Host bits in
// the address are masked off rather than rejected, so "192.168.1.5/24" maps
// to the same range as "192.168.1.0/24". The total is held in 64 bits since
// a /0 covers one more address than uint32 can count.
func Convert(line string) (domain.IPRange, error) {
	addr, prefix, err := Parse(line)
	if err != nil {
		return domain.IPRange{}, err
	}

	mask := Mask(prefix)
	network := addr & mask
	broadcast := network | ^mask

	return domain.IPRange{
		CIDR:     line,
		StartIP:  FormatAddr(network),
		EndIP:    FormatAddr(broadcast),
		TotalIPs: uint64(broadcast) - uint64(network) + 1,
		Start:    network,
		End:      broadcast,
	}, nil
}

// ParseAddr converts a bare dotted-quad address to its numeric form.
func ParseAddr(raw string) (uint32, error) {
	if strings.Contains(raw, ":") {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFamily, raw)
	}
	parsed := net.ParseIP(raw)
	if parsed == nil || parsed.To4() == nil {
		return 0, fmt.Errorf("invalid IPv4 address: %q", raw)
	}
	return addrToUint32(parsed.To4()), nil
}

// FormatAddr renders a numeric address as a dotted quad.
func FormatAddr(v uint32) string {
	return net.IPv4(byte(v>>24), byte(v>>16), byte(v>>8), byte(v)).String()
}

func addrToUint32(ip net.IP) uint32 {
	return uint32(ip[0])<<24 | uint32(ip[1])<<16 | uint32(ip[2])<<8 | uint32(ip[3])
}
