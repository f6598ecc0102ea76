package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

var zoneNameRe = regexp.MustCompile(`^([a-z]{2})\.zone$`)

// zoneLink is one per-country zone file discovered on the index page.
type zoneLink struct {
	Country string
	Name    string
	URL     string
}

func (s *Scraper) discoverZones(ctx context.Context, base *url.URL) ([]zoneLink, error) {
	body, err := s.fetch(ctx, base.String())
	if err != nil {
		return nil, fmt.Errorf("fetching zone index: %w", err)
	}
	return extractZoneLinks(base, body)
}

// extractZoneLinks walks the index page and collects anchors pointing at
// per-country zone files, deduplicated by country and sorted. Checksum and
// aggregated listings do not match the zone name pattern and are ignored.
func extractZoneLinks(base *url.URL, body []byte) ([]zoneLink, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing zone index: %w", err)
	}

	seen := map[string]bool{}
	var links []zoneLink

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				if link, ok := zoneLinkFrom(base, attr.Val); ok && !seen[link.Country] {
					seen[link.Country] = true
					links = append(links, link)
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	sort.Slice(links, func(i, j int) bool {
		return links[i].Country < links[j].Country
	})
	return links, nil
}

func zoneLinkFrom(base *url.URL, href string) (zoneLink, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return zoneLink{}, false
	}
	resolved := base.ResolveReference(ref)

	name := path.Base(resolved.Path)
	m := zoneNameRe.FindStringSubmatch(name)
	if m == nil {
		return zoneLink{}, false
	}

	return zoneLink{
		Country: strings.ToUpper(m[1]),
		Name:    name,
		URL:     resolved.String(),
	}, true
}
