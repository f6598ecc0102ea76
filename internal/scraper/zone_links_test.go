package scraper

import (
	"net/url"
	"testing"
)

const indexPage = `<html><body>
<h1>Country IP Blocks</h1>
<ul>
<li><a href="data/countries/af.zone">af.zone</a></li>
<li><a href="data/countries/de.zone">de.zone</a></li>
<li><a href="data/countries/de.zone">de.zone (mirror)</a></li>
<li><a href="data/countries/MD5SUM">MD5SUM</a></li>
<li><a href="data/aggregated/us-aggregated.zone">us-aggregated.zone</a></li>
<li><a href="/other/xx.txt">notes</a></li>
</ul>
</body></html>`

func TestExtractZoneLinks(t *testing.T) {
	base, err := url.Parse("https://example.test/ipblocks/")
	if err != nil {
		t.Fatalf("parsing base url: %v", err)
	}

	links, err := extractZoneLinks(base, []byte(indexPage))
	if err != nil {
		t.Fatalf("extractZoneLinks returned error: %v", err)
	}

	if len(links) != 2 {
		t.Fatalf("extracted %d links, want 2: %v", len(links), links)
	}
	if links[0].Country != "AF" || links[1].Country != "DE" {
		t.Fatalf("extracted countries %s and %s, want AF and DE", links[0].Country, links[1].Country)
	}
	if want := "https://example.test/ipblocks/data/countries/af.zone"; links[0].URL != want {
		t.Fatalf("resolved URL is %s, want %s", links[0].URL, want)
	}
	if links[1].Name != "de.zone" {
		t.Fatalf("link name is %s, want de.zone", links[1].Name)
	}
}

func TestExtractZoneLinksAbsoluteHrefs(t *testing.T) {
	base, err := url.Parse("https://example.test/ipblocks/")
	if err != nil {
		t.Fatalf("parsing base url: %v", err)
	}

	page := `<a href="https://mirror.example/zones/nl.zone">nl</a>`
	links, err := extractZoneLinks(base, []byte(page))
	if err != nil {
		t.Fatalf("extractZoneLinks returned error: %v", err)
	}

	if len(links) != 1 || links[0].URL != "https://mirror.example/zones/nl.zone" {
		t.Fatalf("extracted %v, want the absolute link kept as-is", links)
	}
}

func TestExtractZoneLinksEmptyPage(t *testing.T) {
	base, err := url.Parse("https://example.test/ipblocks/")
	if err != nil {
		t.Fatalf("parsing base url: %v", err)
	}

	links, err := extractZoneLinks(base, []byte("<html><body>nothing here</body></html>"))
	if err != nil {
		t.Fatalf("extractZoneLinks returned error: %v", err)
	}
	if len(links) != 0 {
		t.Fatalf("extracted %d links from a page without anchors", len(links))
	}
}
