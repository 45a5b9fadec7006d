// Package sitetest provides site profile fixtures for tests.
package sitetest

import (
	"bytes"
	"embed"
	"testing"

	"wikititle/internal/site"
)

//go:embed testdata/*.json
var fixtures embed.FS

// Sites lists the site ids with a bundled fixture.
var Sites = []string{
	"en.wikipedia.org",
	"en.wiktionary.org",
	"es.wikipedia.org",
	"tr.wikipedia.org",
	"az.wikipedia.org",
	"kk.wikipedia.org",
	"kaa.wikipedia.org",
	"ka.wikipedia.org",
}

// Raw returns the bundled siteinfo response for a site.
func Raw(t testing.TB, siteID string) []byte {
	t.Helper()
	data, err := fixtures.ReadFile("testdata/" + siteID + ".json")
	if err != nil {
		t.Fatalf("no fixture for %s: %v", siteID, err)
	}
	return data
}

// Profile decodes the bundled fixture for a site.
func Profile(t testing.TB, siteID string) *site.Profile {
	t.Helper()
	p, err := site.Decode(bytes.NewReader(Raw(t, siteID)))
	if err != nil {
		t.Fatalf("decoding fixture %s: %v", siteID, err)
	}
	return p
}
