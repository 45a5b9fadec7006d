package site_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"wikititle/internal/site"
	"wikititle/internal/site/sitetest"
)

func TestDecode_FormatVersion2(t *testing.T) {
	p := sitetest.Profile(t, "en.wikipedia.org")

	if p.Lang != "en" {
		t.Errorf("Lang = %q, want en", p.Lang)
	}
	if !strings.Contains(p.LegalTitleChars, `\x80-\xFF`) {
		t.Errorf("LegalTitleChars = %q, expected the high byte range", p.LegalTitleChars)
	}

	project, ok := p.Namespace(4)
	if !ok {
		t.Fatal("namespace 4 missing")
	}
	want := site.NamespaceInfo{ID: 4, Case: site.FirstLetter, Canonical: "Project", Name: "Wikipedia", Subpages: true}
	if diff := cmp.Diff(want, project); diff != "" {
		t.Errorf("namespace 4 mismatch (-want +got):\n%s", diff)
	}

	file, _ := p.Namespace(6)
	if file.Subpages {
		t.Error("File namespace should not allow subpages")
	}
}

func TestDecode_FormatVersion1(t *testing.T) {
	p := sitetest.Profile(t, "en.wiktionary.org")

	appendix, ok := p.Namespace(100)
	if !ok {
		t.Fatal("namespace 100 missing")
	}
	want := site.NamespaceInfo{ID: 100, Case: site.CaseSensitive, Name: "Appendix", Subpages: true}
	if diff := cmp.Diff(want, appendix); diff != "" {
		t.Errorf("namespace 100 mismatch (-want +got):\n%s", diff)
	}

	user, _ := p.Namespace(2)
	if user.Case != site.FirstLetter || !user.Subpages {
		t.Errorf("User namespace = %+v, want first-letter with subpages", user)
	}

	wantAliases := []site.NamespaceAlias{{Alias: "WT", ID: 4}, {Alias: "Image", ID: 6}, {Alias: "Image talk", ID: 7}}
	if diff := cmp.Diff(wantAliases, p.NamespaceAliases); diff != "" {
		t.Errorf("aliases mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_NamespacesSortedByID(t *testing.T) {
	p := sitetest.Profile(t, "en.wikipedia.org")
	for i := 1; i < len(p.Namespaces); i++ {
		if p.Namespaces[i-1].ID >= p.Namespaces[i].ID {
			t.Fatalf("namespaces not in ascending order at %d: %d then %d", i, p.Namespaces[i-1].ID, p.Namespaces[i].ID)
		}
	}
}

func TestDecode_BareQueryObject(t *testing.T) {
	input := `{
		"general": {"lang": "de", "legaltitlechars": "A-Z"},
		"namespaces": {"0": {"id": 0, "case": "first-letter", "*": ""}},
		"namespacealiases": []
	}`
	p, err := site.Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.Lang != "de" || len(p.Namespaces) != 1 {
		t.Errorf("unexpected profile %+v", p)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  site.ErrorType
	}{
		{"malformed", `{"query": `, site.InvalidJSON},
		{"no legal chars", `{"query": {"general": {"lang": "en"}, "namespaces": {"0": {"id": 0}}}}`, site.MissingField},
		{"no namespaces", `{"query": {"general": {"legaltitlechars": "A-Z"}}}`, site.MissingField},
		{"no main namespace", `{"query": {"general": {"legaltitlechars": "A-Z"}, "namespaces": {"1": {"id": 1}}}}`, site.MissingField},
		{"non-integer key", `{"query": {"general": {"legaltitlechars": "A-Z"}, "namespaces": {"main": {"id": 0}}}}`, site.InvalidJSON},
		{"mismatched id", `{"query": {"general": {"legaltitlechars": "A-Z"}, "namespaces": {"0": {"id": 3}}}}`, site.InvalidJSON},
		{"alias without text", `{"query": {"general": {"legaltitlechars": "A-Z"}, "namespaces": {"0": {"id": 0}}, "namespacealiases": [{"id": 6}]}}`, site.MissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := site.Decode(strings.NewReader(tt.input))
			var siteErr *site.Error
			if !errors.As(err, &siteErr) {
				t.Fatalf("expected *site.Error, got %v", err)
			}
			if siteErr.Type != tt.want {
				t.Errorf("error type = %s, want %s", siteErr.Type, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "es.wikipedia.org.json")
	if err := os.WriteFile(path, sitetest.Raw(t, "es.wikipedia.org"), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := site.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	special, _ := p.Namespace(-1)
	if special.Name != "Especial" {
		t.Errorf("special namespace name = %q, want Especial", special.Name)
	}
}

func TestLoad_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	_, err := site.Load(path)

	var siteErr *site.Error
	if !errors.As(err, &siteErr) || siteErr.Type != site.FileNotFound {
		t.Fatalf("expected FILE_NOT_FOUND, got %v", err)
	}
	if siteErr.Path != path {
		t.Errorf("error path = %q, want %q", siteErr.Path, path)
	}
}

func TestLoad_InvalidJSONRecordsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := site.Load(path)

	var siteErr *site.Error
	if !errors.As(err, &siteErr) || siteErr.Type != site.InvalidJSON {
		t.Fatalf("expected INVALID_JSON, got %v", err)
	}
	if siteErr.Path != path {
		t.Errorf("error path = %q, want %q", siteErr.Path, path)
	}
}
