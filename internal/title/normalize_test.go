package title

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"wikititle/internal/legalchars"
	"wikititle/internal/namespace"
	"wikititle/internal/site"
	"wikititle/internal/site/sitetest"
)

func TestNormalize_InvalidTitles(t *testing.T) {
	en := sitetest.Profile(t, "en.wikipedia.org")

	tests := []struct {
		text string
		want Kind
	}{
		{"foo\uFFFD", InvalidUTF8},
		{"foo\xff", InvalidUTF8},
		{"", InvalidEmpty},
		{":", InvalidEmpty},
		{"__  __", InvalidEmpty},
		{"  __  ", InvalidEmpty},
		{"A [ B", InvalidCharacters},
		{"A ] B", InvalidCharacters},
		{"A { B", InvalidCharacters},
		{"A } B", InvalidCharacters},
		{"A < B", InvalidCharacters},
		{"A > B", InvalidCharacters},
		{"A | B", InvalidCharacters},
		{"A%20B", InvalidCharacters},
		{"A%23B", InvalidCharacters},
		{"A%2523B", InvalidCharacters},
		{"A &eacute; B", InvalidCharacters},
		{"Talk:File:Example.svg", InvalidTalkNamespace},
		{".", InvalidRelative},
		{"..", InvalidRelative},
		{"./Sandbox", InvalidRelative},
		{"../Sandbox", InvalidRelative},
		{"Foo/./Sandbox", InvalidRelative},
		{"Foo/../Sandbox", InvalidRelative},
		{"Sandbox/.", InvalidRelative},
		{"Sandbox/..", InvalidRelative},
		{"A ~~~ Name", InvalidMagicTilde},
		{"A ~~~~ Signature", InvalidMagicTilde},
		{"A ~~~~~ Timestamp", InvalidMagicTilde},
		{strings.Repeat("x", 257), InvalidTooLong},
		{"Special:" + strings.Repeat("x", 513), InvalidTooLong},
		{strings.Repeat("\U0001F340", 64), InvalidTooLong},
		{"Talk:", InvalidEmpty},
		{"Talk:#", InvalidEmpty},
		{"Category: ", InvalidEmpty},
		{"Category: #bar", InvalidEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := NewFromText(tt.text, en)
			if err == nil {
				t.Fatalf("NewFromText(%q) = %q, want %s", tt.text, got, tt.want)
			}
			if kind := KindOf(err); kind != tt.want {
				t.Errorf("NewFromText(%q) error kind = %q, want %q (%v)", tt.text, kind, tt.want, err)
			}
		})
	}
}

func TestNormalize_ErrorDetails(t *testing.T) {
	en := sitetest.Profile(t, "en.wikipedia.org")

	_, err := NewFromText("A [ B", en)
	var titleErr *Error
	if !errors.As(err, &titleErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	want := &Error{Kind: InvalidCharacters, Title: "A_[_B", Span: "["}
	if diff := cmp.Diff(want, titleErr); diff != "" {
		t.Errorf("invalid characters error mismatch (-want +got):\n%s", diff)
	}

	_, err = NewFromText("Special:"+strings.Repeat("x", 513), en)
	if !errors.As(err, &titleErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if titleErr.MaxLength != MaxSpecialLength {
		t.Errorf("MaxLength = %d, want %d", titleErr.MaxLength, MaxSpecialLength)
	}

	_, err = NewFromText(strings.Repeat("x", 256), en)
	if !errors.As(err, &titleErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if titleErr.MaxLength != MaxLength {
		t.Errorf("MaxLength = %d, want %d", titleErr.MaxLength, MaxLength)
	}
	if !strings.HasPrefix(titleErr.Error(), string(InvalidTooLong)) {
		t.Errorf("Error() = %q, want prefix %q", titleErr.Error(), InvalidTooLong)
	}
}

func TestNormalize_ValidTitles(t *testing.T) {
	en := sitetest.Profile(t, "en.wikipedia.org")

	valid := []string{
		"Sandbox",
		`A "B"`,
		"A 'B'",
		".com",
		"~",
		"#",
		"Test#Abc",
		`"`,
		"'",
		"Talk:Sandbox",
		"Talk:Foo:Sandbox",
		"File:Example.svg",
		"File_talk:Example.svg",
		"Foo/.../Sandbox",
		"Sandbox/...",
		"A~~",
		":A",
		"Category:" + strings.Repeat("x", 247),
		"Special:" + strings.Repeat("x", 499),
		strings.Repeat("x", 251),
		strings.Repeat("x", 255),
		strings.Repeat("\U0001F340", 63),
		"-",
		"aũ",
		`"Believing_Women"_in_Islam._Unreading_Patriarchal_Interpretations_of_the_Qur\'Än`,
	}

	other, err := NewFromText("NOT EQUAL TO ANYTHING", en)
	if err != nil {
		t.Fatalf("NewFromText: %v", err)
	}

	for _, text := range valid {
		name := text
		if len(name) > 20 {
			name = name[:20] + "..."
		}
		t.Run(name, func(t *testing.T) {
			t1, err := NewFromText(text, en)
			if err != nil {
				t.Fatalf("NewFromText(%q) failed: %v", text, err)
			}
			t2, err := NewFromText(" "+text+"_", en)
			if err != nil {
				t.Fatalf("NewFromText(%q) failed: %v", " "+text+"_", err)
			}
			if !t1.Equals(t2) || !t2.Equals(t1) {
				t.Errorf("%q and its padded form are not equal: %q vs %q", text, t1, t2)
			}
			if t1.Equals(other) || other.Equals(t1) {
				t.Errorf("%q unexpectedly equals %q", t1, other)
			}
		})
	}
}

func TestNormalize_PrefixedDBKey(t *testing.T) {
	tests := []struct {
		site string
		text string
		want string
	}{
		{"en.wikipedia.org", "Test", "Test"},
		{"en.wikipedia.org", ":Test", "Test"},
		{"en.wikipedia.org", ": Test", "Test"},
		{"en.wikipedia.org", ":_Test_", "Test"},
		{"en.wikipedia.org", "Test 123  456   789", "Test_123_456_789"},
		{"en.wikipedia.org", "\U0001F4A9", "\U0001F4A9"},
		{"en.wikipedia.org", "Foo:bar", "Foo:bar"},
		{"en.wikipedia.org", "Talk: foo", "Talk:Foo"},
		{"en.wikipedia.org", "int:eger", "Int:eger"},
		{"en.wikipedia.org", "WP:eger", "Wikipedia:Eger"},
		{"en.wikipedia.org", "X-Men (film series) #Gambit", "X-Men_(film_series)"},
		{"en.wikipedia.org", "Foo _ bar", "Foo_bar"},
		{"en.wiktionary.org", "cat", "cat"},
		{"en.wiktionary.org", "Appendix:Glossary", "Appendix:Glossary"},
		{"en.wikipedia.org", "Foo \u00A0\u1680\u180E\u2000\u2001\u2002\u2003\u2004\u2005\u2006\u2007\u2008\u2009\u200A\u2028\u2029\u202F\u205F\u3000 bar", "Foo_bar"},
		{"en.wikipedia.org", "Foo\u200E\u200F\u202A\u202B\u202C\u202D\u202Ebar", "Foobar"},
		{"en.wikipedia.org", "Soft\u00ADhyphen", "Softhyphen"},

		// dotted capital I
		{"tr.wikipedia.org", "iTestTest", "İTestTest"},
		{"az.wikipedia.org", "iTestTest", "İTestTest"},
		{"kk.wikipedia.org", "iTestTest", "İTestTest"},
		{"kaa.wikipedia.org", "iTestTest", "İTestTest"},
		{"en.wikipedia.org", "iTestTest", "ITestTest"},

		// user IP addresses
		{"en.wikipedia.org", "User:::1", "User:0:0:0:0:0:0:0:1"},
		{"en.wikipedia.org", "User:0:0:0:0:0:0:0:1", "User:0:0:0:0:0:0:0:1"},
		{"en.wikipedia.org", "User:127.000.000.001", "User:127.0.0.1"},
		{"en.wikipedia.org", "User:0.0.0.0", "User:0.0.0.0"},
		{"en.wikipedia.org", "User:00.00.00.00", "User:0.0.0.0"},
		{"en.wikipedia.org", "User:000.000.000.000", "User:0.0.0.0"},
		{"en.wikipedia.org", "User:141.000.011.253", "User:141.0.11.253"},
		{"en.wikipedia.org", "User: 1.2.4.5", "User:1.2.4.5"},
		{"en.wikipedia.org", "User:01.02.04.05", "User:1.2.4.5"},
		{"en.wikipedia.org", "User:001.002.004.005", "User:1.2.4.5"},
		{"en.wikipedia.org", "User:010.0.000.1", "User:10.0.0.1"},
		{"en.wikipedia.org", "User:080.072.250.04", "User:80.72.250.4"},
		{"en.wikipedia.org", "User:Foo.1000.00", "User:Foo.1000.00"},
		{"en.wikipedia.org", "User:Bar.01", "User:Bar.01"},
		{"en.wikipedia.org", "User:Bar.010", "User:Bar.010"},
		{"en.wikipedia.org", "User:cebc:2004:f::", "User:CEBC:2004:F:0:0:0:0:0"},
		{"en.wikipedia.org", "User:::", "User:0:0:0:0:0:0:0:0"},
		{"en.wikipedia.org", "User:0:0:0:1::", "User:0:0:0:1:0:0:0:0"},
		{"en.wikipedia.org", "User:3f:535::e:fbb", "User:3F:535:0:0:0:0:E:FBB"},
		{"en.wikipedia.org", "User Talk:::1", "User_talk:0:0:0:0:0:0:0:1"},
		{"en.wikipedia.org", "User_Talk:::1", "User_talk:0:0:0:0:0:0:0:1"},
		{"en.wikipedia.org", "User_talk:::1", "User_talk:0:0:0:0:0:0:0:1"},
		{"en.wikipedia.org", "User_talk:::1/24", "User_talk:0:0:0:0:0:0:0:1/24"},
		{"en.wikipedia.org", "Talk:::1", "Talk:::1"},

		// case modes
		{"en.wikipedia.org", "user:pchelolo", "User:Pchelolo"},
		{"en.wiktionary.org", "user:pchelolo", "User:Pchelolo"},
		{"en.wikipedia.org", "list of Neighbours characters (2016)#Tom Quill", "List_of_Neighbours_characters_(2016)"},

		// special pages
		{"en.wikipedia.org", "Special:NotSpecial", "Special:NotSpecial"},
		{"en.wikipedia.org", "Special:Lonelypages", "Special:LonelyPages"},
		{"en.wikipedia.org", "Special:lonelypages", "Special:LonelyPages"},
		{"en.wikipedia.org", "Special:OrphanedPages", "Special:LonelyPages"},
		{"en.wikipedia.org", "Special:Contribs/124.106.240.49", "Special:Contributions/124.106.240.49"},
		{"es.wikipedia.org", "Especial:SpecialPages", "Especial:PáginasEspeciales"},
		{"es.wikipedia.org", "Especial:Expandir plantillas", "Especial:Sustituir_plantillas"},
		{"es.wikipedia.org", "Especial:BookSources/9784041047910", "Especial:FuentesDeLibros/9784041047910"},
	}

	profiles := map[string]*site.Profile{}
	for _, tt := range tests {
		t.Run(tt.site+"/"+tt.text, func(t *testing.T) {
			p, ok := profiles[tt.site]
			if !ok {
				p = sitetest.Profile(t, tt.site)
				profiles[tt.site] = p
			}
			got, err := NewFromText(tt.text, p)
			if err != nil {
				t.Fatalf("NewFromText(%q) failed: %v", tt.text, err)
			}
			if got.PrefixedDBKey() != tt.want {
				t.Errorf("NewFromText(%q).PrefixedDBKey() = %q, want %q", tt.text, got.PrefixedDBKey(), tt.want)
			}
		})
	}
}

func TestNormalize_FirstLetterTable(t *testing.T) {
	en := sitetest.Profile(t, "en.wikipedia.org")
	ka := sitetest.Profile(t, "ka.wikipedia.org")

	// Letters whose full upper-case form is more than one character keep
	// their case; Greek letters with ypogegrammeni map to prosgegrammeni.
	tests := []struct {
		profile *site.Profile
		in      string
		want    string
	}{
		{en, "ß", "ß"},
		{en, "ŉ", "ŉ"},
		{en, "ǰ", "ǰ"},
		{en, "ΐ", "ΐ"},
		{en, "ΰ", "ΰ"},
		{en, "և", "և"},
		{en, "ẖ", "ẖ"},
		{en, "ẗ", "ẗ"},
		{en, "ẘ", "ẘ"},
		{en, "ẙ", "ẙ"},
		{en, "ẚ", "ẚ"},
		{en, "ὐ", "ὐ"},
		{en, "ὒ", "ὒ"},
		{en, "ὔ", "ὔ"},
		{en, "ὖ", "ὖ"},
		{en, "ᾀ", "ᾈ"},
		{en, "ᾁ", "ᾉ"},
		{en, "ᾂ", "ᾊ"},
		{en, "ᾃ", "ᾋ"},
		{en, "ᾄ", "ᾌ"},
		{en, "ᾅ", "ᾍ"},
		{en, "ᾆ", "ᾎ"},
		{en, "ᾇ", "ᾏ"},
		{en, "ᾐ", "ᾘ"},
		{en, "ᾑ", "ᾙ"},
		{en, "ᾒ", "ᾚ"},
		{en, "ᾓ", "ᾛ"},
		{en, "ᾔ", "ᾜ"},
		{en, "ᾕ", "ᾝ"},
		{en, "ᾖ", "ᾞ"},
		{en, "ᾗ", "ᾟ"},
		{en, "ᾠ", "ᾨ"},
		{en, "ᾡ", "ᾩ"},
		{en, "ᾢ", "ᾪ"},
		{en, "ᾣ", "ᾫ"},
		{en, "ᾤ", "ᾬ"},
		{en, "ᾥ", "ᾭ"},
		{en, "ᾦ", "ᾮ"},
		{en, "ᾧ", "ᾯ"},
		{en, "ﬀ", "ﬀ"},
		{en, "ﬁ", "ﬁ"},
		{en, "ﬂ", "ﬂ"},
		{en, "ﬃ", "ﬃ"},
		{en, "ﬄ", "ﬄ"},
		{en, "ﬅ", "ﬅ"},
		{en, "ﬆ", "ﬆ"},
		{en, "ﬓ", "ﬓ"},
		{en, "ﬔ", "ﬔ"},
		{en, "ﬕ", "ﬕ"},
		{en, "ﬖ", "ﬖ"},
		{en, "ﬗ", "ﬗ"},
		{en, "ⓐ", "ⓐ"},
		{en, "ⓩ", "ⓩ"},
		{ka, "ა", "ა"},
		{ka, "ჿ", "ჿ"},
		{en, "é", "É"},
		{en, "ж", "Ж"},
		{en, "ǆemal", "ǅemal"},
		{en, "ǅemal", "ǅemal"},
		{en, "ǄEMAL", "ǄEMAL"},
		{en, "ǉ", "ǈ"},
		{en, "ǈ", "ǈ"},
		{en, "Ǉ", "Ǉ"},
		{en, "ǌ", "ǋ"},
		{en, "ǳ", "ǲ"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NewFromText(tt.in, tt.profile)
			if err != nil {
				t.Fatalf("NewFromText(%q) failed: %v", tt.in, err)
			}
			if got.Key() != tt.want {
				t.Errorf("NewFromText(%q).Key() = %q, want %q", tt.in, got.Key(), tt.want)
			}
		})
	}
}

func TestNormalize_DefaultNamespace(t *testing.T) {
	en := sitetest.Profile(t, "en.wikipedia.org")

	tests := []struct {
		defaultNS namespace.ID
		text      string
		wantNS    namespace.ID
		wantKey   string
	}{
		{namespace.Main, "Example.svg", namespace.Main, "Example.svg"},
		{namespace.File, "Example.svg", namespace.File, "File:Example.svg"},
		{namespace.Main, "File:Example.svg", namespace.File, "File:Example.svg"},
		{namespace.File, "File:Example.svg", namespace.File, "File:Example.svg"},
		{namespace.User, "File:Example.svg", namespace.File, "File:Example.svg"},
		{namespace.User, "Test", namespace.User, "User:Test"},
		{namespace.User, ":Test", namespace.Main, "Test"},
		{namespace.Main, ":User:Test", namespace.User, "User:Test"},
	}

	for _, tt := range tests {
		t.Run(tt.defaultNS.String()+"/"+tt.text, func(t *testing.T) {
			got, err := NewFromTextInNamespace(tt.text, en, tt.defaultNS)
			if err != nil {
				t.Fatalf("NewFromTextInNamespace(%q, %d) failed: %v", tt.text, tt.defaultNS, err)
			}
			if got.Namespace().ID() != tt.wantNS {
				t.Errorf("namespace = %d, want %d", got.Namespace().ID(), tt.wantNS)
			}
			if got.PrefixedDBKey() != tt.wantKey {
				t.Errorf("PrefixedDBKey() = %q, want %q", got.PrefixedDBKey(), tt.wantKey)
			}
		})
	}
}

func TestNormalize_NumericReferenceSplitsAtHash(t *testing.T) {
	en := sitetest.Profile(t, "en.wikipedia.org")

	tests := []struct {
		text     string
		key      string
		fragment string
	}{
		{"A &#233; B", "A_&", "233;_B"},
		{"A &#x00E9; B", "A_&", "x00E9;_B"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := NewFromText(tt.text, en)
			if err != nil {
				t.Fatalf("NewFromText(%q) failed: %v", tt.text, err)
			}
			fragment, _ := got.Fragment()
			if got.Key() != tt.key || fragment != tt.fragment {
				t.Errorf("NewFromText(%q) = %q#%q, want %q#%q", tt.text, got.Key(), fragment, tt.key, tt.fragment)
			}
		})
	}
}

func TestNormalize_Fragment(t *testing.T) {
	en := sitetest.Profile(t, "en.wikipedia.org")

	got, err := NewFromText("Test#some fragment", en)
	if err != nil {
		t.Fatalf("NewFromText failed: %v", err)
	}
	fragment, ok := got.Fragment()
	if !ok || fragment != "some_fragment" {
		t.Errorf("Fragment() = %q, %v, want %q, true", fragment, ok, "some_fragment")
	}
	if got.String() != "Test#some_fragment" {
		t.Errorf("String() = %q, want %q", got.String(), "Test#some_fragment")
	}

	got, err = NewFromText("Test", en)
	if err != nil {
		t.Fatalf("NewFromText failed: %v", err)
	}
	if _, ok := got.Fragment(); ok {
		t.Error("Fragment() reported a fragment for a title without one")
	}

	got, err = NewFromText("#", en)
	if err != nil {
		t.Fatalf("NewFromText failed: %v", err)
	}
	if got.Key() != "" || !got.Namespace().IsMain() {
		t.Errorf("NewFromText(%q) = %q in %s, want empty main namespace key", "#", got.Key(), got.Namespace())
	}
}

func TestTitle_Accessors(t *testing.T) {
	en := sitetest.Profile(t, "en.wikipedia.org")

	got, err := NewFromText("X-Men_(film_series)", en)
	if err != nil {
		t.Fatalf("NewFromText failed: %v", err)
	}
	if got.PrefixedText() != "X-Men (film series)" {
		t.Errorf("PrefixedText() = %q", got.PrefixedText())
	}
	if got.Text() != "X-Men (film series)" {
		t.Errorf("Text() = %q", got.Text())
	}

	talk, err := NewFromText("user talk:some body", en)
	if err != nil {
		t.Fatalf("NewFromText failed: %v", err)
	}
	if talk.Key() != "Some_body" {
		t.Errorf("Key() = %q, want %q", talk.Key(), "Some_body")
	}
	if talk.PrefixedText() != "User talk:Some body" {
		t.Errorf("PrefixedText() = %q", talk.PrefixedText())
	}

	rebuilt := NewFromKey("Some body", namespace.New(namespace.UserTalk, en))
	if !rebuilt.Equals(talk) {
		t.Errorf("NewFromKey(%q) = %q, want equal to %q", "Some body", rebuilt, talk)
	}
	withFragment := rebuilt.WithFragment("Intro")
	if withFragment.String() != "User_talk:Some_body#Intro" {
		t.Errorf("String() = %q", withFragment.String())
	}
	if _, ok := rebuilt.Fragment(); ok {
		t.Error("WithFragment modified the original title")
	}

	var none *Title
	if none.Equals(talk) || talk.Equals(none) {
		t.Error("nil title equals a non-nil title")
	}
}

func TestNormalize_InvalidArgument(t *testing.T) {
	_, err := NewFromText("Test", nil)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("NewFromText with nil profile: got %v, want ErrInvalidArgument", err)
	}
	if KindOf(err) != "" {
		t.Errorf("KindOf(%v) = %q, want empty", err, KindOf(err))
	}

	en := sitetest.Profile(t, "en.wikipedia.org")
	_, err = NewFromTextInNamespace("Foo", en, namespace.ID(9999))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("NewFromTextInNamespace with undefined namespace: got %v, want ErrInvalidArgument", err)
	}
	if KindOf(err) != "" {
		t.Errorf("KindOf(%v) = %q, want empty", err, KindOf(err))
	}
}

func TestNormalizer_SharedCompiler(t *testing.T) {
	compiler := legalchars.NewCompiler()
	a := NewNormalizer(WithCompiler(compiler))
	b := NewNormalizer(WithCompiler(compiler))

	en := sitetest.Profile(t, "en.wikipedia.org")
	es := sitetest.Profile(t, "es.wikipedia.org")
	if _, err := a.Normalize("Foo", en, namespace.Main); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Normalize("Foo", en, namespace.Main); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Normalize("Foo", es, namespace.Main); err != nil {
		t.Fatal(err)
	}

	want := 1
	if en.LegalTitleChars != es.LegalTitleChars {
		want = 2
	}
	if compiler.Len() != want {
		t.Errorf("compiler converted %d classes, want %d", compiler.Len(), want)
	}
}

func TestNormalize_EmptyLegalCharacters(t *testing.T) {
	p := &site.Profile{
		Lang:       "en",
		Namespaces: []site.NamespaceInfo{{ID: 0, Case: site.FirstLetter}},
	}
	_, err := NewFromText("Anything", p)
	if KindOf(err) != InvalidCharacters {
		t.Errorf("NewFromText with no legal characters: got %v, want %s", err, InvalidCharacters)
	}
}
