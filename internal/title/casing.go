package title

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
)

// dottedILanguages upper-case "i" to the dotted capital "İ".
var dottedILanguages = []language.Base{
	language.MustParseBase("az"),
	language.MustParseBase("tr"),
	language.MustParseBase("kaa"),
	language.MustParseBase("kk"),
}

// keepCase holds lower-case letters whose upper-case mapping is not applied
// to titles: Georgian Mkhedruli (U+1C90 Mtavruli is not used for titles) and
// circled Latin small letters.
var keepCase = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x10D0, Hi: 0x10FA, Stride: 1},
		{Lo: 0x10FD, Hi: 0x10FF, Stride: 1},
		{Lo: 0x24D0, Hi: 0x24E9, Stride: 1},
	},
}

func usesDottedI(lang string) bool {
	tag, err := language.Parse(lang)
	if err != nil {
		return false
	}
	base, _ := tag.Base()
	for _, b := range dottedILanguages {
		if base == b {
			return true
		}
	}
	return false
}

// upper maps a single code point to its title-case form. Only one-to-one
// mappings are used, so letters such as "ß", "ŉ" or the "ﬀ" ligature, whose
// full upper-case forms are several characters, stay as they are. Digraphs
// such as "ǆ" become their title-case letter "ǅ"; capital digraphs are kept.
func upper(r rune) rune {
	if unicode.Is(keepCase, r) || unicode.IsUpper(r) {
		return r
	}
	return unicode.ToTitle(r)
}

// capitalizeFirst upper-cases the first character of text according to the
// conventions of the site language.
func capitalizeFirst(text, lang string) string {
	r, size := utf8.DecodeRuneInString(text)
	if size == 0 {
		return text
	}
	if r == 'i' && usesDottedI(lang) {
		return string(unicode.TurkishCase.ToUpper(r)) + text[size:]
	}
	if r >= 'A' && r <= 'Z' {
		return text
	}
	return string(upper(r)) + text[size:]
}
