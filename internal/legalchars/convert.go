// Package legalchars turns a site's legal-title-characters setting, written
// as a byte-oriented character class, into a code point character class and
// the regular expression that rejects illegal titles.
package legalchars

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// CatchAll is appended to a converted class whenever the byte class allowed
// any byte >= 0x80. A single high byte may be part of any multi-byte UTF-8
// sequence, so every non-ASCII code point is allowed.
const CatchAll = `\x{80}-\x{10FFFF}`

var (
	hexEscape   = regexp.MustCompile(`^x([0-9a-fA-F]{2})`)
	octalEscape = regexp.MustCompile(`^[0-7]{3}`)
)

// token is one position of the conversion window: the raw input token, its
// decoded code point and its re-encoded output form.
type token struct {
	raw     string
	ord     rune
	encoded string
}

// Convert translates a byte character class (without surrounding brackets)
// into an equivalent class over code points in RE2 syntax.
//
// Escapes \xHH and \OOO decode to the byte they name; any other escaped
// character stands for itself. Ranges whose upper bound is a high byte keep
// only their ASCII part, and ranges entirely above 0x7F are dropped; both are
// covered by CatchAll.
func Convert(byteClass string) string {
	in := []rune(byteClass)

	// t0 is the current token, t1 and t2 the two before it.
	var t0, t1, t2 token
	var out strings.Builder
	allowUnicode := false

	for pos := 0; pos < len(in); pos++ {
		t2, t1 = t1, t0

		t0 = token{}
		if in[pos] == '\\' {
			rest := string(in[pos+1:])
			if m := hexEscape.FindStringSubmatch(rest); m != nil {
				v, _ := strconv.ParseUint(m[1], 16, 8)
				t0.raw, t0.ord = `\`+m[0], rune(v)
				pos += len(m[0])
			} else if m := octalEscape.FindString(rest); m != "" {
				v, _ := strconv.ParseUint(m, 8, 16)
				t0.raw, t0.ord = `\`+m, rune(v)
				pos += len(m)
			} else if pos+1 >= len(in) {
				t0.raw, t0.ord = `\`, '\\'
			} else {
				t0.ord = in[pos+1]
				t0.raw = `\` + string(t0.ord)
				pos++
			}
		} else {
			t0.raw, t0.ord = string(in[pos]), in[pos]
		}

		switch {
		case t0.ord < 0x20 || t0.ord == 0x7f:
			t0.encoded = fmt.Sprintf(`\x%02X`, t0.ord)
		case t0.ord >= 0x80:
			t0.encoded = fmt.Sprintf(`\x{%X}`, t0.ord)
			allowUnicode = true
		case strings.ContainsRune(`-\[]^`, t0.ord):
			t0.encoded = `\` + string(t0.ord)
		default:
			t0.encoded = string(t0.ord)
		}

		if t0.raw != "" && t1.raw == "-" && t2.raw != "" {
			if t2.ord < t0.ord {
				if t0.ord >= 0x80 {
					allowUnicode = true
					if t2.ord < 0x80 {
						out.WriteString(t2.encoded + `-\x7F`)
					}
				} else {
					out.WriteString(t2.encoded + "-" + t0.encoded)
				}
			}
			// The range consumed all three tokens.
			t0 = token{ord: t0.ord}
			t1 = token{ord: t1.ord}
		} else if t2.ord < 0x80 {
			out.WriteString(t2.encoded)
		}
	}

	if t1.ord < 0x80 {
		out.WriteString(t1.encoded)
	}
	if t0.ord < 0x80 {
		out.WriteString(t0.encoded)
	}
	if allowUnicode {
		out.WriteString(CatchAll)
	}
	return out.String()
}

// InvalidTitlePattern builds the expression matching anything that makes a
// title illegal: a character outside class, a percent-encoded byte, or an
// HTML/XML character reference.
func InvalidTitlePattern(class string) string {
	illegal := `[^` + class + `]`
	if class == "" {
		illegal = `(?s:.)`
	}
	return illegal +
		// Percent-encoded bytes break round-tripping through URLs.
		`|%[0-9A-Fa-f]{2}` +
		// So do character references.
		`|&[A-Za-z0-9\x{80}-\x{FF}]+;` +
		`|&#[0-9]+;` +
		`|&#x[0-9A-Fa-f]+;`
}
