package title

import (
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"wikititle/internal/ipaddr"
	"wikititle/internal/legalchars"
	"wikititle/internal/namespace"
	"wikititle/internal/site"
)

const (
	// MaxLength is the longest allowed key in bytes.
	MaxLength = 255
	// MaxSpecialLength applies to Special pages, whose keys may carry
	// long parameters after a slash.
	MaxSpecialLength = 512
)

// Normalizer validates and canonicalizes titles. A Normalizer is safe for
// concurrent use.
type Normalizer struct {
	compiler *legalchars.Compiler
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithCompiler shares a legal-character compiler between normalizers.
func WithCompiler(c *legalchars.Compiler) Option {
	return func(n *Normalizer) {
		n.compiler = c
	}
}

// NewNormalizer returns a Normalizer with its own compiler unless one is
// supplied.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{}
	for _, opt := range opts {
		opt(n)
	}
	if n.compiler == nil {
		n.compiler = legalchars.NewCompiler()
	}
	return n
}

var defaultNormalizer = NewNormalizer()

// NewFromText normalizes text with the main namespace as default.
func NewFromText(text string, profile *site.Profile) (*Title, error) {
	return defaultNormalizer.Normalize(text, profile, namespace.Main)
}

// NewFromTextInNamespace normalizes text, placing it in defaultNS unless
// the text names a namespace itself.
func NewFromTextInNamespace(text string, profile *site.Profile, defaultNS namespace.ID) (*Title, error) {
	return defaultNormalizer.Normalize(text, profile, defaultNS)
}

// Normalize turns raw text into a Title for the given site. Text without a
// namespace prefix lands in defaultNS; a leading colon forces the main
// namespace. Rejected input yields an *Error.
func (n *Normalizer) Normalize(text string, profile *site.Profile, defaultNS namespace.ID) (*Title, error) {
	if profile == nil {
		return nil, ErrInvalidArgument
	}
	if _, ok := profile.Namespace(int(defaultNS)); !ok {
		return nil, errors.Wrapf(ErrInvalidArgument, "namespace %d is not defined by the %q site", defaultNS, profile.Lang)
	}

	// Step 1: drop invisible formatting characters
	text = strings.Map(dropFormatting, text)

	// Step 2: collapse whitespace and underscores
	text = collapseWhitespace(text)

	// Step 3: reject replacement characters and broken encoding
	if !utf8.ValidString(text) || strings.ContainsRune(text, utf8.RuneError) {
		return nil, &Error{Kind: InvalidUTF8, Title: text}
	}

	// Step 4: a leading colon selects the main namespace
	if strings.HasPrefix(text, ":") {
		text = strings.TrimLeft(text[1:], "_")
		defaultNS = namespace.Main
	}

	// Step 5
	if text == "" {
		return nil, &Error{Kind: InvalidEmpty, Title: text}
	}

	// Step 6: namespace prefix
	ns, rest, ok := namespace.Split(text, profile)
	if !ok {
		ns = namespace.New(defaultNS, profile)
		rest = text
	}
	text = rest

	// Step 7: talk pages cannot hold another namespace
	if ns.IsTalk() {
		if inner, _, ok := namespace.Split(text, profile); ok && !inner.IsMain() {
			return nil, &Error{Kind: InvalidTalkNamespace, Title: text}
		}
	}

	// Step 8: fragment
	var fragment string
	var hasFragment bool
	if i := strings.IndexByte(text, '#'); i >= 0 {
		fragment = text[i+1:]
		hasFragment = true
		text = strings.TrimRight(text[:i], "_")
	}

	// Step 9: legal characters
	invalid, err := n.compiler.InvalidTitle(profile.LegalTitleChars)
	if err != nil {
		return nil, err
	}
	if loc := invalid.FindStringIndex(text); loc != nil {
		return nil, &Error{Kind: InvalidCharacters, Title: text, Span: text[loc[0]:loc[1]]}
	}

	// Step 10
	if isRelative(text) {
		return nil, &Error{Kind: InvalidRelative, Title: text}
	}

	// Step 11: signature markup
	if strings.Contains(text, "~~~") {
		return nil, &Error{Kind: InvalidMagicTilde, Title: text}
	}

	// Step 12
	limit := MaxLength
	if ns.IsSpecial() {
		limit = MaxSpecialLength
	}
	if len(text) > limit {
		return nil, &Error{Kind: InvalidTooLong, Title: text, MaxLength: limit}
	}

	// Step 13
	if profile.CaseMode(int(ns.ID())) == site.FirstLetter {
		text = capitalizeFirst(text, profile.Lang)
	}

	// Step 14: only main namespace titles may be empty (fragment-only links)
	if text == "" && !ns.IsMain() {
		return nil, &Error{Kind: InvalidEmpty, Title: text}
	}

	// Step 15
	if ns.IsUser() || ns.IsUserTalk() {
		text = ipaddr.Sanitize(text)
	}

	// Step 16
	if ns.IsSpecial() {
		text = resolveSpecialPage(text, profile)
	}

	return &Title{key: text, ns: ns, fragment: fragment, hasFragment: hasFragment}, nil
}

func dropFormatting(r rune) rune {
	switch {
	case r == '\u00AD', r == '\u200E', r == '\u200F':
		return -1
	case r >= '\u202A' && r <= '\u202E':
		return -1
	}
	return r
}

func isTitleSpace(r rune) bool {
	switch r {
	case ' ', '_', '\u00A0', '\u1680', '\u180E', '\u2028', '\u2029', '\u202F', '\u205F', '\u3000':
		return true
	}
	return r >= '\u2000' && r <= '\u200A'
}

// collapseWhitespace replaces each run of title whitespace with a single
// underscore and trims underscores from both ends.
func collapseWhitespace(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inRun := false
	for _, r := range text {
		if isTitleSpace(r) {
			if !inRun {
				b.WriteByte('_')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return strings.Trim(b.String(), "_")
}

// isRelative reports whether text is, starts with, contains or ends with a
// "." or ".." path segment.
func isRelative(text string) bool {
	if !strings.Contains(text, ".") {
		return false
	}
	return text == "." || text == ".." ||
		strings.HasPrefix(text, "./") || strings.HasPrefix(text, "../") ||
		strings.Contains(text, "/./") || strings.Contains(text, "/../") ||
		strings.HasSuffix(text, "/.") || strings.HasSuffix(text, "/..")
}

// resolveSpecialPage replaces a special page alias in the first path segment
// with the page's primary name.
func resolveSpecialPage(text string, profile *site.Profile) string {
	name, params, hasParams := strings.Cut(text, "/")
	primary, ok := profile.SpecialPageName(name)
	if !ok {
		return text
	}
	if hasParams {
		return primary + "/" + params
	}
	return primary
}
