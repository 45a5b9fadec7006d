// Package title turns raw page-title text into canonical wiki titles.
package title

import (
	"strings"

	"wikititle/internal/namespace"
)

// Title is a validated, canonical page title. Titles are immutable.
type Title struct {
	key         string
	ns          namespace.Namespace
	fragment    string
	hasFragment bool
}

// NewFromKey builds a Title from a key that is already canonical, such as
// one read back from a cache. No validation is performed; spaces in key are
// stored as underscores.
func NewFromKey(key string, ns namespace.Namespace) *Title {
	return &Title{key: strings.ReplaceAll(key, " ", "_"), ns: ns}
}

// WithFragment returns a copy of t carrying fragment.
func (t *Title) WithFragment(fragment string) *Title {
	c := *t
	c.fragment = fragment
	c.hasFragment = true
	return &c
}

// Key is the canonical title text without namespace prefix, with
// underscores for spaces.
func (t *Title) Key() string { return t.key }

// Namespace returns the namespace the title belongs to.
func (t *Title) Namespace() namespace.Namespace { return t.ns }

// Fragment returns the text after "#" in the input, if there was one.
func (t *Title) Fragment() (string, bool) { return t.fragment, t.hasFragment }

// PrefixedDBKey is the key with the localized namespace name prepended.
// Titles in the main namespace have no prefix.
func (t *Title) PrefixedDBKey() string {
	if t.ns.IsMain() {
		return t.key
	}
	return t.ns.NormalizedText() + ":" + t.key
}

// PrefixedText is PrefixedDBKey with spaces instead of underscores.
func (t *Title) PrefixedText() string {
	return strings.ReplaceAll(t.PrefixedDBKey(), "_", " ")
}

// Text is the key with spaces instead of underscores.
func (t *Title) Text() string {
	return strings.ReplaceAll(t.key, "_", " ")
}

// Equals reports whether t and other name the same page. Fragments are
// ignored.
func (t *Title) Equals(other *Title) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.key == other.key && t.ns.Equals(other.ns)
}

func (t *Title) String() string {
	if t.hasFragment {
		return t.PrefixedDBKey() + "#" + t.fragment
	}
	return t.PrefixedDBKey()
}
