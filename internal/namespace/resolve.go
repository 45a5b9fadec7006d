package namespace

import (
	"strings"

	"wikititle/internal/site"
)

// canonicalName folds a namespace name for comparison: upper case, with
// underscores treated as spaces.
func canonicalName(name string) string {
	return strings.ReplaceAll(strings.ToUpper(name), "_", " ")
}

// Resolve looks up a namespace by name. Canonical names are tried first, then
// localized names, then aliases. Matching ignores case and treats underscores
// as spaces. Empty names never match.
func Resolve(name string, profile *site.Profile) (Namespace, bool) {
	if profile == nil {
		return Namespace{}, false
	}
	want := canonicalName(name)
	if want == "" {
		return Namespace{}, false
	}

	for _, ns := range profile.Namespaces {
		if ns.Canonical != "" && canonicalName(ns.Canonical) == want {
			return New(ID(ns.ID), profile), true
		}
		if ns.Name != "" && canonicalName(ns.Name) == want {
			return New(ID(ns.ID), profile), true
		}
	}

	for _, alias := range profile.NamespaceAliases {
		if canonicalName(alias.Alias) == want {
			return New(ID(alias.ID), profile), true
		}
	}

	return Namespace{}, false
}

// Split separates a leading "prefix:" from text when the prefix names a
// namespace. Underscores on either side of the colon are dropped. Namespace
// names never contain a colon, so only the text before the first colon is a
// candidate prefix. When no namespace matches, ok is false and rest is text.
func Split(text string, profile *site.Profile) (ns Namespace, rest string, ok bool) {
	idx := strings.IndexByte(text, ':')
	if idx <= 0 {
		return Namespace{}, text, false
	}

	prefix := strings.TrimRight(text[:idx], "_")
	found, ok := Resolve(prefix, profile)
	if !ok {
		return Namespace{}, text, false
	}
	return found, strings.TrimLeft(text[idx+1:], "_"), true
}
