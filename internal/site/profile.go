// Package site holds the per-wiki data the title normalizer depends on:
// language, legal title characters, the namespace table and aliases.
package site

import "strings"

// CaseMode describes how the first letter of titles in a namespace is treated.
type CaseMode string

const (
	// FirstLetter forces the first character of a title to upper case.
	FirstLetter CaseMode = "first-letter"
	// CaseSensitive leaves titles as typed.
	CaseSensitive CaseMode = "case-sensitive"
)

// NamespaceInfo is one row of a site's namespace table.
type NamespaceInfo struct {
	ID        int
	Case      CaseMode
	Canonical string // site-independent English name, e.g. "User talk"
	Name      string // localized name, e.g. "Usuario discusión"
	Subpages  bool
}

// NamespaceAlias maps an alternative namespace name to a namespace id.
type NamespaceAlias struct {
	Alias string
	ID    int
}

// SpecialPageAlias lists the accepted spellings of one special page.
// The first alias is the primary spelling.
type SpecialPageAlias struct {
	RealName string
	Aliases  []string
}

// Profile is the read-only site configuration consumed by title normalization.
// Namespaces are kept in ascending id order; lookups that scan the table
// return the first match in that order.
type Profile struct {
	Lang               string
	LegalTitleChars    string
	Namespaces         []NamespaceInfo
	NamespaceAliases   []NamespaceAlias
	SpecialPageAliases []SpecialPageAlias
}

// Namespace returns the table entry for id.
func (p *Profile) Namespace(id int) (NamespaceInfo, bool) {
	for _, ns := range p.Namespaces {
		if ns.ID == id {
			return ns, true
		}
	}
	return NamespaceInfo{}, false
}

// CaseMode returns the case mode for a namespace. Unknown ids are treated as
// case sensitive.
func (p *Profile) CaseMode(id int) CaseMode {
	if ns, ok := p.Namespace(id); ok {
		return ns.Case
	}
	return CaseSensitive
}

// SpecialPageName looks name up among every special page's alias spellings,
// ignoring case and the space/underscore distinction, and returns the
// primary spelling of the matching page.
func (p *Profile) SpecialPageName(name string) (string, bool) {
	want := strings.ReplaceAll(name, " ", "_")
	for _, page := range p.SpecialPageAliases {
		if len(page.Aliases) == 0 {
			continue
		}
		for _, alias := range page.Aliases {
			if strings.EqualFold(strings.ReplaceAll(alias, " ", "_"), want) {
				return strings.ReplaceAll(page.Aliases[0], " ", "_"), true
			}
		}
	}
	return "", false
}
