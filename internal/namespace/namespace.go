// Package namespace models wiki namespaces: the fixed, site-independent id
// space and the lookup of namespace names against a site profile.
package namespace

import (
	"strconv"
	"strings"

	"wikititle/internal/site"
)

// ID identifies a namespace. The well-known ids below are the same on every
// site; a site profile only supplies their names.
type ID int

const (
	Media         ID = -2
	Special       ID = -1
	Main          ID = 0
	Talk          ID = 1
	User          ID = 2
	UserTalk      ID = 3
	Project       ID = 4
	ProjectTalk   ID = 5
	File          ID = 6
	FileTalk      ID = 7
	Mediawiki     ID = 8
	MediawikiTalk ID = 9
	Template      ID = 10
	TemplateTalk  ID = 11
	Help          ID = 12
	HelpTalk      ID = 13
	Category      ID = 14
	CategoryTalk  ID = 15

	Image     = File
	ImageTalk = FileTalk
)

var idNames = map[ID]string{
	Media:         "Media",
	Special:       "Special",
	Main:          "Main",
	Talk:          "Talk",
	User:          "User",
	UserTalk:      "UserTalk",
	Project:       "Project",
	ProjectTalk:   "ProjectTalk",
	File:          "File",
	FileTalk:      "FileTalk",
	Mediawiki:     "Mediawiki",
	MediawikiTalk: "MediawikiTalk",
	Template:      "Template",
	TemplateTalk:  "TemplateTalk",
	Help:          "Help",
	HelpTalk:      "HelpTalk",
	Category:      "Category",
	CategoryTalk:  "CategoryTalk",
}

// String returns the symbolic name of a well-known id, or the number.
func (id ID) String() string {
	if name, ok := idNames[id]; ok {
		return name
	}
	return strconv.Itoa(int(id))
}

// IsTalk reports whether id is a talk namespace. Talk namespaces are exactly
// the odd non-negative ids.
func (id ID) IsTalk() bool {
	return id >= 0 && id%2 == 1
}

// Namespace is a namespace id bound to the site profile that names it.
// Two namespaces are equal when their ids are equal.
type Namespace struct {
	id      ID
	profile *site.Profile
}

// New binds id to profile.
func New(id ID, profile *site.Profile) Namespace {
	return Namespace{id: id, profile: profile}
}

// ID returns the numeric namespace id.
func (n Namespace) ID() ID { return n.id }

// Equals reports whether n and other have the same id.
func (n Namespace) Equals(other Namespace) bool { return n.id == other.id }

func (n Namespace) IsMedia() bool         { return n.id == Media }
func (n Namespace) IsSpecial() bool       { return n.id == Special }
func (n Namespace) IsMain() bool          { return n.id == Main }
func (n Namespace) IsTalk() bool          { return n.id == Talk }
func (n Namespace) IsUser() bool          { return n.id == User }
func (n Namespace) IsUserTalk() bool      { return n.id == UserTalk }
func (n Namespace) IsProject() bool       { return n.id == Project }
func (n Namespace) IsProjectTalk() bool   { return n.id == ProjectTalk }
func (n Namespace) IsFile() bool          { return n.id == File }
func (n Namespace) IsImage() bool         { return n.id == Image }
func (n Namespace) IsFileTalk() bool      { return n.id == FileTalk }
func (n Namespace) IsImageTalk() bool     { return n.id == ImageTalk }
func (n Namespace) IsMediawiki() bool     { return n.id == Mediawiki }
func (n Namespace) IsMediawikiTalk() bool { return n.id == MediawikiTalk }
func (n Namespace) IsTemplate() bool      { return n.id == Template }
func (n Namespace) IsTemplateTalk() bool  { return n.id == TemplateTalk }
func (n Namespace) IsHelp() bool          { return n.id == Help }
func (n Namespace) IsHelpTalk() bool      { return n.id == HelpTalk }
func (n Namespace) IsCategory() bool      { return n.id == Category }
func (n Namespace) IsCategoryTalk() bool  { return n.id == CategoryTalk }

// IsATalkNamespace reports whether n is any talk namespace.
func (n Namespace) IsATalkNamespace() bool { return n.id.IsTalk() }

// Talk returns the talk namespace paired with n. Virtual namespaces
// (Special, Media) have no talk page and are returned unchanged.
func (n Namespace) Talk() Namespace {
	if n.id < 0 {
		return n
	}
	return Namespace{id: n.id | 1, profile: n.profile}
}

// Subject returns the subject namespace paired with n.
func (n Namespace) Subject() Namespace {
	if n.id < 0 {
		return n
	}
	return Namespace{id: n.id &^ 1, profile: n.profile}
}

// CanonicalText is the site-independent name with underscores for spaces.
func (n Namespace) CanonicalText() string {
	info, _ := n.info()
	return strings.ReplaceAll(info.Canonical, " ", "_")
}

// NormalizedText is the localized name with underscores for spaces. It is the
// prefix used in prefixed keys.
func (n Namespace) NormalizedText() string {
	info, _ := n.info()
	return strings.ReplaceAll(info.Name, " ", "_")
}

// Subpages reports whether the site allows subpages in n.
func (n Namespace) Subpages() bool {
	info, _ := n.info()
	return info.Subpages
}

// Profile returns the site profile n was resolved against.
func (n Namespace) Profile() *site.Profile { return n.profile }

func (n Namespace) String() string {
	if text := n.NormalizedText(); text != "" {
		return text
	}
	return n.id.String()
}

func (n Namespace) info() (site.NamespaceInfo, bool) {
	if n.profile == nil {
		return site.NamespaceInfo{}, false
	}
	return n.profile.Namespace(int(n.id))
}
