package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// ErrorType represents the type of site profile error.
type ErrorType string

const (
	FileNotFound ErrorType = "FILE_NOT_FOUND"
	InvalidJSON  ErrorType = "INVALID_JSON"
	MissingField ErrorType = "MISSING_FIELD"
)

// Error represents an error that occurred while loading a site profile.
type Error struct {
	Type    ErrorType
	Path    string
	Message string
}

func (e *Error) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("site profile not found: %s", e.Path)
	case InvalidJSON:
		return fmt.Sprintf("invalid JSON in site profile: %s", e.Message)
	case MissingField:
		return fmt.Sprintf("incomplete site profile: %s", e.Message)
	default:
		return fmt.Sprintf("site profile error: %s", e.Message)
	}
}

// siteinfo mirrors the "query" object of a MediaWiki siteinfo response.
// Both formatversion=1 ("*" keys) and formatversion=2 ("name"/"alias" keys)
// are accepted.
type siteinfo struct {
	General struct {
		Lang            string `json:"lang"`
		LegalTitleChars string `json:"legaltitlechars"`
	} `json:"general"`
	Namespaces         map[string]rawNamespace `json:"namespaces"`
	NamespaceAliases   []rawAlias              `json:"namespacealiases"`
	SpecialPageAliases []rawSpecialPage        `json:"specialpagealiases"`
}

type rawNamespace struct {
	ID        *int            `json:"id"`
	Case      string          `json:"case"`
	Canonical string          `json:"canonical"`
	Star      *string         `json:"*"`
	Name      *string         `json:"name"`
	Subpages  json.RawMessage `json:"subpages"`
}

type rawAlias struct {
	ID    int     `json:"id"`
	Star  *string `json:"*"`
	Alias *string `json:"alias"`
}

type rawSpecialPage struct {
	RealName string   `json:"realname"`
	Aliases  []string `json:"aliases"`
}

// Decode reads a siteinfo API response and builds a Profile. The input may be
// the whole response ({"query": {...}}) or just the query object.
func Decode(r io.Reader) (*Profile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading site profile")
	}

	var envelope struct {
		Query json.RawMessage `json:"query"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, &Error{Type: InvalidJSON, Message: err.Error()}
	}
	if len(envelope.Query) > 0 && !bytes.Equal(envelope.Query, []byte("null")) {
		data = envelope.Query
	}

	var info siteinfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, &Error{Type: InvalidJSON, Message: err.Error()}
	}
	return info.profile()
}

// Load reads and decodes a site profile file.
func Load(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &Error{Type: FileNotFound, Path: path}
		}
		return nil, errors.Wrapf(err, "opening site profile %s", path)
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		var siteErr *Error
		if errors.As(err, &siteErr) {
			siteErr.Path = path
		}
		return nil, err
	}
	return p, nil
}

func (info *siteinfo) profile() (*Profile, error) {
	if info.General.LegalTitleChars == "" {
		return nil, &Error{Type: MissingField, Message: "general.legaltitlechars is required"}
	}
	if len(info.Namespaces) == 0 {
		return nil, &Error{Type: MissingField, Message: "namespaces must not be empty"}
	}

	p := &Profile{
		Lang:            info.General.Lang,
		LegalTitleChars: info.General.LegalTitleChars,
	}

	for key, raw := range info.Namespaces {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, &Error{Type: InvalidJSON, Message: fmt.Sprintf("namespace key %q is not an integer", key)}
		}
		if raw.ID != nil && *raw.ID != id {
			return nil, &Error{Type: InvalidJSON, Message: fmt.Sprintf("namespace %q has mismatched id %d", key, *raw.ID)}
		}
		ns := NamespaceInfo{
			ID:        id,
			Case:      CaseMode(raw.Case),
			Canonical: raw.Canonical,
			Subpages:  subpagesFlag(raw.Subpages),
		}
		switch {
		case raw.Name != nil:
			ns.Name = *raw.Name
		case raw.Star != nil:
			ns.Name = *raw.Star
		}
		p.Namespaces = append(p.Namespaces, ns)
	}
	sort.Slice(p.Namespaces, func(i, j int) bool {
		return p.Namespaces[i].ID < p.Namespaces[j].ID
	})
	if _, ok := p.Namespace(0); !ok {
		return nil, &Error{Type: MissingField, Message: "namespace 0 is required"}
	}

	for i, raw := range info.NamespaceAliases {
		alias := NamespaceAlias{ID: raw.ID}
		switch {
		case raw.Alias != nil:
			alias.Alias = *raw.Alias
		case raw.Star != nil:
			alias.Alias = *raw.Star
		default:
			return nil, &Error{Type: MissingField, Message: fmt.Sprintf("namespacealiases[%d] has no alias text", i)}
		}
		p.NamespaceAliases = append(p.NamespaceAliases, alias)
	}

	for _, raw := range info.SpecialPageAliases {
		p.SpecialPageAliases = append(p.SpecialPageAliases, SpecialPageAlias{
			RealName: raw.RealName,
			Aliases:  raw.Aliases,
		})
	}

	return p, nil
}

// subpagesFlag interprets the subpages field: formatversion=1 marks the flag
// by the presence of an empty string, formatversion=2 uses a boolean.
func subpagesFlag(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	return !bytes.Equal(raw, []byte("null"))
}
