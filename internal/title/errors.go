package title

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies why a title was rejected.
type Kind string

const (
	InvalidUTF8          Kind = "title-invalid-utf8"
	InvalidEmpty         Kind = "title-invalid-empty"
	InvalidCharacters    Kind = "title-invalid-characters"
	InvalidTalkNamespace Kind = "title-invalid-talk-namespace"
	InvalidRelative      Kind = "title-invalid-relative"
	InvalidMagicTilde    Kind = "title-invalid-magic-tilde"
	InvalidTooLong       Kind = "title-invalid-too-long"
)

// Kinds lists every rejection kind in pipeline order.
var Kinds = []Kind{
	InvalidUTF8,
	InvalidEmpty,
	InvalidTalkNamespace,
	InvalidCharacters,
	InvalidRelative,
	InvalidMagicTilde,
	InvalidTooLong,
}

// Error is returned when text cannot be normalized into a valid title.
// The same input always fails the same way for the same site profile.
type Error struct {
	Kind      Kind
	Title     string // working title text when the check failed
	Span      string // offending characters, for InvalidCharacters
	MaxLength int    // exceeded byte limit, for InvalidTooLong
}

func (e *Error) Error() string {
	switch e.Kind {
	case InvalidCharacters:
		return fmt.Sprintf("%s: %q contains %q", e.Kind, e.Title, e.Span)
	case InvalidTooLong:
		return fmt.Sprintf("%s: %q is longer than %d bytes", e.Kind, e.Title, e.MaxLength)
	default:
		return fmt.Sprintf("%s: %q", e.Kind, e.Title)
	}
}

// ErrInvalidArgument reports a programming error such as a nil site
// profile. It is never wrapped in an *Error.
var ErrInvalidArgument = errors.New("invalid argument")

// KindOf returns the Kind of a title error, or "" if err is not one.
func KindOf(err error) Kind {
	var titleErr *Error
	if errors.As(err, &titleErr) {
		return titleErr.Kind
	}
	return ""
}
