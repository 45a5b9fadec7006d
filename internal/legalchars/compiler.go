package legalchars

import (
	"regexp"

	"github.com/pkg/errors"

	"wikititle/internal/syncx"
)

// Compiler memoizes conversions keyed by the exact byte class. Conversion is
// a pure function of its input, so entries never need invalidating and
// concurrent callers racing on the same key is harmless.
// The zero value is ready for use.
type Compiler struct {
	classes  syncx.Map[string, string]
	patterns syncx.Map[string, *regexp.Regexp]
}

// NewCompiler returns an empty Compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Class returns Convert(byteClass), computing it at most once per distinct
// input in the common case.
func (c *Compiler) Class(byteClass string) string {
	if class, ok := c.classes.Load(byteClass); ok {
		return class
	}
	class, _ := c.classes.LoadOrStore(byteClass, Convert(byteClass))
	return class
}

// InvalidTitle returns the compiled rejection expression for a byte class.
func (c *Compiler) InvalidTitle(byteClass string) (*regexp.Regexp, error) {
	if re, ok := c.patterns.Load(byteClass); ok {
		return re, nil
	}
	re, err := regexp.Compile(InvalidTitlePattern(c.Class(byteClass)))
	if err != nil {
		return nil, errors.Wrapf(err, "compiling legal title characters %q", byteClass)
	}
	re, _ = c.patterns.LoadOrStore(byteClass, re)
	return re, nil
}

// Len reports how many distinct byte classes have been converted.
func (c *Compiler) Len() int {
	return c.classes.Len()
}
