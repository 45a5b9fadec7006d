// Package output handles CLI output formatting including verbose mode,
// colored labels and progress indicators.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"wikititle/internal/batch"
	"wikititle/internal/title"
)

// ColorMode selects when labels are colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode converts a flag or config value to a ColorMode. The empty
// string means auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(strings.ToLower(s)) {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways:
		return ColorAlways, nil
	case ColorNever:
		return ColorNever, nil
	}
	return "", errors.Errorf("invalid color mode %q (want auto, always or never)", s)
}

// Config holds output configuration.
type Config struct {
	Verbose   bool      // Enable verbose output
	Writer    io.Writer // Output destination (default: os.Stdout)
	ErrWriter io.Writer // Error output destination (default: os.Stderr)
	IsTTY     bool      // Whether output is a terminal
	Color     ColorMode // Label coloring (default: auto)
}

// Output handles formatted output with verbose and progress support.
type Output struct {
	config          Config
	green           func(a ...interface{}) string
	red             func(a ...interface{}) string
	yellow          func(a ...interface{}) string
	faint           func(a ...interface{}) string
	progressActive  bool
	progressTotal   int
	progressCurrent int
	progressMu      sync.Mutex
}

// New creates a new Output instance with the given configuration.
func New(config Config) *Output {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.ErrWriter == nil {
		config.ErrWriter = os.Stderr
	}
	if config.Color == "" {
		config.Color = ColorAuto
	}

	enabled := colorEnabled(config)
	paint := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}

	return &Output{
		config: config,
		green:  paint(color.FgGreen),
		red:    paint(color.FgRed, color.Bold),
		yellow: paint(color.FgYellow),
		faint:  paint(color.Faint),
	}
}

// colorEnabled resolves the color mode. Auto colors only terminals and
// honors NO_COLOR.
func colorEnabled(config Config) bool {
	switch config.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	_, noColor := os.LookupEnv("NO_COLOR")
	return config.IsTTY && !noColor
}

// DefaultConfig returns a Config with sensible defaults and TTY detection.
func DefaultConfig() Config {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	return Config{
		Verbose:   false,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		IsTTY:     isTTY,
		Color:     ColorAuto,
	}
}

func withNewline(format string, args ...interface{}) string {
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	return msg
}

// Verbose prints a message only when verbose mode is enabled.
func (o *Output) Verbose(format string, args ...interface{}) {
	if !o.config.Verbose {
		return
	}
	o.clearProgressLine()
	msg := strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")
	fmt.Fprintln(o.config.Writer, o.faint(msg))
}

// Info prints an informational message (always shown).
func (o *Output) Info(format string, args ...interface{}) {
	o.clearProgressLine()
	fmt.Fprint(o.config.Writer, withNewline(format, args...))
}

// Warn prints a labeled warning to stderr.
func (o *Output) Warn(format string, args ...interface{}) {
	o.clearProgressLine()
	fmt.Fprint(o.config.ErrWriter, o.yellow("warning:")+" "+withNewline(format, args...))
}

// Error prints a labeled error message to stderr.
func (o *Output) Error(format string, args ...interface{}) {
	o.clearProgressLine()
	fmt.Fprint(o.config.ErrWriter, o.red("error:")+" "+withNewline(format, args...))
}

// Title prints a normalized title, with its fragment when withFragment is
// set.
func (o *Output) Title(t *title.Title, withFragment bool) {
	text := t.PrefixedDBKey()
	if withFragment {
		text = t.String()
	}
	o.Info("%s", o.green(text))
}

// Result prints one batch line as input, a tab, then the prefixed key or
// the error kind.
func (o *Output) Result(res batch.Result) {
	if res.OK() {
		o.Info("%s\t%s", res.Input, o.green(res.Title.PrefixedDBKey()))
		return
	}
	if kind := title.KindOf(res.Err); kind != "" {
		o.Info("%s\t%s", res.Input, o.red(string(kind)))
		o.Verbose("  %v", res.Err)
		return
	}
	o.Info("%s\t%s", res.Input, o.red(res.Err.Error()))
}

// Summary prints batch totals, with a per-kind breakdown in verbose mode.
func (o *Output) Summary(s *batch.Summary) {
	o.Info("%s", s)
	if !o.config.Verbose {
		return
	}
	for _, kc := range s.KindCounts() {
		o.Info("  %-30s %d", kc.Kind, kc.Count)
	}
	o.Info("  took %s", s.Duration.Round(time.Microsecond))
}

// clearProgressLine clears the current progress line if active.
func (o *Output) clearProgressLine() {
	o.progressMu.Lock()
	defer o.progressMu.Unlock()
	if o.progressActive && o.config.IsTTY {
		fmt.Fprint(o.config.Writer, "\r"+strings.Repeat(" ", 60)+"\r")
	}
}

// StartProgress begins a progress indicator session.
func (o *Output) StartProgress(total int) {
	if !o.config.IsTTY || o.config.Verbose {
		return
	}
	o.progressMu.Lock()
	defer o.progressMu.Unlock()
	o.progressActive = true
	o.progressTotal = total
	o.progressCurrent = 0
}

// UpdateProgress updates the progress indicator in place.
func (o *Output) UpdateProgress(current int, message string) {
	if !o.config.IsTTY || o.config.Verbose {
		return
	}
	o.progressMu.Lock()
	defer o.progressMu.Unlock()
	if !o.progressActive {
		return
	}
	o.progressCurrent = current
	progressMsg := fmt.Sprintf("\rNormalizing title %d/%d...", current, o.progressTotal)
	if message != "" {
		progressMsg = fmt.Sprintf("\r%s %d/%d...", message, current, o.progressTotal)
	}
	fmt.Fprint(o.config.Writer, progressMsg)
}

// EndProgress clears the progress indicator.
func (o *Output) EndProgress() {
	if !o.config.IsTTY || o.config.Verbose {
		return
	}
	o.progressMu.Lock()
	defer o.progressMu.Unlock()
	if !o.progressActive {
		return
	}
	o.progressActive = false
	fmt.Fprint(o.config.Writer, "\r"+strings.Repeat(" ", 60)+"\r")
}

// IsVerbose returns whether verbose mode is enabled.
func (o *Output) IsVerbose() bool {
	return o.config.Verbose
}

// IsTTY returns whether the output is a terminal.
func (o *Output) IsTTY() bool {
	return o.config.IsTTY
}

// ColorEnabled reports whether labels are colored.
func (o *Output) ColorEnabled() bool {
	return colorEnabled(o.config)
}
