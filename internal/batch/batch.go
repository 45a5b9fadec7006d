// Package batch normalizes many titles for one site and tallies the
// outcomes.
package batch

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"

	"wikititle/internal/namespace"
	"wikititle/internal/site"
	"wikititle/internal/title"
)

// maxLineSize bounds a single input line. Valid titles are far shorter;
// longer lines still fail normalization rather than aborting the run.
const maxLineSize = 1 << 20

// ProfileSource provides site profiles by site id.
type ProfileSource interface {
	Get(ctx context.Context, siteID string) (*site.Profile, error)
}

// Result is the outcome of normalizing one input title.
type Result struct {
	Line  int // 1-based input line, 0 for titles not read from a stream
	Input string
	Title *title.Title
	Err   error
}

// OK reports whether the input normalized to a title.
func (r Result) OK() bool { return r.Err == nil }

// Runner normalizes titles against profiles from a ProfileSource. The
// profile is looked up for every title so a reloaded profile takes effect
// mid-run.
type Runner struct {
	profiles   ProfileSource
	normalizer *title.Normalizer
	defaultNS  namespace.ID
}

// NewRunner creates a Runner. A nil normalizer uses a fresh one.
func NewRunner(profiles ProfileSource, normalizer *title.Normalizer) *Runner {
	if normalizer == nil {
		normalizer = title.NewNormalizer()
	}
	return &Runner{profiles: profiles, normalizer: normalizer}
}

// WithDefaultNamespace sets the namespace for titles without a prefix.
func (r *Runner) WithDefaultNamespace(id namespace.ID) *Runner {
	r.defaultNS = id
	return r
}

// Titles normalizes each title in order, calling emit with every result.
func (r *Runner) Titles(ctx context.Context, siteID string, titles []string, emit func(Result)) (*Summary, error) {
	start := time.Now()
	var results []Result
	for _, text := range titles {
		res, err := r.normalize(ctx, siteID, text)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
		if emit != nil {
			emit(res)
		}
	}
	return GenerateSummary(results, time.Since(start)), nil
}

// Run reads one title per line from in. Blank lines are skipped. Run stops
// early when ctx is canceled or the profile cannot be loaded.
func (r *Runner) Run(ctx context.Context, siteID string, in io.Reader, emit func(Result)) (*Summary, error) {
	start := time.Now()
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var results []Result
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		res, err := r.normalize(ctx, siteID, text)
		if err != nil {
			return GenerateSummary(results, time.Since(start)), err
		}
		res.Line = line
		results = append(results, res)
		if emit != nil {
			emit(res)
		}
	}
	if err := scanner.Err(); err != nil {
		return GenerateSummary(results, time.Since(start)), errors.Wrapf(err, "reading titles after line %d", line)
	}
	return GenerateSummary(results, time.Since(start)), nil
}

// normalize returns an error only for failures that end the run; title
// rejections are reported in the Result.
func (r *Runner) normalize(ctx context.Context, siteID, text string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	profile, err := r.profiles.Get(ctx, siteID)
	if err != nil {
		return Result{}, err
	}
	t, err := r.normalizer.Normalize(text, profile, r.defaultNS)
	if err != nil && title.KindOf(err) == "" {
		return Result{}, errors.Wrapf(err, "normalizing %q", text)
	}
	return Result{Input: text, Title: t, Err: err}, nil
}
