package batch

import (
	"fmt"
	"time"

	"wikititle/internal/title"
)

// Summary contains statistics from a batch run.
type Summary struct {
	Total      int                // Titles processed
	Normalized int                // Titles that normalized
	Failed     int                // Titles rejected
	Changed    int                // Normalized titles whose key differs from the input
	ByKind     map[title.Kind]int // Rejections per error kind
	Duration   time.Duration
}

// GenerateSummary tallies results.
func GenerateSummary(results []Result, duration time.Duration) *Summary {
	summary := &Summary{
		ByKind:   make(map[title.Kind]int),
		Duration: duration,
	}
	for _, res := range results {
		summary.Total++
		if res.OK() {
			summary.Normalized++
			if res.Title.PrefixedDBKey() != res.Input {
				summary.Changed++
			}
			continue
		}
		summary.Failed++
		summary.ByKind[title.KindOf(res.Err)]++
	}
	return summary
}

// HasErrors reports whether any title was rejected.
func (s *Summary) HasErrors() bool {
	return s.Failed > 0
}

// KindCounts lists rejection counts in pipeline order, omitting kinds that
// did not occur.
func (s *Summary) KindCounts() []KindCount {
	var counts []KindCount
	for _, kind := range title.Kinds {
		if n := s.ByKind[kind]; n > 0 {
			counts = append(counts, KindCount{Kind: kind, Count: n})
		}
	}
	return counts
}

// KindCount pairs an error kind with how often it occurred.
type KindCount struct {
	Kind  title.Kind
	Count int
}

func (s *Summary) String() string {
	return fmt.Sprintf("Processed %d titles: %d normalized (%d changed), %d invalid",
		s.Total, s.Normalized, s.Changed, s.Failed)
}
