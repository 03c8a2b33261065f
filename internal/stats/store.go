package stats

import (
	"context"
	"time"
)

// DayLayout formats the day a hit is bucketed into.
const DayLayout = "2006-01-02"

// Day holds the counter values of a single UTC day.
type Day struct {
	Date   string
	Counts map[Counter]int64
}

// Store persists counters bucketed per UTC day.
type Store interface {
	Increment(ctx context.Context, counter Counter, at time.Time) error
	// Daily returns the last days buckets ending at until, newest first.
	Daily(ctx context.Context, days int, until time.Time) ([]Day, error)
}

// dates returns the day keys of the last n days ending at until, newest first.
func dates(n int, until time.Time) []string {
	out := make([]string, 0, n)
	day := until.UTC()

	for range n {
		out = append(out, day.Format(DayLayout))
		day = day.AddDate(0, 0, -1)
	}

	return out
}
