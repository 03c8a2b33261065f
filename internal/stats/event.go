package stats

import "time"

// TopicHit is the stream topic hit events are published on.
const TopicHit = "stats.hit"

// HitEvent represents a single counter increment.
type HitEvent struct {
	Counter Counter   `json:"counter"`
	At      time.Time `json:"at"`
}
