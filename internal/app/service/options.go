package service

import "time"

// Options tunes the service loops.
type Options struct {
	// SnapshotInterval is how often the display snapshot is refreshed.
	SnapshotInterval time.Duration
	// ReadBackoff is the pause after a failed read from the order topic.
	ReadBackoff time.Duration
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() *Options {
	return &Options{
		SnapshotInterval: 5 * time.Second,
		ReadBackoff:      100 * time.Millisecond,
	}
}
