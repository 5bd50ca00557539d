package metrics

import (
	"context"
	"time"
)

// Snapshot is one recorded sensor reading from the monitor loop.
type Snapshot struct {
	Timestamp  time.Time
	AvgFreqKHz int64
	Cores      int
	TempC      float64
	TempOK     bool
}

// Collector records sensor snapshots.
type Collector interface {
	Record(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

// Repository is the storage backend behind a Collector.
type Repository interface {
	Record(snapshot *Snapshot) error
	Close() error
}
