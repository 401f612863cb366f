// Package diagnostics holds the process-wide reconcile diagnostics served by
// the HTTP layer.
package diagnostics

import (
	"sync"
	"time"
)

// Snapshot is a point-in-time copy of the diagnostics.
type Snapshot struct {
	LastEvent time.Time `json:"last_event"`
	Reporter  string    `json:"reporter"`
}

// Diagnostics is written by every reconcile and read by HTTP handlers.
type Diagnostics struct {
	mu        sync.RWMutex
	lastEvent time.Time
	reporter  string
	now       func() time.Time
}

// New creates diagnostics for the given reporter. LastEvent starts at the
// creation time.
func New(reporter string) *Diagnostics {
	d := &Diagnostics{
		reporter: reporter,
		now:      time.Now,
	}
	d.lastEvent = d.now()
	return d
}

// RecordEvent stamps LastEvent with the current time.
func (d *Diagnostics) RecordEvent() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastEvent = d.now()
}

// Reporter returns the reporter identity.
func (d *Diagnostics) Reporter() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.reporter
}

// Snapshot returns a copy of the current values.
func (d *Diagnostics) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Snapshot{
		LastEvent: d.lastEvent,
		Reporter:  d.reporter,
	}
}
