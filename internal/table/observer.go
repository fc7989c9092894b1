package table

import "time"

// Reason tells why a rehash ran.
type Reason uint8

const (
	ReasonGrow Reason = iota
	ReasonShrink
	ReasonCompact
)

// String returns the reason name.
func (r Reason) String() string {
	switch r {
	case ReasonGrow:
		return "grow"
	case ReasonShrink:
		return "shrink"
	case ReasonCompact:
		return "compact"
	default:
		return "unknown"
	}
}

// RehashEvent describes a completed rehash.
type RehashEvent struct {
	Reason   Reason
	From     int // capacity before
	To       int // capacity after
	Migrated int // live entries moved
	Dropped  int // tombstones discarded
	Duration time.Duration
}

// Observer is notified after every rehash. It runs while the owner's lock is
// held and must not call back into the table.
type Observer interface {
	Rehashed(ev RehashEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev RehashEvent)

// Rehashed calls f(ev).
func (f ObserverFunc) Rehashed(ev RehashEvent) {
	f(ev)
}
