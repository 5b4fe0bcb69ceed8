// Package retention decides when an unreturned disc becomes expired and
// what happens to it. Two mutually exclusive variants exist: soft-expire
// marks the disc returned, hard-expire deletes it. A deployment runs
// exactly one variant for both the background sweep and the on-demand
// admin cleanup.
package retention

import "time"

// Mode selects the retention variant.
type Mode string

const (
	// ModeSoft marks expired discs as returned without deleting them.
	ModeSoft Mode = "soft"
	// ModeHard permanently deletes expired discs.
	ModeHard Mode = "hard"
)

// DefaultDays is the default retention threshold, six weeks.
const DefaultDays = 42

// Policy is the retention configuration for one deployment.
type Policy struct {
	Mode Mode
	Days int
}

// New builds a policy, falling back to soft mode and the default
// threshold for unknown or zero values.
func New(mode string, days int) Policy {
	m := Mode(mode)
	if m != ModeHard {
		m = ModeSoft
	}
	if days <= 0 {
		days = DefaultDays
	}
	return Policy{Mode: m, Days: days}
}

// Hard reports whether the policy deletes expired discs.
func (p Policy) Hard() bool {
	return p.Mode == ModeHard
}

// Cutoff returns the exclusive upper bound for expired dateFound values.
// The bound is the UTC midnight following now-Days, so a disc found any
// time on the day exactly Days ago is eligible and the result is stable
// for the whole execution day.
func (p Policy) Cutoff(now time.Time) time.Time {
	d := now.UTC().AddDate(0, 0, -p.Days)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

// Expired reports whether a record found at dateFound and not returned is
// eligible for policy action at the given cutoff.
func Expired(dateFound, cutoff time.Time, isReturned bool) bool {
	return !isReturned && dateFound.Before(cutoff)
}
