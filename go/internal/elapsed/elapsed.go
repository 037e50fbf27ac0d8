// Package elapsed computes pause-aware active time from snapshot timestamps.
package elapsed

import "time"

// ActiveSeconds returns the active (non-paused) seconds between start and now.
//
// The effective "now" is clamped to terminalAt when the entity has finished
// (a finished entity stops accumulating time even if still rendered later),
// otherwise to pausedAt when currently paused. totalPausedSeconds covers
// pause intervals that have already been resumed.
//
// The second return is false when start is missing, in which case no timer
// should be rendered. The result is never negative.
func ActiveSeconds(start, pausedAt, terminalAt *time.Time, totalPausedSeconds int64, now time.Time) (int64, bool) {
	if start == nil || start.IsZero() {
		return 0, false
	}

	effective := now
	if terminalAt != nil && !terminalAt.IsZero() {
		effective = *terminalAt
	} else if pausedAt != nil && !pausedAt.IsZero() {
		effective = *pausedAt
	}

	secs := int64(effective.Sub(*start)/time.Second) - totalPausedSeconds
	if secs < 0 {
		return 0, true
	}
	return secs, true
}

// ActiveMinutes is ActiveSeconds truncated to whole minutes.
func ActiveMinutes(start, pausedAt, terminalAt *time.Time, totalPausedSeconds int64, now time.Time) (int64, bool) {
	secs, ok := ActiveSeconds(start, pausedAt, terminalAt, totalPausedSeconds, now)
	return secs / 60, ok
}

// RemainingSeconds returns the whole seconds from now until end, floored at
// zero. A nil end counts as already elapsed.
func RemainingSeconds(end *time.Time, now time.Time) int64 {
	if end == nil || end.IsZero() {
		return 0
	}
	rem := int64(end.Sub(now) / time.Second)
	if rem < 0 {
		return 0
	}
	return rem
}
