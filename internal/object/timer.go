package object

import "time"

// Tick is a position on the simulation's monotonic clock.
type Tick uint64

// TicksFor converts a duration to a whole number of ticks of the given period,
// rounding up. Positive durations always last at least one tick.
func TicksFor(d, period time.Duration) Tick {
	if d <= 0 || period <= 0 {
		return 0
	}
	n := d / period
	if d%period != 0 {
		n++
	}
	return Tick(n)
}

// EffectSlot is a single pending expiry. Arming an armed slot replaces the
// previous deadline, so at most one expiry is ever outstanding per slot.
type EffectSlot struct {
	Armed     bool
	ExpiresAt Tick
}

// Arm schedules the slot to expire after ticks from now.
func (s *EffectSlot) Arm(now, ticks Tick) {
	s.Armed = true
	s.ExpiresAt = now + ticks
}

// Cancel disarms the slot.
func (s *EffectSlot) Cancel() {
	s.Armed = false
	s.ExpiresAt = 0
}

// Due reports whether the slot is armed and its deadline has been reached.
func (s *EffectSlot) Due(now Tick) bool {
	return s.Armed && now >= s.ExpiresAt
}
