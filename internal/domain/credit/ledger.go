// Package credit models a student's prepaid lesson entitlement.
package credit

import (
	"time"
)

// Ledger is a read snapshot of a student's balance. The authoritative guard
// against overdraw is the store's conditional decrement; this type only backs
// the cheap pre-checks that reject hopeless bookings before any write.
type Ledger struct {
	SessionsRemaining int32
	HoursRemaining    float64
	CooldownUntil     *time.Time
}

func (l Ledger) HasCredit() bool {
	return l.SessionsRemaining > 0
}

// CanAfford reports whether the ledger covers a booking costing the given
// sessions and hours.
func (l Ledger) CanAfford(sessions int32, hours float64) bool {
	return l.SessionsRemaining >= sessions && l.HoursRemaining >= hours
}

func (l Ledger) InCooldown(now time.Time) bool {
	return l.CooldownUntil != nil && now.Before(*l.CooldownUntil)
}

// NextEligible returns the earliest retry time while the cooldown gate holds.
func (l Ledger) NextEligible() time.Time {
	if l.CooldownUntil == nil {
		return time.Time{}
	}
	return *l.CooldownUntil
}
