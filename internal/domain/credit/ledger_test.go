//go:build unit

package credit_test

import (
	"testing"
	"time"

	"drivebook/internal/domain/credit"

	"github.com/stretchr/testify/assert"
)

func TestLedger(t *testing.T) {
	now := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)

	t.Run("has credit", func(t *testing.T) {
		assert.True(t, credit.Ledger{SessionsRemaining: 1}.HasCredit())
		assert.False(t, credit.Ledger{SessionsRemaining: 0}.HasCredit())
	})

	t.Run("can afford", func(t *testing.T) {
		l := credit.Ledger{SessionsRemaining: 2, HoursRemaining: 3}

		assert.True(t, l.CanAfford(1, 2))
		assert.True(t, l.CanAfford(2, 3))
		assert.False(t, l.CanAfford(3, 1))
		assert.False(t, l.CanAfford(1, 3.5))
	})

	t.Run("cooldown gate", func(t *testing.T) {
		until := now.Add(time.Hour)
		l := credit.Ledger{SessionsRemaining: 1, CooldownUntil: &until}

		assert.True(t, l.InCooldown(now))
		assert.False(t, l.InCooldown(until), "cooldown boundary is open")
		assert.False(t, l.InCooldown(until.Add(time.Second)))
		assert.Equal(t, until, l.NextEligible())
	})

	t.Run("no cooldown set", func(t *testing.T) {
		l := credit.Ledger{SessionsRemaining: 1}

		assert.False(t, l.InCooldown(now))
		assert.True(t, l.NextEligible().IsZero())
	})
}
