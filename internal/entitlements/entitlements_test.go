package entitlements

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	const unlimited = 999999

	premium := Derive(PlanPremium, 0, unlimited)
	assert.True(t, premium.BypassCredits)
	assert.Equal(t, unlimited, premium.MaxCredits)

	free := Derive(PlanFree, 3, unlimited)
	assert.False(t, free.BypassCredits)
	assert.Equal(t, 3, free.MaxCredits)

	drained := Derive(PlanFree, 0, unlimited)
	assert.False(t, drained.BypassCredits)
	assert.Equal(t, 0, drained.MaxCredits)

	// Negative stored balances clamp to zero rather than going further down.
	negative := Derive(PlanFree, -2, unlimited)
	assert.Equal(t, 0, negative.MaxCredits)

	// Unknown plan strings behave like free.
	unknown := Derive("trial", 5, unlimited)
	assert.False(t, unknown.BypassCredits)
	assert.Equal(t, 5, unknown.MaxCredits)
}
