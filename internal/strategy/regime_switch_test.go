package strategy

import (
	"testing"

	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegimeSwitchStrategy(t *testing.T) {
	rs := rules2024(t)
	s, err := NewRegimeSwitchStrategy(rs)
	require.NoError(t, err)

	t.Run("current regime already cheapest", func(t *testing.T) {
		out := evaluate(t, s, input(t, rs, referenceProfile()))
		assert.Empty(t, out.Recommendations)
		require.Len(t, out.Warnings, 1)
		assert.Contains(t, out.Warnings[0], "no deductible expenses provided")
	})

	t.Run("reel cheaper", func(t *testing.T) {
		p := referenceProfile()
		p.Deductions.RetirementContributions = dec("0")
		p.DeductibleExpenses = dec("15000")

		out := evaluate(t, s, input(t, rs, p))
		require.Len(t, out.Recommendations, 1)
		r := out.Recommendations[0]
		assert.Equal(t, "Switch to the reel_bnc regime", r.Title)
		assert.Equal(t, domain.CategoryRegime, r.Category)
		assert.True(t, dec("602.80").Equal(r.EstimatedImpact), "impact %s", r.EstimatedImpact)
		assert.Equal(t, domain.LevelMedium, r.Complexity)
		assert.True(t, dec("0.9").Equal(r.Confidence))
		assert.NotEmpty(t, r.ActionSteps)
		assert.NotEmpty(t, r.Sources)
	})

	t.Run("saving below minimum", func(t *testing.T) {
		p := referenceProfile()
		p.DeductibleExpenses = dec("9600")

		out := evaluate(t, s, input(t, rs, p))
		assert.Empty(t, out.Recommendations, "an 8.80 saving is below the configured minimum")
	})

	t.Run("threshold exceeded forces reel", func(t *testing.T) {
		p := referenceProfile()
		p.Revenue = dec("80000")

		out := evaluate(t, s, input(t, rs, p))
		require.Len(t, out.Recommendations, 1)
		r := out.Recommendations[0]
		assert.Equal(t, "Move to the reel_bnc regime", r.Title)
		assert.True(t, r.EstimatedImpact.IsZero())
		assert.True(t, dec("1").Equal(r.Confidence))
	})

	t.Run("approaching threshold warns", func(t *testing.T) {
		p := referenceProfile()
		p.Revenue = dec("72000")
		p.DeductibleExpenses = dec("1000")

		out := evaluate(t, s, input(t, rs, p))
		require.Len(t, out.Warnings, 1)
		assert.Contains(t, out.Warnings[0], "5700.00 EUR below the micro threshold")
	})
}
