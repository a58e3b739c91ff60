package calculation

import (
	"testing"

	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareRegimes(t *testing.T) {
	rs := rules(t, 2024)

	tests := []struct {
		name        string
		mutate      func(p *domain.FiscalProfile)
		recommended domain.Regime
		saving      string
		percentage  string
	}{
		{
			name:        "micro cheaper without expenses",
			mutate:      func(p *domain.FiscalProfile) {},
			recommended: domain.RegimeMicro,
			saving:      "1047.20",
			percentage:  "13.56",
		},
		{
			name: "reel cheaper with large expenses",
			mutate: func(p *domain.FiscalProfile) {
				p.Deductions.RetirementContributions = dec("0")
				p.DeductibleExpenses = dec("15000")
			},
			recommended: domain.RegimeReel,
			saving:      "602.80",
			percentage:  "8.74",
		},
		{
			name: "current reel kept when cheaper",
			mutate: func(p *domain.FiscalProfile) {
				p.Regime = domain.RegimeReel
				p.Deductions.RetirementContributions = dec("0")
				p.DeductibleExpenses = dec("15000")
			},
			recommended: domain.RegimeReel,
			saving:      "602.80",
			percentage:  "8.74",
		},
		{
			name: "exact tie keeps micro",
			mutate: func(p *domain.FiscalProfile) {
				p.DeductibleExpenses = dec("9520")
			},
			recommended: domain.RegimeMicro,
			saving:      "0",
			percentage:  "0",
		},
		{
			name: "exact tie keeps reel",
			mutate: func(p *domain.FiscalProfile) {
				p.Regime = domain.RegimeReel
				p.DeductibleExpenses = dec("9520")
			},
			recommended: domain.RegimeReel,
			saving:      "0",
			percentage:  "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := microBNC()
			tt.mutate(p)

			c, err := CompareRegimes(rs, p)
			require.NoError(t, err)
			assert.Equal(t, tt.recommended, c.Recommended)
			assert.True(t, dec(tt.saving).Equal(c.PotentialSaving), "saving %s", c.PotentialSaving)
			assert.True(t, dec(tt.percentage).Equal(c.PercentageSaving), "percentage %s", c.PercentageSaving)
			assert.NotEmpty(t, c.Justification)
			assert.True(t, c.Micro.Contributions.Equal(c.Reel.Contributions), "contributions do not depend on regime")
			assert.True(t, c.ContributionDelta.IsZero())
		})
	}
}

func TestCompareRegimes_Burdens(t *testing.T) {
	rs := rules(t, 2024)

	c, err := CompareRegimes(rs, microBNC())
	require.NoError(t, err)

	assert.True(t, dec("16480").Equal(c.Micro.TaxableIncome))
	assert.True(t, dec("570.46").Equal(c.Micro.Tax))
	assert.True(t, dec("6674.46").Equal(c.Micro.Total))
	assert.True(t, dec("26000").Equal(c.Reel.TaxableIncome))
	assert.True(t, dec("1617.66").Equal(c.Reel.Tax))
	assert.True(t, dec("7721.66").Equal(c.Reel.Total))
	assert.True(t, dec("1047.20").Equal(c.TaxDelta))
}

func TestCompareRegimes_MicroAboveThreshold(t *testing.T) {
	rs := rules(t, 2024)

	t.Run("micro profile must switch", func(t *testing.T) {
		p := microBNC()
		p.Revenue = dec("80000")

		c, err := CompareRegimes(rs, p)
		require.NoError(t, err)
		assert.False(t, c.Micro.Available)
		assert.Equal(t, domain.RegimeReel, c.Recommended)
		assert.Contains(t, c.Justification, "mandatory")
		assert.True(t, c.PotentialSaving.IsZero(), "an unavailable regime yields no saving")
	})

	t.Run("reel profile is never sent to micro", func(t *testing.T) {
		p := microBNC()
		p.Regime = domain.RegimeReel
		p.Revenue = dec("80000")
		p.DeductibleExpenses = dec("0")

		c, err := CompareRegimes(rs, p)
		require.NoError(t, err)
		assert.Equal(t, domain.RegimeReel, c.Recommended)
		assert.True(t, c.PotentialSaving.IsZero())
	})
}
