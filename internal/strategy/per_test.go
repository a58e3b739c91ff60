package strategy

import (
	"testing"

	"github.com/rgehrsitz/fiscopt/internal/calculation"
	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPERStrategy(t *testing.T) {
	rs := rules2024(t)
	s, err := NewPERStrategy(rs)
	require.NoError(t, err)

	tests := []struct {
		name       string
		profile    func() *domain.FiscalProfile
		capital    string
		wantRec    bool
		amount     string
		impact     string
		wantWarned bool
	}{
		{
			name:       "gap to target ratio without capital",
			profile:    referenceProfile,
			wantRec:    true,
			amount:     "1519.20",
			impact:     "167.11",
			wantWarned: true,
		},
		{
			name:    "limited by capital",
			profile: referenceProfile,
			capital: "1000",
			wantRec: true,
			amount:  "1000",
			impact:  "110",
		},
		{
			name:    "capital below minimum contribution",
			profile: referenceProfile,
			capital: "300",
		},
		{
			name:    "high earner",
			profile: highEarnerProfile,
			wantRec: true,
			amount:  "9600",
			impact:  "3936",
		},
		{
			name: "marginal rate too low",
			profile: func() *domain.FiscalProfile {
				p := referenceProfile()
				p.Revenue = dec("15000")
				return p
			},
		},
		{
			name: "already at target",
			profile: func() *domain.FiscalProfile {
				p := referenceProfile()
				p.Deductions.RetirementContributions = dec("3300")
				return p
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := input(t, rs, tt.profile())
			if tt.capital != "" {
				in.Context.InvestableCapital = decimalPtr(dec(tt.capital))
			}

			out := evaluate(t, s, in)
			if !tt.wantRec {
				assert.Empty(t, out.Recommendations)
				return
			}
			require.Len(t, out.Recommendations, 1)
			r := out.Recommendations[0]
			assert.True(t, dec(tt.amount).Equal(r.RequiredInvestment), "amount %s", r.RequiredInvestment)
			assert.True(t, dec(tt.impact).Equal(r.EstimatedImpact), "impact %s", r.EstimatedImpact)
			assert.Equal(t, "2024-12-31", r.Deadline)
			assert.Equal(t, tt.wantWarned, len(out.Warnings) > 0)
		})
	}
}

func TestPERStrategy_ImpactMatchesRecalculation(t *testing.T) {
	rs := rules2024(t)
	s, err := NewPERStrategy(rs)
	require.NoError(t, err)
	p := highEarnerProfile()
	in := input(t, rs, p)

	out := evaluate(t, s, in)
	require.Len(t, out.Recommendations, 1)
	r := out.Recommendations[0]

	after := *p
	after.Deductions.RetirementContributions = after.Deductions.RetirementContributions.Add(r.RequiredInvestment)
	recalculated, err := calculation.CalculateWithRules(rs, &after)
	require.NoError(t, err)

	assert.True(t, in.Tax.NetTax.Sub(recalculated.NetTax).Round(2).Equal(r.EstimatedImpact))
}
