package strategy

import (
	"testing"

	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFurnishedRentalStrategy(t *testing.T) {
	rs := rules2024(t)
	s, err := NewFurnishedRentalStrategy(rs)
	require.NoError(t, err)

	t.Run("eligible", func(t *testing.T) {
		out := evaluate(t, s, input(t, rs, highEarnerProfile()))
		require.Len(t, out.Recommendations, 1)
		r := out.Recommendations[0]
		assert.True(t, dec("1746").Equal(r.EstimatedImpact), "impact %s", r.EstimatedImpact)
		assert.True(t, dec("100000").Equal(r.RequiredInvestment))
		assert.Equal(t, domain.CategoryInvestment, r.Category)
	})

	t.Run("capital below minimum", func(t *testing.T) {
		in := input(t, rs, highEarnerProfile())
		in.Context.InvestableCapital = decimalPtr(dec("20000"))
		assert.Empty(t, evaluate(t, s, in).Recommendations)
	})

	t.Run("capital missing", func(t *testing.T) {
		p := highEarnerProfile()
		p.InvestmentCapacity = nil
		out := evaluate(t, s, input(t, rs, p))
		assert.Empty(t, out.Recommendations)
		require.Len(t, out.Warnings, 1)
		assert.Contains(t, out.Warnings[0], "investable capital not provided")
	})

	t.Run("marginal rate too low", func(t *testing.T) {
		p := referenceProfile()
		p.InvestmentCapacity = decimalPtr(dec("100000"))
		assert.Empty(t, evaluate(t, s, input(t, rs, p)).Recommendations)
	})
}

func TestOverseasStrategy(t *testing.T) {
	rs := rules2024(t)
	s, err := NewOverseasStrategy(rs)
	require.NoError(t, err)

	t.Run("dynamic investor", func(t *testing.T) {
		out := evaluate(t, s, input(t, rs, highEarnerProfile()))
		require.Len(t, out.Recommendations, 1)
		r := out.Recommendations[0]
		assert.True(t, dec("22935.20").Equal(r.RequiredInvestment), "investment %s", r.RequiredInvestment)
		assert.True(t, dec("2293.52").Equal(r.EstimatedImpact), "impact %s", r.EstimatedImpact)
		assert.Equal(t, domain.LevelHigh, r.Risk)
	})

	t.Run("capital limits the credit", func(t *testing.T) {
		in := input(t, rs, highEarnerProfile())
		in.Context.InvestableCapital = decimalPtr(dec("10000"))
		out := evaluate(t, s, in)
		require.Len(t, out.Recommendations, 1)
		assert.True(t, dec("1000").Equal(out.Recommendations[0].EstimatedImpact))
	})

	t.Run("balanced investor declines", func(t *testing.T) {
		in := input(t, rs, highEarnerProfile())
		in.Context.RiskTolerance = riskPtr(domain.RiskBalanced)
		assert.Empty(t, evaluate(t, s, in).Recommendations)
	})

	t.Run("risk missing", func(t *testing.T) {
		p := highEarnerProfile()
		p.RiskTolerance = nil
		out := evaluate(t, s, input(t, rs, p))
		assert.Empty(t, out.Recommendations)
		require.Len(t, out.Warnings, 1)
		assert.Contains(t, out.Warnings[0], "risk tolerance not provided")
	})

	t.Run("tax below minimum", func(t *testing.T) {
		p := referenceProfile()
		p.RiskTolerance = riskPtr(domain.RiskDynamic)
		assert.Empty(t, evaluate(t, s, input(t, rs, p)).Recommendations)
	})
}

func TestInnovationFundStrategy(t *testing.T) {
	rs := rules2024(t)
	s, err := NewInnovationFundStrategy(rs)
	require.NoError(t, err)

	t.Run("single ceiling", func(t *testing.T) {
		out := evaluate(t, s, input(t, rs, highEarnerProfile()))
		require.Len(t, out.Recommendations, 1)
		r := out.Recommendations[0]
		assert.True(t, dec("12000").Equal(r.RequiredInvestment))
		assert.True(t, dec("3000").Equal(r.EstimatedImpact))
	})

	t.Run("couple ceiling", func(t *testing.T) {
		p := highEarnerProfile()
		p.FamilySituation = domain.FamilyMarried
		p.Parts = dec("2")
		out := evaluate(t, s, input(t, rs, p))
		require.Len(t, out.Recommendations, 1)
		assert.True(t, dec("24000").Equal(out.Recommendations[0].RequiredInvestment))
	})

	t.Run("capital missing warns and sizes on ceiling", func(t *testing.T) {
		p := highEarnerProfile()
		p.InvestmentCapacity = nil
		out := evaluate(t, s, input(t, rs, p))
		require.Len(t, out.Recommendations, 1)
		require.Len(t, out.Warnings, 1)
		assert.Contains(t, out.Warnings[0], "sized on the ceiling alone")
	})

	t.Run("conservative investor declines", func(t *testing.T) {
		in := input(t, rs, highEarnerProfile())
		in.Context.RiskTolerance = riskPtr(domain.RiskConservative)
		assert.Empty(t, evaluate(t, s, in).Recommendations)
	})
}
