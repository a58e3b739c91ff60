package calculation

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPERCeiling(t *testing.T) {
	rs := rules(t, 2024)

	tests := []struct {
		name     string
		revenue  string
		status   string
		expected string
	}{
		{"percentage of revenue", "50000", "", "5000"},
		{"floor applies", "10000", "", "4399"},
		{"default ceiling applies", "500000", "", "35194"},
		{"explicit default status", "50000", domain.DefaultPERStatus, "5000"},
		{"independent ceiling", "1000000", "independent", "81385"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PERCeiling(rs, dec(tt.revenue), tt.status)
			require.NoError(t, err)
			assert.True(t, dec(tt.expected).Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestPERCeiling_UnknownStatus(t *testing.T) {
	rs := rules(t, 2024)

	_, err := PERCeiling(rs, dec("50000"), "artisan")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
	assert.Contains(t, err.Error(), "per.ceiling_by_status.artisan")
}

func TestApplyPER(t *testing.T) {
	rs := rules(t, 2024)

	within, err := ApplyPER(rs, dec("2000"), dec("28000"), "")
	require.NoError(t, err)
	assert.True(t, dec("4399").Equal(within.Ceiling))
	assert.True(t, dec("2000").Equal(within.Deductible))
	assert.True(t, within.Excess.IsZero())

	above, err := ApplyPER(rs, dec("6000"), dec("50000"), "")
	require.NoError(t, err)
	assert.True(t, dec("5000").Equal(above.Deductible))
	assert.True(t, dec("1000").Equal(above.Excess))
	assert.True(t, above.Deductible.Add(above.Excess).Equal(above.Contribution))
}

func TestApplyReduction(t *testing.T) {
	rs := rules(t, 2024)

	tests := []struct {
		name      string
		typ       domain.ReductionType
		declared  string
		units     int
		taxable   string
		ceiling   string
		eligible  string
		reduction string
		excess    string
	}{
		{"donation within ceiling", domain.ReductionDonations, "1000", 0, "50000", "10000", "1000", "660", "0"},
		{"donation above ceiling", domain.ReductionDonations, "15000", 0, "50000", "10000", "10000", "6600", "5000"},
		{"household services two children", domain.ReductionHouseholdServices, "20000", 2, "50000", "15000", "15000", "7500", "5000"},
		{"household services capped", domain.ReductionHouseholdServices, "16000", 3, "50000", "15000", "15000", "7500", "1000"},
		{"household services no children", domain.ReductionHouseholdServices, "3000", 0, "50000", "12000", "3000", "1500", "0"},
		{"childcare one young child", domain.ReductionChildcare, "5000", 1, "50000", "3500", "3500", "1750", "1500"},
		{"childcare without young children", domain.ReductionChildcare, "800", 0, "50000", "0", "0", "0", "800"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyReduction(rs, tt.typ, dec(tt.declared), tt.units, dec(tt.taxable))
			require.NoError(t, err)
			assert.True(t, dec(tt.ceiling).Equal(got.Ceiling), "ceiling %s", got.Ceiling)
			assert.True(t, dec(tt.eligible).Equal(got.Eligible), "eligible %s", got.Eligible)
			assert.True(t, dec(tt.reduction).Equal(got.Reduction), "reduction %s", got.Reduction)
			assert.True(t, dec(tt.excess).Equal(got.Excess), "excess %s", got.Excess)
		})
	}
}

func TestApplyReduction_MissingConfiguration(t *testing.T) {
	rs := &domain.RuleSet{Year: 2024}

	_, err := ApplyReduction(rs, domain.ReductionDonations, dec("100"), 0, dec("1000"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestApplyReductions_UsesProfileUnits(t *testing.T) {
	rs := rules(t, 2024)
	p := microBNC()
	p.Children = 2
	p.YoungChildren = 1
	p.Deductions.HouseholdServices = dec("20000")
	p.Deductions.Childcare = dec("5000")

	lines, total, err := ApplyReductions(rs, p, dec("30000"))
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, domain.ReductionDonations, lines[0].Type)
	assert.True(t, dec("15000").Equal(lines[1].Ceiling))
	assert.True(t, dec("3500").Equal(lines[2].Ceiling))
	assert.True(t, dec("9250").Equal(total), "got %s", total)
}

func TestAssessContributions(t *testing.T) {
	rs := rules(t, 2024)

	t.Run("paid not declared", func(t *testing.T) {
		sc, warnings, err := AssessContributions(rs, dec("28000"), domain.ActivityBNC, nil)
		require.NoError(t, err)
		assert.True(t, dec("6104").Equal(sc.Expected))
		assert.Nil(t, sc.Paid)
		assert.Nil(t, sc.Delta)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "not declared")
	})

	t.Run("within tolerance", func(t *testing.T) {
		sc, warnings, err := AssessContributions(rs, dec("28000"), domain.ActivityBNC, decimalPtr(dec("6054")))
		require.NoError(t, err)
		require.NotNil(t, sc.Delta)
		assert.True(t, dec("-50").Equal(*sc.Delta))
		assert.Empty(t, warnings)
	})

	t.Run("underpaid", func(t *testing.T) {
		_, warnings, err := AssessContributions(rs, dec("28000"), domain.ActivityBNC, decimalPtr(dec("5000")))
		require.NoError(t, err)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "underpaid by 1104.00")
	})

	t.Run("overpaid", func(t *testing.T) {
		_, warnings, err := AssessContributions(rs, dec("28000"), domain.ActivityBNC, decimalPtr(dec("7000")))
		require.NoError(t, err)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "overpaid by 896.00")
	})
}

func TestCheckThreshold(t *testing.T) {
	rs := rules(t, 2024)

	tests := []struct {
		name        string
		revenue     string
		approaching bool
		exceeded    bool
	}{
		{"far below", "28000", false, false},
		{"at alert ratio", "69930", true, false},
		{"approaching", "72000", true, false},
		{"exactly at threshold", "77700", false, false},
		{"exceeded", "80000", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp, err := CheckThreshold(rs, dec(tt.revenue), domain.ActivityBNC)
			require.NoError(t, err)
			assert.Equal(t, tt.approaching, tp.Approaching)
			assert.Equal(t, tt.exceeded, tp.Exceeded)
			assert.False(t, tp.Headroom.IsNegative())
		})
	}
}
