package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

func TestBracketContains(t *testing.T) {
	closed := Bracket{Lower: decimal.NewFromInt(11294), Upper: ptr(decimal.NewFromInt(28797)), Rate: decimal.RequireFromString("0.11")}
	open := Bracket{Lower: decimal.NewFromInt(177106), Rate: decimal.RequireFromString("0.45")}

	tests := []struct {
		name    string
		bracket Bracket
		income  int64
		want    bool
	}{
		{"below lower", closed, 11293, false},
		{"at lower", closed, 11294, true},
		{"inside", closed, 20000, true},
		{"at upper is excluded", closed, 28797, false},
		{"open bracket at lower", open, 177106, true},
		{"open bracket far above", open, 10_000_000, true},
		{"open bracket below", open, 177105, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.bracket.Contains(decimal.NewFromInt(tt.income)))
		})
	}
}

func TestEnumerations(t *testing.T) {
	assert.True(t, RegimeMicro.Valid())
	assert.False(t, Regime("flat").Valid())
	assert.Equal(t, RegimeReel, RegimeMicro.Other())
	assert.Equal(t, RegimeMicro, RegimeReel.Other())

	assert.True(t, ActivityBICVente.Valid())
	assert.False(t, ActivityClass("bic").Valid())
	assert.Equal(t, "micro_bic_services", RegimeLabel(RegimeMicro, ActivityBICServices))

	assert.True(t, FamilyPacsed.IsCouple())
	assert.True(t, FamilyMarried.IsCouple())
	assert.False(t, FamilyWidowed.IsCouple())
	assert.False(t, FamilySituation("other").Valid())
}

func TestLevelAndRiskRanks(t *testing.T) {
	assert.Less(t, LevelLow.Rank(), LevelMedium.Rank())
	assert.Less(t, LevelMedium.Rank(), LevelHigh.Rank())
	assert.Greater(t, Level("extreme").Rank(), LevelHigh.Rank())

	assert.True(t, RiskDynamic.Accepts(RiskBalanced))
	assert.True(t, RiskBalanced.Accepts(RiskBalanced))
	assert.False(t, RiskConservative.Accepts(RiskBalanced))
	assert.False(t, RiskTolerance("yolo").Valid())
	assert.False(t, RiskTolerance("yolo").Accepts(RiskConservative))
}

func TestProfileHelpers(t *testing.T) {
	p := FiscalProfile{Regime: RegimeMicro, ActivityClass: ActivityBNC, Children: 3, YoungChildren: 1}
	assert.Equal(t, "micro_bnc", p.RegimeLabel())
	assert.Equal(t, 3, p.Units(UnitChildren))
	assert.Equal(t, 1, p.Units(UnitYoungChildren))

	switched := p.WithRegime(RegimeReel)
	assert.Equal(t, RegimeReel, switched.Regime)
	assert.Equal(t, RegimeMicro, p.Regime)

	d := DeclaredDeductions{Donations: decimal.NewFromInt(100), Childcare: decimal.NewFromInt(50)}
	assert.True(t, d.Amount(ReductionDonations).Equal(decimal.NewFromInt(100)))
	assert.True(t, d.Amount(ReductionChildcare).Equal(decimal.NewFromInt(50)))
	assert.True(t, d.Amount(ReductionType("other")).IsZero())

	o := OtherIncome{Salary: decimal.NewFromInt(1000), Rental: decimal.NewFromInt(200), Capital: decimal.NewFromInt(30), ReferenceIncome: ptr(decimal.NewFromInt(9999))}
	assert.True(t, o.Total().Equal(decimal.NewFromInt(1230)))
}

func TestQuotientFamilialRules(t *testing.T) {
	q := QuotientFamilialRules{
		SingleParts:         decimal.NewFromInt(1),
		CoupleParts:         decimal.NewFromInt(2),
		FirstChildren:       2,
		FirstChildrenPart:   decimal.RequireFromString("0.5"),
		FurtherChildrenPart: decimal.NewFromInt(1),
	}

	assert.Equal(t, "0.5", q.ChildPart(1).String())
	assert.Equal(t, "0.5", q.ChildPart(2).String())
	assert.Equal(t, "1", q.ChildPart(3).String())

	tests := []struct {
		family   FamilySituation
		children int
		want     string
	}{
		{FamilySingle, 0, "1"},
		{FamilyWidowed, 2, "2"},
		{FamilyMarried, 0, "2"},
		{FamilyPacsed, 1, "2.5"},
		{FamilyMarried, 4, "5"},
	}
	for _, tt := range tests {
		got := q.MinimumParts(tt.family, tt.children)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "%s/%d: got %s", tt.family, tt.children, got)
	}
}

func TestRuleSetAccessors(t *testing.T) {
	rs := &RuleSet{
		Brackets:    []Bracket{{Lower: decimal.Zero, Rate: decimal.Zero}},
		Abattements: map[string]decimal.Decimal{"micro_bnc": decimal.RequireFromString("0.34"), "micro_bic_vente": decimal.RequireFromString("0.71")},
	}

	table := rs.BracketTable()
	table[0].Rate = decimal.NewFromInt(1)
	assert.True(t, rs.Brackets[0].Rate.IsZero(), "BracketTable returns a copy")

	assert.Equal(t, []string{"micro_bic_vente", "micro_bnc"}, rs.AbattementLabels())
	_, ok := rs.Abattement("micro_bic_services")
	assert.False(t, ok)
	_, ok = rs.MicroThreshold(ActivityBNC)
	assert.False(t, ok)
}

func TestComparisonBurden(t *testing.T) {
	c := ComparisonResult{
		Micro: RegimeBurden{Regime: RegimeMicro, Total: decimal.NewFromInt(10)},
		Reel:  RegimeBurden{Regime: RegimeReel, Total: decimal.NewFromInt(20)},
	}
	assert.Equal(t, RegimeMicro, c.Burden(RegimeMicro).Regime)
	assert.Equal(t, RegimeReel, c.Burden(RegimeReel).Regime)
}

func TestErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   []error
		not  []error
	}{
		{
			name: "validation",
			err:  &ValidationError{Field: "parts", Constraint: "must be greater than 0", Value: 0},
			is:   []error{ErrValidation},
			not:  []error{ErrConfiguration},
		},
		{
			name: "configuration",
			err:  &ConfigurationError{Year: 2024, Key: "per.floor", Reason: "cannot be negative"},
			is:   []error{ErrConfiguration},
			not:  []error{ErrUnsupportedYear},
		},
		{
			name: "unsupported year",
			err:  &UnsupportedYearError{Year: 2019, Supported: []int{2024}},
			is:   []error{ErrUnsupportedYear, ErrConfiguration},
			not:  []error{ErrValidation},
		},
		{
			name: "arithmetic invariant",
			err:  &ArithmeticInvariantError{Year: 2024, Index: 2, Reason: "overlaps previous bracket"},
			is:   []error{ErrArithmeticInvariant},
			not:  []error{ErrStrategyFailure},
		},
		{
			name: "strategy failure",
			err:  &StrategyFailure{Strategy: "per_top_up", Err: ErrConfiguration},
			is:   []error{ErrStrategyFailure, ErrConfiguration},
			not:  []error{ErrValidation},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("context: %w", tt.err)
			for _, target := range tt.is {
				assert.True(t, errors.Is(wrapped, target), "expected %v", target)
			}
			for _, target := range tt.not {
				assert.False(t, errors.Is(wrapped, target), "unexpected %v", target)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "invalid parts: must be greater than 0 (got 0)",
		(&ValidationError{Field: "parts", Constraint: "must be greater than 0", Value: 0}).Error())
	assert.Equal(t, "rules 2024: bracket 2: overlaps previous bracket",
		(&ArithmeticInvariantError{Year: 2024, Index: 2, Reason: "overlaps previous bracket"}).Error())
	assert.Equal(t, "no rule document for fiscal year 2019 (supported: 2024, 2025)",
		(&UnsupportedYearError{Year: 2019, Supported: []int{2024, 2025}}).Error())
	assert.Equal(t, "strategy per_top_up failed: boom",
		(&StrategyFailure{Strategy: "per_top_up", Err: errors.New("boom")}).Error())
}
