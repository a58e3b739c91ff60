package transform

import (
	"fmt"

	"github.com/rgehrsitz/fiscopt/internal/calculation"
	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
)

// SwitchRegime moves the profile to another regime. An empty To selects the
// regime the profile is not on.
type SwitchRegime struct {
	To domain.Regime
}

func (st *SwitchRegime) Name() string { return "switch_regime" }

func (st *SwitchRegime) Description() string {
	if st.To == "" {
		return "Switch to the other regime"
	}
	return fmt.Sprintf("Switch to the %s regime", st.To)
}

func (st *SwitchRegime) Validate(base *domain.FiscalProfile) error {
	if base == nil {
		return NewTransformError(st.Name(), "validate", "base profile cannot be nil", nil)
	}
	if st.To != "" && !st.To.Valid() {
		return NewTransformError(st.Name(), "validate", fmt.Sprintf("unknown regime %q", st.To), nil)
	}
	return nil
}

func (st *SwitchRegime) Apply(base *domain.FiscalProfile) (*domain.FiscalProfile, error) {
	modified := clone(base)
	if st.To == "" {
		modified.Regime = base.Regime.Other()
	} else {
		modified.Regime = st.To
	}
	return modified, nil
}

// SetExpenses replaces the declared deductible expenses.
type SetExpenses struct {
	Amount decimal.Decimal
}

func (se *SetExpenses) Name() string { return "set_expenses" }

func (se *SetExpenses) Description() string {
	return fmt.Sprintf("Declare %s EUR of deductible expenses", se.Amount.StringFixed(2))
}

func (se *SetExpenses) Validate(base *domain.FiscalProfile) error {
	if base == nil {
		return NewTransformError(se.Name(), "validate", "base profile cannot be nil", nil)
	}
	if se.Amount.IsNegative() {
		return NewTransformError(se.Name(), "validate", "amount cannot be negative", nil)
	}
	return nil
}

func (se *SetExpenses) Apply(base *domain.FiscalProfile) (*domain.FiscalProfile, error) {
	modified := clone(base)
	modified.DeductibleExpenses = se.Amount
	return modified, nil
}

// SetPERContribution replaces the retirement savings contribution.
type SetPERContribution struct {
	Amount decimal.Decimal
}

func (sp *SetPERContribution) Name() string { return "set_per" }

func (sp *SetPERContribution) Description() string {
	return fmt.Sprintf("Contribute %s EUR to a PER", sp.Amount.StringFixed(2))
}

func (sp *SetPERContribution) Validate(base *domain.FiscalProfile) error {
	if base == nil {
		return NewTransformError(sp.Name(), "validate", "base profile cannot be nil", nil)
	}
	if sp.Amount.IsNegative() {
		return NewTransformError(sp.Name(), "validate", "amount cannot be negative", nil)
	}
	return nil
}

func (sp *SetPERContribution) Apply(base *domain.FiscalProfile) (*domain.FiscalProfile, error) {
	modified := clone(base)
	modified.Deductions.RetirementContributions = sp.Amount
	return modified, nil
}

// MaxPERContribution raises the retirement contribution to the deductible
// ceiling of the rules' year. A contribution already above it is kept.
type MaxPERContribution struct {
	Rules *domain.RuleSet
}

func (mp *MaxPERContribution) Name() string { return "max_per" }

func (mp *MaxPERContribution) Description() string {
	return "Contribute up to the PER deduction ceiling"
}

func (mp *MaxPERContribution) Validate(base *domain.FiscalProfile) error {
	if base == nil {
		return NewTransformError(mp.Name(), "validate", "base profile cannot be nil", nil)
	}
	if mp.Rules == nil {
		return NewTransformError(mp.Name(), "validate", "rules are required", nil)
	}
	if mp.Rules.Year != base.Year {
		return NewTransformError(mp.Name(), "validate", fmt.Sprintf("rules are for %d, profile is for %d", mp.Rules.Year, base.Year), nil)
	}
	return nil
}

func (mp *MaxPERContribution) Apply(base *domain.FiscalProfile) (*domain.FiscalProfile, error) {
	ceiling, err := calculation.PERCeiling(mp.Rules, base.Revenue, base.PERStatus)
	if err != nil {
		return nil, NewTransformError(mp.Name(), "apply", "no PER ceiling", err)
	}
	modified := clone(base)
	modified.Deductions.RetirementContributions = decimal.Max(base.Deductions.RetirementContributions, ceiling)
	return modified, nil
}

// AddDeduction adds to the declared amount of a tax reduction.
type AddDeduction struct {
	Type   domain.ReductionType
	Amount decimal.Decimal
}

func (ad *AddDeduction) Name() string { return "add_deduction" }

func (ad *AddDeduction) Description() string {
	return fmt.Sprintf("Add %s EUR of %s", ad.Amount.StringFixed(2), ad.Type)
}

func (ad *AddDeduction) Validate(base *domain.FiscalProfile) error {
	if base == nil {
		return NewTransformError(ad.Name(), "validate", "base profile cannot be nil", nil)
	}
	known := false
	for _, t := range domain.ReductionTypes {
		if t == ad.Type {
			known = true
		}
	}
	if !known {
		return NewTransformError(ad.Name(), "validate", fmt.Sprintf("unknown reduction type %q", ad.Type), nil)
	}
	if ad.Amount.IsNegative() {
		return NewTransformError(ad.Name(), "validate", "amount cannot be negative", nil)
	}
	return nil
}

func (ad *AddDeduction) Apply(base *domain.FiscalProfile) (*domain.FiscalProfile, error) {
	modified := clone(base)
	d := &modified.Deductions
	switch ad.Type {
	case domain.ReductionDonations:
		d.Donations = d.Donations.Add(ad.Amount)
	case domain.ReductionHouseholdServices:
		d.HouseholdServices = d.HouseholdServices.Add(ad.Amount)
	case domain.ReductionChildcare:
		d.Childcare = d.Childcare.Add(ad.Amount)
	}
	return modified, nil
}

// ShiftYear moves the profile to another fiscal year, keeping every amount.
type ShiftYear struct {
	Years int
}

func (sy *ShiftYear) Name() string { return "shift_year" }

func (sy *ShiftYear) Description() string {
	return fmt.Sprintf("Same profile %+d fiscal year(s) later", sy.Years)
}

func (sy *ShiftYear) Validate(base *domain.FiscalProfile) error {
	if base == nil {
		return NewTransformError(sy.Name(), "validate", "base profile cannot be nil", nil)
	}
	if sy.Years == 0 {
		return NewTransformError(sy.Name(), "validate", "years cannot be zero", nil)
	}
	if base.Year+sy.Years <= 0 {
		return NewTransformError(sy.Name(), "validate", fmt.Sprintf("year %d is not valid", base.Year+sy.Years), nil)
	}
	return nil
}

func (sy *ShiftYear) Apply(base *domain.FiscalProfile) (*domain.FiscalProfile, error) {
	modified := clone(base)
	modified.Year = base.Year + sy.Years
	return modified, nil
}

// AddChild adds a dependent child and the quotient familial parts the rules
// give its rank. Situational half parts are left as declared.
type AddChild struct {
	Rules *domain.RuleSet
	Young bool // under six, eligible for childcare
}

func (ac *AddChild) Name() string { return "add_child" }

func (ac *AddChild) Description() string {
	if ac.Young {
		return "Add a child under six"
	}
	return "Add a dependent child"
}

func (ac *AddChild) Validate(base *domain.FiscalProfile) error {
	if base == nil {
		return NewTransformError(ac.Name(), "validate", "base profile cannot be nil", nil)
	}
	if ac.Rules == nil {
		return NewTransformError(ac.Name(), "validate", "rules are required", nil)
	}
	if ac.Rules.Year != base.Year {
		return NewTransformError(ac.Name(), "validate", fmt.Sprintf("rules are for %d, profile is for %d", ac.Rules.Year, base.Year), nil)
	}
	return nil
}

func (ac *AddChild) Apply(base *domain.FiscalProfile) (*domain.FiscalProfile, error) {
	modified := clone(base)
	modified.Children++
	if ac.Young {
		modified.YoungChildren++
	}
	modified.Parts = modified.Parts.Add(ac.Rules.QuotientFamilial.ChildPart(modified.Children))
	return modified, nil
}

// ScaleRevenue multiplies professional revenue by Factor.
type ScaleRevenue struct {
	Factor decimal.Decimal
}

func (sr *ScaleRevenue) Name() string { return "scale_revenue" }

func (sr *ScaleRevenue) Description() string {
	pct := sr.Factor.Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100))
	return fmt.Sprintf("Revenue %s%s%%", signOf(pct), pct.StringFixed(0))
}

func (sr *ScaleRevenue) Validate(base *domain.FiscalProfile) error {
	if base == nil {
		return NewTransformError(sr.Name(), "validate", "base profile cannot be nil", nil)
	}
	if !sr.Factor.IsPositive() {
		return NewTransformError(sr.Name(), "validate", "factor must be positive", nil)
	}
	return nil
}

func (sr *ScaleRevenue) Apply(base *domain.FiscalProfile) (*domain.FiscalProfile, error) {
	modified := clone(base)
	modified.Revenue = base.Revenue.Mul(sr.Factor).Round(2)
	return modified, nil
}

func signOf(d decimal.Decimal) string {
	if d.IsNegative() {
		return ""
	}
	return "+"
}
