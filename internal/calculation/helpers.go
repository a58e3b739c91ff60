package calculation

import (
	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
)

// NetTax returns the net income tax of a profile under rs. Strategies price
// their recommendations by calling it on modified copies of the profile, so
// a promised saving is computed with the formulas that will assess it.
func NetTax(rs *domain.RuleSet, p *domain.FiscalProfile) (decimal.Decimal, error) {
	if err := preflight(rs, p); err != nil {
		return decimal.Zero, err
	}
	a, err := assessIncomeTax(rs, p)
	if err != nil {
		return decimal.Zero, err
	}
	return a.net, nil
}

// NetTaxSaving returns NetTax(base) - NetTax(modified), where modified is a
// copy of base changed by edit.
func NetTaxSaving(rs *domain.RuleSet, base *domain.FiscalProfile, edit func(*domain.FiscalProfile)) (decimal.Decimal, error) {
	before, err := NetTax(rs, base)
	if err != nil {
		return decimal.Zero, err
	}
	modified := *base
	edit(&modified)
	after, err := NetTax(rs, &modified)
	if err != nil {
		return decimal.Zero, err
	}
	return before.Sub(after), nil
}

// CorporateTax applies the corporate income tax scale of rs to a company
// profit. Non-positive profit owes nothing.
func CorporateTax(rs *domain.RuleSet, profit decimal.Decimal) decimal.Decimal {
	if !profit.IsPositive() {
		return decimal.Zero
	}
	tax := decimal.Zero
	lower := decimal.Zero
	for _, b := range rs.Strategies.CompanyStructure.CorporateTax {
		top := profit
		if b.Upper != nil {
			top = decimal.Min(profit, *b.Upper)
		}
		if top.GreaterThan(lower) {
			tax = tax.Add(top.Sub(lower).Mul(b.Rate))
		}
		if b.Upper == nil || profit.LessThanOrEqual(*b.Upper) {
			break
		}
		lower = *b.Upper
	}
	return tax
}
