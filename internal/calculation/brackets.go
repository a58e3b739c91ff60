package calculation

import (
	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
)

// ProgressiveTax applies the bracket scale to the income of one part.
// Each bracket taxes max(0, min(income, upper) - lower) at its rate; the
// returned total is exactly the sum of the returned slices.
func ProgressiveTax(partIncome decimal.Decimal, brackets []domain.Bracket) ([]domain.BracketLine, decimal.Decimal) {
	lines := make([]domain.BracketLine, 0, len(brackets))
	total := decimal.Zero
	for _, b := range brackets {
		top := partIncome
		if b.Upper != nil {
			top = decimal.Min(partIncome, *b.Upper)
		}
		base := top.Sub(b.Lower)
		if base.IsNegative() {
			base = decimal.Zero
		}
		slice := base.Mul(b.Rate)
		total = total.Add(slice)
		lines = append(lines, domain.BracketLine{
			Lower:   b.Lower,
			Upper:   b.Upper,
			Rate:    b.Rate,
			Base:    base,
			PartTax: slice,
		})
	}
	return lines, total
}

// GrossTax multiplies the per-part tax of each line by the number of parts
// and returns the household total.
func GrossTax(lines []domain.BracketLine, parts decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for i := range lines {
		lines[i].Tax = lines[i].PartTax.Mul(parts)
		total = total.Add(lines[i].Tax)
	}
	return total
}

// MarginalRate returns the rate of the single bracket whose half-open
// interval contains partIncome. Income below the first bracket's lower bound
// takes the first rate; the open top bracket catches everything above its
// lower bound.
func MarginalRate(partIncome decimal.Decimal, brackets []domain.Bracket) decimal.Decimal {
	if len(brackets) == 0 {
		return decimal.Zero
	}
	for _, b := range brackets {
		if b.Contains(partIncome) {
			return b.Rate
		}
	}
	return brackets[0].Rate
}

// BracketIndex returns the index of the bracket containing partIncome, or 0.
func BracketIndex(partIncome decimal.Decimal, brackets []domain.Bracket) int {
	for i, b := range brackets {
		if b.Contains(partIncome) {
			return i
		}
	}
	return 0
}

// PartIncome divides taxable income by the number of fiscal parts. parts must
// be positive; a non-positive value is a validation error, never a default.
func PartIncome(taxable, parts decimal.Decimal) (decimal.Decimal, error) {
	if !parts.IsPositive() {
		return decimal.Zero, &domain.ValidationError{Field: "parts", Constraint: "must be greater than 0", Value: parts}
	}
	return taxable.Div(parts), nil
}
