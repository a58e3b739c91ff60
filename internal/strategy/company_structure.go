package strategy

import (
	"fmt"

	"github.com/rgehrsitz/fiscopt/internal/calculation"
	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
)

// CompanyStructureStrategy compares the current burden with running the
// activity through a company subject to corporate tax.
//
// Eligible when revenue >= min_revenue and TMI >= min_marginal_rate. The
// professional profit is split into a salary (salary_share) taxed on the
// personal scale with contributions at the activity rate, and a company
// profit (less running_cost) taxed at the corporate scale and distributed
// as dividends at dividend_flat_tax.
type CompanyStructureStrategy struct {
	base
}

func NewCompanyStructureStrategy(rs *domain.RuleSet) (*CompanyStructureStrategy, error) {
	b, err := newBase(rs)
	if err != nil {
		return nil, err
	}
	return &CompanyStructureStrategy{base: b}, nil
}

func (s *CompanyStructureStrategy) Name() string { return NameCompanyStructure }

// companyBurden is the yearly cost of the company route.
type companyBurden struct {
	salary        decimal.Decimal
	personalTax   decimal.Decimal
	contributions decimal.Decimal
	corporateTax  decimal.Decimal
	dividendTax   decimal.Decimal
	runningCost   decimal.Decimal
}

func (b companyBurden) total() decimal.Decimal {
	return b.personalTax.Add(b.contributions).Add(b.corporateTax).Add(b.dividendTax).Add(b.runningCost)
}

func (s *CompanyStructureStrategy) Evaluate(in Input) (Outcome, error) {
	var out Outcome
	if err := s.check(in); err != nil {
		return out, err
	}
	cfg := s.rules.Strategies.CompanyStructure
	p := in.Profile

	if p.Revenue.LessThan(cfg.MinRevenue) || in.Tax.MarginalRate.LessThan(cfg.MinMarginalRate) {
		return out, nil
	}
	profit := in.Tax.TaxableProfessionalIncome
	if !profit.IsPositive() {
		return out, nil
	}
	if p.Regime == domain.RegimeMicro && p.DeductibleExpenses.IsZero() {
		out.warn("%s: no deductible expenses provided; company profit estimated from the micro abattement", s.Name())
	}

	cb, err := s.companyBurden(p, profit)
	if err != nil {
		return out, err
	}
	current := in.Tax.NetTax.Add(in.Tax.Social.Expected)
	saving := current.Sub(cb.total())
	if !saving.IsPositive() {
		return out, nil
	}

	out.Recommendations = append(out.Recommendations, s.recommend(s.Name(), domain.Recommendation{
		Title: "Run the activity through a company",
		Description: fmt.Sprintf("Paying a %s salary and distributing the rest as dividends costs %s a year against %s today (corporate tax %s, dividend tax %s).",
			euros(cb.salary), euros(cb.total()), euros(current), euros(cb.corporateTax), euros(cb.dividendTax)),
		Category:           domain.CategoryStructure,
		EstimatedImpact:    saving,
		Risk:               domain.LevelMedium,
		Complexity:         domain.LevelHigh,
		Confidence:         decimal.NewFromFloat(0.5),
		RequiredInvestment: cb.runningCost,
		ActionSteps: []string{
			"Model the salary and dividend split with an accountant",
			"Incorporate the company and transfer the client contracts",
			"Set up payroll and the corporate tax filings",
		},
		Sources: []string{"CGI art. 219", "CGI art. 200 A", "CGI art. 62"},
	}))
	return out, nil
}

func (s *CompanyStructureStrategy) companyBurden(p *domain.FiscalProfile, profit decimal.Decimal) (companyBurden, error) {
	cfg := s.rules.Strategies.CompanyStructure

	cb := companyBurden{
		salary:      profit.Mul(cfg.SalaryShare),
		runningCost: cfg.RunningCost,
	}
	retained := profit.Sub(cb.salary).Sub(cb.runningCost)
	cb.corporateTax = calculation.CorporateTax(s.rules, retained)
	dividends := retained.Sub(cb.corporateTax)
	if dividends.IsPositive() {
		cb.dividendTax = dividends.Mul(cfg.DividendFlatTax)
	}

	var err error
	cb.contributions, _, err = calculation.ExpectedContributions(s.rules, cb.salary, p.ActivityClass)
	if err != nil {
		return cb, err
	}

	employee := *p
	employee.Regime = domain.RegimeReel
	employee.Revenue = decimal.Zero
	employee.DeductibleExpenses = decimal.Zero
	employee.Income.Salary = p.Income.Salary.Add(cb.salary)
	cb.personalTax, err = calculation.NetTax(s.rules, &employee)
	if err != nil {
		return cb, err
	}
	return cb, nil
}
