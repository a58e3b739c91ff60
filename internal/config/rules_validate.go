package config

import (
	"fmt"

	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// ValidateRuleSet checks a decoded rule document in full. Bracket defects are
// reported as ArithmeticInvariantError, anything missing or out of range as
// ConfigurationError.
func ValidateRuleSet(rs *domain.RuleSet, year int) error {
	if rs.Year != year {
		return &domain.ConfigurationError{Year: year, Key: "year", Reason: fmt.Sprintf("document declares year %d", rs.Year)}
	}
	if err := validateBrackets(rs.Brackets, year); err != nil {
		return err
	}

	cfgErr := func(key, reason string) error {
		return &domain.ConfigurationError{Year: year, Key: key, Reason: reason}
	}

	for _, class := range domain.ActivityClasses {
		label := domain.RegimeLabel(domain.RegimeMicro, class)
		rate, ok := rs.Abattements[label]
		if !ok {
			return cfgErr("abattements."+label, "missing")
		}
		if rate.IsNegative() || rate.GreaterThanOrEqual(one) {
			return cfgErr("abattements."+label, "must be in [0, 1)")
		}

		threshold, ok := rs.MicroThresholds[class]
		if !ok {
			return cfgErr("micro_thresholds."+string(class), "missing")
		}
		if !threshold.IsPositive() {
			return cfgErr("micro_thresholds."+string(class), "must be positive")
		}

		social, ok := rs.SocialContributionRates[class]
		if !ok {
			return cfgErr("social_contribution_rates."+string(class), "missing")
		}
		if !inUnitInterval(social) {
			return cfgErr("social_contribution_rates."+string(class), "must be in [0, 1]")
		}
	}

	if rs.SocialContributionTolerance.IsNegative() {
		return cfgErr("social_contribution_tolerance", "cannot be negative")
	}
	if !rs.ThresholdAlertRatio.IsPositive() || rs.ThresholdAlertRatio.GreaterThanOrEqual(one) {
		return cfgErr("threshold_alert_ratio", "must be in (0, 1)")
	}

	if err := validateQuotientFamilial(rs.QuotientFamilial); err != nil {
		return cfgErr("quotient_familial", err.Error())
	}

	if err := validatePER(rs.PER, year); err != nil {
		return err
	}

	for _, t := range domain.ReductionTypes {
		rc, ok := rs.Reductions[t]
		if !ok {
			return cfgErr("reductions."+string(t), "missing")
		}
		if !rc.Rate.IsPositive() || rc.Rate.GreaterThan(one) {
			return cfgErr("reductions."+string(t)+".rate", "must be in (0, 1]")
		}
		if err := validateCeiling(rc.Ceiling); err != nil {
			return cfgErr("reductions."+string(t)+".ceiling", err.Error())
		}
	}

	if err := validateStrategyRules(&rs.Strategies); err != nil {
		return cfgErr("strategies", err.Error())
	}

	if rs.Optimizer.HighPriorityMaxRisk.Rank() > domain.LevelHigh.Rank() {
		return cfgErr("optimizer.high_priority_max_risk", "must be low, medium or high")
	}
	if rs.Optimizer.HighPriorityMaxComplexity.Rank() > domain.LevelHigh.Rank() {
		return cfgErr("optimizer.high_priority_max_complexity", "must be low, medium or high")
	}
	return nil
}

// validateBrackets enforces a partition of [0, +inf) with non-decreasing rates.
func validateBrackets(brackets []domain.Bracket, year int) error {
	invErr := func(i int, reason string) error {
		return &domain.ArithmeticInvariantError{Year: year, Index: i, Reason: reason}
	}
	if len(brackets) == 0 {
		return invErr(0, "bracket table is empty")
	}
	if !brackets[0].Lower.IsZero() {
		return invErr(0, "first bracket must start at 0")
	}
	last := len(brackets) - 1
	for i, b := range brackets {
		if !inUnitInterval(b.Rate) {
			return invErr(i, "rate must be in [0, 1]")
		}
		if i > 0 && b.Rate.LessThan(brackets[i-1].Rate) {
			return invErr(i, "rates must be non-decreasing")
		}
		if i == last {
			if b.Upper != nil {
				return invErr(i, "last bracket must be open-ended")
			}
			continue
		}
		if b.Upper == nil {
			return invErr(i, "only the last bracket may be open-ended")
		}
		if !b.Upper.GreaterThan(b.Lower) {
			return invErr(i, "upper bound must exceed lower bound")
		}
		next := brackets[i+1].Lower
		if next.LessThan(*b.Upper) {
			return invErr(i+1, "overlaps previous bracket")
		}
		if next.GreaterThan(*b.Upper) {
			return invErr(i+1, "leaves a gap after previous bracket")
		}
	}
	return nil
}

func validatePER(per domain.PERConfig, year int) error {
	cfgErr := func(key, reason string) error {
		return &domain.ConfigurationError{Year: year, Key: "per." + key, Reason: reason}
	}
	if !per.PercentageRate.IsPositive() || per.PercentageRate.GreaterThan(one) {
		return cfgErr("percentage_rate", "must be in (0, 1]")
	}
	if per.Floor.IsNegative() {
		return cfgErr("floor", "cannot be negative")
	}
	if _, ok := per.CeilingByStatus[domain.DefaultPERStatus]; !ok {
		return cfgErr("ceiling_by_status."+domain.DefaultPERStatus, "missing")
	}
	for status, ceiling := range per.CeilingByStatus {
		if ceiling.LessThan(per.Floor) {
			return cfgErr("ceiling_by_status."+status, "must not be below the floor")
		}
	}
	return nil
}

func validateQuotientFamilial(q domain.QuotientFamilialRules) error {
	if !q.SingleParts.IsPositive() || q.CoupleParts.LessThan(q.SingleParts) {
		return fmt.Errorf("single_parts must be positive and couple_parts at least single_parts")
	}
	if q.FirstChildren < 0 {
		return fmt.Errorf("first_children cannot be negative")
	}
	if !q.FirstChildrenPart.IsPositive() || q.FurtherChildrenPart.LessThan(q.FirstChildrenPart) {
		return fmt.Errorf("child parts must be positive and further_children_part at least first_children_part")
	}
	return nil
}

func validateCeiling(c domain.CeilingRule) error {
	switch c.Kind {
	case domain.CeilingFixed:
		if c.Amount.IsNegative() {
			return fmt.Errorf("fixed amount cannot be negative")
		}
	case domain.CeilingPerUnit:
		if c.Amount.IsNegative() || !c.PerUnit.IsPositive() {
			return fmt.Errorf("per_unit needs a non-negative amount and a positive per_unit")
		}
		if c.Unit != domain.UnitChildren && c.Unit != domain.UnitYoungChildren {
			return fmt.Errorf("per_unit needs unit children or young_children")
		}
		if c.Max != nil && c.Max.LessThan(c.Amount) {
			return fmt.Errorf("max must not be below amount")
		}
	case domain.CeilingPercentOfIncome:
		if !c.Amount.IsPositive() || c.Amount.GreaterThan(one) {
			return fmt.Errorf("percent_of_income amount must be in (0, 1]")
		}
	default:
		return fmt.Errorf("unknown ceiling kind %q", c.Kind)
	}
	return nil
}

func validateStrategyRules(s *domain.StrategyRules) error {
	if s.RegimeSwitch.MinSaving.IsNegative() {
		return fmt.Errorf("regime_switch.min_saving cannot be negative")
	}
	if !s.PER.TargetCeilingRatio.IsPositive() || s.PER.TargetCeilingRatio.GreaterThan(one) {
		return fmt.Errorf("per.target_ceiling_ratio must be in (0, 1]")
	}
	if !inUnitInterval(s.PER.MinMarginalRate) {
		return fmt.Errorf("per.min_marginal_rate must be in [0, 1]")
	}
	fr := s.FurnishedRental
	if !fr.GrossYield.IsPositive() || !fr.DepreciationRate.IsPositive() || !fr.MinCapital.IsPositive() {
		return fmt.Errorf("furnished_rental yield, depreciation and min_capital must be positive")
	}
	if !inUnitInterval(fr.SocialLevyRate) {
		return fmt.Errorf("furnished_rental.social_levy_rate must be in [0, 1]")
	}
	if !s.Overseas.ReductionRate.GreaterThan(one) {
		return fmt.Errorf("overseas.reduction_rate must exceed 1")
	}
	if !s.Overseas.Ceiling.IsPositive() || !s.Overseas.MinRisk.Valid() {
		return fmt.Errorf("overseas needs a positive ceiling and a valid min_risk")
	}
	inf := s.InnovationFund
	if !inf.ReductionRate.IsPositive() || inf.ReductionRate.GreaterThanOrEqual(one) {
		return fmt.Errorf("innovation_fund.reduction_rate must be in (0, 1)")
	}
	if !inf.CeilingSingle.IsPositive() || inf.CeilingCouple.LessThan(inf.CeilingSingle) || !inf.MinRisk.Valid() {
		return fmt.Errorf("innovation_fund ceilings or min_risk invalid")
	}
	sd := s.SimpleDeductions
	if !sd.SuggestedDonation.IsPositive() || !sd.SuggestedServices.IsPositive() {
		return fmt.Errorf("simple_deductions suggestions must be positive")
	}
	cs := s.CompanyStructure
	if !cs.MinRevenue.IsPositive() || !inUnitInterval(cs.SalaryShare) || !inUnitInterval(cs.DividendFlatTax) {
		return fmt.Errorf("company_structure min_revenue, salary_share or dividend_flat_tax invalid")
	}
	if len(cs.CorporateTax) == 0 || cs.CorporateTax[len(cs.CorporateTax)-1].Upper != nil {
		return fmt.Errorf("company_structure.corporate_tax must end with an open bracket")
	}
	lastIS := len(cs.CorporateTax) - 1
	for i, b := range cs.CorporateTax {
		if !inUnitInterval(b.Rate) {
			return fmt.Errorf("company_structure.corporate_tax[%d].rate must be in [0, 1]", i)
		}
		if i < lastIS && b.Upper == nil {
			return fmt.Errorf("company_structure.corporate_tax[%d] needs an upper bound", i)
		}
		if i > 0 && i < lastIS && !b.Upper.GreaterThan(*cs.CorporateTax[i-1].Upper) {
			return fmt.Errorf("company_structure.corporate_tax[%d] bounds must increase", i)
		}
	}
	return nil
}

func inUnitInterval(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(one)
}
