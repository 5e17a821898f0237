package calculation

import (
	"github.com/dwz/networth-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// FindDieWithZeroYear searches for the retirement year whose final net
// worth is closest to, but not trending below, zero.
//
// The baseline forces income to zero from year 0 ("stop working now").
// Candidate years 1..years are then scanned in order, each with income
// following the organic trajectory up to the candidate year and zero
// from it onward. The candidate with the smallest absolute final net
// worth wins, ties keeping the earlier year, and the scan stops at the
// first candidate whose final net worth goes negative. The scan is
// kept sequential so the first-improvement tie-break and the early
// stop stay deterministic.
func (pe *ProjectionEngine) FindDieWithZeroYear(plan *domain.Plan, years int) (*domain.RetirementOutcome, error) {
	if err := pe.validate(plan, years); err != nil {
		return nil, err
	}

	baseline := pe.projectBase(plan, years, false, zeroIncomeOverride(plan, years, 0))
	stopNow := baseline.FinalNetWorth()

	outcome := &domain.RetirementOutcome{
		BestYear:        0,
		FinalNetWorth:   stopNow,
		StopNowNetWorth: stopNow,
	}

	bestDiff := stopNow.Abs()
	improved := false

	for candidate := 1; candidate <= years; candidate++ {
		result := pe.projectBase(plan, years, false, zeroIncomeOverride(plan, years, candidate))
		final := result.FinalNetWorth()

		if final.Abs().LessThan(bestDiff) {
			bestDiff = final.Abs()
			outcome.BestYear = candidate
			outcome.FinalNetWorth = final
			improved = true
		}

		// Retiring later only adds income past this point; the first
		// negative crossing is the stopping boundary.
		if final.IsNegative() {
			pe.Logger.Debugf("retirement scan stopped at year %d, final net worth %s", candidate, final.StringFixed(2))
			break
		}
	}

	outcome.Unreachable = !improved
	return outcome, nil
}

// zeroIncomeOverride builds an income override covering every year of
// the horizon: the organic forward-compounded trajectory before
// startYear, zero from startYear onward.
func zeroIncomeOverride(plan *domain.Plan, years, startYear int) map[int]decimal.Decimal {
	override := make(map[int]decimal.Decimal, years+1)
	income := plan.AnnualGrossIncome
	growth := decimal.NewFromInt(1).Add(plan.IncomeGrowthRate)
	for year := 0; year <= years; year++ {
		if year < startYear {
			if year > 0 {
				income = income.Mul(growth)
			}
			override[year] = income
		} else {
			override[year] = decimal.Zero
		}
	}
	return override
}
