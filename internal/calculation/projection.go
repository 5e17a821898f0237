package calculation

import (
	"github.com/dwz/networth-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// projectBase is the year loop shared by Project and the retirement
// search. Inputs are assumed validated.
//
// Known limitation, preserved deliberately: when total liquid value is
// zero, positive savings are left unallocated and a negative-savings
// shortfall does not reduce net worth. Changing either would change
// projected outcomes.
func (pe *ProjectionEngine) projectBase(plan *domain.Plan, years int, verbose bool, incomeOverride map[int]decimal.Decimal) *domain.ProjectionResult {
	one := decimal.NewFromInt(1)

	currentGrossIncome := plan.AnnualGrossIncome
	currentExpenses := plan.AnnualExpenses

	// Fresh working copy of the allocation; the plan itself is never
	// mutated and no state survives between invocations.
	balances := make([]decimal.Decimal, len(plan.AssetAllocation))
	for i, cat := range plan.AssetAllocation {
		balances[i] = cat.Amount
	}

	milestones := plan.SortedMilestones()
	reachedYear := make([]int, len(milestones))
	for i := range reachedYear {
		reachedYear[i] = -1
	}

	rows := make([]domain.ProjectionRow, 0, years+1)

	for year := 0; year <= years; year++ {
		if override, ok := incomeOverride[year]; ok {
			currentGrossIncome = override
		}

		taxRate := plan.TaxRate.RateFor(year)
		netIncome := currentGrossIncome.Mul(one.Sub(taxRate))

		event := plan.AdditionalExpenses.EventFor(year)
		totalExpenses := currentExpenses.Add(event.Amount)

		// Year 0 is the snapshot of starting conditions; no savings
		// flow is recorded for it.
		annualSavings := decimal.Zero
		if year > 0 {
			annualSavings = netIncome.Sub(totalExpenses)
		}

		totalNetWorth := decimal.Zero
		for _, balance := range balances {
			totalNetWorth = totalNetWorth.Add(balance)
		}

		for i, threshold := range milestones {
			if reachedYear[i] < 0 && totalNetWorth.GreaterThanOrEqual(threshold) {
				reachedYear[i] = year
				pe.Logger.Infof("milestone %s reached in year %d", threshold.StringFixed(0), year)
			}
		}

		row := domain.ProjectionRow{
			Year:              year,
			GrossIncome:       currentGrossIncome,
			TaxRate:           taxRate,
			NetIncome:         netIncome,
			BaseExpenses:      currentExpenses,
			AdditionalExpense: event.Amount,
			ExpenseNote:       event.Description,
			TotalExpenses:     totalExpenses,
			AnnualSavings:     annualSavings,
			TotalNetWorth:     totalNetWorth,
		}
		row.Assets = make([]domain.AssetSnapshot, len(balances))
		for i, cat := range plan.AssetAllocation {
			row.Assets[i] = domain.AssetSnapshot{Name: cat.Name, Amount: balances[i]}
		}
		if len(milestones) > 0 {
			unreached := make([]decimal.Decimal, 0, len(milestones))
			for i, threshold := range milestones {
				if reachedYear[i] < 0 {
					unreached = append(unreached, threshold)
				}
			}
			row.UnreachedMilestones = unreached
		}
		rows = append(rows, row)

		if year == years {
			break
		}

		// Transition to year+1.
		if _, overridden := incomeOverride[year+1]; !overridden {
			currentGrossIncome = currentGrossIncome.Mul(one.Add(plan.IncomeGrowthRate))
		}
		currentExpenses = currentExpenses.Mul(one.Add(plan.InflationRate))

		gains := make([]decimal.Decimal, len(balances))
		losses := make([]decimal.Decimal, len(balances))

		switch {
		case annualSavings.IsPositive():
			totalLiquid := totalLiquidValue(plan, balances)
			if totalLiquid.IsPositive() {
				// Distribute proportionally to each liquid category's
				// share of total liquid value.
				for i, cat := range plan.AssetAllocation {
					if !cat.Liquid {
						continue
					}
					contribution := annualSavings.Mul(balances[i]).Div(totalLiquid)
					balances[i] = balances[i].Add(contribution)
					gains[i] = gains[i].Add(contribution)
				}
			} else {
				pe.Logger.Warnf("year %d: no liquid assets, %s of savings left unallocated", year, annualSavings.StringFixed(2))
			}
		case annualSavings.IsNegative():
			totalLiquid := totalLiquidValue(plan, balances)
			if totalLiquid.IsPositive() {
				shortfall := annualSavings.Abs()
				for i, cat := range plan.AssetAllocation {
					if !cat.Liquid {
						continue
					}
					liquidation := shortfall.Mul(balances[i]).Div(totalLiquid)
					balances[i] = balances[i].Sub(liquidation)
					losses[i] = losses[i].Add(liquidation)
				}
			} else {
				pe.Logger.Warnf("year %d: no liquid assets to cover shortfall of %s", year, annualSavings.Abs().StringFixed(2))
			}
		}

		// Appreciation applies to every category, liquid or not, after
		// the savings flows. A negative rate yields a negative gain.
		for i, cat := range plan.AssetAllocation {
			appreciation := balances[i].Mul(cat.Rate)
			balances[i] = balances[i].Add(appreciation)
			gains[i] = gains[i].Add(appreciation)
		}

		// Back-fill the just-emitted row with the flows of the
		// transition leaving its year.
		if verbose {
			emitted := &rows[len(rows)-1]
			for i := range emitted.Assets {
				emitted.Assets[i].Gain = gains[i]
				emitted.Assets[i].Loss = losses[i]
				emitted.Assets[i].NetChange = gains[i].Sub(losses[i])
			}
		}
	}

	result := &domain.ProjectionResult{Rows: rows, Verbose: verbose}
	if len(milestones) > 0 {
		result.Milestones = make([]domain.MilestoneHit, len(milestones))
		for i, threshold := range milestones {
			hit := domain.MilestoneHit{Threshold: threshold}
			if reachedYear[i] >= 0 {
				hit.Reached = true
				hit.Year = reachedYear[i]
			}
			result.Milestones[i] = hit
		}
	}
	return result
}

func totalLiquidValue(plan *domain.Plan, balances []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for i, cat := range plan.AssetAllocation {
		if cat.Liquid {
			total = total.Add(balances[i])
		}
	}
	return total
}
