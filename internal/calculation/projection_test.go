package calculation

import (
	"testing"

	"github.com/dwz/networth-planner/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatPlan is the reference configuration used across the engine
// tests: flat income and expenses, a single zero-rate liquid asset and
// no taxes, so every figure stays exact.
func flatPlan() *domain.Plan {
	return &domain.Plan{
		AnnualGrossIncome: decimal.NewFromInt(80000),
		AnnualExpenses:    decimal.NewFromInt(40000),
		InflationRate:     decimal.Zero,
		IncomeGrowthRate:  decimal.Zero,
		TaxRate:           domain.ConstantTax(decimal.Zero),
		AssetAllocation: []domain.AssetCategory{
			{Name: "A", Amount: decimal.NewFromInt(100000), Rate: decimal.Zero, Liquid: true},
		},
	}
}

func TestProject_FlatPlan(t *testing.T) {
	engine := NewProjectionEngine()
	result, err := engine.Project(flatPlan(), 2, false)
	require.NoError(t, err)
	require.Len(t, result.Rows, 3)

	year0 := result.Rows[0]
	assert.True(t, year0.NetIncome.Equal(decimal.NewFromInt(80000)))
	assert.True(t, year0.TotalExpenses.Equal(decimal.NewFromInt(40000)))
	assert.True(t, year0.AnnualSavings.IsZero(), "year 0 records no savings flow")
	assert.True(t, year0.TotalNetWorth.Equal(decimal.NewFromInt(100000)))

	year1 := result.Rows[1]
	assert.True(t, year1.NetIncome.Equal(decimal.NewFromInt(80000)))
	assert.True(t, year1.TotalExpenses.Equal(decimal.NewFromInt(40000)))
	assert.True(t, year1.AnnualSavings.Equal(decimal.NewFromInt(40000)))
	// Year 0 carries no savings flow, so nothing has landed yet.
	assert.True(t, year1.TotalNetWorth.Equal(decimal.NewFromInt(100000)))

	// Year 1's savings arrive with the transition out of year 1.
	year2 := result.Rows[2]
	require.NotNil(t, year2.Asset("A"))
	assert.True(t, year2.Asset("A").Amount.Equal(decimal.NewFromInt(140000)))
	assert.True(t, year2.TotalNetWorth.Equal(decimal.NewFromInt(140000)))
}

func TestProject_ZeroYearsSingleRow(t *testing.T) {
	engine := NewProjectionEngine()
	result, err := engine.Project(flatPlan(), 0, false)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, 0, result.Years())
	assert.True(t, result.FinalNetWorth().Equal(decimal.NewFromInt(100000)))
}

func TestProject_PositiveSavingsDistributedProportionally(t *testing.T) {
	plan := flatPlan()
	plan.AssetAllocation = []domain.AssetCategory{
		{Name: "ETFs", Amount: decimal.NewFromInt(60000), Rate: decimal.Zero, Liquid: true},
		{Name: "Crypto", Amount: decimal.NewFromInt(20000), Rate: decimal.Zero, Liquid: true},
		{Name: "House", Amount: decimal.NewFromInt(400000), Rate: decimal.Zero, Liquid: false},
	}

	engine := NewProjectionEngine()
	result, err := engine.Project(plan, 2, false)
	require.NoError(t, err)

	// Savings of 40000 from year 1 split 3:1 across the liquid pair,
	// non-liquid untouched.
	year2 := result.Rows[2]
	assert.True(t, year2.Asset("ETFs").Amount.Equal(decimal.NewFromInt(90000)))
	assert.True(t, year2.Asset("Crypto").Amount.Equal(decimal.NewFromInt(30000)))
	assert.True(t, year2.Asset("House").Amount.Equal(decimal.NewFromInt(400000)))
}

func TestProject_ShortfallLiquidatedProportionally(t *testing.T) {
	plan := flatPlan()
	plan.AnnualGrossIncome = decimal.Zero
	plan.AnnualExpenses = decimal.NewFromInt(30000)
	plan.AssetAllocation = []domain.AssetCategory{
		{Name: "ETFs", Amount: decimal.NewFromInt(60000), Rate: decimal.Zero, Liquid: true},
		{Name: "Bonds", Amount: decimal.NewFromInt(30000), Rate: decimal.Zero, Liquid: true},
		{Name: "House", Amount: decimal.NewFromInt(100000), Rate: decimal.Zero, Liquid: false},
	}

	engine := NewProjectionEngine()
	result, err := engine.Project(plan, 2, false)
	require.NoError(t, err)

	year2 := result.Rows[2]
	assert.True(t, year2.Asset("ETFs").Amount.Equal(decimal.NewFromInt(40000)))
	assert.True(t, year2.Asset("Bonds").Amount.Equal(decimal.NewFromInt(20000)))
	assert.True(t, year2.Asset("House").Amount.Equal(decimal.NewFromInt(100000)))
}

func TestProject_NoLiquidAssetsLeavesSavingsUnallocated(t *testing.T) {
	plan := flatPlan()
	plan.AssetAllocation = []domain.AssetCategory{
		{Name: "House", Amount: decimal.NewFromInt(100000), Rate: decimal.NewFromFloat(0.05), Liquid: false},
	}

	engine := NewProjectionEngine()
	result, err := engine.Project(plan, 2, false)
	require.NoError(t, err)

	// Positive savings with zero total liquid value is a no-op; only
	// appreciation moves the balance.
	year2 := result.Rows[2]
	assert.True(t, year2.Asset("House").Amount.Equal(decimal.NewFromInt(110250)))
}

func TestProject_NoLiquidAssetsShortfallDoesNotReduceNetWorth(t *testing.T) {
	plan := flatPlan()
	plan.AnnualGrossIncome = decimal.Zero
	plan.AnnualExpenses = decimal.NewFromInt(30000)
	plan.AssetAllocation = []domain.AssetCategory{
		{Name: "House", Amount: decimal.NewFromInt(100000), Rate: decimal.Zero, Liquid: false},
	}

	engine := NewProjectionEngine()
	result, err := engine.Project(plan, 3, false)
	require.NoError(t, err)

	// Documented limitation: the unmet shortfall leaves net worth
	// untouched rather than going negative.
	assert.True(t, result.FinalNetWorth().Equal(decimal.NewFromInt(100000)))
}

func TestProject_AppreciationAppliedAfterSavingsFlows(t *testing.T) {
	plan := flatPlan()
	plan.AssetAllocation = []domain.AssetCategory{
		{Name: "ETFs", Amount: decimal.NewFromInt(100000), Rate: decimal.NewFromFloat(0.10), Liquid: true},
	}

	engine := NewProjectionEngine()
	result, err := engine.Project(plan, 2, true)
	require.NoError(t, err)

	// Year 1 holds 110000 after the 0->1 appreciation. The transition
	// out of year 1 adds 40000 savings first, then 10% on 150000.
	year1 := result.Rows[1]
	assert.True(t, year1.Asset("ETFs").Amount.Equal(decimal.NewFromInt(110000)))
	assert.True(t, year1.Asset("ETFs").Gain.Equal(decimal.NewFromInt(55000)))
	assert.True(t, year1.Asset("ETFs").Loss.IsZero())
	assert.True(t, year1.Asset("ETFs").NetChange.Equal(decimal.NewFromInt(55000)))

	year2 := result.Rows[2]
	assert.True(t, year2.Asset("ETFs").Amount.Equal(decimal.NewFromInt(165000)))
}

func TestProject_VerboseBackfillsTransitionOutOfRow(t *testing.T) {
	plan := flatPlan()
	plan.AnnualGrossIncome = decimal.NewFromInt(40000) // savings stay zero
	plan.AssetAllocation = []domain.AssetCategory{
		{Name: "ETFs", Amount: decimal.NewFromInt(100000), Rate: decimal.NewFromFloat(0.10), Liquid: true},
	}

	engine := NewProjectionEngine()
	result, err := engine.Project(plan, 1, true)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)

	// Row 0 carries the appreciation of the 0->1 transition.
	row0 := result.Rows[0].Asset("ETFs")
	assert.True(t, row0.Amount.Equal(decimal.NewFromInt(100000)))
	assert.True(t, row0.Gain.Equal(decimal.NewFromInt(10000)))
	assert.True(t, row0.NetChange.Equal(decimal.NewFromInt(10000)))

	// The final row has no outgoing transition.
	row1 := result.Rows[1].Asset("ETFs")
	assert.True(t, row1.Amount.Equal(decimal.NewFromInt(110000)))
	assert.True(t, row1.Gain.IsZero())
	assert.True(t, row1.Loss.IsZero())
}

func TestProject_VerboseRecordsLiquidationAsLoss(t *testing.T) {
	plan := flatPlan()
	plan.AnnualGrossIncome = decimal.Zero
	plan.AnnualExpenses = decimal.NewFromInt(30000)
	plan.AssetAllocation = []domain.AssetCategory{
		{Name: "ETFs", Amount: decimal.NewFromInt(90000), Rate: decimal.Zero, Liquid: true},
	}

	engine := NewProjectionEngine()
	result, err := engine.Project(plan, 2, true)
	require.NoError(t, err)

	year1 := result.Rows[1].Asset("ETFs")
	assert.True(t, year1.Loss.Equal(decimal.NewFromInt(30000)))
	assert.True(t, year1.Gain.IsZero())
	assert.True(t, year1.NetChange.Equal(decimal.NewFromInt(-30000)))
}

func TestProject_NonVerboseOmitsTransitionFlows(t *testing.T) {
	plan := flatPlan()
	engine := NewProjectionEngine()
	result, err := engine.Project(plan, 2, false)
	require.NoError(t, err)

	for _, row := range result.Rows {
		for _, asset := range row.Assets {
			assert.True(t, asset.Gain.IsZero())
			assert.True(t, asset.Loss.IsZero())
			assert.True(t, asset.NetChange.IsZero())
		}
	}
}

func TestProject_MilestonesReachOnceAndStayReached(t *testing.T) {
	plan := flatPlan()
	plan.Milestones = []decimal.Decimal{
		decimal.NewFromInt(150000),
		decimal.NewFromInt(50000),
	}

	engine := NewProjectionEngine()
	result, err := engine.Project(plan, 4, false)
	require.NoError(t, err)

	require.Len(t, result.Milestones, 2)
	// Milestones come back sorted ascending.
	first, second := result.Milestones[0], result.Milestones[1]
	assert.True(t, first.Threshold.Equal(decimal.NewFromInt(50000)))
	assert.True(t, first.Reached)
	assert.Equal(t, 0, first.Year)
	assert.True(t, second.Threshold.Equal(decimal.NewFromInt(150000)))
	assert.True(t, second.Reached)
	assert.Equal(t, 3, second.Year) // net worth hits 180000 in year 3

	// Once a milestone is reached no later row reports it as pending.
	reachedAt := second.Year
	for _, row := range result.Rows {
		if row.Year < reachedAt {
			assert.Contains(t, milestoneStrings(row.UnreachedMilestones), "150000")
		} else {
			assert.NotContains(t, milestoneStrings(row.UnreachedMilestones), "150000")
		}
	}
}

func milestoneStrings(milestones []decimal.Decimal) []string {
	out := make([]string, len(milestones))
	for i, m := range milestones {
		out[i] = m.String()
	}
	return out
}

func TestProject_IncomeOverrideReplacesTrajectory(t *testing.T) {
	plan := flatPlan()
	plan.IncomeGrowthRate = decimal.NewFromFloat(0.10)

	engine := NewProjectionEngine()
	override := map[int]decimal.Decimal{1: decimal.NewFromInt(100000)}
	result, err := engine.ProjectWithIncomeOverride(plan, 2, false, override)
	require.NoError(t, err)

	assert.True(t, result.Rows[0].GrossIncome.Equal(decimal.NewFromInt(80000)))
	// Growth into the overridden year is suppressed.
	assert.True(t, result.Rows[1].GrossIncome.Equal(decimal.NewFromInt(100000)))
	// A later non-overridden year resumes organic growth from the
	// forced value.
	assert.True(t, result.Rows[2].GrossIncome.Equal(decimal.NewFromInt(110000)))
}

func TestProject_SteppedSchedulesResolvedPerYear(t *testing.T) {
	plan := flatPlan()
	plan.TaxRate = domain.SteppedTax(map[int]decimal.Decimal{
		0: decimal.NewFromFloat(0.25),
		2: decimal.NewFromFloat(0.50),
	})
	plan.AdditionalExpenses = domain.ExpenseSchedule{
		1: {Amount: decimal.NewFromInt(5000), Description: "Kid"},
	}

	engine := NewProjectionEngine()
	result, err := engine.Project(plan, 2, false)
	require.NoError(t, err)

	assert.True(t, result.Rows[0].TaxRate.Equal(decimal.NewFromFloat(0.25)))
	assert.True(t, result.Rows[1].TaxRate.Equal(decimal.NewFromFloat(0.25)))
	assert.True(t, result.Rows[2].TaxRate.Equal(decimal.NewFromFloat(0.50)))

	// Expense schedule starting at year 1 still covers year 0 via the
	// earliest key.
	assert.True(t, result.Rows[0].AdditionalExpense.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, "Kid", result.Rows[0].ExpenseNote)
	assert.True(t, result.Rows[2].TotalExpenses.Equal(decimal.NewFromInt(45000)))
}

func TestProject_Idempotent(t *testing.T) {
	plan := flatPlan()
	plan.AssetAllocation[0].Rate = decimal.NewFromFloat(0.07)
	plan.InflationRate = decimal.NewFromFloat(0.02)

	engine := NewProjectionEngine()
	first, err := engine.Project(plan, 10, true)
	require.NoError(t, err)
	second, err := engine.Project(plan, 10, true)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical inputs must produce identical results")

	// The plan's allocation must not have been mutated by either run.
	assert.True(t, plan.AssetAllocation[0].Amount.Equal(decimal.NewFromInt(100000)))
}

func TestProject_InputValidation(t *testing.T) {
	engine := NewProjectionEngine()

	_, err := engine.Project(nil, 5, false)
	assert.Error(t, err)

	_, err = engine.Project(flatPlan(), -1, false)
	assert.Error(t, err)

	empty := flatPlan()
	empty.AssetAllocation = nil
	_, err = engine.Project(empty, 5, false)
	assert.Error(t, err)

	badTax := flatPlan()
	badTax.TaxRate = domain.SteppedTax(map[int]decimal.Decimal{})
	_, err = engine.Project(badTax, 5, false)
	assert.Error(t, err)
}

func TestSetLogger_NilFallsBackToNop(t *testing.T) {
	engine := NewProjectionEngine()
	engine.SetLogger(nil)
	assert.NotNil(t, engine.Logger)

	_, err := engine.Project(flatPlan(), 1, false)
	assert.NoError(t, err)
}
