package domain

import (
	"github.com/shopspring/decimal"
)

// AssetSnapshot captures one category's state on a projection row. The
// Amount is the value at the start of the row's year, before that
// year's transition. Gain, Loss and NetChange describe the flows
// applied during the transition out of the row's year; they are only
// populated on verbose runs, and the final row keeps them at zero
// since no transition leaves it.
type AssetSnapshot struct {
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Gain      decimal.Decimal `json:"gain"`
	Loss      decimal.Decimal `json:"loss"`
	NetChange decimal.Decimal `json:"net_change"`
}

// ProjectionRow is the snapshot of a single simulated year.
type ProjectionRow struct {
	Year              int             `json:"year"`
	GrossIncome       decimal.Decimal `json:"gross_income"`
	TaxRate           decimal.Decimal `json:"tax_rate"`
	NetIncome         decimal.Decimal `json:"net_income"`
	BaseExpenses      decimal.Decimal `json:"base_expenses"`
	AdditionalExpense decimal.Decimal `json:"additional_expense"`
	ExpenseNote       string          `json:"expense_note,omitempty"`
	TotalExpenses     decimal.Decimal `json:"total_expenses"`

	// AnnualSavings is net income minus total expenses, and exactly
	// zero for year 0: the first row records starting conditions, not
	// a cash flow.
	AnnualSavings decimal.Decimal `json:"annual_savings"`

	Assets        []AssetSnapshot `json:"assets"`
	TotalNetWorth decimal.Decimal `json:"total_net_worth"`

	// UnreachedMilestones lists the configured thresholds not yet hit
	// as of this row, ascending. Nil when no milestones are configured.
	UnreachedMilestones []decimal.Decimal `json:"unreached_milestones,omitempty"`
}

// Asset returns the snapshot for the named category, or nil.
func (r *ProjectionRow) Asset(name string) *AssetSnapshot {
	for i := range r.Assets {
		if r.Assets[i].Name == name {
			return &r.Assets[i]
		}
	}
	return nil
}

// MilestoneHit records the first year a net-worth threshold was
// reached. Once reached it never un-reaches, even if net worth later
// falls below the threshold.
type MilestoneHit struct {
	Threshold decimal.Decimal `json:"threshold"`
	Reached   bool            `json:"reached"`
	Year      int             `json:"year"`
}

// ProjectionResult is the full time series produced by one engine
// invocation: one row per year from 0 through the horizon inclusive.
// Each invocation produces a fresh result; consumers treat it as
// read-only.
type ProjectionResult struct {
	Rows       []ProjectionRow `json:"rows"`
	Milestones []MilestoneHit  `json:"milestones,omitempty"`
	Verbose    bool            `json:"verbose"`
}

// Years is the simulated horizon beyond year 0.
func (pr *ProjectionResult) Years() int {
	if len(pr.Rows) == 0 {
		return 0
	}
	return len(pr.Rows) - 1
}

// FirstRow returns the year-0 row, or nil for an empty result.
func (pr *ProjectionResult) FirstRow() *ProjectionRow {
	if len(pr.Rows) == 0 {
		return nil
	}
	return &pr.Rows[0]
}

// FinalRow returns the horizon-year row, or nil for an empty result.
func (pr *ProjectionResult) FinalRow() *ProjectionRow {
	if len(pr.Rows) == 0 {
		return nil
	}
	return &pr.Rows[len(pr.Rows)-1]
}

// FinalNetWorth is the total net worth on the final row.
func (pr *ProjectionResult) FinalNetWorth() decimal.Decimal {
	row := pr.FinalRow()
	if row == nil {
		return decimal.Zero
	}
	return row.TotalNetWorth
}

// RetirementOutcome is the tagged result of the die-with-zero search.
// BestYear 0 with Unreachable false means stopping work immediately is
// already the candidate closest to zero; Unreachable true means no
// candidate improved on the stop-now baseline within the horizon.
type RetirementOutcome struct {
	BestYear        int             `json:"best_year"`
	FinalNetWorth   decimal.Decimal `json:"final_net_worth"`
	StopNowNetWorth decimal.Decimal `json:"stop_now_net_worth"`
	Unreachable     bool            `json:"unreachable"`
}
