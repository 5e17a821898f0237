package calculation

import (
	"fmt"

	"github.com/dwz/networth-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// ProjectionEngine advances a plan's portfolio and cash-flow state year
// by year. It is stateless between calls: every invocation starts from
// a fresh copy of the plan's asset allocation, performs no I/O, and two
// calls with identical inputs produce identical results.
type ProjectionEngine struct {
	Logger Logger
}

// NewProjectionEngine creates an engine with a no-op logger.
func NewProjectionEngine() *ProjectionEngine {
	return &ProjectionEngine{Logger: NopLogger{}}
}

// SetLogger sets the logger for the engine. If nil is provided, a
// no-op logger is used.
func (pe *ProjectionEngine) SetLogger(l Logger) {
	if l == nil {
		pe.Logger = NopLogger{}
		return
	}
	pe.Logger = l
}

// Project produces one row per year from 0 through years inclusive.
// When verbose is true each row additionally carries the per-category
// gain, loss and net change applied during the transition out of that
// year.
func (pe *ProjectionEngine) Project(plan *domain.Plan, years int, verbose bool) (*domain.ProjectionResult, error) {
	return pe.ProjectWithIncomeOverride(plan, years, verbose, nil)
}

// ProjectWithIncomeOverride runs a projection with the gross income for
// selected years forced to the given values. An overridden year fully
// replaces the default income trajectory: growth into an overridden
// year is suppressed, and a later non-overridden year resumes organic
// growth from the last effective income. The retirement search uses
// this with an override covering the whole range.
func (pe *ProjectionEngine) ProjectWithIncomeOverride(plan *domain.Plan, years int, verbose bool, incomeOverride map[int]decimal.Decimal) (*domain.ProjectionResult, error) {
	if err := pe.validate(plan, years); err != nil {
		return nil, err
	}
	return pe.projectBase(plan, years, verbose, incomeOverride), nil
}

func (pe *ProjectionEngine) validate(plan *domain.Plan, years int) error {
	if plan == nil {
		return fmt.Errorf("plan is required")
	}
	if years < 0 {
		return fmt.Errorf("projection years cannot be negative, got %d", years)
	}
	if err := plan.TaxRate.Validate(); err != nil {
		return fmt.Errorf("invalid tax schedule: %w", err)
	}
	if err := plan.AdditionalExpenses.Validate(); err != nil {
		return fmt.Errorf("invalid expense schedule: %w", err)
	}
	if len(plan.AssetAllocation) == 0 {
		return fmt.Errorf("plan has no asset allocation")
	}
	return nil
}
