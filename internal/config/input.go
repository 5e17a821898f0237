package config

import (
	"fmt"
	"os"

	"github.com/dwz/networth-planner/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultProjectionYears is used when a plan file omits projection_years.
const DefaultProjectionYears = 30

// DefaultCurrency is used when a plan file omits the currency code.
const DefaultCurrency = "EUR"

// InputParser handles parsing of plan files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML file, applies defaults and
// validates it. All failures are configuration errors surfaced here,
// at construction time.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var plan domain.Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ip.ApplyDefaults(&plan)

	if err := ip.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}

	return &plan, nil
}

// ApplyDefaults fills in the horizon and currency when unspecified.
func (ip *InputParser) ApplyDefaults(plan *domain.Plan) {
	if plan.ProjectionYears == 0 {
		plan.ProjectionYears = DefaultProjectionYears
	}
	if plan.Currency == "" {
		plan.Currency = DefaultCurrency
	}
}

// ValidatePlan validates a loaded plan.
func (ip *InputParser) ValidatePlan(plan *domain.Plan) error {
	if plan.AnnualGrossIncome.IsNegative() {
		return fmt.Errorf("annual gross income cannot be negative")
	}
	if plan.AnnualExpenses.IsNegative() {
		return fmt.Errorf("annual expenses cannot be negative")
	}
	negativeOne := decimal.NewFromInt(-1)
	if plan.InflationRate.LessThanOrEqual(negativeOne) {
		return fmt.Errorf("inflation rate must be greater than -100%%")
	}
	if plan.IncomeGrowthRate.LessThanOrEqual(negativeOne) {
		return fmt.Errorf("income growth rate must be greater than -100%%")
	}

	if err := plan.TaxRate.Validate(); err != nil {
		return fmt.Errorf("tax rate: %w", err)
	}
	if err := plan.AdditionalExpenses.Validate(); err != nil {
		return fmt.Errorf("additional expenses: %w", err)
	}

	if len(plan.AssetAllocation) == 0 {
		return fmt.Errorf("at least one asset category is required")
	}
	seen := make(map[string]bool, len(plan.AssetAllocation))
	for i, cat := range plan.AssetAllocation {
		if cat.Name == "" {
			return fmt.Errorf("asset category %d has no name", i)
		}
		if seen[cat.Name] {
			return fmt.Errorf("duplicate asset category %q", cat.Name)
		}
		seen[cat.Name] = true
		if cat.Rate.LessThanOrEqual(negativeOne) {
			return fmt.Errorf("asset category %q: rate must be greater than -100%%", cat.Name)
		}
	}

	for _, threshold := range plan.Milestones {
		if !threshold.IsPositive() {
			return fmt.Errorf("milestones must be positive, got %s", threshold.String())
		}
	}

	if plan.ProjectionYears < 1 || plan.ProjectionYears > 100 {
		return fmt.Errorf("projection years must be between 1 and 100, got %d", plan.ProjectionYears)
	}

	return nil
}

// SavePlan writes a plan back out as YAML.
func (ip *InputParser) SavePlan(plan *domain.Plan, filename string) error {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// CreateExamplePlan builds a complete example plan: stepped tax rate,
// an expense schedule that ends, a mixed liquid/non-liquid allocation
// and net-worth milestones.
func (ip *InputParser) CreateExamplePlan() *domain.Plan {
	return &domain.Plan{
		AnnualGrossIncome: decimal.NewFromInt(80000),
		AnnualExpenses:    decimal.NewFromInt(40000),
		InflationRate:     decimal.NewFromFloat(0.02),
		IncomeGrowthRate:  decimal.NewFromFloat(0.02),
		TaxRate: domain.SteppedTax(map[int]decimal.Decimal{
			0:  decimal.NewFromFloat(0.30),
			20: decimal.NewFromFloat(1.0),
		}),
		AdditionalExpenses: domain.ExpenseSchedule{
			0:  {Amount: decimal.NewFromInt(15000), Description: "Kids education"},
			18: {Amount: decimal.Zero, Description: "None"},
		},
		AssetAllocation: []domain.AssetCategory{
			{Name: "ETFs", Amount: decimal.NewFromInt(200000), Rate: decimal.NewFromFloat(0.07), Liquid: true},
			{Name: "Crypto", Amount: decimal.NewFromInt(50000), Rate: decimal.NewFromFloat(0.12), Liquid: true},
			{Name: "Real Estate", Amount: decimal.NewFromInt(400000), Rate: decimal.NewFromFloat(0.03), Liquid: false},
		},
		Milestones: []decimal.Decimal{
			decimal.NewFromInt(1000000),
			decimal.NewFromInt(2000000),
			decimal.NewFromInt(3000000),
		},
		ProjectionYears: 40,
		Currency:        DefaultCurrency,
	}
}
