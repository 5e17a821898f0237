package domain

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Plan is the immutable input bundle for a projection run. It is owned
// by the caller and passed by reference into the engine; the engine
// never mutates it.
type Plan struct {
	AnnualGrossIncome  decimal.Decimal   `yaml:"annual_gross_income" json:"annual_gross_income"`
	AnnualExpenses     decimal.Decimal   `yaml:"annual_expenses" json:"annual_expenses"`
	InflationRate      decimal.Decimal   `yaml:"inflation_rate" json:"inflation_rate"`
	IncomeGrowthRate   decimal.Decimal   `yaml:"income_growth_rate" json:"income_growth_rate"`
	TaxRate            TaxSchedule       `yaml:"tax_rate" json:"tax_rate"`
	AdditionalExpenses ExpenseSchedule   `yaml:"additional_expenses,omitempty" json:"additional_expenses,omitempty"`
	AssetAllocation    []AssetCategory   `yaml:"asset_allocation" json:"asset_allocation"`
	Milestones         []decimal.Decimal `yaml:"milestones,omitempty" json:"milestones,omitempty"`
	ProjectionYears    int               `yaml:"projection_years" json:"projection_years"`
	Currency           string            `yaml:"currency,omitempty" json:"currency,omitempty"`
}

// InitialNetWorth sums the starting amount of every asset category.
func (p *Plan) InitialNetWorth() decimal.Decimal {
	total := decimal.Zero
	for _, cat := range p.AssetAllocation {
		total = total.Add(cat.Amount)
	}
	return total
}

// SortedMilestones returns the milestone thresholds in ascending order
// without modifying the plan.
func (p *Plan) SortedMilestones() []decimal.Decimal {
	ms := append([]decimal.Decimal(nil), p.Milestones...)
	sort.Slice(ms, func(i, j int) bool { return ms[i].LessThan(ms[j]) })
	return ms
}

// Asset returns the category with the given name, or nil.
func (p *Plan) Asset(name string) *AssetCategory {
	for i := range p.AssetAllocation {
		if p.AssetAllocation[i].Name == name {
			return &p.AssetAllocation[i]
		}
	}
	return nil
}

// TaxSchedule is either a single constant rate applied to every year,
// or a step function mapping a year to the rate effective from that
// year onward. A year between two keys uses the most recent key at or
// before it; a year before the earliest key falls back to the rate at
// the earliest key, not to zero.
type TaxSchedule struct {
	Constant *decimal.Decimal
	Rates    map[int]decimal.Decimal
}

// ConstantTax builds a schedule with a single flat rate.
func ConstantTax(rate decimal.Decimal) TaxSchedule {
	return TaxSchedule{Constant: &rate}
}

// SteppedTax builds a year-keyed schedule.
func SteppedTax(rates map[int]decimal.Decimal) TaxSchedule {
	return TaxSchedule{Rates: rates}
}

// RateFor resolves the effective tax rate for a year.
func (ts TaxSchedule) RateFor(year int) decimal.Decimal {
	if ts.Constant != nil {
		return *ts.Constant
	}
	rate, _ := stepValue(ts.Rates, year)
	return rate
}

// Validate rejects malformed schedules at construction time rather
// than letting lookups silently default.
func (ts TaxSchedule) Validate() error {
	if ts.Constant != nil {
		if ts.Rates != nil {
			return fmt.Errorf("tax rate cannot be both a constant and a schedule")
		}
		return validateRate(*ts.Constant)
	}
	if len(ts.Rates) == 0 {
		return fmt.Errorf("tax rate schedule must contain at least one entry")
	}
	for year, rate := range ts.Rates {
		if year < 0 {
			return fmt.Errorf("tax rate schedule year %d cannot be negative", year)
		}
		if err := validateRate(rate); err != nil {
			return fmt.Errorf("tax rate for year %d: %w", year, err)
		}
	}
	return nil
}

func validateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("rate must be between 0 and 1, got %s", rate.String())
	}
	return nil
}

// UnmarshalYAML accepts either a scalar rate or a year-to-rate mapping.
func (ts *TaxSchedule) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var rate decimal.Decimal
		if err := value.Decode(&rate); err != nil {
			return fmt.Errorf("invalid tax rate: %w", err)
		}
		ts.Constant = &rate
		ts.Rates = nil
		return nil
	case yaml.MappingNode:
		var rates map[int]decimal.Decimal
		if err := value.Decode(&rates); err != nil {
			return fmt.Errorf("invalid tax rate schedule: %w", err)
		}
		ts.Constant = nil
		ts.Rates = rates
		return nil
	default:
		return fmt.Errorf("tax_rate must be a number or a year-to-rate mapping")
	}
}

// MarshalYAML writes the scalar form when the schedule is constant.
func (ts TaxSchedule) MarshalYAML() (interface{}, error) {
	if ts.Constant != nil {
		return *ts.Constant, nil
	}
	return ts.Rates, nil
}

// MarshalJSON mirrors MarshalYAML: a scalar for a constant rate, a
// year-to-rate object otherwise.
func (ts TaxSchedule) MarshalJSON() ([]byte, error) {
	if ts.Constant != nil {
		return json.Marshal(ts.Constant)
	}
	return json.Marshal(ts.Rates)
}

// ExpenseEvent is one step of the additional-expense schedule.
type ExpenseEvent struct {
	Amount      decimal.Decimal `yaml:"amount" json:"amount"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
}

// ExpenseSchedule maps a year to the additional expense effective from
// that year onward, with the same step semantics as TaxSchedule. A nil
// or empty schedule resolves to a zero expense for every year.
type ExpenseSchedule map[int]ExpenseEvent

// EventFor resolves the effective additional expense for a year.
func (es ExpenseSchedule) EventFor(year int) ExpenseEvent {
	event, ok := stepValue(es, year)
	if !ok {
		return ExpenseEvent{}
	}
	return event
}

// Validate checks schedule keys and amounts.
func (es ExpenseSchedule) Validate() error {
	for year, event := range es {
		if year < 0 {
			return fmt.Errorf("additional expense year %d cannot be negative", year)
		}
		if event.Amount.IsNegative() {
			return fmt.Errorf("additional expense for year %d cannot be negative", year)
		}
	}
	return nil
}

// AssetCategory is one named slice of the portfolio. Liquid categories
// absorb savings and cover shortfalls; non-liquid categories only ever
// change through appreciation.
type AssetCategory struct {
	Name   string          `yaml:"name" json:"name"`
	Amount decimal.Decimal `yaml:"amount" json:"amount"`
	Rate   decimal.Decimal `yaml:"rate" json:"rate"`
	Liquid bool            `yaml:"liquid" json:"liquid"`
}

// UnmarshalYAML defaults liquid to true when unspecified.
func (ac *AssetCategory) UnmarshalYAML(value *yaml.Node) error {
	type rawCategory AssetCategory
	raw := rawCategory{Liquid: true}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*ac = AssetCategory(raw)
	return nil
}
