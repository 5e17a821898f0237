package output

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
)

const consoleRule = "================================================================================"
const consoleSubRule = "--------------------------------------------------------------------------------"

// ConsoleFormatter renders the full human-readable summary: initial
// conditions, schedules, allocation, the year-by-year table, key
// metrics and the die-with-zero analysis.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	if report.Plan == nil || report.Projection == nil {
		return nil, fmt.Errorf("console formatter requires a plan and a projection")
	}
	plan := report.Plan
	proj := report.Projection
	cur := plan.Currency

	var buf bytes.Buffer
	fmt.Fprintln(&buf, consoleRule)
	fmt.Fprintln(&buf, "FINANCIAL PROJECTION SUMMARY")
	fmt.Fprintln(&buf, consoleRule)

	initialTaxRate := plan.TaxRate.RateFor(0)
	initialNet := plan.AnnualGrossIncome.Mul(oneMinus(initialTaxRate))

	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "INITIAL CONDITIONS:")
	fmt.Fprintf(&buf, "  Starting Net Worth: %s\n", FormatCurrency(plan.InitialNetWorth(), cur))
	fmt.Fprintf(&buf, "  Annual Gross Income: %s\n", FormatCurrency(plan.AnnualGrossIncome, cur))
	fmt.Fprintf(&buf, "  Initial Tax Rate: %s\n", FormatPercentage(initialTaxRate))
	fmt.Fprintf(&buf, "  Initial Net Income: %s\n", FormatCurrency(initialNet, cur))
	fmt.Fprintf(&buf, "  Initial Annual Expenses: %s\n", FormatCurrency(plan.AnnualExpenses, cur))
	fmt.Fprintf(&buf, "  Inflation Rate: %s\n", FormatPercentage(plan.InflationRate))
	fmt.Fprintf(&buf, "  Income Growth Rate: %s\n", FormatPercentage(plan.IncomeGrowthRate))

	if len(plan.TaxRate.Rates) > 1 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "  Tax Rate Schedule:")
		for _, year := range sortedKeys(plan.TaxRate.Rates) {
			fmt.Fprintf(&buf, "    Year %d+: %s\n", year, FormatPercentage(plan.TaxRate.Rates[year]))
		}
	}

	if len(plan.AdditionalExpenses) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "  Additional Expense Schedule:")
		for _, year := range sortedKeys(plan.AdditionalExpenses) {
			event := plan.AdditionalExpenses[year]
			fmt.Fprintf(&buf, "    Year %d+: %s (%s)\n", year, FormatCurrency(event.Amount, cur), event.Description)
		}
	}

	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "ASSET ALLOCATION:")
	for _, cat := range plan.AssetAllocation {
		liquidity := "liquid"
		if !cat.Liquid {
			liquidity = "non-liquid"
		}
		fmt.Fprintf(&buf, "  %s: %s @ %s annual return (%s)\n",
			cat.Name, FormatCurrency(cat.Amount, cur), FormatPercentage(cat.Rate), liquidity)
	}

	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, consoleSubRule)
	fmt.Fprintln(&buf, "YEAR-BY-YEAR PROJECTION:")
	fmt.Fprintln(&buf, consoleSubRule)
	c.writeTable(&buf, report)

	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, consoleRule)
	fmt.Fprintln(&buf, "KEY METRICS:")
	fmt.Fprintln(&buf, consoleRule)
	fmt.Fprintf(&buf, "  Final Net Worth (Year %d): %s\n", proj.Years(), FormatCurrency(report.Metrics.FinalNetWorth, cur))
	fmt.Fprintf(&buf, "  Growth: %s\n", FormatCurrency(report.Metrics.Growth, cur))
	if proj.Years() > 0 {
		fmt.Fprintf(&buf, "  Total Return: %s\n", FormatPercentage(report.Metrics.TotalReturn))
		fmt.Fprintf(&buf, "  CAGR: %s\n", FormatPercentage(report.Metrics.CAGR))
	}
	fmt.Fprintf(&buf, "  Final Annual Expenses: %s\n", FormatCurrency(report.Metrics.FinalExpenses, cur))

	if len(proj.Milestones) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "MILESTONES:")
		for _, hit := range proj.Milestones {
			if hit.Reached {
				fmt.Fprintf(&buf, "  %s: reached in year %d\n", FormatMilestone(hit.Threshold, cur), hit.Year)
			} else {
				fmt.Fprintf(&buf, "  %s: not reached\n", FormatMilestone(hit.Threshold, cur))
			}
		}
	}

	if report.Retirement != nil {
		ret := report.Retirement
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, consoleRule)
		fmt.Fprintln(&buf, "DIE WITH ZERO ANALYSIS:")
		fmt.Fprintln(&buf, consoleRule)
		fmt.Fprintln(&buf, "  If you stop working NOW (year 0):")
		fmt.Fprintf(&buf, "    Final net worth in year %d: %s\n", proj.Years(), FormatCurrency(ret.StopNowNetWorth, cur))
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "  Optimal retirement year to die with zero:")
		if ret.Unreachable {
			fmt.Fprintln(&buf, "    Cannot reach zero - expenses exceed asset growth even with continued income")
		} else {
			fmt.Fprintf(&buf, "    Stop working at year %d\n", ret.BestYear)
			fmt.Fprintf(&buf, "    Final net worth in year %d: %s\n", proj.Years(), FormatCurrency(ret.FinalNetWorth, cur))
		}
	}

	fmt.Fprintln(&buf)
	return buf.Bytes(), nil
}

// writeTable renders the projection rows with one column per asset
// category, plus per-asset net change columns on verbose runs.
func (c ConsoleFormatter) writeTable(buf *bytes.Buffer, report *Report) {
	plan := report.Plan
	proj := report.Projection
	cur := plan.Currency

	w := tabwriter.NewWriter(buf, 0, 0, 2, ' ', tabwriter.AlignRight)

	header := []string{"Year", "Gross Income", "Tax", "Net Income", "Base Exp", "Add'l Exp", "Total Exp", "Savings"}
	for _, cat := range plan.AssetAllocation {
		header = append(header, cat.Name)
	}
	if proj.Verbose {
		for _, cat := range plan.AssetAllocation {
			header = append(header, cat.Name+" Δ")
		}
	}
	header = append(header, "Net Worth")
	if len(proj.Milestones) > 0 {
		header = append(header, "Pending Milestones")
	}
	fmt.Fprintln(w, strings.Join(header, "\t")+"\t")

	for i := range proj.Rows {
		row := &proj.Rows[i]
		cols := []string{
			fmt.Sprintf("%d", row.Year),
			FormatCurrency(row.GrossIncome, cur),
			FormatPercentage(row.TaxRate),
			FormatCurrency(row.NetIncome, cur),
			FormatCurrency(row.BaseExpenses, cur),
			FormatCurrency(row.AdditionalExpense, cur),
			FormatCurrency(row.TotalExpenses, cur),
			FormatCurrency(row.AnnualSavings, cur),
		}
		for _, asset := range row.Assets {
			cols = append(cols, FormatCurrency(asset.Amount, cur))
		}
		if proj.Verbose {
			for _, asset := range row.Assets {
				cols = append(cols, FormatCurrency(asset.NetChange, cur))
			}
		}
		cols = append(cols, FormatCurrency(row.TotalNetWorth, cur))
		if len(proj.Milestones) > 0 {
			cols = append(cols, milestoneCell(row.UnreachedMilestones, cur))
		}
		fmt.Fprintln(w, strings.Join(cols, "\t")+"\t")
	}
	w.Flush()
}

// milestoneCell mirrors the original summary table: compact labels for
// the thresholds still pending as of a row, or "All reached!".
func milestoneCell(unreached []decimal.Decimal, cur string) string {
	if len(unreached) == 0 {
		return "All reached!"
	}
	labels := make([]string, len(unreached))
	for i, threshold := range unreached {
		labels[i] = FormatMilestone(threshold, cur)
	}
	return strings.Join(labels, ", ")
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
