package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// CSVFormatter exports the projection time series, one row per
// simulated year. Verbose runs add gain/loss/net-change columns per
// asset category.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *Report) ([]byte, error) {
	if report.Plan == nil || report.Projection == nil {
		return nil, fmt.Errorf("csv formatter requires a plan and a projection")
	}
	plan := report.Plan
	proj := report.Projection

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{"Year", "GrossIncome", "TaxRate", "NetIncome", "BaseExpenses", "AdditionalExpenses", "TotalExpenses", "AnnualSavings"}
	for _, cat := range plan.AssetAllocation {
		header = append(header, cat.Name)
	}
	if proj.Verbose {
		for _, cat := range plan.AssetAllocation {
			header = append(header, cat.Name+" Gain", cat.Name+" Loss", cat.Name+" NetChange")
		}
	}
	header = append(header, "TotalNetWorth")
	if len(proj.Milestones) > 0 {
		header = append(header, "UnreachedMilestones")
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for i := range proj.Rows {
		row := &proj.Rows[i]
		record := []string{
			strconv.Itoa(row.Year),
			row.GrossIncome.StringFixed(2),
			row.TaxRate.StringFixed(4),
			row.NetIncome.StringFixed(2),
			row.BaseExpenses.StringFixed(2),
			row.AdditionalExpense.StringFixed(2),
			row.TotalExpenses.StringFixed(2),
			row.AnnualSavings.StringFixed(2),
		}
		for _, asset := range row.Assets {
			record = append(record, asset.Amount.StringFixed(2))
		}
		if proj.Verbose {
			for _, asset := range row.Assets {
				record = append(record, asset.Gain.StringFixed(2), asset.Loss.StringFixed(2), asset.NetChange.StringFixed(2))
			}
		}
		record = append(record, row.TotalNetWorth.StringFixed(2))
		if len(proj.Milestones) > 0 {
			record = append(record, milestoneCell(row.UnreachedMilestones, plan.Currency))
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
