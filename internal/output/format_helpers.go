package output

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// currencyOrDefault resolves an ISO code, falling back to EUR for
// unknown or empty codes so formatting never fails.
func currencyOrDefault(code string) *money.Currency {
	if cur := money.GetCurrency(code); cur != nil {
		return cur
	}
	return money.GetCurrency(money.EUR)
}

// FormatCurrency renders an amount in the locale style of the given
// currency code. Kept here so it can be reused by multiple formatters
// and unit tested in isolation.
func FormatCurrency(amount decimal.Decimal, code string) string {
	cur := currencyOrDefault(code)
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), cur.Code).Display()
}

// FormatPercentage renders a fractional rate (0.30) as a percentage
// ("30.0%").
func FormatPercentage(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

func oneMinus(rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Sub(rate)
}

// FormatMilestone renders a net-worth threshold compactly: €1.0M for
// millions, €500K below that.
func FormatMilestone(threshold decimal.Decimal, code string) string {
	cur := currencyOrDefault(code)
	million := decimal.NewFromInt(1000000)
	if threshold.GreaterThanOrEqual(million) {
		return fmt.Sprintf("%s%sM", cur.Grapheme, threshold.Div(million).StringFixed(1))
	}
	return fmt.Sprintf("%s%sK", cur.Grapheme, threshold.Div(decimal.NewFromInt(1000)).StringFixed(0))
}
