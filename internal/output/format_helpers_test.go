package output

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "€40,000.00", FormatCurrency(decimal.NewFromInt(40000), "EUR"))
	assert.Equal(t, "$1,234.50", FormatCurrency(decimal.NewFromFloat(1234.5), "USD"))
	assert.Equal(t, "-€20,000.00", FormatCurrency(decimal.NewFromInt(-20000), "EUR"))
}

func TestFormatCurrency_UnknownCodeFallsBackToEUR(t *testing.T) {
	assert.Equal(t, "€1.00", FormatCurrency(decimal.NewFromInt(1), "???"))
	assert.Equal(t, "€1.00", FormatCurrency(decimal.NewFromInt(1), ""))
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "30.0%", FormatPercentage(decimal.NewFromFloat(0.30)))
	assert.Equal(t, "2.0%", FormatPercentage(decimal.NewFromFloat(0.02)))
	assert.Equal(t, "-1.5%", FormatPercentage(decimal.NewFromFloat(-0.015)))
}

func TestFormatMilestone(t *testing.T) {
	assert.Equal(t, "€1.0M", FormatMilestone(decimal.NewFromInt(1000000), "EUR"))
	assert.Equal(t, "€2.5M", FormatMilestone(decimal.NewFromInt(2500000), "EUR"))
	assert.Equal(t, "€500K", FormatMilestone(decimal.NewFromInt(500000), "EUR"))
	assert.Equal(t, "$750K", FormatMilestone(decimal.NewFromInt(750000), "USD"))
}
