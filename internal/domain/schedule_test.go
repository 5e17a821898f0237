package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTaxScheduleRateFor_Stepped(t *testing.T) {
	ts := SteppedTax(map[int]decimal.Decimal{
		0:  decimal.NewFromFloat(0.30),
		20: decimal.NewFromFloat(0.40),
	})

	cases := []struct {
		year int
		want string
	}{
		{0, "0.3"},
		{5, "0.3"},
		{19, "0.3"},
		{20, "0.4"},
		{100, "0.4"},
	}
	for _, tc := range cases {
		got := ts.RateFor(tc.year)
		if got.String() != tc.want {
			t.Errorf("RateFor(%d) = %s, want %s", tc.year, got.String(), tc.want)
		}
	}
}

func TestTaxScheduleRateFor_FallsBackToEarliestKey(t *testing.T) {
	// A schedule starting at year 5 covers earlier years with its
	// earliest rate, not with zero.
	ts := SteppedTax(map[int]decimal.Decimal{5: decimal.NewFromFloat(0.20)})

	assert.True(t, ts.RateFor(0).Equal(decimal.NewFromFloat(0.20)))
	assert.True(t, ts.RateFor(4).Equal(decimal.NewFromFloat(0.20)))
	assert.True(t, ts.RateFor(5).Equal(decimal.NewFromFloat(0.20)))
}

func TestTaxScheduleRateFor_Constant(t *testing.T) {
	ts := ConstantTax(decimal.NewFromFloat(0.35))
	for _, year := range []int{0, 1, 50} {
		assert.True(t, ts.RateFor(year).Equal(decimal.NewFromFloat(0.35)))
	}
}

func TestExpenseScheduleEventFor(t *testing.T) {
	es := ExpenseSchedule{
		0:  {Amount: decimal.NewFromInt(15000), Description: "Kids education"},
		18: {Amount: decimal.Zero, Description: "None"},
	}

	assert.True(t, es.EventFor(0).Amount.Equal(decimal.NewFromInt(15000)))
	assert.True(t, es.EventFor(17).Amount.Equal(decimal.NewFromInt(15000)))
	assert.Equal(t, "Kids education", es.EventFor(17).Description)
	assert.True(t, es.EventFor(18).Amount.IsZero())
	assert.True(t, es.EventFor(40).Amount.IsZero())
}

func TestExpenseScheduleEventFor_EmptyIsZero(t *testing.T) {
	var es ExpenseSchedule
	event := es.EventFor(3)
	assert.True(t, event.Amount.IsZero())
	assert.Empty(t, event.Description)
}

func TestExpenseScheduleEventFor_FallsBackToEarliestKey(t *testing.T) {
	es := ExpenseSchedule{10: {Amount: decimal.NewFromInt(5000), Description: "Care"}}
	assert.True(t, es.EventFor(2).Amount.Equal(decimal.NewFromInt(5000)))
}

func TestTaxScheduleValidate(t *testing.T) {
	assert.NoError(t, ConstantTax(decimal.NewFromFloat(0.5)).Validate())
	assert.Error(t, ConstantTax(decimal.NewFromFloat(1.5)).Validate())
	assert.Error(t, ConstantTax(decimal.NewFromFloat(-0.1)).Validate())

	assert.Error(t, SteppedTax(nil).Validate(), "empty mapping must fail fast")
	assert.Error(t, SteppedTax(map[int]decimal.Decimal{}).Validate())
	assert.Error(t, SteppedTax(map[int]decimal.Decimal{-1: decimal.NewFromFloat(0.3)}).Validate())
	assert.NoError(t, SteppedTax(map[int]decimal.Decimal{0: decimal.NewFromFloat(0.3)}).Validate())
}
