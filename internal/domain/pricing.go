package domain

import "github.com/shopspring/decimal"

// SpotPrice derives a side's token price from the market constant and
// that side's circulating supply (price = constant / supply). A zero
// supply yields a zero price rather than a division error.
func SpotPrice(constant decimal.Decimal, circulatingSupply int64) decimal.Decimal {
	if circulatingSupply <= 0 {
		return decimal.Zero
	}
	return constant.Div(decimal.NewFromInt(circulatingSupply))
}

// SharePercentage returns side/(side+other)*100 formatted to two decimal
// places, or "0" when the side has no circulating tokens. Both sides of
// a market with positive supply sum to 100.00 within rounding.
func SharePercentage(side, other int64) string {
	if side <= 0 {
		return "0"
	}
	total := decimal.NewFromInt(side + other)
	if total.IsZero() {
		return "0"
	}
	return decimal.NewFromInt(side).
		Div(total).
		Mul(decimal.NewFromInt(100)).
		StringFixed(2)
}
