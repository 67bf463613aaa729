package money

import "github.com/shopspring/decimal"

// Amounts are dollars with two fractional digits. Arithmetic stays in
// decimal until display so rate math is exact.

// FromFloat converts a float dollar amount into a decimal.
func FromFloat(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

// Round2 rounds to cents.
func Round2(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// ApplyRate multiplies amount by a fractional rate and rounds to cents.
func ApplyRate(amount decimal.Decimal, rate float64) decimal.Decimal {
	return Round2(amount.Mul(decimal.NewFromFloat(rate)))
}

// Sum adds the given amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount)
	}
	return total
}

// WithinCent reports whether two amounts differ by less than one cent.
func WithinCent(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(decimal.New(1, -2))
}
