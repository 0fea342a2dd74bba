// Package calc implements the billing arithmetic for document lines and
// header totals. All computation runs on decimals and rounds to two places
// so repeated recomputation can never drift.
package calc

import "github.com/shopspring/decimal"

// LineAmounts holds the derived money fields of a single document line.
type LineAmounts struct {
	Subtotal  float64
	TaxAmount float64
	LineTotal float64
}

// DocumentTotals holds the derived header totals of a document.
type DocumentTotals struct {
	Subtotal  float64
	TaxAmount float64
	Total     float64
}

// Line computes a line's subtotal, tax amount and total from quantity,
// unit price and tax rate (percentage).
func Line(quantity, unitPrice, taxRate float64) LineAmounts {
	qty := decimal.NewFromFloat(quantity)
	price := decimal.NewFromFloat(unitPrice)
	rate := decimal.NewFromFloat(taxRate)

	subtotal := qty.Mul(price)
	tax := subtotal.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
	total := subtotal.Round(2).Add(tax)

	return LineAmounts{
		Subtotal:  subtotal.Round(2).InexactFloat64(),
		TaxAmount: tax.InexactFloat64(),
		LineTotal: total.InexactFloat64(),
	}
}

// Document aggregates line amounts into header totals. The empty line set
// yields all zeros; a discount applies to the grand total only.
func Document(lines []LineAmounts, discountAmount float64) DocumentTotals {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(decimal.NewFromFloat(line.Subtotal))
		tax = tax.Add(decimal.NewFromFloat(line.TaxAmount))
	}

	discount := decimal.NewFromFloat(discountAmount)
	total := subtotal.Add(tax).Sub(discount).Round(2)

	return DocumentTotals{
		Subtotal:  subtotal.Round(2).InexactFloat64(),
		TaxAmount: tax.Round(2).InexactFloat64(),
		Total:     total.InexactFloat64(),
	}
}

// Round2 rounds a money value to two decimal places.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
