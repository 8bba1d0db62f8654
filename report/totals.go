/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package report

import (
	"github.com/shopspring/decimal"

	"github.com/humaidq/pulse/db"
)

// Currency prefixes every amount printed on an invoice.
const Currency = "CFA"

// VATRate is the sales tax applied on top of the subtotal.
var VATRate = decimal.RequireFromString("0.10")

// Summary holds the computed amounts of an invoice.
type Summary struct {
	Subtotal decimal.Decimal
	VAT      decimal.Decimal
	Total    decimal.Decimal
}

// Totals sums the line totals and applies VAT. Amounts are rounded to cents.
func Totals(items []db.InvoiceItem) Summary {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Total())
	}

	vat := subtotal.Mul(VATRate).Round(2)

	return Summary{
		Subtotal: subtotal.Round(2),
		VAT:      vat,
		Total:    subtotal.Add(vat).Round(2),
	}
}

// FormatAmount renders an amount as "CFA 1234.50".
func FormatAmount(d decimal.Decimal) string {
	return Currency + " " + d.StringFixed(2)
}

// VATLabel renders the VAT rate as a percentage, e.g. "10%".
func VATLabel() string {
	return VATRate.Shift(2).String() + "%"
}
