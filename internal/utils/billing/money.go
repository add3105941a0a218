// Package billing holds the money and time primitives of the billing engine.
// All monetary values are int64 minor units (cents); divisions that must
// round half-up go through shopspring/decimal and come straight back to
// int64. Nothing in here ever touches float64.
package billing

import "github.com/shopspring/decimal"

// RoundMinutes rounds a duration up to the next quarter-hour. Zero and
// negative inputs round to a minimum billable block of 15 minutes.
func RoundMinutes(minutes int64) int64 {
	if minutes <= 0 {
		return 15
	}
	return ((minutes + 14) / 15) * 15
}

// RoundHalfUp truncates a decimal to whole cents using round-half-up.
// decimal.Round rounds half away from zero, which is half-up for the
// non-negative amounts this engine deals in.
func RoundHalfUp(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// VATFromHT derives the VAT and TTC amounts from an HT amount at the given
// percentage rate: vat = round(ht * rate / 100), ttc = ht + vat.
func VATFromHT(htCents, vatRate int64) (vatCents, ttcCents int64) {
	vatCents = RoundHalfUp(
		decimal.NewFromInt(htCents).
			Mul(decimal.NewFromInt(vatRate)).
			Div(decimal.NewFromInt(100)))
	return vatCents, htCents + vatCents
}

// SplitTTC back-calculates HT and VAT from a TTC amount (expense lines only
// know their tax-included total): ht = round(ttc / (1 + rate/100)),
// vat = ttc - ht. The subtraction guarantees ht + vat == ttc with no penny
// drift.
func SplitTTC(ttcCents, vatRate int64) (htCents, vatCents int64) {
	htCents = RoundHalfUp(
		decimal.NewFromInt(ttcCents).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(100 + vatRate)))
	return htCents, ttcCents - htCents
}

// AmountForTime prices a duration at an hourly rate:
// round(minutes/60 * rate).
func AmountForTime(minutes, rateCents int64) int64 {
	return RoundHalfUp(
		decimal.NewFromInt(minutes).
			Mul(decimal.NewFromInt(rateCents)).
			Div(decimal.NewFromInt(60)))
}

// WeightedAverageRate computes the minutes-weighted average of per-entry
// hourly rates, rounded to the nearest cent:
// round(sum(rate_i*minutes_i) / sum(minutes_i)). Returns 0 when no minutes.
func WeightedAverageRate(minutes, rates []int64) int64 {
	var totalMinutes int64
	weighted := decimal.Zero
	for i, m := range minutes {
		totalMinutes += m
		weighted = weighted.Add(decimal.NewFromInt(rates[i]).Mul(decimal.NewFromInt(m)))
	}
	if totalMinutes == 0 {
		return 0
	}
	return RoundHalfUp(weighted.Div(decimal.NewFromInt(totalMinutes)))
}

// ApplyRatio scales an amount by num/den with round-half-up, used for the
// proportional parts of partial credit notes and custom-total rescaling.
func ApplyRatio(amountCents, num, den int64) int64 {
	if den == 0 {
		return 0
	}
	return RoundHalfUp(
		decimal.NewFromInt(amountCents).
			Mul(decimal.NewFromInt(num)).
			Div(decimal.NewFromInt(den)))
}
