package pricing

import (
	"math"

	"github.com/pkordes/wanderkart/backend/internal/domain"
)

// Line is the priced contribution of one selected option.
type Line struct {
	Key       string  `json:"key"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	UnitTax   float64 `json:"unitTax"`
	Subtotal  float64 `json:"subtotal"`
	Tax       float64 `json:"tax"`
}

// Summary is the derived price of a selection over a number of days.
// It is never stored.
type Summary struct {
	Days                 int     `json:"days"`
	Subtotal             float64 `json:"subtotal"`
	Taxes                float64 `json:"taxes"`
	Total                float64 `json:"total"`
	SelectedOptionsCount int     `json:"selectedOptionsCount"`
	Currency             string  `json:"currency"`
	Lines                []Line  `json:"lines"`
}

// CanSubmit reports whether the summary describes something bookable.
func (s Summary) CanSubmit() bool {
	return s.SelectedOptionsCount >= 1
}

// Aggregate prices quantities against options for the given number of days.
// Options with no (or non-positive) quantity contribute nothing; days below 1
// are treated as 1. Currency comes from the first selected option that names
// one, falling back to domain.DefaultCurrency. Amounts are rounded to cents.
func Aggregate(options []domain.Option, quantities map[string]int, days int) Summary {
	days = max(1, days)
	sum := Summary{Days: days, Lines: []Line{}}

	for _, o := range options {
		qty := quantities[o.Key()]
		if qty <= 0 {
			continue
		}
		units := float64(qty) * float64(days)
		line := Line{
			Key:       o.Key(),
			Name:      o.Name,
			Quantity:  qty,
			UnitPrice: o.Price,
			UnitTax:   o.TaxOrZero(),
			Subtotal:  round2(o.Price * units),
			Tax:       round2(o.TaxOrZero() * units),
		}
		sum.Lines = append(sum.Lines, line)
		sum.Subtotal += line.Subtotal
		sum.Taxes += line.Tax
		sum.SelectedOptionsCount = addCapped(sum.SelectedOptionsCount, qty)
		if sum.Currency == "" {
			sum.Currency = o.Currency
		}
	}

	sum.Subtotal = round2(sum.Subtotal)
	sum.Taxes = round2(sum.Taxes)
	sum.Total = round2(sum.Subtotal + sum.Taxes)
	if sum.Currency == "" {
		sum.Currency = domain.DefaultCurrency
	}
	return sum
}

// Quote is the one-shot form used by handlers: resolve the dates, check the
// quantities against the options and aggregate.
func Quote(options []domain.Option, quantities map[string]int, start, end string) (Summary, error) {
	sel, err := NewSelection(options)
	if err != nil {
		return Summary{}, err
	}
	for k, q := range quantities {
		if err := sel.Set(k, q); err != nil {
			return Summary{}, err
		}
	}
	return Aggregate(options, sel.Quantities(), ResolveDays(start, end)), nil
}

// addCapped adds two non-negative ints, stopping at math.MaxInt.
func addCapped(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
