// Package ledger derives the financial state of an enrollment from its
// package price and payment records. It is the only place where amount
// paid, balance due and payment status are computed.
package ledger

import (
	"github.com/shopspring/decimal"

	"tour-backoffice/internal/domain/apperr"
)

// Scale is the number of fractional digits money columns keep.
const Scale = 2

// MaxAmount is the largest value a numeric(12,2) money column holds.
var MaxAmount = decimal.RequireFromString("9999999999.99")

type Status string

const (
	StatusUnpaid  Status = "UNPAID"
	StatusPartial Status = "PARTIAL"
	StatusPaid    Status = "PAID"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUnpaid, StatusPartial, StatusPaid:
		return true
	}
	return false
}

type Summary struct {
	Price      decimal.Decimal
	AmountPaid decimal.Decimal
	BalanceDue decimal.Decimal
	Status     Status
}

// ValidatePrice rejects negative prices, prices above MaxAmount and
// prices finer than Scale.
func ValidatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return apperr.Validationf("price must not be negative, got %s", price.String())
	}
	if price.GreaterThan(MaxAmount) {
		return apperr.Validationf("price must not exceed %s, got %s", MaxAmount.StringFixed(Scale), price.String())
	}
	if !fitsScale(price) {
		return apperr.Validationf("price supports at most %d decimal places, got %s", Scale, price.String())
	}
	return nil
}

// ValidateAmount rejects zero, negative, oversized and over-precise
// payment amounts.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperr.Validationf("payment amount must be greater than zero, got %s", amount.String())
	}
	if amount.GreaterThan(MaxAmount) {
		return apperr.Validationf("payment amount must not exceed %s, got %s", MaxAmount.StringFixed(Scale), amount.String())
	}
	if !fitsScale(amount) {
		return apperr.Validationf("payment amount supports at most %d decimal places, got %s", Scale, amount.String())
	}
	return nil
}

func fitsScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(Scale))
}

// AmountPaid is the exact sum of the amounts. Every amount must be valid.
func AmountPaid(amounts []decimal.Decimal) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, a := range amounts {
		if err := ValidateAmount(a); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(a)
	}
	return total, nil
}

// BalanceDue is price minus amount paid, floored at zero. Overpayment is
// never reported as a negative balance.
func BalanceDue(price decimal.Decimal, amounts []decimal.Decimal) (decimal.Decimal, error) {
	s, err := Summarize(price, amounts)
	if err != nil {
		return decimal.Zero, err
	}
	return s.BalanceDue, nil
}

func StatusOf(price decimal.Decimal, amounts []decimal.Decimal) (Status, error) {
	s, err := Summarize(price, amounts)
	if err != nil {
		return "", err
	}
	return s.Status, nil
}

func Summarize(price decimal.Decimal, amounts []decimal.Decimal) (Summary, error) {
	paid, err := AmountPaid(amounts)
	if err != nil {
		return Summary{}, err
	}
	return FromTotal(price, paid)
}

// FromTotal summarizes an enrollment whose payments were already summed,
// e.g. by an aggregate query.
func FromTotal(price, paid decimal.Decimal) (Summary, error) {
	if err := ValidatePrice(price); err != nil {
		return Summary{}, err
	}
	if paid.IsNegative() || !fitsScale(paid) {
		return Summary{}, apperr.Validationf("amount paid is not a valid total: %s", paid.String())
	}
	return Summary{
		Price:      price,
		AmountPaid: paid,
		BalanceDue: decimal.Max(price.Sub(paid), decimal.Zero),
		Status:     classify(price, paid),
	}, nil
}

// Totals accumulates summaries into portfolio figures.
type Totals struct {
	Count       int
	Expected    decimal.Decimal
	Collected   decimal.Decimal
	Outstanding decimal.Decimal
	ByStatus    map[Status]int
}

func NewTotals() Totals {
	return Totals{
		Expected:    decimal.Zero,
		Collected:   decimal.Zero,
		Outstanding: decimal.Zero,
		ByStatus:    map[Status]int{StatusUnpaid: 0, StatusPartial: 0, StatusPaid: 0},
	}
}

func (t *Totals) Add(s Summary) {
	if t.ByStatus == nil {
		*t = NewTotals()
	}
	t.Count++
	t.Expected = t.Expected.Add(s.Price)
	t.Collected = t.Collected.Add(s.AmountPaid)
	t.Outstanding = t.Outstanding.Add(s.BalanceDue)
	t.ByStatus[s.Status]++
}

func classify(price, paid decimal.Decimal) Status {
	switch {
	case paid.IsZero():
		return StatusUnpaid
	case paid.GreaterThanOrEqual(price):
		return StatusPaid
	default:
		return StatusPartial
	}
}
