package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// API принимает и отдаёт суммы JSON-числами, а не строками.
	decimal.MarshalJSONWithoutQuotes = true
}

// Money is an amount paired with its currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
}

// NewMoney builds Money from a float, the way amounts arrive from user input.
func NewMoney(amount float64, currency Currency) Money {
	return Money{Amount: decimal.NewFromFloat(amount), Currency: currency}
}

func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + string(m.Currency)
}

// Totals holds one sum per currency. The zero value is not usable; use NewTotals.
type Totals map[Currency]decimal.Decimal

func NewTotals() Totals {
	return Totals{}
}

// Add accumulates amount into the currency bucket.
func (t Totals) Add(c Currency, amount decimal.Decimal) {
	t[c] = t.Get(c).Add(amount)
}

// Get returns the sum for c, zero when the currency was never added.
func (t Totals) Get(c Currency) decimal.Decimal {
	if v, ok := t[c]; ok {
		return v
	}
	return decimal.Zero
}

// Sub returns t - other per currency, covering currencies present in either side.
func (t Totals) Sub(other Totals) Totals {
	out := NewTotals()
	for c, v := range t {
		out[c] = v
	}
	for c, v := range other {
		out[c] = out.Get(c).Sub(v)
	}
	return out
}

// Currencies returns present currencies in a stable order.
func (t Totals) Currencies() []Currency {
	cs := make([]Currency, 0, len(t))
	for c := range t {
		cs = append(cs, c)
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i] < cs[j] })
	return cs
}

func (t Totals) String() string {
	if len(t) == 0 {
		return "0"
	}
	parts := make([]string, 0, len(t))
	for _, c := range t.Currencies() {
		parts = append(parts, fmt.Sprintf("%s %s", t[c].StringFixed(2), c))
	}
	return strings.Join(parts, ", ")
}
