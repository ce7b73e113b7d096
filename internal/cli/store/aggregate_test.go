package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"FinSoft/internal/model"
)

func reversed[T any](in []T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestSummaries_OrderIndependent(t *testing.T) {
	debts := []model.Debt{
		{Base: model.Base{ID: "1"}, TotalAmount: dec(100), RemainingAmount: dec(100), Currency: model.TJS, Status: model.DebtUnpaid},
		{Base: model.Base{ID: "2"}, TotalAmount: dec(100), RemainingAmount: dec(25), Currency: model.USD, Status: model.DebtPartiallyPaid},
		{Base: model.Base{ID: "3"}, TotalAmount: dec(10), RemainingAmount: dec(0), Currency: model.TJS, Status: model.DebtPaid},
	}
	a, b := SummarizeDebts(debts), SummarizeDebts(reversed(debts))
	assert.Equal(t, a.TotalRemaining.String(), b.TotalRemaining.String())
	assert.Equal(t, len(a.Unpaid), len(b.Unpaid))
	assert.Equal(t, "25.00 $, 100.00 сом", a.TotalRemaining.String())

	txs := []model.Transaction{
		{Type: model.TransactionIncome, Amount: dec(10), Currency: model.TJS},
		{Type: model.TransactionExpense, Amount: dec(4), Currency: model.TJS},
		{Type: model.TransactionIncome, Amount: dec(7), Currency: model.CNY},
	}
	e1, e2 := SummarizeExpenses(txs, nil), SummarizeExpenses(reversed(txs), nil)
	assert.Equal(t, e1.NetProfit.String(), e2.NetProfit.String())
}

func TestSummarizeWarehouse(t *testing.T) {
	price := dec(3)
	items := []model.WarehouseItem{
		{Location: model.LocationCapsule, Quantity: 10, Price: &price, Currency: model.USD},
		{Location: model.LocationCup, Quantity: 9.5},
		{Location: model.LocationFactory, Quantity: 0},
	}
	s := SummarizeWarehouse(items)
	assert.Equal(t, 3, s.ItemCount)
	assert.Len(t, s.Capsule, 1)
	assert.Len(t, s.Cup, 1)
	assert.Len(t, s.LowStock, 2, "quantity 10 is not low stock")
	assert.Equal(t, "30", s.StockValue.Get(model.USD).String())
}

func TestSummaries_EmptyInput(t *testing.T) {
	assert.Empty(t, SummarizeDebts(nil).TotalRemaining)
	assert.Zero(t, SummarizeCashier(nil, "2026-10-17").TodayCount)
	assert.True(t, SummarizeWorkshops(nil, nil).CargoWeight.IsZero())
	assert.Equal(t, "0", SummarizeExpenses(nil, nil).NetProfit.String())
}

func TestDashboard(t *testing.T) {
	debts := SummarizeDebts([]model.Debt{{RemainingAmount: dec(40), TotalAmount: dec(50), Currency: model.TJS}})
	wh := SummarizeWarehouse([]model.WarehouseItem{{Quantity: 1}, {Quantity: 2}})
	exp := SummarizeExpenses([]model.Transaction{{Type: model.TransactionIncome, Amount: dec(5), Currency: model.TJS}}, nil)
	ws := SummarizeWorkshops(
		[]model.Cargo{{Weight: 12}},
		[]model.WorkshopItem{{WorkshopType: model.WorkshopCup, Quantity: 3}},
	)

	got := Dashboard(debts, wh, exp, ws)
	assert.Equal(t, 2, got.WarehouseItems)
	assert.Equal(t, "12", got.CargoWeight.String())
	assert.Equal(t, "3", got.CupProduction.String())
	assert.True(t, got.CapsuleProduction.IsZero())
	assert.Equal(t, "40", got.TotalDebts.Get(model.TJS).String())
	assert.Equal(t, "5", got.TotalIncome.Get(model.TJS).String())
}

func TestSummarizeWorkshops_SumsDoNotDependOnOrder(t *testing.T) {
	weights := []float64{0.1, 0.2, 0.3, 1e16, -1e16}
	forward := make([]model.Cargo, 0, len(weights))
	for _, w := range weights {
		forward = append(forward, model.Cargo{Weight: w})
	}
	backward := make([]model.Cargo, len(forward))
	for i := range forward {
		backward[len(forward)-1-i] = forward[i]
	}

	a := SummarizeWorkshops(forward, nil).CargoWeight
	b := SummarizeWorkshops(backward, nil).CargoWeight
	assert.True(t, a.Equal(b), "%s != %s", a, b)
	assert.Equal(t, "0.6", a.String())
}
