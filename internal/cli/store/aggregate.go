package store

import (
	"github.com/shopspring/decimal"

	"FinSoft/internal/model"
)

// Сводки считаются только по загруженной странице и не зависят от порядка записей.

// LowStockThreshold позиции с количеством ниже порога считаются заканчивающимися.
const LowStockThreshold = 10

type DebtSummary struct {
	Unpaid         []model.Debt
	PartiallyPaid  []model.Debt
	Paid           []model.Debt
	TotalRemaining model.Totals
}

func SummarizeDebts(debts []model.Debt) DebtSummary {
	s := DebtSummary{TotalRemaining: model.NewTotals()}
	for _, d := range debts {
		switch d.Status {
		case model.DebtUnpaid:
			s.Unpaid = append(s.Unpaid, d)
		case model.DebtPartiallyPaid:
			s.PartiallyPaid = append(s.PartiallyPaid, d)
		case model.DebtPaid:
			s.Paid = append(s.Paid, d)
		}
		s.TotalRemaining.Add(d.Currency, d.RemainingAmount)
	}
	return s
}

type WarehouseSummary struct {
	Capsule    []model.WarehouseItem
	Cup        []model.WarehouseItem
	ItemCount  int
	LowStock   []model.WarehouseItem
	StockValue model.Totals
}

func SummarizeWarehouse(items []model.WarehouseItem) WarehouseSummary {
	s := WarehouseSummary{ItemCount: len(items), StockValue: model.NewTotals()}
	for _, it := range items {
		switch it.Location {
		case model.LocationCapsule:
			s.Capsule = append(s.Capsule, it)
		case model.LocationCup:
			s.Cup = append(s.Cup, it)
		}
		if it.Quantity < LowStockThreshold {
			s.LowStock = append(s.LowStock, it)
		}
		if it.Price != nil && it.Currency != "" {
			s.StockValue.Add(it.Currency, it.Price.Mul(decimal.NewFromFloat(it.Quantity)))
		}
	}
	return s
}

type ExpensesSummary struct {
	Income       []model.Transaction
	Expense      []model.Transaction
	TotalIncome  model.Totals
	TotalExpense model.Totals
	NetProfit    model.Totals
	VarzobTotal  model.Totals
}

func SummarizeExpenses(txs []model.Transaction, varzob []model.VarzobExpense) ExpensesSummary {
	s := ExpensesSummary{
		TotalIncome:  model.NewTotals(),
		TotalExpense: model.NewTotals(),
		VarzobTotal:  model.NewTotals(),
	}
	for _, t := range txs {
		switch t.Type {
		case model.TransactionIncome:
			s.Income = append(s.Income, t)
			s.TotalIncome.Add(t.Currency, t.Amount)
		case model.TransactionExpense:
			s.Expense = append(s.Expense, t)
			s.TotalExpense.Add(t.Currency, t.Amount)
		}
	}
	for _, v := range varzob {
		s.VarzobTotal.Add(v.Currency, v.Amount)
	}
	s.NetProfit = s.TotalIncome.Sub(s.TotalExpense)
	return s
}

type CashierSummary struct {
	Income       []model.CashierOperation
	Expense      []model.CashierOperation
	TotalIncome  model.Totals
	TotalExpense model.Totals
	Balance      model.Totals
	TodayCount   int
}

// SummarizeCashier считает операции с датой today (ISO) в TodayCount.
func SummarizeCashier(ops []model.CashierOperation, today string) CashierSummary {
	s := CashierSummary{TotalIncome: model.NewTotals(), TotalExpense: model.NewTotals()}
	for _, op := range ops {
		switch op.Type {
		case model.CashierIncome:
			s.Income = append(s.Income, op)
			s.TotalIncome.Add(op.Currency, op.Amount)
		case model.CashierExpense:
			s.Expense = append(s.Expense, op)
			s.TotalExpense.Add(op.Currency, op.Amount)
		}
		if iso, ok := model.NormalizeToISO(op.Date); ok && iso == today {
			s.TodayCount++
		}
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpense)
	return s
}

type WorkshopsSummary struct {
	OrderedCargo      []model.Cargo
	ReceivedCargo     []model.Cargo
	Capsule           []model.WorkshopItem
	Cup               []model.WorkshopItem
	// Суммы в decimal: результат не зависит от порядка записей.
	CargoWeight       decimal.Decimal
	CapsuleProduction decimal.Decimal
	CupProduction     decimal.Decimal
}

func SummarizeWorkshops(cargo []model.Cargo, items []model.WorkshopItem) WorkshopsSummary {
	var s WorkshopsSummary
	for _, c := range cargo {
		switch c.Status {
		case model.CargoOrdered:
			s.OrderedCargo = append(s.OrderedCargo, c)
		case model.CargoReceived:
			s.ReceivedCargo = append(s.ReceivedCargo, c)
		}
		s.CargoWeight = s.CargoWeight.Add(decimal.NewFromFloat(c.Weight))
	}
	for _, it := range items {
		switch it.WorkshopType {
		case model.WorkshopCapsule:
			s.Capsule = append(s.Capsule, it)
			s.CapsuleProduction = s.CapsuleProduction.Add(decimal.NewFromFloat(it.Quantity))
		case model.WorkshopCup:
			s.Cup = append(s.Cup, it)
			s.CupProduction = s.CupProduction.Add(decimal.NewFromFloat(it.Quantity))
		}
	}
	return s
}

// Dashboard собирает сводку главной панели из сводок отдельных хранилищ.
func Dashboard(debts DebtSummary, wh WarehouseSummary, exp ExpensesSummary, ws WorkshopsSummary) model.DashboardStats {
	return model.DashboardStats{
		TotalIncome:       exp.TotalIncome,
		TotalExpense:      exp.TotalExpense,
		TotalDebts:        debts.TotalRemaining,
		WarehouseItems:    wh.ItemCount,
		CargoWeight:       ws.CargoWeight,
		CapsuleProduction: ws.CapsuleProduction,
		CupProduction:     ws.CupProduction,
	}
}
