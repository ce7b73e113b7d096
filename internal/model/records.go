package model

import "github.com/shopspring/decimal"

// Record is anything a remote collection can hold: it has a server-assigned identity.
type Record interface {
	RecordID() string
}

// Base общие поля всех записей API.
type Base struct {
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

func (b Base) RecordID() string { return b.ID }

// User профиль пользователя.
type User struct {
	Base
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
	Avatar    string `json:"avatar,omitempty"`
}

// PaymentEntry один платёж в истории долга.
type PaymentEntry struct {
	ID       string          `json:"id"`
	Date     string          `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
	Method   PaymentMethod   `json:"method"`
	Note     string          `json:"note,omitempty"`
}

// Debt долг клиента.
type Debt struct {
	Base
	Date            string          `json:"date"`
	Client          string          `json:"client"`
	Product         string          `json:"product"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Currency        Currency        `json:"currency"`
	Status          DebtStatus      `json:"status"`
	Payments        []PaymentEntry  `json:"payments,omitempty"`
	Note            string          `json:"note,omitempty"`
}

// DeriveDebtStatus computes the only status consistent with the two amounts.
func DeriveDebtStatus(total, remaining decimal.Decimal) DebtStatus {
	switch {
	case !remaining.IsPositive():
		return DebtPaid
	case remaining.LessThan(total):
		return DebtPartiallyPaid
	default:
		return DebtUnpaid
	}
}

// Normalize clamps RemainingAmount into [0, TotalAmount] and re-derives Status.
func (d Debt) Normalize() Debt {
	if d.RemainingAmount.IsNegative() {
		d.RemainingAmount = decimal.Zero
	}
	if d.RemainingAmount.GreaterThan(d.TotalAmount) {
		d.RemainingAmount = d.TotalAmount
	}
	d.Status = DeriveDebtStatus(d.TotalAmount, d.RemainingAmount)
	return d
}

// Remaining returns the outstanding amount with its currency.
func (d Debt) Remaining() Money {
	return Money{Amount: d.RemainingAmount, Currency: d.Currency}
}

// WarehouseItem складская позиция.
type WarehouseItem struct {
	Base
	Date     string            `json:"date"`
	Name     string            `json:"name"`
	Quantity float64           `json:"quantity"`
	Unit     string            `json:"unit"`
	Location WarehouseLocation `json:"location"`
	Supplier string            `json:"supplier,omitempty"`
	Price    *decimal.Decimal  `json:"price,omitempty"`
	Currency Currency          `json:"currency,omitempty"`
	Note     string            `json:"note,omitempty"`
}

// Transaction операция доходов/расходов.
type Transaction struct {
	Base
	Date          string          `json:"date"`
	Type          TransactionType `json:"type"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      Currency        `json:"currency"`
	Description   string          `json:"description"`
	PaymentMethod PaymentMethod   `json:"paymentMethod,omitempty"`
	Recipient     string          `json:"recipient,omitempty"`
}

// VarzobExpense расход по объекту Варзоб.
type VarzobExpense struct {
	Base
	Date          string          `json:"date"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      Currency        `json:"currency"`
	Description   string          `json:"description"`
	Recipient     string          `json:"recipient,omitempty"`
	PaymentMethod PaymentMethod   `json:"paymentMethod,omitempty"`
}

// Cargo груз из Китая.
type Cargo struct {
	Base
	Date           string           `json:"date"`
	Name           string           `json:"name"`
	Weight         float64          `json:"weight"`
	Unit           string           `json:"unit"`
	Status         CargoStatus      `json:"status"`
	TrackingNumber string           `json:"trackingNumber,omitempty"`
	Supplier       string           `json:"supplier,omitempty"`
	Cost           *decimal.Decimal `json:"cost,omitempty"`
	Currency       Currency         `json:"currency,omitempty"`
	Note           string           `json:"note,omitempty"`
}

// WorkshopItem выпуск продукции цеха.
type WorkshopItem struct {
	Base
	Date         string       `json:"date"`
	ProductName  string       `json:"productName"`
	Quantity     float64      `json:"quantity"`
	Unit         string       `json:"unit"`
	WorkshopType WorkshopType `json:"workshopType"`
	Shift        string       `json:"shift,omitempty"`
	Operator     string       `json:"operator,omitempty"`
	Note         string       `json:"note,omitempty"`
}

// CashierOperation кассовая операция.
type CashierOperation struct {
	Base
	Date          string               `json:"date"`
	Type          CashierOperationType `json:"type"`
	Amount        decimal.Decimal      `json:"amount"`
	Currency      Currency             `json:"currency"`
	Description   string               `json:"description,omitempty"`
	Counterparty  string               `json:"counterparty,omitempty"`
	PaymentMethod PaymentMethod        `json:"paymentMethod,omitempty"`
}

// Product справочник товаров.
type Product struct {
	Base
	Name  string          `json:"name"`
	Unit  string          `json:"unit"`
	Price decimal.Decimal `json:"price"`
}

// DashboardStats сводка для главной панели.
type DashboardStats struct {
	TotalIncome       Totals  `json:"totalIncome"`
	TotalExpense      Totals  `json:"totalExpense"`
	TotalDebts        Totals  `json:"totalDebts"`
	WarehouseItems    int     `json:"warehouseItems"`
	CargoWeight       decimal.Decimal `json:"cargoWeight"`
	CapsuleProduction decimal.Decimal `json:"capsuleProduction"`
	CupProduction     decimal.Decimal `json:"cupProduction"`
}
