package model

import "github.com/shopspring/decimal"

// Входные DTO для create/update. Теги validate проверяются до отправки запроса.

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember,omitempty"`
}

type DebtInput struct {
	Date            string           `json:"date" validate:"required,datetime=2006-01-02"`
	Client          string           `json:"client" validate:"required"`
	Product         string           `json:"product" validate:"required"`
	TotalAmount     decimal.Decimal  `json:"totalAmount" validate:"gt=0"`
	RemainingAmount *decimal.Decimal `json:"remainingAmount,omitempty"`
	Currency        Currency         `json:"currency" validate:"required,currency"`
	Note            string           `json:"note,omitempty"`
}

type PaymentInput struct {
	Date     string          `json:"date" validate:"required,datetime=2006-01-02"`
	Amount   decimal.Decimal `json:"amount" validate:"gt=0"`
	Currency Currency        `json:"currency" validate:"required,currency"`
	Method   PaymentMethod   `json:"method" validate:"required,oneof=Наличные Банк Перевод Карта"`
	Note     string          `json:"note,omitempty"`
}

type WarehouseItemInput struct {
	Date     string            `json:"date" validate:"required,datetime=2006-01-02"`
	Name     string            `json:"name" validate:"required"`
	Quantity float64           `json:"quantity" validate:"gt=0"`
	Unit     string            `json:"unit" validate:"required"`
	Location WarehouseLocation `json:"location" validate:"required"`
	Supplier string            `json:"supplier,omitempty"`
	Price    *decimal.Decimal  `json:"price,omitempty" validate:"omitempty,gt=0"`
	Currency Currency          `json:"currency,omitempty" validate:"omitempty,currency"`
	Note     string            `json:"note,omitempty"`
}

type TransactionInput struct {
	Date          string          `json:"date" validate:"required,datetime=2006-01-02"`
	Type          TransactionType `json:"type" validate:"required,oneof=Доход Расход"`
	Category      string          `json:"category" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	Currency      Currency        `json:"currency" validate:"required,currency"`
	Description   string          `json:"description" validate:"required"`
	PaymentMethod PaymentMethod   `json:"paymentMethod,omitempty"`
	Recipient     string          `json:"recipient,omitempty"`
}

type VarzobExpenseInput struct {
	Date          string          `json:"date" validate:"required,datetime=2006-01-02"`
	Category      string          `json:"category" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	Currency      Currency        `json:"currency" validate:"required,currency"`
	Description   string          `json:"description" validate:"required"`
	Recipient     string          `json:"recipient,omitempty"`
	PaymentMethod PaymentMethod   `json:"paymentMethod,omitempty"`
}

type CargoInput struct {
	Date           string           `json:"date" validate:"required,datetime=2006-01-02"`
	Name           string           `json:"name" validate:"required"`
	Weight         float64          `json:"weight" validate:"gt=0"`
	Unit           string           `json:"unit" validate:"required"`
	Status         CargoStatus      `json:"status" validate:"required,oneof='Заказано в Китае' 'Принято в Душанбе'"`
	TrackingNumber string           `json:"trackingNumber,omitempty"`
	Supplier       string           `json:"supplier,omitempty"`
	Cost           *decimal.Decimal `json:"cost,omitempty" validate:"omitempty,gt=0"`
	Currency       Currency         `json:"currency,omitempty" validate:"omitempty,currency"`
	Note           string           `json:"note,omitempty"`
}

type WorkshopItemInput struct {
	Date         string       `json:"date" validate:"required,datetime=2006-01-02"`
	ProductName  string       `json:"productName" validate:"required"`
	Quantity     float64      `json:"quantity" validate:"gt=0"`
	Unit         string       `json:"unit" validate:"required"`
	WorkshopType WorkshopType `json:"workshopType" validate:"required,oneof=capsule cup"`
	Shift        string       `json:"shift,omitempty"`
	Operator     string       `json:"operator,omitempty"`
	Note         string       `json:"note,omitempty"`
}

type CashierOperationInput struct {
	Date          string               `json:"date" validate:"required,datetime=2006-01-02"`
	Type          CashierOperationType `json:"type" validate:"required,oneof=Приход Расход"`
	Amount        decimal.Decimal      `json:"amount" validate:"gt=0"`
	Currency      Currency             `json:"currency" validate:"required,currency"`
	Description   string               `json:"description,omitempty"`
	Counterparty  string               `json:"counterparty,omitempty"`
	PaymentMethod PaymentMethod        `json:"paymentMethod,omitempty"`
}

type ProductInput struct {
	Name  string          `json:"name" validate:"required"`
	Unit  string          `json:"unit" validate:"required"`
	Price decimal.Decimal `json:"price" validate:"gte=0"`
}
