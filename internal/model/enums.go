package model

// Role роль пользователя консоли.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager
}

// DebtStatus статус оплаты долга.
type DebtStatus string

const (
	DebtUnpaid        DebtStatus = "Неоплачено"
	DebtPartiallyPaid DebtStatus = "Частично оплачено"
	DebtPaid          DebtStatus = "Оплачено"
)

func (s DebtStatus) Valid() bool {
	switch s {
	case DebtUnpaid, DebtPartiallyPaid, DebtPaid:
		return true
	}
	return false
}

// CargoStatus статус китайского груза.
type CargoStatus string

const (
	CargoOrdered  CargoStatus = "Заказано в Китае"
	CargoReceived CargoStatus = "Принято в Душанбе"
)

func (s CargoStatus) Valid() bool {
	return s == CargoOrdered || s == CargoReceived
}

// PaymentMethod способ оплаты.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "Наличные"
	PaymentBank     PaymentMethod = "Банк"
	PaymentTransfer PaymentMethod = "Перевод"
	PaymentCard     PaymentMethod = "Карта"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentBank, PaymentTransfer, PaymentCard:
		return true
	}
	return false
}

// Currency валюта суммы. Значения совпадают с тем, что отдаёт API.
type Currency string

const (
	TJS Currency = "сом"
	USD Currency = "$"
	CNY Currency = "¥"
)

func (c Currency) Valid() bool {
	switch c {
	case TJS, USD, CNY:
		return true
	}
	return false
}

// ParseCurrency accepts the wire symbol or an ISO-like code typed on the command line.
func ParseCurrency(s string) (Currency, bool) {
	switch s {
	case string(TJS), "TJS", "tjs", "som":
		return TJS, true
	case string(USD), "USD", "usd":
		return USD, true
	case string(CNY), "CNY", "cny":
		return CNY, true
	}
	return "", false
}

// TransactionType тип операции доходов/расходов.
type TransactionType string

const (
	TransactionIncome  TransactionType = "Доход"
	TransactionExpense TransactionType = "Расход"
)

func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// CashierOperationType тип кассовой операции.
type CashierOperationType string

const (
	CashierIncome  CashierOperationType = "Приход"
	CashierExpense CashierOperationType = "Расход"
)

func (t CashierOperationType) Valid() bool {
	return t == CashierIncome || t == CashierExpense
}

// WarehouseLocation склад хранения.
type WarehouseLocation string

const (
	LocationCapsule WarehouseLocation = "Склад Капсула"
	LocationCup     WarehouseLocation = "Склад Стакан"
	LocationFactory WarehouseLocation = "Склад Фабрика"
)

func (l WarehouseLocation) Valid() bool {
	switch l {
	case LocationCapsule, LocationCup, LocationFactory:
		return true
	}
	return false
}

// WorkshopType цех производства.
type WorkshopType string

const (
	WorkshopCapsule WorkshopType = "capsule"
	WorkshopCup     WorkshopType = "cup"
)

func (t WorkshopType) Valid() bool {
	return t == WorkshopCapsule || t == WorkshopCup
}
