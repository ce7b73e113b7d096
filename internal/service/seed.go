package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"

	"FinSoft/internal/model"
)

// Seeder наполняет пустые ресурсы демо-данными.
type Seeder struct {
	svc   *ResourceService
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewSeeder; seed = 0 даёт случайные данные.
func NewSeeder(svc *ResourceService, seed uint64) *Seeder {
	return &Seeder{svc: svc, faker: gofakeit.New(seed), now: time.Now}
}

// Seed создаёт n записей в каждом ресурсе, где ещё нет данных.
func (s *Seeder) Seed(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	for _, resource := range Resources() {
		count, err := s.svc.repo.Count(ctx, resource)
		if err != nil {
			return fmt.Errorf("count %s: %w", resource, err)
		}
		if count > 0 {
			continue
		}
		for i := 0; i < n; i++ {
			body, err := json.Marshal(s.record(resource))
			if err != nil {
				return err
			}
			if _, err := s.svc.Create(ctx, resource, body); err != nil {
				return fmt.Errorf("seed %s: %w", resource, err)
			}
		}
		s.svc.log.Infow("seeded resource", "resource", resource, "count", n)
	}
	return nil
}

func (s *Seeder) record(resource string) any {
	f := s.faker
	switch resource {
	case ResourceCashier:
		return model.CashierOperationInput{
			Date:          s.date(),
			Type:          pick(f, model.CashierIncome, model.CashierExpense),
			Amount:        s.amount(10, 5000),
			Currency:      s.currency(),
			Description:   f.Sentence(4),
			Counterparty:  f.Name(),
			PaymentMethod: s.method(),
		}
	case ResourceDebts:
		total := s.amount(100, 20000)
		remaining := total.Mul(decimal.NewFromInt(int64(f.Number(0, 100)))).Div(decimal.NewFromInt(100)).Round(2)
		return model.DebtInput{
			Date:            s.date(),
			Client:          f.Name(),
			Product:         f.ProductName(),
			TotalAmount:     total,
			RemainingAmount: &remaining,
			Currency:        s.currency(),
		}
	case ResourceTransactions:
		return model.TransactionInput{
			Date:          s.date(),
			Type:          pick(f, model.TransactionIncome, model.TransactionExpense),
			Category:      pick(f, "Продажи", "Сырьё", "Зарплата", "Транспорт", "Аренда"),
			Amount:        s.amount(50, 10000),
			Currency:      s.currency(),
			Description:   f.Sentence(5),
			PaymentMethod: s.method(),
		}
	case ResourceVarzob:
		return model.VarzobExpenseInput{
			Date:        s.date(),
			Category:    pick(f, "Стройматериалы", "Работы", "Транспорт"),
			Amount:      s.amount(50, 8000),
			Currency:    s.currency(),
			Description: f.Sentence(5),
			Recipient:   f.Name(),
		}
	case ResourceWarehouse:
		price := s.amount(1, 300)
		return model.WarehouseItemInput{
			Date:     s.date(),
			Name:     f.ProductName(),
			Quantity: float64(f.Number(1, 200)),
			Unit:     pick(f, "кг", "шт", "мешок"),
			Location: pick(f, model.LocationCapsule, model.LocationCup, model.LocationFactory),
			Supplier: f.Company(),
			Price:    &price,
			Currency: s.currency(),
		}
	case ResourceCargo:
		return model.CargoInput{
			Date:           s.date(),
			Name:           f.ProductName(),
			Weight:         float64(f.Number(10, 5000)),
			Unit:           "кг",
			Status:         pick(f, model.CargoOrdered, model.CargoReceived),
			TrackingNumber: f.LetterN(10),
			Supplier:       f.Company(),
		}
	case ResourceWorkshops:
		return model.WorkshopItemInput{
			Date:         s.date(),
			ProductName:  f.ProductName(),
			Quantity:     float64(f.Number(100, 10000)),
			Unit:         "шт",
			WorkshopType: pick(f, model.WorkshopCapsule, model.WorkshopCup),
			Shift:        pick(f, "Дневная", "Ночная"),
			Operator:     f.Name(),
		}
	default:
		return model.ProductInput{
			Name:  f.ProductName(),
			Unit:  pick(f, "шт", "кг", "упаковка"),
			Price: s.amount(1, 100),
		}
	}
}

func (s *Seeder) date() string {
	return model.Today(s.now().AddDate(0, 0, -s.faker.Number(0, 90)))
}

func (s *Seeder) amount(min, max float64) decimal.Decimal {
	return decimal.NewFromFloat(s.faker.Price(min, max)).Round(2)
}

func (s *Seeder) currency() model.Currency {
	return pick(s.faker, model.TJS, model.TJS, model.USD, model.CNY)
}

func (s *Seeder) method() model.PaymentMethod {
	return pick(s.faker, model.PaymentCash, model.PaymentBank, model.PaymentTransfer, model.PaymentCard)
}

func pick[T any](f *gofakeit.Faker, values ...T) T {
	return values[f.Number(0, len(values)-1)]
}
