package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"FinSoft/internal/cli/validation"
	"FinSoft/internal/model"
)

const (
	// MsgPaymentExceedsDebt сумма платежа больше остатка долга.
	MsgPaymentExceedsDebt = "Сумма платежа превышает остаток долга"
	// MsgPaymentCurrency валюта платежа не совпадает с валютой долга.
	MsgPaymentCurrency = "Валюта платежа должна совпадать с валютой долга"
)

// DebtStore долги клиентов и их платежи.
type DebtStore struct {
	*Collection[model.Debt]

	mu      sync.RWMutex
	summary DebtSummary
}

func NewDebtStore(remote Remote, log *zap.SugaredLogger) *DebtStore {
	s := &DebtStore{
		Collection: NewCollection[model.Debt](remote, "/debts", log, WithNormalizer(model.Debt.Normalize)),
	}
	s.Watch(func(items []model.Debt) {
		sum := SummarizeDebts(items)
		s.mu.Lock()
		s.summary = sum
		s.mu.Unlock()
	})
	return s
}

func (s *DebtStore) Summary() DebtSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

// MakePartialPayment регистрирует платёж по долгу. Сервер возвращает
// обновлённый долг, который заменяет загруженную запись.
func (s *DebtStore) MakePartialPayment(ctx context.Context, debtID string, in model.PaymentInput) (model.Debt, error) {
	if err := validation.Struct(in); err != nil {
		s.record(err)
		return model.Debt{}, err
	}
	if d, ok := s.loaded(debtID); ok {
		if err := CheckPayment(d, in); err != nil {
			s.record(err)
			return model.Debt{}, err
		}
	}

	var updated model.Debt
	err := s.do(func() error {
		env, err := s.remote.Post(ctx, s.itemPath(debtID)+"/payments", in)
		if err != nil {
			return err
		}
		updated, err = decodeRecord[model.Debt](env)
		return err
	})
	if err != nil {
		s.log.Errorw("payment failed", "id", debtID, "error", err)
		return model.Debt{}, err
	}
	updated = updated.Normalize()
	s.splice(updated)
	return updated, nil
}

// loaded ищет долг на странице, затем в Current.
func (s *DebtStore) loaded(id string) (model.Debt, bool) {
	if d, ok := s.Find(id); ok {
		return d, true
	}
	if d, ok := s.Current(); ok && d.ID == id {
		return d, true
	}
	return model.Debt{}, false
}

// PaymentHistory возвращает платежи по долгу. При ошибке она записывается
// в Err, а результат пустой.
func (s *DebtStore) PaymentHistory(ctx context.Context, debtID string) ([]model.PaymentEntry, error) {
	var entries []model.PaymentEntry
	err := s.do(func() error {
		env, err := s.remote.Get(ctx, s.itemPath(debtID)+"/payments", nil)
		if err != nil {
			return err
		}
		entries, _, err = decodeList[model.PaymentEntry](env, nil)
		return err
	})
	if err != nil {
		s.log.Warnw("payment history failed", "id", debtID, "error", err)
		return []model.PaymentEntry{}, err
	}
	return entries, nil
}

// CheckPayment сверяет платёж с долгом: та же валюта и сумма не больше остатка.
func CheckPayment(d model.Debt, in model.PaymentInput) error {
	if in.Currency != d.Currency {
		return validation.NewValidationError("currency", MsgPaymentCurrency)
	}
	if in.Amount.GreaterThan(d.RemainingAmount) {
		return validation.NewValidationError("amount", MsgPaymentExceedsDebt)
	}
	return nil
}
