package store

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"FinSoft/internal/model"
)

// CashierStore кассовые операции.
type CashierStore struct {
	*Collection[model.CashierOperation]

	mu  sync.RWMutex
	ops []model.CashierOperation
	now func() time.Time
}

func NewCashierStore(remote Remote, log *zap.SugaredLogger) *CashierStore {
	s := &CashierStore{
		Collection: NewCollection[model.CashierOperation](remote, "/cashier", log),
		now:        time.Now,
	}
	s.Watch(func(items []model.CashierOperation) {
		s.mu.Lock()
		s.ops = items
		s.mu.Unlock()
	})
	return s
}

// SetClock подменяет источник текущего времени для подсчёта операций за сегодня.
func (s *CashierStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// Summary считается при каждом вызове: "сегодня" зависит от часов.
func (s *CashierStore) Summary() CashierSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SummarizeCashier(s.ops, model.Today(s.now()))
}
