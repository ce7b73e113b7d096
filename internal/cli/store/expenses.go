package store

import (
	"sync"

	"go.uber.org/zap"

	"FinSoft/internal/model"
)

// ExpensesStore доходы/расходы и расходы по объекту Варзоб.
type ExpensesStore struct {
	Transactions *Collection[model.Transaction]
	Varzob       *Collection[model.VarzobExpense]

	mu      sync.RWMutex
	txs     []model.Transaction
	varzob  []model.VarzobExpense
	summary ExpensesSummary
}

func NewExpensesStore(remote Remote, log *zap.SugaredLogger) *ExpensesStore {
	s := &ExpensesStore{
		Transactions: NewCollection[model.Transaction](remote, "/transactions", log),
		Varzob:       NewCollection[model.VarzobExpense](remote, "/varzob-expenses", log),
	}
	s.Transactions.Watch(func(items []model.Transaction) {
		s.mu.Lock()
		s.txs = items
		s.recomputeLocked()
		s.mu.Unlock()
	})
	s.Varzob.Watch(func(items []model.VarzobExpense) {
		s.mu.Lock()
		s.varzob = items
		s.recomputeLocked()
		s.mu.Unlock()
	})
	return s
}

func (s *ExpensesStore) recomputeLocked() {
	s.summary = SummarizeExpenses(s.txs, s.varzob)
}

func (s *ExpensesStore) Summary() ExpensesSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

// Err returns the failure of either list, transactions first.
func (s *ExpensesStore) Err() error {
	if err := s.Transactions.Err(); err != nil {
		return err
	}
	return s.Varzob.Err()
}

func (s *ExpensesStore) Loading() bool {
	return s.Transactions.Loading() || s.Varzob.Loading()
}

func (s *ExpensesStore) ClearError() {
	s.Transactions.ClearError()
	s.Varzob.ClearError()
}

// Reset очищает оба списка; сводка пересчитывается через Watch.
func (s *ExpensesStore) Reset() {
	s.Transactions.Reset()
	s.Varzob.Reset()
}
