package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"FinSoft/internal/model"
)

// WorkshopsStore китайский груз и выпуск цехов капсулы и стакана.
type WorkshopsStore struct {
	Cargo *Collection[model.Cargo]
	Items *Collection[model.WorkshopItem]

	mu      sync.RWMutex
	cargo   []model.Cargo
	items   []model.WorkshopItem
	summary WorkshopsSummary
}

func NewWorkshopsStore(remote Remote, log *zap.SugaredLogger) *WorkshopsStore {
	s := &WorkshopsStore{
		Cargo: NewCollection[model.Cargo](remote, "/chinese-cargo", log),
		Items: NewCollection[model.WorkshopItem](remote, "/workshops", log),
	}
	s.Cargo.Watch(func(items []model.Cargo) {
		s.mu.Lock()
		s.cargo = items
		s.summary = SummarizeWorkshops(s.cargo, s.items)
		s.mu.Unlock()
	})
	s.Items.Watch(func(items []model.WorkshopItem) {
		s.mu.Lock()
		s.items = items
		s.summary = SummarizeWorkshops(s.cargo, s.items)
		s.mu.Unlock()
	})
	return s
}

// Err returns the failure of either list, cargo first.
func (s *WorkshopsStore) Err() error {
	if err := s.Cargo.Err(); err != nil {
		return err
	}
	return s.Items.Err()
}

func (s *WorkshopsStore) Loading() bool {
	return s.Cargo.Loading() || s.Items.Loading()
}

func (s *WorkshopsStore) ClearError() {
	s.Cargo.ClearError()
	s.Items.ClearError()
}

// Reset очищает груз и выпуск цехов.
func (s *WorkshopsStore) Reset() {
	s.Cargo.Reset()
	s.Items.Reset()
}

func (s *WorkshopsStore) Summary() WorkshopsSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

// FetchCapsule загружает выпуск цеха капсулы и заменяет только записи этого цеха.
func (s *WorkshopsStore) FetchCapsule(ctx context.Context, f *model.FilterParams) error {
	return s.fetchType(ctx, model.WorkshopCapsule, f)
}

// FetchCup то же для цеха стакана.
func (s *WorkshopsStore) FetchCup(ctx context.Context, f *model.FilterParams) error {
	return s.fetchType(ctx, model.WorkshopCup, f)
}

// fetchType keeps records of the other workshop in front and leaves pagination alone.
func (s *WorkshopsStore) fetchType(ctx context.Context, t model.WorkshopType, f *model.FilterParams) error {
	c := s.Items
	return c.fetchInto(ctx, c.path+"/"+string(t), f, func(fetched []model.WorkshopItem, _ Pagination) {
		merged := make([]model.WorkshopItem, 0, len(c.items)+len(fetched))
		for _, it := range c.items {
			if it.WorkshopType != t {
				merged = append(merged, it)
			}
		}
		c.items = append(merged, fetched...)
	})
}
