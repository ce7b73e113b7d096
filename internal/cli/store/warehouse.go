package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"FinSoft/internal/model"
)

// WarehouseStore складские позиции и отдельный список склада фабрики.
// Изменения основной коллекции отражаются в списке фабрики.
type WarehouseStore struct {
	*Collection[model.WarehouseItem]
	factory *Collection[model.WarehouseItem]

	mu      sync.RWMutex
	summary WarehouseSummary
}

func NewWarehouseStore(remote Remote, log *zap.SugaredLogger) *WarehouseStore {
	s := &WarehouseStore{
		Collection: NewCollection[model.WarehouseItem](remote, "/warehouse", log),
		factory:    NewCollection[model.WarehouseItem](remote, "/warehouse/factory", log),
	}
	s.Watch(func(items []model.WarehouseItem) {
		sum := SummarizeWarehouse(items)
		s.mu.Lock()
		s.summary = sum
		s.mu.Unlock()
	})
	return s
}

func (s *WarehouseStore) Summary() WarehouseSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

// Factory returns the factory warehouse list.
func (s *WarehouseStore) Factory() *Collection[model.WarehouseItem] { return s.factory }

func (s *WarehouseStore) FetchFactory(ctx context.Context, f *model.FilterParams) error {
	return s.factory.FetchAll(ctx, f)
}

func (s *WarehouseStore) Create(ctx context.Context, in model.WarehouseItemInput) (model.WarehouseItem, error) {
	rec, err := s.Collection.Create(ctx, in)
	if err != nil {
		return rec, err
	}
	if rec.Location == model.LocationFactory {
		s.factory.prepend(rec)
	}
	return rec, nil
}

func (s *WarehouseStore) Update(ctx context.Context, id string, in model.WarehouseItemInput) (model.WarehouseItem, error) {
	rec, err := s.Collection.Update(ctx, id, in)
	if err != nil {
		return rec, err
	}
	// позиция, перенесённая с фабрики, уходит из списка фабрики
	if rec.Location == model.LocationFactory {
		s.factory.splice(rec)
	} else {
		s.factory.remove(rec.RecordID())
	}
	return rec, nil
}

func (s *WarehouseStore) Delete(ctx context.Context, id string) error {
	if err := s.Collection.Delete(ctx, id); err != nil {
		return err
	}
	s.factory.remove(id)
	return nil
}

// Err returns the failure of either list, the main one first.
func (s *WarehouseStore) Err() error {
	if err := s.Collection.Err(); err != nil {
		return err
	}
	return s.factory.Err()
}

func (s *WarehouseStore) Loading() bool {
	return s.Collection.Loading() || s.factory.Loading()
}

// ClearError сбрасывает ошибки обоих списков.
func (s *WarehouseStore) ClearError() {
	s.Collection.ClearError()
	s.factory.ClearError()
}

// Reset очищает основной список и список фабрики.
func (s *WarehouseStore) Reset() {
	s.Collection.Reset()
	s.factory.Reset()
}
