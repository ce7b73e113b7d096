package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound документ не найден.
var ErrNotFound = errors.New("document not found")

// DocumentQuery фильтры списка документов одного ресурса.
type DocumentQuery struct {
	Search   string
	DateFrom string
	DateTo   string
	Status   string
	Kind     string
	// SortBy: date или createdAt (по умолчанию).
	SortBy string
	Asc    bool
	Offset int
	Limit  int
}

// DocumentRepository хранилище документов ресурсов.
type DocumentRepository interface {
	Create(ctx context.Context, doc *Document) error
	Get(ctx context.Context, resource, id string) (*Document, error)
	Update(ctx context.Context, doc *Document) error
	Delete(ctx context.Context, resource, id string) error
	List(ctx context.Context, resource string, q DocumentQuery) ([]Document, int64, error)
	Count(ctx context.Context, resource string) (int64, error)
}

type documentRepo struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *documentRepo) Get(ctx context.Context, resource, id string) (*Document, error) {
	var d Document
	err := r.db.WithContext(ctx).Where("resource = ? AND id = ?", resource, id).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *documentRepo) Update(ctx context.Context, doc *Document) error {
	res := r.db.WithContext(ctx).Model(&Document{}).
		Where("resource = ? AND id = ?", doc.Resource, doc.ID).
		Updates(map[string]any{
			"date":   doc.Date,
			"status": doc.Status,
			"kind":   doc.Kind,
			"search": doc.Search,
			"body":   doc.Body,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *documentRepo) Delete(ctx context.Context, resource, id string) error {
	res := r.db.WithContext(ctx).Where("resource = ? AND id = ?", resource, id).Delete(&Document{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *documentRepo) List(ctx context.Context, resource string, q DocumentQuery) ([]Document, int64, error) {
	tx := r.db.WithContext(ctx).Model(&Document{}).Where("resource = ?", resource)
	if s := strings.ToLower(strings.TrimSpace(q.Search)); s != "" {
		tx = tx.Where("search LIKE ?", "%"+s+"%")
	}
	if q.DateFrom != "" {
		tx = tx.Where("date >= ?", q.DateFrom)
	}
	if q.DateTo != "" {
		tx = tx.Where("date <= ?", q.DateTo)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Kind != "" {
		tx = tx.Where("kind = ?", q.Kind)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column := "created_at"
	if q.SortBy == "date" {
		column = "date"
	}
	dir := " DESC"
	if q.Asc {
		dir = " ASC"
	}
	tx = tx.Order(column + dir).Order("id" + dir)
	if q.Limit > 0 {
		tx = tx.Offset(q.Offset).Limit(q.Limit)
	}

	var docs []Document
	if err := tx.Find(&docs).Error; err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

func (r *documentRepo) Count(ctx context.Context, resource string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Document{}).Where("resource = ?", resource).Count(&n).Error
	return n, err
}
