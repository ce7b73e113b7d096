package store

import (
	"go.uber.org/zap"

	"FinSoft/internal/model"
)

// ProductsStore справочник товаров.
type ProductsStore struct {
	*Collection[model.Product]
}

func NewProductsStore(remote Remote, log *zap.SugaredLogger) *ProductsStore {
	return &ProductsStore{Collection: NewCollection[model.Product](remote, "/products", log)}
}

// Count число товаров на загруженной странице.
func (s *ProductsStore) Count() int {
	return len(s.Items())
}
