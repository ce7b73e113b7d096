package model

// PageMeta метаданные пагинированного ответа.
type PageMeta struct {
	CurrentPage int `json:"currentPage"`
	LastPage    int `json:"lastPage"`
	PerPage     int `json:"perPage"`
	Total       int `json:"total"`
	From        int `json:"from"`
	To          int `json:"to"`
}

// PageLinks ссылки навигации по страницам.
type PageLinks struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// Page is the paginated list payload: {data, meta, links?}.
type Page[T any] struct {
	Data  []T        `json:"data"`
	Meta  PageMeta   `json:"meta"`
	Links *PageLinks `json:"links,omitempty"`
}

// NewPageMeta computes meta for a slice of a larger result set.
func NewPageMeta(page, perPage, total, count int) PageMeta {
	if perPage <= 0 {
		perPage = 10
	}
	if page <= 0 {
		page = 1
	}
	last := (total + perPage - 1) / perPage
	if last < 1 {
		last = 1
	}
	m := PageMeta{CurrentPage: page, LastPage: last, PerPage: perPage, Total: total}
	if count > 0 {
		m.From = (page-1)*perPage + 1
		m.To = m.From + count - 1
	}
	return m
}
