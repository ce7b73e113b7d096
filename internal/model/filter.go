package model

import (
	"net/url"
	"strconv"
)

// SortOrder направление сортировки списка.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// FilterParams параметры запроса списка: пагинация, поиск, сортировка, фильтры.
type FilterParams struct {
	Page      int
	PerPage   int
	Search    string
	SortBy    string
	SortOrder SortOrder
	DateFrom  string
	DateTo    string
	Status    string
	Type      string
	// Extra произвольные дополнительные фильтры ключ=значение.
	Extra map[string]string
}

// Values encodes non-zero fields as query parameters; nil receiver yields empty values.
func (f *FilterParams) Values() url.Values {
	v := url.Values{}
	if f == nil {
		return v
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.PerPage > 0 {
		v.Set("perPage", strconv.Itoa(f.PerPage))
	}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("search", f.Search)
	set("sortBy", f.SortBy)
	if f.SortOrder == SortAsc || f.SortOrder == SortDesc {
		v.Set("sortOrder", string(f.SortOrder))
	}
	set("dateFrom", f.DateFrom)
	set("dateTo", f.DateTo)
	set("status", f.Status)
	set("type", f.Type)
	for k, val := range f.Extra {
		// Extra не перетирает стандартные параметры
		if _, exists := v[k]; !exists {
			set(k, val)
		}
	}
	return v
}

// ParseFilterParams is the inverse of Values, used by the dev server.
func ParseFilterParams(q url.Values) FilterParams {
	f := FilterParams{
		Search:   q.Get("search"),
		SortBy:   q.Get("sortBy"),
		DateFrom: q.Get("dateFrom"),
		DateTo:   q.Get("dateTo"),
		Status:   q.Get("status"),
		Type:     q.Get("type"),
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.PerPage, _ = strconv.Atoi(q.Get("perPage"))
	if so := SortOrder(q.Get("sortOrder")); so == SortAsc || so == SortDesc {
		f.SortOrder = so
	}
	known := map[string]bool{
		"page": true, "perPage": true, "search": true, "sortBy": true, "sortOrder": true,
		"dateFrom": true, "dateTo": true, "status": true, "type": true,
	}
	for k := range q {
		if known[k] {
			continue
		}
		if f.Extra == nil {
			f.Extra = map[string]string{}
		}
		f.Extra[k] = q.Get(k)
	}
	return f
}
