package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"FinSoft/internal/model"
	"FinSoft/internal/service"
)

const maxBodySize = 1 << 20

type ResourceHandler struct {
	Service *service.ResourceService
	Logger  *zap.SugaredLogger
}

func NewResourceHandler(svc *service.ResourceService, logger *zap.SugaredLogger) *ResourceHandler {
	return &ResourceHandler{Service: svc, Logger: logger}
}

// List пагинированный список ресурса с фильтрами из query.
func (h *ResourceHandler) List(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.list(w, r, resource, model.ParseFilterParams(r.URL.Query()))
	}
}

// ListByType пагинированный список с зафиксированным видом записи.
func (h *ResourceHandler) ListByType(resource, kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := model.ParseFilterParams(r.URL.Query())
		f.Type = kind
		h.list(w, r, resource, f)
	}
}

func (h *ResourceHandler) list(w http.ResponseWriter, r *http.Request, resource string, f model.FilterParams) {
	page, err := h.Service.List(r.Context(), resource, f)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	page.Links = pageLinks(r.URL, page.Meta)
	writeData(w, http.StatusOK, page)
}

// ListKind все записи вида без пагинации.
func (h *ResourceHandler) ListKind(resource, kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.Service.ListKind(r.Context(), resource, kind)
		if err != nil {
			writeError(w, h.Logger, err)
			return
		}
		writeData(w, http.StatusOK, items)
	}
}

func (h *ResourceHandler) Get(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := h.Service.Get(r.Context(), resource, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, h.Logger, err)
			return
		}
		writeData(w, http.StatusOK, rec)
	}
}

func (h *ResourceHandler) Create(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			writeError(w, h.Logger, service.ErrBadRequest)
			return
		}
		rec, err := h.Service.Create(r.Context(), resource, body)
		if err != nil {
			writeError(w, h.Logger, err)
			return
		}
		writeData(w, http.StatusCreated, rec)
	}
}

func (h *ResourceHandler) Update(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			writeError(w, h.Logger, service.ErrBadRequest)
			return
		}
		rec, err := h.Service.Update(r.Context(), resource, chi.URLParam(r, "id"), body)
		if err != nil {
			writeError(w, h.Logger, err)
			return
		}
		writeData(w, http.StatusOK, rec)
	}
}

func (h *ResourceHandler) Delete(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.Service.Delete(r.Context(), resource, chi.URLParam(r, "id")); err != nil {
			writeError(w, h.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Payments история платежей долга
func (h *ResourceHandler) Payments(w http.ResponseWriter, r *http.Request) {
	history, err := h.Service.Payments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeData(w, http.StatusOK, history)
}

// Pay частичная оплата долга
func (h *ResourceHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var in model.PaymentInput
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&in); err != nil {
		writeError(w, h.Logger, service.ErrBadRequest)
		return
	}
	rec, err := h.Service.Pay(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeData(w, http.StatusOK, rec)
}

func pageLinks(u *url.URL, meta model.PageMeta) *model.PageLinks {
	at := func(page int) string {
		q := u.Query()
		q.Set("page", strconv.Itoa(page))
		return u.Path + "?" + q.Encode()
	}
	links := &model.PageLinks{First: at(1), Last: at(meta.LastPage)}
	if meta.CurrentPage > 1 {
		prev := at(meta.CurrentPage - 1)
		links.Prev = &prev
	}
	if meta.CurrentPage < meta.LastPage {
		next := at(meta.CurrentPage + 1)
		links.Next = &next
	}
	return links
}
