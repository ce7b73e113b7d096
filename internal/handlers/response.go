package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"FinSoft/internal/cli/validation"
	"FinSoft/internal/service"
)

const (
	msgValidation   = "Ошибка валидации"
	msgNotFound     = "Запись не найдена"
	msgBadRequest   = "Некорректный запрос"
	msgInvalidCreds = "Неверный логин или пароль"
	msgServerError  = "Внутренняя ошибка сервера"
)

type envelope struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// writeError переводит ошибки сервисов в коды ответа.
func writeError(w http.ResponseWriter, log *zap.SugaredLogger, err error) {
	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		msg := msgValidation
		if len(verr.Fields) == 1 {
			for _, msgs := range verr.Fields {
				msg = msgs[0]
			}
		}
		writeJSON(w, http.StatusUnprocessableEntity, envelope{Message: msg, Errors: verr.Fields})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUnknownResource):
		writeJSON(w, http.StatusNotFound, envelope{Message: msgNotFound})
	case errors.Is(err, service.ErrBadRequest):
		writeJSON(w, http.StatusBadRequest, envelope{Message: msgBadRequest})
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, envelope{Message: msgInvalidCreds})
	default:
		log.Errorw("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, envelope{Message: msgServerError})
	}
}
