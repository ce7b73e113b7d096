package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"FinSoft/internal/cli/validation"
	"FinSoft/internal/middleware"
	"FinSoft/internal/model"
	"FinSoft/internal/service"
)

type UserHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
}

func NewUserHandler(userService *service.UserService, logger *zap.SugaredLogger) *UserHandler {
	return &UserHandler{UserService: userService, Logger: logger}
}

// Login вход по email и паролю
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in model.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, h.Logger, service.ErrBadRequest)
		return
	}
	if err := validation.Struct(in); err != nil {
		writeError(w, h.Logger, err)
		return
	}

	res, err := h.UserService.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.Logger.Infow("login rejected", "email", in.Email)
		}
		writeError(w, h.Logger, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

// Refresh обмен refresh-токена; ответ без обёртки.
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.RefreshToken == "" {
		writeError(w, h.Logger, service.ErrInvalidToken)
		return
	}
	pair, err := h.UserService.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// Logout токены без состояния, сервер только подтверждает выход.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.GetUserIDFromContext(r.Context())
	user, err := h.UserService.Profile(r.Context(), id)
	if err != nil {
		writeError(w, h.Logger, service.ErrInvalidToken)
		return
	}
	writeData(w, http.StatusOK, user)
}
