// Package auth хранит сессию пользователя консоли и выдаёт токены клиенту API.
package auth

import (
	"strings"

	"FinSoft/internal/model"
)

// StorageKey ключ, под которым сессия сохраняется в локальном хранилище.
const StorageKey = "finsoft_auth_user"

// Session текущий пользователь и его токены.
type Session struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Role         model.Role `json:"role"`
	Avatar       string     `json:"avatar,omitempty"`
	Token        string     `json:"token,omitempty"`
	RefreshToken string     `json:"refreshToken,omitempty"`
}

// DisplayName returns "First Last", falling back to the email.
func (s Session) DisplayName() string {
	name := strings.TrimSpace(s.FirstName + " " + s.LastName)
	if name == "" {
		return s.Email
	}
	return name
}

// User returns the profile part of the session.
func (s Session) User() model.User {
	return model.User{
		Base:      model.Base{ID: s.ID},
		Email:     s.Email,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Role:      s.Role,
		Avatar:    s.Avatar,
	}
}

// valid: у сохранённой записи должны быть идентификатор и известная роль.
func (s Session) valid() bool {
	return s.ID != "" && s.Role.Valid()
}

// UserPatch поля профиля, которые можно обновить после редактирования.
// Пустые значения не меняют сессию.
type UserPatch struct {
	Email     string
	FirstName string
	LastName  string
	Avatar    string
}

// LoginResult результат входа; ошибки входа возвращаются значением, а не error.
type LoginResult struct {
	Success bool
	User    *model.User
	Message string
}

type loginResponse struct {
	User         model.User `json:"user"`
	Token        string     `json:"token"`
	RefreshToken string     `json:"refreshToken"`
	ExpiresIn    int        `json:"expiresIn,omitempty"`
}
