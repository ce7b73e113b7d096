package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"FinSoft/internal/middleware"
	"FinSoft/internal/model"
	"FinSoft/internal/repo"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid refresh token")
)

// Tokens параметры выпуска JWT.
type Tokens struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// LoginResult ответ на успешный вход.
type LoginResult struct {
	User         model.User `json:"user"`
	Token        string     `json:"token"`
	RefreshToken string     `json:"refreshToken"`
}

// TokenPair ответ на обновление токена.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type UserService struct {
	repo   repo.UserRepository
	tokens Tokens
}

func NewUserService(r repo.UserRepository, tokens Tokens) *UserService {
	if tokens.AccessTTL <= 0 {
		tokens.AccessTTL = 15 * time.Minute
	}
	if tokens.RefreshTTL <= 0 {
		tokens.RefreshTTL = 7 * 24 * time.Hour
	}
	return &UserService{repo: r, tokens: tokens}
}

// Login проверяет пароль и выдаёт пару токенов.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.repo.GetUserByLogin(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && u == nil) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issue(u.ID, model.Role(u.Role))
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: toModel(u), Token: pair.Token, RefreshToken: pair.RefreshToken}, nil
}

// Refresh обменивает refresh-токен на новую пару.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := middleware.ParseToken(refreshToken, middleware.TokenRefresh, s.tokens.Secret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	// пользователь мог быть удалён после выдачи токена
	u, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return nil, ErrInvalidToken
	}
	return s.issue(u.ID, model.Role(u.Role))
}

// Profile профиль текущего пользователя.
func (s *UserService) Profile(ctx context.Context, id string) (*model.User, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m := toModel(u)
	return &m, nil
}

// EnsureUser создаёт пользователя, если email ещё свободен.
func (s *UserService) EnsureUser(ctx context.Context, email, password, firstName, lastName string, role model.Role) error {
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", role)
	}
	_, err := s.repo.GetUserByLogin(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.repo.CreateUser(ctx, &repo.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		Role:         string(role),
	})
	return err
}

// SeedDefaults заводит учётки admin/admin и manager/manager.
func (s *UserService) SeedDefaults(ctx context.Context) error {
	if err := s.EnsureUser(ctx, "admin", "admin", "Администратор", "", model.RoleAdmin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := s.EnsureUser(ctx, "manager", "manager", "Менеджер", "", model.RoleManager); err != nil {
		return fmt.Errorf("seed manager: %w", err)
	}
	return nil
}

func (s *UserService) issue(userID string, role model.Role) (*TokenPair, error) {
	access, err := middleware.IssueToken(userID, role, middleware.TokenAccess, s.tokens.Secret, s.tokens.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := middleware.IssueToken(userID, role, middleware.TokenRefresh, s.tokens.Secret, s.tokens.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &TokenPair{Token: access, RefreshToken: refresh}, nil
}

func toModel(u *repo.User) model.User {
	m := model.User{
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      model.Role(u.Role),
		Avatar:    u.Avatar,
	}
	m.ID = u.ID
	if !u.CreatedAt.IsZero() {
		m.CreatedAt = u.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !u.UpdatedAt.IsZero() {
		m.UpdatedAt = u.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return m
}
