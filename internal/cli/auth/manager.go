package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"FinSoft/internal/cli/api"
	"FinSoft/internal/cli/repo"
	"FinSoft/internal/cli/validation"
	"FinSoft/internal/model"
)

// MsgInvalidCredentials сообщение при неверном логине или пароле.
const MsgInvalidCredentials = "Неверный логин или пароль"

// ErrNoSession операция требует активной сессии.
var ErrNoSession = errors.New("нет активной сессии: выполните login")

// Manager владеет сессией: загружает её из хранилища, сохраняет после входа
// и обновления токена, очищает при выходе. Все записи идут под мьютексом.
type Manager struct {
	mu      sync.RWMutex
	session *Session

	client  *api.Client
	storage repo.Storage
	log     *zap.SugaredLogger
}

var _ api.Credentials = (*Manager)(nil)

// NewManager loads the persisted session and binds itself as the client's credentials.
func NewManager(client *api.Client, storage repo.Storage, log *zap.SugaredLogger) *Manager {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if storage == nil {
		storage = repo.NewMemory()
	}
	m := &Manager{client: client, storage: storage, log: log}
	m.session = m.load()
	if client != nil {
		client.SetCredentials(m)
	}
	return m
}

// load читает и проверяет сохранённую запись; битая или неполная запись удаляется.
func (m *Manager) load() *Session {
	raw, err := m.storage.GetItem(StorageKey)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		m.log.Warnw("не удалось прочитать сессию", "error", err)
		m.discard()
		return nil
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil || !s.valid() {
		m.log.Warnw("сохранённая сессия повреждена, удаляем", "error", err)
		m.discard()
		return nil
	}
	return &s
}

func (m *Manager) discard() {
	if err := m.storage.RemoveItem(StorageKey); err != nil {
		m.log.Errorw("remove session", "error", err)
	}
}

// persistLocked must be called with m.mu held for writing.
func (m *Manager) persistLocked() error {
	if m.session == nil {
		return m.storage.RemoveItem(StorageKey)
	}
	b, err := json.Marshal(m.session)
	if err != nil {
		return err
	}
	return m.storage.SetItem(StorageKey, b)
}

// Login authenticates against POST /auth/login. Failures are reported in the result.
func (m *Manager) Login(ctx context.Context, identifier, secret string) LoginResult {
	in := model.LoginInput{Email: strings.ToLower(strings.TrimSpace(identifier)), Password: secret}
	if err := validation.Struct(in); err != nil {
		var ve *validation.ValidationError
		if errors.As(err, &ve) {
			if msg := ve.Field("email"); msg != "" {
				return LoginResult{Message: msg}
			}
			return LoginResult{Message: ve.Field("password")}
		}
		return LoginResult{Message: err.Error()}
	}
	if m.client == nil {
		return LoginResult{Message: api.MsgRequestFailed}
	}

	env, err := m.client.Post(ctx, "/auth/login", in)
	if err != nil {
		switch api.StatusCode(err) {
		case http.StatusUnauthorized, http.StatusUnprocessableEntity:
			m.log.Infow("login rejected", "email", in.Email)
			return LoginResult{Message: MsgInvalidCredentials}
		}
		m.log.Warnw("login failed", "email", in.Email, "error", err)
		return LoginResult{Message: api.UserMessage(err)}
	}
	resp, err := api.Decode[loginResponse](env)
	if err != nil || resp.Token == "" || resp.User.ID == "" || !resp.User.Role.Valid() {
		m.log.Warnw("unexpected login response", "error", err)
		return LoginResult{Message: api.MsgServerError}
	}

	s := &Session{
		ID:           resp.User.ID,
		Email:        resp.User.Email,
		FirstName:    resp.User.FirstName,
		LastName:     resp.User.LastName,
		Role:         resp.User.Role,
		Avatar:       resp.User.Avatar,
		Token:        resp.Token,
		RefreshToken: resp.RefreshToken,
	}
	m.mu.Lock()
	m.session = s
	if err := m.persistLocked(); err != nil {
		// сессия работает в памяти, но не переживёт перезапуск
		m.log.Errorw("persist session", "error", err)
	}
	m.mu.Unlock()

	m.log.Infow("logged in", "email", s.Email, "role", s.Role)
	user := s.User()
	return LoginResult{Success: true, User: &user}
}

// Logout notifies the server (errors ignored) and always clears the local session.
func (m *Manager) Logout(ctx context.Context) {
	if m.IsAuthenticated() && m.client != nil {
		if _, err := m.client.Post(ctx, "/auth/logout", nil); err != nil {
			m.log.Debugw("logout notification failed", "error", err)
		}
	}
	m.Clear()
}

// Session returns a copy of the current session.
func (m *Manager) Session() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return Session{}, false
	}
	return *m.session, true
}

// CurrentRole is a pure read of the session role.
func (m *Manager) CurrentRole() (model.Role, bool) {
	s, ok := m.Session()
	if !ok {
		return "", false
	}
	return s.Role, true
}

func (m *Manager) IsAuthenticated() bool {
	_, ok := m.Session()
	return ok
}

func (m *Manager) IsAdmin() bool {
	r, ok := m.CurrentRole()
	return ok && r == model.RoleAdmin
}

func (m *Manager) IsManager() bool {
	r, ok := m.CurrentRole()
	return ok && r == model.RoleManager
}

// RefreshUserData merges non-empty fields into the session and re-persists it.
func (m *Manager) RefreshUserData(p UserPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ErrNoSession
	}
	if p.Email != "" {
		m.session.Email = p.Email
	}
	if p.FirstName != "" {
		m.session.FirstName = p.FirstName
	}
	if p.LastName != "" {
		m.session.LastName = p.LastName
	}
	if p.Avatar != "" {
		m.session.Avatar = p.Avatar
	}
	return m.persistLocked()
}

// TokenExpiry reads the exp claim of the access token without verifying it.
func (m *Manager) TokenExpiry() (time.Time, bool) {
	tok := m.BearerToken()
	if tok == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (m *Manager) BearerToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return ""
	}
	return m.session.Token
}

func (m *Manager) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return ""
	}
	return m.session.RefreshToken
}

// UpdateTokens is the only mutation of a live session besides RefreshUserData.
func (m *Manager) UpdateTokens(token, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ErrNoSession
	}
	m.session.Token = token
	if refreshToken != "" {
		m.session.RefreshToken = refreshToken
	}
	return m.persistLocked()
}

// Clear drops the session from memory and storage.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	if err := m.persistLocked(); err != nil {
		m.log.Errorw("remove session", "error", err)
	}
}
