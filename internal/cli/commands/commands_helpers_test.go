package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"FinSoft/internal/cli/api"
	"FinSoft/internal/cli/auth"
	"FinSoft/internal/cli/repo"
	"FinSoft/internal/config"
	"FinSoft/internal/model"
)

// newTestApp поднимает httptest-сервер с handler и собирает App с хранилищем в памяти.
// Если role не пустая, в хранилище заранее лежит сессия этой роли.
func newTestApp(t *testing.T, h http.Handler, role model.Role) (*App, *repo.Memory) {
	t.Helper()
	if h == nil {
		h = http.NotFoundHandler()
	}
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	st := repo.NewMemory()
	if role != "" {
		raw, err := json.Marshal(auth.Session{ID: "u1", Email: string(role), FirstName: "Тест", Role: role, Token: "tok", RefreshToken: "ref"})
		require.NoError(t, err)
		require.NoError(t, st.SetItem(auth.StorageKey, raw))
	}
	cfg := &config.Config{APIBaseURL: ts.URL + "/api", StorageDriver: config.StorageMemory}
	client := api.NewClient(api.Options{BaseURL: cfg.APIBaseURL, Timeout: 2 * time.Second})
	return NewApp(cfg, nil, client, st), st
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
