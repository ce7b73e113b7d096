package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"FinSoft/internal/config"
	"FinSoft/internal/handlers"
	"FinSoft/internal/repo"
	"FinSoft/internal/service"
)

// newTestRouter собирает роутер поверх SQLite во временном каталоге с учётками admin/manager.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{AuthSecret: "test-secret"}

	db, err := repo.InitDB("sqlite://" + t.TempDir() + "/api.sqlite")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	userSvc := service.NewUserService(repo.NewUserRepository(db), service.Tokens{
		Secret: cfg.AuthSecret, AccessTTL: time.Minute, RefreshTTL: time.Hour,
	})
	require.NoError(t, userSvc.SeedDefaults(context.Background()))
	resSvc := service.NewResourceService(repo.NewDocumentRepository(db), nil)

	return handlers.NewHandler(userSvc, resSvc, nil, cfg).Router
}

func do(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// login возвращает access- и refresh-токены.
func login(t *testing.T, h http.Handler, email, password string) (string, string) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	rr := do(t, h, http.MethodPost, "/api/auth/login", "", string(body))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	root := gjson.ParseBytes(rr.Body.Bytes())
	return root.Get("data.token").String(), root.Get("data.refreshToken").String()
}
