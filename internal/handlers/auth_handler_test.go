package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestAuth_Login(t *testing.T) {
	router := newTestRouter(t)

	t.Run("ok", func(t *testing.T) {
		rr := do(t, router, http.MethodPost, "/api/auth/login", "", `{"email":"admin","password":"admin"}`)
		assert.Equal(t, http.StatusOK, rr.Code)
		root := gjson.ParseBytes(rr.Body.Bytes())
		assert.True(t, root.Get("success").Bool())
		assert.Equal(t, "admin", root.Get("data.user.role").String())
		assert.NotEmpty(t, root.Get("data.user.id").String())
		assert.NotEmpty(t, root.Get("data.token").String())
		assert.NotEmpty(t, root.Get("data.refreshToken").String())
	})

	t.Run("unauthorized", func(t *testing.T) {
		rr := do(t, router, http.MethodPost, "/api/auth/login", "", `{"email":"admin","password":"bad"}`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Неверный логин или пароль", gjson.Get(rr.Body.String(), "message").String())
	})

	t.Run("missing fields", func(t *testing.T) {
		rr := do(t, router, http.MethodPost, "/api/auth/login", "", `{"email":""}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.True(t, gjson.Get(rr.Body.String(), "errors.email").Exists())
	})
}

func TestAuth_RefreshMeLogout(t *testing.T) {
	router := newTestRouter(t)
	token, refresh := login(t, router, "manager", "manager")

	rr := do(t, router, http.MethodGet, "/api/auth/me", token, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "manager", gjson.Get(rr.Body.String(), "data.email").String())

	rr = do(t, router, http.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// refresh отвечает без обёртки success/data
	rr = do(t, router, http.MethodPost, "/api/auth/refresh", "", `{"refreshToken":"`+refresh+`"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, gjson.Get(rr.Body.String(), "token").String())
	assert.False(t, gjson.Get(rr.Body.String(), "success").Exists())

	rr = do(t, router, http.MethodPost, "/api/auth/refresh", "", `{"refreshToken":"`+token+`"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, router, http.MethodPost, "/api/auth/logout", token, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
