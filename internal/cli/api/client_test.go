package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCreds простая реализация Credentials для тестов.
type memCreds struct {
	mu      sync.Mutex
	token   string
	refresh string
	cleared int
}

func (m *memCreds) BearerToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *memCreds) RefreshToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refresh
}

func (m *memCreds) UpdateTokens(token, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.refresh = token, refresh
	return nil
}

func (m *memCreds) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.refresh = "", ""
	m.cleared++
}

func newTestClient(t *testing.T, h http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return NewClient(Options{BaseURL: ts.URL + "/api/", Timeout: 2 * time.Second}), ts
}

func TestClient_HeadersQueryAndNormalization(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/debts", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[{"id":"1"}],"meta":{"currentPage":2}}`))
	}))
	c.SetCredentials(&memCreds{token: "tok"})

	env, err := c.Get(context.Background(), "/debts", url.Values{"page": {"2"}})
	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.Equal(t, `[{"id":"1"}]`, string(env.Data))
}

func TestClient_NoTokenNoAuthorizationHeader(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.c", body["email"])
		_, _ = w.Write([]byte(`{"success":true,"data":{"token":"x"}}`))
	}))
	env, err := c.Post(context.Background(), "auth/login", map[string]string{"email": "a@b.c"})
	require.NoError(t, err)
	assert.Equal(t, "x", env.Raw().Get("token").String())
}

func TestClient_ServerErrorTranslation(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/bad":
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"Проверьте поля","errors":{"amount":["слишком много"],"date":"нужна"}}`))
		case "/api/boom":
			w.WriteHeader(http.StatusInternalServerError)
		case "/api/soft":
			_, _ = w.Write([]byte(`{"success":false,"message":"нельзя"}`))
		}
	}))

	_, err := c.Post(context.Background(), "/bad", map[string]int{"amount": 1})
	var se *ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 422, se.StatusCode)
	assert.Equal(t, "Проверьте поля", UserMessage(err))
	assert.Equal(t, []string{"слишком много"}, se.FieldErrors["amount"])
	assert.Equal(t, []string{"нужна"}, se.FieldErrors["date"])

	_, err = c.Get(context.Background(), "/boom", nil)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 500, StatusCode(err))
	assert.Equal(t, MsgServerError, UserMessage(err))

	_, err = c.Delete(context.Background(), "/soft")
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusOK, se.StatusCode)
	assert.Equal(t, "нельзя", se.Message)
}

func TestClient_NetworkAndRequestErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	c := NewClient(Options{BaseURL: ts.URL, Timeout: 20 * time.Millisecond})
	_, err := c.Get(context.Background(), "/slow", nil)
	var ne *NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, MsgNoResponse, UserMessage(err))

	_, err = c.Post(context.Background(), "/x", map[string]any{"c": make(chan int)})
	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, MsgRequestFailed, UserMessage(err))
}

func TestClient_RefreshOnceAndRetry(t *testing.T) {
	var debtsCalls, refreshCalls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/refresh":
			atomic.AddInt32(&refreshCalls, 1)
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "r1", body["refreshToken"])
			_, _ = w.Write([]byte(`{"token":"new","refreshToken":"r2"}`))
		case "/api/debts":
			atomic.AddInt32(&debtsCalls, 1)
			if r.Header.Get("Authorization") != "Bearer new" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
		}
	}))
	creds := &memCreds{token: "old", refresh: "r1"}
	c.SetCredentials(creds)

	env, err := c.Get(context.Background(), "/debts", nil)
	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.EqualValues(t, 2, atomic.LoadInt32(&debtsCalls))
	assert.EqualValues(t, 1, atomic.LoadInt32(&refreshCalls))
	assert.Equal(t, "new", creds.BearerToken())
	assert.Equal(t, "r2", creds.RefreshToken())
}

func TestClient_SecondUnauthorizedDoesNotLoop(t *testing.T) {
	var debtsCalls, refreshCalls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/refresh" {
			atomic.AddInt32(&refreshCalls, 1)
			_, _ = w.Write([]byte(`{"data":{"token":"new"}}`))
			return
		}
		atomic.AddInt32(&debtsCalls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Unauthenticated."}`))
	}))
	creds := &memCreds{token: "old", refresh: "r1"}
	c.SetCredentials(creds)

	_, err := c.Get(context.Background(), "/debts", nil)
	var se *ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.EqualValues(t, 2, atomic.LoadInt32(&debtsCalls))
	assert.EqualValues(t, 1, atomic.LoadInt32(&refreshCalls))
	// data.token принят, refresh token сохранён прежним
	assert.Equal(t, "new", creds.BearerToken())
	assert.Equal(t, "r1", creds.RefreshToken())
}

func TestClient_RefreshFailureExpiresSession(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	var expired int32
	c.SetOnAuthExpired(func() { atomic.AddInt32(&expired, 1) })
	creds := &memCreds{token: "old", refresh: "r1"}
	c.SetCredentials(creds)

	_, err := c.Get(context.Background(), "/debts", nil)
	var ae *AuthExpiredError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, MsgAuthExpired, UserMessage(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(&expired))
	assert.Equal(t, 1, creds.cleared)
	assert.Empty(t, creds.BearerToken())
}

func TestClient_MissingRefreshTokenExpiresSession(t *testing.T) {
	var refreshCalls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/refresh" {
			atomic.AddInt32(&refreshCalls, 1)
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	c.SetCredentials(&memCreds{token: "old"})

	_, err := c.Get(context.Background(), "/debts", nil)
	assert.True(t, errors.As(err, new(*AuthExpiredError)))
	assert.Zero(t, atomic.LoadInt32(&refreshCalls))
}

func TestClient_UnauthorizedWithoutTokenIsPlainServerError(t *testing.T) {
	var refreshCalls int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/refresh" {
			atomic.AddInt32(&refreshCalls, 1)
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Неверный логин или пароль"}`))
	}))
	c.SetCredentials(&memCreds{})

	_, err := c.Post(context.Background(), "/auth/login", map[string]string{"email": "x"})
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
	assert.Equal(t, "Неверный логин или пароль", UserMessage(err))
	assert.Zero(t, atomic.LoadInt32(&refreshCalls))
}

func TestClient_ConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	var refreshCalls int32
	release := make(chan struct{})
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/refresh" {
			atomic.AddInt32(&refreshCalls, 1)
			<-release
			_, _ = w.Write([]byte(`{"token":"new"}`))
			return
		}
		if r.Header.Get("Authorization") != "Bearer new" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	c.SetCredentials(&memCreds{token: "old", refresh: "r1"})

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Get(context.Background(), "/cashier", nil)
			errs <- err
		}()
	}
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&refreshCalls))
}

func TestClient_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()
	c := NewClient(Options{BaseURL: ts.URL, Metrics: m})

	_, err = c.Get(context.Background(), "/products", nil)
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "429")))

	_, err = NewMetrics(reg)
	assert.Error(t, err, "second registration must fail")
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Options{})
	assert.Equal(t, "http://localhost:8000/api", c.BaseURL())
	assert.Equal(t, 30*time.Second, c.http.Timeout)
	assert.Nil(t, c.limiter)

	limited := NewClient(Options{RateLimit: 0.5})
	require.NotNil(t, limited.limiter)
	assert.Equal(t, 1, limited.limiter.Burst())
}
