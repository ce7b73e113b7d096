package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "http://localhost:8000/api"
	defaultTimeout = 30 * time.Second
	maxBodySize    = 8 << 20
	refreshPath    = "/auth/refresh"
)

var errNoRefreshToken = errors.New("no refresh token")

// Credentials источник токенов для заголовка Authorization. Реализуется сессией.
type Credentials interface {
	BearerToken() string
	RefreshToken() string
	UpdateTokens(token, refreshToken string) error
	Clear()
}

// Options настройки клиента API.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // запросов в секунду, 0 = без ограничения
	Logger    *zap.SugaredLogger
	Metrics   *Metrics
	// OnAuthExpired вызывается после того, как сессия очищена из-за невосстановимого 401.
	OnAuthExpired func()
	// HTTPClient позволяет подменить транспорт; Timeout тогда не применяется.
	HTTPClient *http.Client
}

// Client typed HTTP calls against the business API with envelope normalization
// and one refresh-and-retry cycle on 401.
type Client struct {
	base    string
	http    *http.Client
	limiter *rate.Limiter
	log     *zap.SugaredLogger
	metrics *Metrics

	mu            sync.RWMutex
	creds         Credentials
	onAuthExpired func()

	refreshes singleflight.Group
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	c := &Client{
		base:          base,
		http:          hc,
		log:           log,
		metrics:       opts.Metrics,
		onAuthExpired: opts.OnAuthExpired,
	}
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return c
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.base }

// SetCredentials binds the token provider used for every request.
func (c *Client) SetCredentials(cr Credentials) {
	c.mu.Lock()
	c.creds = cr
	c.mu.Unlock()
}

// SetOnAuthExpired replaces the forced-logout callback.
func (c *Client) SetOnAuthExpired(fn func()) {
	c.mu.Lock()
	c.onAuthExpired = fn
	c.mu.Unlock()
}

func (c *Client) credentials() Credentials {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Envelope, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.Do(ctx, http.MethodPut, path, nil, body)
}

func (c *Client) Patch(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.Do(ctx, http.MethodPatch, path, nil, body)
}

func (c *Client) Delete(ctx context.Context, path string) (*Envelope, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do issues one logical request. A 401 on a request that carried a token
// triggers at most one refresh; the retried request's result is final.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*Envelope, error) {
	payload, err := encodeBody(body)
	if err != nil {
		return nil, &RequestError{Message: MsgRequestFailed, Err: err}
	}

	token := c.bearer()
	status, respBody, err := c.send(ctx, method, path, query, payload, token)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized && token != "" {
		fresh, err := c.recoverAuth(ctx, token)
		if err != nil {
			return nil, err
		}
		status, respBody, err = c.send(ctx, method, path, query, payload, fresh)
		if err != nil {
			return nil, err
		}
	}
	return c.translate(method, path, status, respBody)
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return b, nil
	case []byte:
		return b, nil
	}
	return json.Marshal(body)
}

func (c *Client) bearer() string {
	if cr := c.credentials(); cr != nil {
		return cr.BearerToken()
	}
	return ""
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, token string) (int, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, &NetworkError{Err: err}
		}
	}

	u := c.base + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var rdr io.Reader
	if payload != nil {
		rdr = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return 0, nil, &RequestError{Message: MsgRequestFailed, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.observe(method, 0, time.Since(start))
		c.log.Debugw("api request failed", "method", method, "path", path, "error", err)
		return 0, nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, &NetworkError{Err: err}
	}
	c.metrics.observe(method, resp.StatusCode, time.Since(start))
	c.log.Debugw("api request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))
	return resp.StatusCode, body, nil
}

func (c *Client) translate(method, path string, status int, body []byte) (*Envelope, error) {
	switch status {
	case http.StatusForbidden:
		c.log.Warnw("доступ запрещён", "method", method, "path", path)
	case http.StatusTooManyRequests:
		c.log.Warnw("слишком много запросов", "method", method, "path", path)
	}

	if status < 200 || status >= 300 {
		root := gjson.ParseBytes(body)
		return nil, &ServerError{
			StatusCode:  status,
			Message:     root.Get("message").String(),
			FieldErrors: fieldErrors(root.Get("errors")),
		}
	}
	env := Normalize(body)
	if !env.Success {
		return nil, &ServerError{StatusCode: status, Message: env.Message, FieldErrors: env.Errors}
	}
	return env, nil
}

// recoverAuth returns a usable bearer token after a 401 or an *AuthExpiredError.
func (c *Client) recoverAuth(ctx context.Context, staleToken string) (string, error) {
	creds := c.credentials()
	if creds == nil {
		return "", &AuthExpiredError{Cause: errNoRefreshToken}
	}
	// токен уже обновлён параллельным запросом
	if cur := creds.BearerToken(); cur != "" && cur != staleToken {
		return cur, nil
	}

	v, err, _ := c.refreshes.Do("refresh", func() (any, error) {
		token, err := c.refresh(context.WithoutCancel(ctx), creds)
		if err != nil {
			c.metrics.refresh(false)
			c.log.Warnw("token refresh failed, clearing session", "error", err)
			creds.Clear()
			c.mu.RLock()
			fn := c.onAuthExpired
			c.mu.RUnlock()
			if fn != nil {
				fn()
			}
			return "", &AuthExpiredError{Cause: err}
		}
		c.metrics.refresh(true)
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) refresh(ctx context.Context, creds Credentials) (string, error) {
	refreshToken := creds.RefreshToken()
	if refreshToken == "" {
		return "", errNoRefreshToken
	}
	payload, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return "", err
	}
	c.log.Debugw("refreshing access token")
	status, body, err := c.send(ctx, http.MethodPost, refreshPath, nil, payload, "")
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", &ServerError{StatusCode: status, Message: gjson.GetBytes(body, "message").String()}
	}

	root := gjson.ParseBytes(body)
	token := firstString(root, "token", "data.token")
	if token == "" {
		return "", errors.New("refresh response has no token")
	}
	next := firstString(root, "refreshToken", "data.refreshToken")
	if next == "" {
		next = refreshToken
	}
	if err := creds.UpdateTokens(token, next); err != nil {
		// токен рабочий, просто не сохранился на диск
		c.log.Errorw("persist refreshed token", "error", err)
	}
	return token, nil
}

func firstString(root gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := root.Get(p); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}
