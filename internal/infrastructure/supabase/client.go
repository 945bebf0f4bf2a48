package supabase

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 1 << 20
	maxBody        = 64 << 20
)

// Client обращается к REST (PostgREST) и Auth (GoTrue) API проекта.
// Клиент неизменяем: WithToken возвращает копию с другим Bearer-токеном.
type Client struct {
	baseURL    string
	restURL    string
	authURL    string
	apiKey     string
	bearer     string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient подменяет транспорт (используется в тестах)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(projectURL, apiKey string, opts ...Option) (*Client, error) {
	if projectURL == "" {
		return nil, errors.New("project URL is required")
	}
	if apiKey == "" {
		return nil, errors.New("api key is required")
	}

	base := strings.TrimRight(projectURL, "/")
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid project URL: %w", err)
	}

	c := &Client{
		baseURL: base,
		restURL: base + "/rest/v1",
		authURL: base + "/auth/v1",
		apiKey:  apiKey,
		bearer:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// WithToken возвращает клиента, который авторизуется токеном пользователя.
// apikey остается ключом проекта, транспорт общий.
func (c *Client) WithToken(accessToken string) *Client {
	cp := *c
	cp.bearer = accessToken
	return &cp
}

func (c *Client) Auth() *AuthClient {
	return &AuthClient{client: c}
}

// From начинает запрос к таблице
func (c *Client) From(table string) *QueryBuilder {
	return &QueryBuilder{
		client: c,
		table:  table,
		method: http.MethodGet,
		query:  url.Values{},
	}
}

func (c *Client) do(ctx context.Context, method, rawURL string, body []byte, headers http.Header) ([]byte, int, error) {
	// upstream calls are not abandoned when the caller disconnects
	ctx = context.WithoutCancel(ctx)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.bearer)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range headers {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, resp.StatusCode, parseError(errBody, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	return data, resp.StatusCode, nil
}
