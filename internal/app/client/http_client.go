package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/exp/slog"
)

// APIError - ошибка из конверта ответа сервера
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type httpClient struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	rootURL   string
	token     string
	userAgent string
}

func NewHTTPClient(rootURL, apiBase string, log *slog.Logger) *httpClient {
	return &httpClient{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log:       log,
		baseURL:   apiBase,
		rootURL:   rootURL,
		userAgent: "lifehub-cli/1.0",
	}
}

// SetToken устанавливает токен аутентификации
func (h *httpClient) SetToken(token string) {
	h.token = token
}

// HealthCheck проверяет доступность сервера
func (h *httpClient) HealthCheck(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.rootURL+"/health", nil)
	if err != nil {
		return "", fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("сервер недоступен: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("сервер вернул статус: %d", resp.StatusCode)
	}

	var body struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("ошибка парсинга ответа: %w", err)
	}
	return body.Status + " " + body.Timestamp, nil
}

func (h *httpClient) SendOTP(ctx context.Context, email string) error {
	return h.call(ctx, http.MethodPost, "/auth/send-otp", map[string]string{"email": email}, nil)
}

func (h *httpClient) VerifyOTP(ctx context.Context, email, code string) (*signIn, error) {
	var out signIn
	err := h.call(ctx, http.MethodPost, "/auth/verify-otp", map[string]string{"email": email, "code": code}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *httpClient) Logout(ctx context.Context) error {
	return h.call(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

func (h *httpClient) Session(ctx context.Context) (*Account, error) {
	var out struct {
		User Account `json:"user"`
	}
	if err := h.call(ctx, http.MethodGet, "/auth/session", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (h *httpClient) List(ctx context.Context, path string, query url.Values) ([]Item, error) {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var out struct {
		Items []Item `json:"items"`
	}
	if err := h.call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (h *httpClient) Create(ctx context.Context, path string, body map[string]any) (Item, error) {
	var out struct {
		Item Item `json:"item"`
	}
	if err := h.call(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	return out.Item, nil
}

func (h *httpClient) Update(ctx context.Context, path, id string, body map[string]any) (Item, error) {
	var out struct {
		Item Item `json:"item"`
	}
	if err := h.call(ctx, http.MethodPut, path+"/"+url.PathEscape(id), body, &out); err != nil {
		return nil, err
	}
	return out.Item, nil
}

func (h *httpClient) Delete(ctx context.Context, path, id string) error {
	return h.call(ctx, http.MethodDelete, path+"/"+url.PathEscape(id), nil, nil)
}

func (h *httpClient) call(ctx context.Context, method, path string, body, result any) error {
	resp, err := h.doRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	return parseResponse(h.log, resp, result)
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("User-Agent", h.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	h.log.Debug("sending request",
		slog.String("method", method),
		slog.String("url", req.URL.String()),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	return resp, nil
}

// parseResponse разбирает конверт {success, data, error} и кладет data в result
func parseResponse(log *slog.Logger, resp *http.Response, result any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	log.Debug("response received",
		slog.Int("status", resp.StatusCode),
		slog.String("request_id", resp.Header.Get("X-Request-ID")),
	)

	var env envelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err != nil {
		return &APIError{Status: resp.StatusCode, Code: strconv.Itoa(resp.StatusCode), Message: http.StatusText(resp.StatusCode)}
	}

	if !env.Success || resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Code: strconv.Itoa(resp.StatusCode), Message: http.StatusText(resp.StatusCode)}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if result != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("ошибка парсинга ответа: %w", err)
		}
	}

	return nil
}
