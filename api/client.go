package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnauthorized возвращается на любой ответ 401. Обработчики обязаны
// реагировать на него одинаково: сброс учётных данных чата и возврат
// к авторизации.
var ErrUnauthorized = errors.New("api: unauthorized")

// StatusError — ошибка бэкенда с HTTP-кодом и текстом из поля "error".
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: backend returned %d", e.Code)
	}
	return fmt.Sprintf("api: backend returned %d: %s", e.Code, e.Message)
}

// Client — тонкая обёртка над REST-бэкендом квизов. К каждому запросу
// прикрепляется переданный bearer-токен; на 401 срабатывает единый хук
// и возвращается ErrUnauthorized. Вся остальная логика живёт выше.
type Client struct {
	baseURL string
	hc      *http.Client

	onUnauthorized func(token string)
}

// NewClient создаёт клиент для бэкенда по базовому URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
	}
}

// OnUnauthorized регистрирует хук, вызываемый при любом ответе 401.
// Политика сквозная: хук срабатывает для каждого запроса клиента,
// независимо от того, какой метод его выдал.
func (c *Client) OnUnauthorized(fn func(token string)) {
	c.onUnauthorized = fn
}

func (c *Client) get(ctx context.Context, token, path string, query url.Values, out any) error {
	return c.do(ctx, token, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, token, path string, body, out any) error {
	return c.do(ctx, token, http.MethodPost, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, token, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: marshal request for %s: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("api: build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized(token)
		}
		return fmt.Errorf("api: %s %s: %w", method, path, ErrUnauthorized)
	}

	if resp.StatusCode >= 400 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return &StatusError{Code: resp.StatusCode, Message: payload.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("api: decode response of %s %s: %w", method, path, err)
		}
	}
	return nil
}
