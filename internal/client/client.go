package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/pkg/listview"
	"github.com/moon90/rms-admin/pkg/logger"
)

// envelope - конверт любого ответа бэкенда
type envelope struct {
	IsSuccess bool                  `json:"isSuccess"`
	Message   string                `json:"message"`
	Data      json.RawMessage       `json:"data,omitempty"`
	Details   []listview.FieldError `json:"details,omitempty"`
}

// listPage - страница списка в том виде, в каком ее возвращает бэкенд
type listPage[T any] struct {
	Items        []T `json:"items"`
	TotalRecords int `json:"totalRecords"`
}

// Client - типизированный HTTP клиент административной консоли. Все ответы
// приходят в одном конверте; неуспешный конверт превращается в
// *listview.APIError, так что контроллеры списков и координатор изменений
// могут разбирать его единообразно
type Client struct {
	baseURL string
	http    *http.Client
	logger  logger.Logger

	mu    sync.RWMutex
	token string
}

// New создает клиент для заданного адреса бэкенда
func New(baseURL string, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log,
	}
}

// SetToken устанавливает токен доступа для последующих запросов
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Login выполняет вход и запоминает полученный токен доступа
func (c *Client) Login(ctx context.Context, userName, password string) (*domain.LoginResponse, error) {
	req := domain.LoginRequest{UserName: userName, Password: password}

	var resp domain.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/Auth/login", nil, req, &resp); err != nil {
		return nil, err
	}

	c.SetToken(resp.AccessToken)
	return &resp, nil
}

// Refresh обменивает refresh-токен на новую пару токенов
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*domain.LoginResponse, error) {
	req := domain.RefreshTokenRequest{RefreshToken: refreshToken}

	var resp domain.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/Auth/refresh", nil, req, &resp); err != nil {
		return nil, err
	}

	c.SetToken(resp.AccessToken)
	return &resp, nil
}

// do выполняет один запрос и разбирает конверт ответа
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if !env.IsSuccess {
		if c.logger != nil {
			c.logger.Debug("Request rejected by server", map[string]interface{}{
				"method":  method,
				"path":    path,
				"status":  resp.StatusCode,
				"message": env.Message,
			})
		}
		return &listview.APIError{
			Message: env.Message,
			Details: env.Details,
		}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}

	return nil
}

// fetchList загружает одну страницу списка по контракту бэкенда
func fetchList[T any](ctx context.Context, c *Client, path string, q listview.Query, extra url.Values) (listview.Page[T], error) {
	query := q.Values()
	for key, values := range extra {
		for _, value := range values {
			query.Add(key, value)
		}
	}

	var page listPage[T]
	if err := c.do(ctx, http.MethodGet, path, query, nil, &page); err != nil {
		return listview.Page[T]{}, err
	}

	return listview.Page[T]{
		Items:        page.Items,
		TotalRecords: page.TotalRecords,
	}, nil
}
