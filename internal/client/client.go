// Package client — типизированный HTTP-клиент MoneyLens API и клиентский
// кэш данных пользователя (Ledger).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/magabrotheeeer/moneylens/internal/models"
)

const defaultMessage = "request failed"

// APIError — ответ сервера с кодом не из 2xx.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// RegisterRequest тело регистрации.
type RegisterRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// ProfileUpdate изменяет только переданные поля.
type ProfileUpdate struct {
	Password *string `json:"password,omitempty"`
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// StateUpdate изменяет только поля, отличные от nil.
// Пустой, но не nil список счетов сбрасывает счета к значению по умолчанию.
type StateUpdate struct {
	Goals    []json.RawMessage
	Budgets  []json.RawMessage
	Accounts []string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New создает клиент. baseURL указывает на префикс API, например http://localhost:3001/api.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var resp struct {
		Login string `json:"login"`
	}
	if err := c.do(ctx, http.MethodPost, "/register", req, &resp); err != nil {
		return "", err
	}
	return resp.Login, nil
}

func (c *Client) Login(ctx context.Context, login, password string) (*models.UserView, error) {
	body := map[string]string{"login": login, "password": password}
	return c.user(ctx, http.MethodPost, "/login", body)
}

func (c *Client) GetUser(ctx context.Context, login string) (*models.UserView, error) {
	return c.user(ctx, http.MethodGet, userPath(login), nil)
}

func (c *Client) UpdateUser(ctx context.Context, login string, upd ProfileUpdate) (*models.UserView, error) {
	return c.user(ctx, http.MethodPut, userPath(login), upd)
}

func (c *Client) GetState(ctx context.Context, login string) (*models.State, error) {
	var state models.State
	if err := c.do(ctx, http.MethodGet, userPath(login)+"/state", nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) UpdateState(ctx context.Context, login string, upd StateUpdate) error {
	body := map[string]any{}
	if upd.Goals != nil {
		body["goals"] = upd.Goals
	}
	if upd.Budgets != nil {
		body["budgets"] = upd.Budgets
	}
	if upd.Accounts != nil {
		body["accounts"] = upd.Accounts
	}
	return c.do(ctx, http.MethodPut, userPath(login)+"/state", body, nil)
}

func (c *Client) ListOperations(ctx context.Context, login string) ([]models.Operation, error) {
	var resp struct {
		Operations []models.Operation `json:"operations"`
	}
	if err := c.do(ctx, http.MethodGet, userPath(login)+"/operations", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Operations, nil
}

func (c *Client) CreateOperation(ctx context.Context, login string, payload models.OperationPayload) (*models.Operation, error) {
	return c.operation(ctx, http.MethodPost, userPath(login)+"/operations", payload)
}

func (c *Client) UpdateOperation(ctx context.Context, login, id string, payload models.OperationPayload) (*models.Operation, error) {
	return c.operation(ctx, http.MethodPut, operationPath(login, id), payload)
}

func (c *Client) DeleteOperation(ctx context.Context, login, id string) error {
	return c.do(ctx, http.MethodDelete, operationPath(login, id), nil, nil)
}

func (c *Client) user(ctx context.Context, method, path string, body any) (*models.UserView, error) {
	var resp struct {
		User *models.UserView `json:"user"`
	}
	if err := c.do(ctx, method, path, body, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) operation(ctx context.Context, method, path string, payload models.OperationPayload) (*models.Operation, error) {
	var resp struct {
		Operation *models.Operation `json:"operation"`
	}
	if err := c.do(ctx, method, path, payload, &resp); err != nil {
		return nil, err
	}
	return resp.Operation, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	const op = "client.do"

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// errorMessage берет поле error из JSON, иначе текст ответа.
func errorMessage(raw []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		return defaultMessage
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return defaultMessage
}

func userPath(login string) string {
	return "/users/" + url.PathEscape(login)
}

func operationPath(login, id string) string {
	return userPath(login) + "/operations/" + url.PathEscape(id)
}
