// Package client es el cliente HTTP de la API de SmartSignal usado por la CLI.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/smartsignal-api/internal/application/dto"
)

// APIError respuesta de error de la API ({code, message}).
type APIError struct {
	StatusCode    int
	Code          string
	Message       string
	AccountStatus string // solo en NOT_APPROVED
}

func (e *APIError) Error() string {
	if e.AccountStatus != "" {
		return fmt.Sprintf("%s (%d): %s [estado: %s]", e.Code, e.StatusCode, e.Message, e.AccountStatus)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// IsUnauthorized indica si err es un 401 de la API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == fiber.StatusUnauthorized
}

// Client llama a la API con un token opcional.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
}

// Option personaliza el Client.
type Option func(*Client)

// WithToken fija el Bearer token enviado en cada petición.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout fija el timeout por petición cuando el contexto no trae deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New crea un cliente para baseURL (ej: http://localhost:5000).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: 10 * time.Second}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken reemplaza el token de la sesión.
func (c *Client) SetToken(token string) { c.token = token }

// Register crea una cuenta pendiente de aprobación.
func (c *Client) Register(ctx context.Context, username, password string) (*dto.RegisterResponse, error) {
	var out dto.RegisterResponse
	err := c.do(ctx, fiber.MethodPost, "/api/auth/register", dto.RegisterRequest{Username: username, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login inicia sesión y, si tiene éxito, usa el token devuelto en las siguientes llamadas.
func (c *Client) Login(ctx context.Context, username, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	err := c.do(ctx, fiber.MethodPost, "/api/auth/login", dto.LoginRequest{Username: username, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

// Me devuelve la cuenta asociada al token.
func (c *Client) Me(ctx context.Context) (*dto.AccountResponse, error) {
	var out dto.AccountResponse
	if err := c.do(ctx, fiber.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsers lista las cuentas user; status vacío no filtra.
func (c *Client) ListUsers(ctx context.Context, status string) (*dto.UserListResponse, error) {
	path := "/api/admin/users"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out dto.UserListResponse
	if err := c.do(ctx, fiber.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUserStatus asigna approved, rejected o revoked a la cuenta id.
func (c *Client) UpdateUserStatus(ctx context.Context, id, status string) (*dto.UpdateStatusResponse, error) {
	var out dto.UpdateStatusResponse
	err := c.do(ctx, fiber.MethodPatch, "/api/admin/users/"+url.PathEscape(id), dto.UpdateStatusRequest{Status: status}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats devuelve los conteos por estado.
func (c *Client) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	var out dto.StatsResponse
	if err := c.do(ctx, fiber.MethodGet, "/api/admin/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Resync revalida la sesión guardada contra /api/auth/me.
// Si el servidor responde 401 la sesión se borra y devuelve (nil, nil);
// si no, actualiza rol, estado y username con los valores del servidor.
func (c *Client) Resync(ctx context.Context, store *SessionStore) (*Session, error) {
	sess, err := store.Load()
	if err != nil || sess == nil {
		return nil, err
	}
	c.token = sess.Token

	me, err := c.Me(ctx)
	if IsUnauthorized(err) {
		c.token = ""
		return nil, store.Clear()
	}
	if err != nil {
		return sess, err
	}

	sess.Role = me.Role
	sess.Status = me.Status
	sess.Username = me.Username
	return sess, store.Save(sess)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var a *fiber.Agent
	switch method {
	case fiber.MethodPost:
		a = fiber.Post(c.baseURL + path)
	case fiber.MethodPatch:
		a = fiber.Patch(c.baseURL + path)
	default:
		a = fiber.Get(c.baseURL + path)
	}
	if deadline, ok := ctx.Deadline(); ok {
		a.Timeout(time.Until(deadline))
	} else if c.timeout > 0 {
		a.Timeout(c.timeout)
	}
	if c.token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	if body != nil {
		a.JSON(body)
	}

	code, raw, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("client: %s %s: %w", method, path, errors.Join(errs...))
	}
	if code >= fiber.StatusBadRequest {
		apiErr := &APIError{StatusCode: code}
		var eb dto.ErrorResponse
		if err := json.Unmarshal(raw, &eb); err == nil && eb.Code != "" {
			apiErr.Code, apiErr.Message, apiErr.AccountStatus = eb.Code, eb.Message, eb.AccountStatus
		} else {
			apiErr.Code, apiErr.Message = "HTTP_ERROR", strings.TrimSpace(string(raw))
		}
		return apiErr
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("client: decodificar respuesta de %s: %w", path, err)
	}
	return nil
}
