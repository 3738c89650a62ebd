// Package painel es el núcleo del cliente del painel de entregas: sesión, guard de rutas,
// menú, vista del ciclo de vida de entregas, estadísticas y vistas CRUD, todo sobre la API REST.
package painel

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

	"github.com/jhoicas/gestao-entregas/internal/application/dto"
)

// APIError respuesta de error del backend (status >= 400).
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("painel: HTTP %d", e.Status)
	}
	return fmt.Sprintf("painel: HTTP %d: %s", e.Status, e.Message)
}

// Client cliente HTTP tipado de la API. El token sale de la Session en cada petición.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

// NewClient crea el cliente. endpoint es la URL raíz (config.ClientConfig.Endpoint).
func NewClient(endpoint string, timeout time.Duration, session *Session) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(endpoint, "/"),
		http:    &http.Client{Timeout: timeout},
		session: session,
	}
}

// Authenticate POST /api/auth/login. No toca la sesión; ver Session.Login.
func (c *Client) Authenticate(ctx context.Context, email, senha string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	if err := c.send(ctx, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Senha: senha}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me GET /api/auth/me.
func (c *Client) Me(ctx context.Context) (*dto.UserResponse, error) {
	var out dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Entregas ─────────────────────────────────────────────────────────────────

// ListDeliveries GET /api/entregas, opcionalmente filtrado por estado.
func (c *Client) ListDeliveries(ctx context.Context, status string) ([]dto.DeliveryResponse, error) {
	path := "/api/entregas"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out []dto.DeliveryResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeliveryStats GET /api/entregas/estatisticas (agregado calculado en el servidor).
func (c *Client) DeliveryStats(ctx context.Context) (*dto.DeliveryStatsResponse, error) {
	var out dto.DeliveryStatsResponse
	if err := c.do(ctx, http.MethodGet, "/api/entregas/estatisticas", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateDeliveries POST /api/entregas con la lista produtos; devuelve las entregas creadas.
func (c *Client) CreateDeliveries(ctx context.Context, in dto.CreateDeliveryRequest) ([]dto.DeliveryResponse, error) {
	var out []dto.DeliveryResponse
	if err := c.do(ctx, http.MethodPost, "/api/entregas", in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateDelivery PUT /api/entregas/:id con el payload completo.
func (c *Client) UpdateDelivery(ctx context.Context, id string, in dto.UpdateDeliveryRequest) (*dto.DeliveryResponse, error) {
	var out dto.DeliveryResponse
	if err := c.do(ctx, http.MethodPut, "/api/entregas/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDeliveryStatus PATCH /api/entregas/:id/status.
func (c *Client) UpdateDeliveryStatus(ctx context.Context, id, status string) (*dto.DeliveryResponse, error) {
	var out dto.DeliveryResponse
	if err := c.do(ctx, http.MethodPatch, "/api/entregas/"+url.PathEscape(id)+"/status", dto.UpdateStatusRequest{Status: status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDelivery DELETE /api/entregas/:id.
func (c *Client) DeleteDelivery(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/entregas/"+url.PathEscape(id), nil, nil)
}

// ── Produtos ─────────────────────────────────────────────────────────────────

// ListProducts GET /api/produtos.
func (c *Client) ListProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	var out []dto.ProductResponse
	if err := c.do(ctx, http.MethodGet, "/api/produtos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProduct POST /api/produtos.
func (c *Client) CreateProduct(ctx context.Context, in dto.ProductRequest) (dto.ProductResponse, error) {
	var out dto.ProductResponse
	if err := c.do(ctx, http.MethodPost, "/api/produtos", in, &out); err != nil {
		return dto.ProductResponse{}, err
	}
	return out, nil
}

// UpdateProduct PUT /api/produtos/:id.
func (c *Client) UpdateProduct(ctx context.Context, id string, in dto.ProductRequest) (dto.ProductResponse, error) {
	var out dto.ProductResponse
	if err := c.do(ctx, http.MethodPut, "/api/produtos/"+url.PathEscape(id), in, &out); err != nil {
		return dto.ProductResponse{}, err
	}
	return out, nil
}

// DeleteProduct DELETE /api/produtos/:id.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/produtos/"+url.PathEscape(id), nil, nil)
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

// ListUsers GET /api/usuarios.
func (c *Client) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	var out []dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/usuarios", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateUser POST /api/usuarios.
func (c *Client) CreateUser(ctx context.Context, in dto.CreateUserRequest) (dto.UserResponse, error) {
	var out dto.UserResponse
	if err := c.do(ctx, http.MethodPost, "/api/usuarios", in, &out); err != nil {
		return dto.UserResponse{}, err
	}
	return out, nil
}

// UpdateUser PUT /api/usuarios/:id.
func (c *Client) UpdateUser(ctx context.Context, id string, in dto.UpdateUserRequest) (dto.UserResponse, error) {
	var out dto.UserResponse
	if err := c.do(ctx, http.MethodPut, "/api/usuarios/"+url.PathEscape(id), in, &out); err != nil {
		return dto.UserResponse{}, err
	}
	return out, nil
}

// DeleteUser DELETE /api/usuarios/:id.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/usuarios/"+url.PathEscape(id), nil, nil)
}

// ── Empresas ─────────────────────────────────────────────────────────────────

// ListCompanies GET /api/empresas.
func (c *Client) ListCompanies(ctx context.Context) ([]dto.CompanyResponse, error) {
	var out []dto.CompanyResponse
	if err := c.do(ctx, http.MethodGet, "/api/empresas", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCompany POST /api/empresas.
func (c *Client) CreateCompany(ctx context.Context, in dto.CompanyRequest) (dto.CompanyResponse, error) {
	var out dto.CompanyResponse
	if err := c.do(ctx, http.MethodPost, "/api/empresas", in, &out); err != nil {
		return dto.CompanyResponse{}, err
	}
	return out, nil
}

// UpdateCompany PUT /api/empresas/:id.
func (c *Client) UpdateCompany(ctx context.Context, id string, in dto.CompanyRequest) (dto.CompanyResponse, error) {
	var out dto.CompanyResponse
	if err := c.do(ctx, http.MethodPut, "/api/empresas/"+url.PathEscape(id), in, &out); err != nil {
		return dto.CompanyResponse{}, err
	}
	return out, nil
}

// DeleteCompany DELETE /api/empresas/:id.
func (c *Client) DeleteCompany(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/empresas/"+url.PathEscape(id), nil, nil)
}

// LookupCNPJ GET /api/empresas/consulta/:cnpj.
func (c *Client) LookupCNPJ(ctx context.Context, cnpj string) (*dto.CompanyLookupResponse, error) {
	var out dto.CompanyLookupResponse
	if err := c.do(ctx, http.MethodGet, "/api/empresas/consulta/"+url.PathEscape(cnpj), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeliveryReport GET /api/relatorios/entregas; devuelve los bytes del PDF.
func (c *Client) DeliveryReport(ctx context.Context, inicio, fim string) ([]byte, error) {
	q := url.Values{}
	if inicio != "" {
		q.Set("inicio", inicio)
	}
	if fim != "" {
		q.Set("fim", fim)
	}
	path := "/api/relatorios/entregas"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []byte
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ── transporte ───────────────────────────────────────────────────────────────

// do envía una petición autenticada con el token de la sesión.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	token, err := c.session.Token()
	if err != nil {
		return err
	}
	return c.send(ctx, method, path, token, in, out)
}

func (c *Client) send(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("painel: codificar %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("painel: crear request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("painel: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("painel: leer respuesta: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp.StatusCode, raw)
	}
	switch v := out.(type) {
	case nil:
		return nil
	case *[]byte:
		*v = raw
		return nil
	default:
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("painel: decodificar %s %s: %w", method, path, err)
		}
		return nil
	}
}

func decodeAPIError(status int, raw []byte) error {
	apiErr := &APIError{Status: status}
	var body dto.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}

// ErrorMessage texto para mostrar al usuario: el message del backend si existe.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
