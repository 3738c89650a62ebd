// Package cnpja implementa el puerto CompanyRegistry sobre la API pública de open.cnpja.com.
package cnpja

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/gestao-entregas/internal/application/ports"
)

// Verificar en tiempo de compilación que Client implementa CompanyRegistry.
var _ ports.CompanyRegistry = (*Client)(nil)

const (
	DefaultBaseURL = "https://open.cnpja.com"
	maxBodyBytes   = 256 * 1024
)

// Client adaptador REST del registro público de CNPJ.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient construye el adaptador. baseURL vacío usa DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ── Estructuras del protocolo /office/{cnpj} ─────────────────────────────────

type officeResponse struct {
	TaxID   string  `json:"taxId"`
	Alias   *string `json:"alias"`
	Company struct {
		Name string `json:"name"`
	} `json:"company"`
	Address officeAddress `json:"address"`
}

type officeAddress struct {
	Street   string `json:"street"`
	Number   string `json:"number"`
	District string `json:"district"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Lookup consulta el CNPJ (14 dígitos) y mapea alias y dirección.
func (c *Client) Lookup(ctx context.Context, cnpj string) (*ports.RegistryCompany, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/office/"+cnpj, nil)
	if err != nil {
		return nil, fmt.Errorf("cnpja: crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("cnpja: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("cnpja: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("cnpja: leer respuesta: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ports.ErrRegistryNotFound, cnpj)
	case resp.StatusCode != http.StatusOK:
		var e errorResponse
		if json.Unmarshal(raw, &e) == nil && e.Message != "" {
			return nil, fmt.Errorf("cnpja: HTTP %d: %s", resp.StatusCode, e.Message)
		}
		return nil, fmt.Errorf("cnpja: HTTP %d", resp.StatusCode)
	}

	var office officeResponse
	if err := json.Unmarshal(raw, &office); err != nil {
		return nil, fmt.Errorf("cnpja: deserializar respuesta: %w", err)
	}
	name := office.Company.Name
	if office.Alias != nil && strings.TrimSpace(*office.Alias) != "" {
		name = strings.TrimSpace(*office.Alias)
	}
	return &ports.RegistryCompany{
		CNPJ:        cnpj,
		RazaoSocial: name,
		Endereco:    formatAddress(office.Address),
	}, nil
}

// formatAddress "rua, número - bairro, cidade - UF, CEP: cep".
func formatAddress(a officeAddress) string {
	return fmt.Sprintf("%s, %s - %s, %s - %s, CEP: %s", a.Street, a.Number, a.District, a.City, a.State, a.Zip)
}
