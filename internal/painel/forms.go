package painel

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestao-entregas/internal/application/dto"
	"github.com/jhoicas/gestao-entregas/pkg/taxid"
)

// ProductForm campos del formulario de produto tal como se escriben.
type ProductForm struct {
	Descricao  string
	PrecoCusto string
	PrecoVenda string
	Estoque    string
	EmpresaID  string
}

// Request convierte y valida el formulario.
func (f ProductForm) Request() (dto.ProductRequest, error) {
	custo, err := parseDecimal("preco_custo", f.PrecoCusto)
	if err != nil {
		return dto.ProductRequest{}, err
	}
	venda, err := parseDecimal("preco_venda", f.PrecoVenda)
	if err != nil {
		return dto.ProductRequest{}, err
	}
	estoque, err := parseInt("estoque", f.Estoque, 0)
	if err != nil {
		return dto.ProductRequest{}, err
	}
	in := dto.ProductRequest{
		Descricao:  strings.TrimSpace(f.Descricao),
		PrecoCusto: custo,
		PrecoVenda: venda,
		Estoque:    estoque,
		EmpresaID:  strings.TrimSpace(f.EmpresaID),
	}
	if err := dto.Validate(in); err != nil {
		return dto.ProductRequest{}, err
	}
	return in, nil
}

// UserForm campos del formulario de usuário. En la edición, Senha vacía conserva la actual.
type UserForm struct {
	Nome        string
	Email       string
	Senha       string
	TipoUsuario string
	EmpresaID   string
}

// CreateRequest valida el formulario para creación (senha obligatoria).
func (f UserForm) CreateRequest() (dto.CreateUserRequest, error) {
	in := dto.CreateUserRequest{
		Nome:        strings.TrimSpace(f.Nome),
		Email:       strings.TrimSpace(f.Email),
		Senha:       f.Senha,
		TipoUsuario: f.TipoUsuario,
		EmpresaID:   strings.TrimSpace(f.EmpresaID),
	}
	if err := dto.Validate(in); err != nil {
		return dto.CreateUserRequest{}, err
	}
	return in, nil
}

// UpdateRequest valida el formulario para edición.
func (f UserForm) UpdateRequest() (dto.UpdateUserRequest, error) {
	in := dto.UpdateUserRequest{
		Nome:        strings.TrimSpace(f.Nome),
		Email:       strings.TrimSpace(f.Email),
		Senha:       f.Senha,
		TipoUsuario: f.TipoUsuario,
		EmpresaID:   strings.TrimSpace(f.EmpresaID),
	}
	if err := dto.Validate(in); err != nil {
		return dto.UpdateUserRequest{}, err
	}
	return in, nil
}

// CNPJLookup consulta el registro público de empresas. Lo implementa *Client.
type CNPJLookup interface {
	LookupCNPJ(ctx context.Context, cnpj string) (*dto.CompanyLookupResponse, error)
}

// CompanyForm campos del formulario de empresa.
type CompanyForm struct {
	CNPJCPF     string
	RazaoSocial string
	Endereco    string
	Logo        string
}

// Autofill completa razao_social y endereco desde el registro cuando el documento
// escrito tiene 14 dígitos. Devuelve false si no correspondía consultar.
func (f *CompanyForm) Autofill(ctx context.Context, lookup CNPJLookup) (bool, error) {
	if !taxid.IsCNPJCandidate(f.CNPJCPF) {
		return false, nil
	}
	out, err := lookup.LookupCNPJ(ctx, taxid.Digits(f.CNPJCPF))
	if err != nil {
		return false, err
	}
	if out.RazaoSocial != "" {
		f.RazaoSocial = out.RazaoSocial
	}
	if out.Endereco != "" {
		f.Endereco = out.Endereco
	}
	return true, nil
}

// Request valida el formulario.
func (f CompanyForm) Request() (dto.CompanyRequest, error) {
	in := dto.CompanyRequest{
		CNPJCPF:     strings.TrimSpace(f.CNPJCPF),
		RazaoSocial: strings.TrimSpace(f.RazaoSocial),
		Endereco:    strings.TrimSpace(f.Endereco),
		Logo:        strings.TrimSpace(f.Logo),
	}
	if err := dto.Validate(in); err != nil {
		return dto.CompanyRequest{}, err
	}
	return in, nil
}

// DeliveryFormItem una línea de produto en el formulario de nova entrega.
type DeliveryFormItem struct {
	ProdutoID  string
	Quantidade string
}

// DeliveryForm formulario de nova entrega: uno o varios produtos, cada uno genera una entrega.
type DeliveryForm struct {
	Descricao    string
	Cliente      string
	Data         string // YYYY-MM-DD; vacío = hoy en el servidor
	EntregadorID string
	Produtos     []DeliveryFormItem
}

// Request convierte y valida el formulario.
func (f DeliveryForm) Request() (dto.CreateDeliveryRequest, error) {
	in := dto.CreateDeliveryRequest{
		Descricao: strings.TrimSpace(f.Descricao),
		Cliente:   strings.TrimSpace(f.Cliente),
	}
	if len(f.Produtos) == 0 {
		return dto.CreateDeliveryRequest{}, invalid("produtos", "es obligatorio")
	}
	for _, it := range f.Produtos {
		q, err := parseInt("quantidade", it.Quantidade, 1)
		if err != nil {
			return dto.CreateDeliveryRequest{}, err
		}
		in.Produtos = append(in.Produtos, dto.DeliveryItem{ProdutoID: strings.TrimSpace(it.ProdutoID), Quantidade: q})
	}
	if s := strings.TrimSpace(f.Data); s != "" {
		d, err := time.ParseInLocation(time.DateOnly, s, time.Local)
		if err != nil {
			return dto.CreateDeliveryRequest{}, invalid("data", "debe tener el formato AAAA-MM-DD")
		}
		in.Data = &d
	}
	if id := strings.TrimSpace(f.EntregadorID); id != "" {
		in.EntregadorID = &id
	}
	if err := dto.Validate(in); err != nil {
		return dto.CreateDeliveryRequest{}, err
	}
	return in, nil
}

// parseDecimal acepta "12.5", "12,50", "1.234,56" y "R$ 10,00". Vacío = 0.
func parseDecimal(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, invalid(field, "debe ser un número")
	}
	if d.IsNegative() {
		return decimal.Zero, invalid(field, "no puede ser negativo")
	}
	return d, nil
}

// parseInt convierte un entero con mínimo lo. Vacío = lo.
func parseInt(field, s string, lo int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return lo, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalid(field, "debe ser un número entero")
	}
	if n < lo {
		return 0, invalid(field, "debe ser como mínimo "+strconv.Itoa(lo))
	}
	return n, nil
}
