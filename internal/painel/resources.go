package painel

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/text/cases"

	"github.com/jhoicas/gestao-entregas/internal/application/dto"
	"github.com/jhoicas/gestao-entregas/internal/domain"
)

// Resource operaciones CRUD de un recurso de la API y cómo se muestra.
type Resource[T, In any] struct {
	Name   string
	List   func(ctx context.Context) ([]T, error)
	Create func(ctx context.Context, in In) (T, error)
	Update func(ctx context.Context, id string, in In) (T, error)
	Delete func(ctx context.Context, id string) error
	ID     func(T) string
	Label  func(T) string
	// Search campos en los que busca el filtro de texto.
	Search func(T) []string
}

// ResourceView listado + editor genérico (produtos, usuarios, empresas). Cada mutación
// vuelve a pedir la lista; solo se aplica la respuesta de la última petición emitida.
type ResourceView[T, In any] struct {
	res Resource[T, In]
	seq atomic.Uint64

	mu      sync.RWMutex
	items   []T
	lastErr error
}

// NewResourceView construye la vista de un recurso.
func NewResourceView[T, In any](res Resource[T, In]) *ResourceView[T, In] {
	return &ResourceView[T, In]{res: res}
}

// Refresh vuelve a pedir la lista. Un fallo conserva el último estado bueno.
func (v *ResourceView[T, In]) Refresh(ctx context.Context) error {
	seq := v.seq.Add(1)
	list, err := v.res.List(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.seq.Load() {
		return nil
	}
	if err != nil {
		v.lastErr = err
		return err
	}
	v.items, v.lastErr = list, nil
	return nil
}

// Items devuelve los elementos cuyo texto contiene search (sin distinguir mayúsculas).
func (v *ResourceView[T, In]) Items(search string) []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	needle := fold(search)
	out := make([]T, 0, len(v.items))
	for _, it := range v.items {
		if needle != "" && v.res.Search != nil && !containsFolded(needle, v.res.Search(it)...) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// LastError error de la última petición fallida, o nil.
func (v *ResourceView[T, In]) LastError() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lastErr
}

// Create crea; después recarga la lista.
func (v *ResourceView[T, In]) Create(ctx context.Context, in In) (T, error) {
	var zero T
	out, err := v.res.Create(ctx, in)
	if err != nil {
		return zero, v.fail(err)
	}
	return out, v.Refresh(ctx)
}

// Update reemplaza; después recarga la lista.
func (v *ResourceView[T, In]) Update(ctx context.Context, id string, in In) (T, error) {
	var zero T
	out, err := v.res.Update(ctx, id, in)
	if err != nil {
		return zero, v.fail(err)
	}
	return out, v.Refresh(ctx)
}

// Delete pide confirmación y elimina; después recarga la lista.
func (v *ResourceView[T, In]) Delete(ctx context.Context, id string, confirm Confirmer) error {
	label := id
	v.mu.RLock()
	for _, it := range v.items {
		if v.res.ID(it) == id {
			label = v.res.Label(it)
			break
		}
	}
	v.mu.RUnlock()
	if confirm == nil || !confirm.Confirm(fmt.Sprintf("Excluir %s %q?", v.res.Name, label)) {
		return ErrCancelled
	}
	if err := v.res.Delete(ctx, id); err != nil {
		return v.fail(err)
	}
	return v.Refresh(ctx)
}

func (v *ResourceView[T, In]) fail(err error) error {
	v.mu.Lock()
	v.lastErr = err
	v.mu.Unlock()
	return err
}

// NewProductView vista de produtos sobre la API.
func NewProductView(c *Client) *ResourceView[dto.ProductResponse, dto.ProductRequest] {
	return NewResourceView(Resource[dto.ProductResponse, dto.ProductRequest]{
		Name:   "o produto",
		List:   c.ListProducts,
		Create: validCreate(c.CreateProduct),
		Update: validUpdate(c.UpdateProduct),
		Delete: c.DeleteProduct,
		ID:     func(p dto.ProductResponse) string { return p.ID },
		Label:  func(p dto.ProductResponse) string { return p.Descricao },
		Search: func(p dto.ProductResponse) []string { return []string{p.Descricao} },
	})
}

// NewCompanyView vista de empresas sobre la API.
func NewCompanyView(c *Client) *ResourceView[dto.CompanyResponse, dto.CompanyRequest] {
	return NewResourceView(Resource[dto.CompanyResponse, dto.CompanyRequest]{
		Name:   "a empresa",
		List:   c.ListCompanies,
		Create: validCreate(c.CreateCompany),
		Update: validUpdate(c.UpdateCompany),
		Delete: c.DeleteCompany,
		ID:     func(e dto.CompanyResponse) string { return e.ID },
		Label:  func(e dto.CompanyResponse) string { return e.RazaoSocial },
		Search: func(e dto.CompanyResponse) []string { return []string{e.RazaoSocial, e.CNPJCPF} },
	})
}

// NewUserView vista de usuarios sobre la API. En la edición, senha vacía conserva la actual.
func NewUserView(c *Client) *ResourceView[dto.UserResponse, UserForm] {
	return NewResourceView(Resource[dto.UserResponse, UserForm]{
		Name: "o usuário",
		List: c.ListUsers,
		Create: func(ctx context.Context, f UserForm) (dto.UserResponse, error) {
			in, err := f.CreateRequest()
			if err != nil {
				return dto.UserResponse{}, err
			}
			return c.CreateUser(ctx, in)
		},
		Update: func(ctx context.Context, id string, f UserForm) (dto.UserResponse, error) {
			in, err := f.UpdateRequest()
			if err != nil {
				return dto.UserResponse{}, err
			}
			return c.UpdateUser(ctx, id, in)
		},
		Delete: c.DeleteUser,
		ID:     func(u dto.UserResponse) string { return u.ID },
		Label:  func(u dto.UserResponse) string { return u.Nome },
		Search: func(u dto.UserResponse) []string { return []string{u.Nome, u.Email} },
	})
}

func validCreate[T, In any](f func(context.Context, In) (T, error)) func(context.Context, In) (T, error) {
	return func(ctx context.Context, in In) (T, error) {
		if err := dto.Validate(in); err != nil {
			var zero T
			return zero, err
		}
		return f(ctx, in)
	}
}

func validUpdate[T, In any](f func(context.Context, string, In) (T, error)) func(context.Context, string, In) (T, error) {
	return func(ctx context.Context, id string, in In) (T, error) {
		if err := dto.Validate(in); err != nil {
			var zero T
			return zero, err
		}
		return f(ctx, id, in)
	}
}

// fold normaliza texto para comparar sin distinguir mayúsculas.
func fold(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return cases.Fold().String(s)
}

func containsFolded(needle string, fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(fold(f), needle) {
			return true
		}
	}
	return false
}

func invalid(field, msg string) error {
	return fmt.Errorf("%w: %s %s", domain.ErrInvalidInput, field, msg)
}
