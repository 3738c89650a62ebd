package http_test

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/gestao-entregas/internal/application/ports"
	"github.com/jhoicas/gestao-entregas/internal/domain"
	"github.com/jhoicas/gestao-entregas/internal/domain/entity"
	"github.com/jhoicas/gestao-entregas/internal/domain/repository"
)

// store mapa en memoria con orden de inserción, compartido por los repos falsos.
type store[T any] struct {
	mu    sync.Mutex
	byID  map[string]T
	order []string
}

func newStore[T any]() *store[T] { return &store[T]{byID: map[string]T{}} }

func (s *store[T]) put(id string, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		s.order = append(s.order, id)
	}
	s.byID[id] = v
}

func (s *store[T]) get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.byID[id]
	return v, ok
}

func (s *store[T]) del(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
}

func (s *store[T]) all(keep func(T) bool) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []T
	for _, id := range s.order {
		if v, ok := s.byID[id]; ok && keep(v) {
			out = append(out, v)
		}
	}
	return out
}

type fakeCompanies struct{ s *store[entity.Company] }

func (f fakeCompanies) Create(_ context.Context, c *entity.Company) error {
	f.s.put(c.ID, *c)
	return nil
}

func (f fakeCompanies) Update(_ context.Context, c *entity.Company) error {
	f.s.put(c.ID, *c)
	return nil
}

func (f fakeCompanies) Delete(_ context.Context, id string) error {
	f.s.del(id)
	return nil
}

func (f fakeCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	if c, ok := f.s.get(id); ok {
		return &c, nil
	}
	return nil, nil
}

func (f fakeCompanies) GetByTaxID(_ context.Context, taxID string) (*entity.Company, error) {
	if list := f.s.all(func(c entity.Company) bool { return c.TaxID == taxID }); len(list) > 0 {
		return &list[0], nil
	}
	return nil, nil
}

func (f fakeCompanies) List(_ context.Context, _, _ int) ([]*entity.Company, error) {
	var out []*entity.Company
	for _, c := range f.s.all(func(entity.Company) bool { return true }) {
		c := c
		out = append(out, &c)
	}
	return out, nil
}

type fakeProducts struct{ s *store[entity.Product] }

func (f fakeProducts) Create(_ context.Context, p *entity.Product) error {
	f.s.put(p.ID, *p)
	return nil
}

func (f fakeProducts) Update(_ context.Context, p *entity.Product) error {
	f.s.put(p.ID, *p)
	return nil
}

func (f fakeProducts) Delete(_ context.Context, id string) error {
	f.s.del(id)
	return nil
}

func (f fakeProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if p, ok := f.s.get(id); ok {
		return &p, nil
	}
	return nil, nil
}

func (f fakeProducts) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range f.s.all(func(p entity.Product) bool { return companyID == "" || p.CompanyID == companyID }) {
		p := p
		out = append(out, &p)
	}
	return out, nil
}

type fakeUsers struct{ s *store[entity.User] }

func (f fakeUsers) Create(_ context.Context, u *entity.User) error {
	if existing, _ := f.GetByEmail(context.Background(), u.Email); existing != nil {
		return domain.ErrEmailAlreadyExists
	}
	f.s.put(u.ID, *u)
	return nil
}

func (f fakeUsers) Update(_ context.Context, u *entity.User) error {
	f.s.put(u.ID, *u)
	return nil
}

func (f fakeUsers) Delete(_ context.Context, id string) error {
	f.s.del(id)
	return nil
}

func (f fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := f.s.get(id); ok {
		return &u, nil
	}
	return nil, nil
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if list := f.s.all(func(u entity.User) bool { return u.Email == email }); len(list) > 0 {
		return &list[0], nil
	}
	return nil, nil
}

func (f fakeUsers) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range f.s.all(func(u entity.User) bool { return companyID == "" || u.CompanyID == companyID }) {
		u := u
		out = append(out, &u)
	}
	return out, nil
}

type fakeDeliveries struct{ s *store[entity.Delivery] }

func (f fakeDeliveries) Create(_ context.Context, d *entity.Delivery) error {
	f.s.put(d.ID, *d)
	return nil
}

func (f fakeDeliveries) Update(_ context.Context, d *entity.Delivery, from entity.DeliveryStatus) error {
	if cur, ok := f.s.get(d.ID); !ok || cur.Status != from {
		return domain.ErrConflict
	}
	f.s.put(d.ID, *d)
	return nil
}

func (f fakeDeliveries) Delete(_ context.Context, id string) error {
	f.s.del(id)
	return nil
}

func (f fakeDeliveries) GetByID(_ context.Context, id string) (*entity.Delivery, error) {
	if d, ok := f.s.get(id); ok {
		return &d, nil
	}
	return nil, nil
}

func (f fakeDeliveries) UpdateStatus(_ context.Context, id string, from, to entity.DeliveryStatus, delivererID *string, updatedAt time.Time) error {
	d, ok := f.s.get(id)
	if !ok || d.Status != from {
		return domain.ErrConflict
	}
	d.Status = to
	d.DelivererID = delivererID
	d.UpdatedAt = updatedAt
	f.s.put(id, d)
	return nil
}

func (f fakeDeliveries) List(_ context.Context, flt repository.DeliveryFilter) ([]*entity.Delivery, error) {
	var out []*entity.Delivery
	for _, d := range f.s.all(func(d entity.Delivery) bool {
		return (flt.CompanyID == "" || d.CompanyID == flt.CompanyID) && (flt.Status == "" || d.Status == flt.Status)
	}) {
		d := d
		out = append(out, &d)
	}
	return out, nil
}

func (f fakeDeliveries) CountByStatus(_ context.Context, companyID string) (map[string]int, error) {
	out := map[string]int{}
	for _, d := range f.s.all(func(d entity.Delivery) bool { return companyID == "" || d.CompanyID == companyID }) {
		out[string(d.Status)]++
	}
	return out, nil
}

// fakeTx sin rollback: basta para las rutas felices del router.
type fakeTx struct {
	deliveries fakeDeliveries
	products   fakeProducts
}

func (t fakeTx) RunDeliveries(_ context.Context, fn func(repository.DeliveryRepository, repository.ProductRepository) error) error {
	return fn(t.deliveries, t.products)
}

type fakeRegistry struct{}

func (fakeRegistry) Lookup(_ context.Context, cnpj string) (*ports.RegistryCompany, error) {
	if cnpj == "11222333000181" {
		return &ports.RegistryCompany{CNPJ: cnpj, RazaoSocial: "Alfa Distribuidora", Endereco: "Rua A, 10 - Centro, Recife - PE, CEP: 50000000"}, nil
	}
	return nil, ports.ErrRegistryNotFound
}

var (
	_ repository.CompanyRepository  = fakeCompanies{}
	_ repository.ProductRepository  = fakeProducts{}
	_ repository.UserRepository     = fakeUsers{}
	_ repository.DeliveryRepository = fakeDeliveries{}
	_ ports.DeliveryTxRunner        = fakeTx{}
	_ ports.CompanyRegistry         = fakeRegistry{}
)
