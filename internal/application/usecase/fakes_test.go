package usecase_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/gestao-entregas/internal/domain"
	"github.com/jhoicas/gestao-entregas/internal/domain/entity"
	"github.com/jhoicas/gestao-entregas/internal/domain/repository"
)

// ── Repositorios en memoria ──────────────────────────────────────────────────

type memCompanies struct {
	mu   sync.Mutex
	byID map[string]*entity.Company
}

func newMemCompanies(cs ...*entity.Company) *memCompanies {
	m := &memCompanies{byID: map[string]*entity.Company{}}
	for _, c := range cs {
		m.byID[c.ID] = c
	}
	return m
}

func (m *memCompanies) Create(_ context.Context, c *entity.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.byID[c.ID] = &cp
	return nil
}

func (m *memCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *memCompanies) GetByTaxID(_ context.Context, taxID string) (*entity.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byID {
		if c.TaxID == taxID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memCompanies) Update(_ context.Context, c *entity.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.byID[c.ID] = &cp
	return nil
}

func (m *memCompanies) List(_ context.Context, _, _ int) ([]*entity.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Company, 0, len(m.byID))
	for _, c := range m.byID {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LegalName < out[j].LegalName })
	return out, nil
}

func (m *memCompanies) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

type memProducts struct {
	mu   sync.Mutex
	byID map[string]*entity.Product
}

func newMemProducts(ps ...*entity.Product) *memProducts {
	m := &memProducts{byID: map[string]*entity.Product{}}
	for _, p := range ps {
		m.byID[p.ID] = p
	}
	return m
}

func (m *memProducts) Create(_ context.Context, p *entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *memProducts) Update(_ context.Context, p *entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memProducts) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Product
	for _, p := range m.byID {
		if companyID == "" || p.CompanyID == companyID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Description < out[j].Description })
	return out, nil
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

type memUsers struct {
	mu   sync.Mutex
	byID map[string]*entity.User
}

func newMemUsers(us ...*entity.User) *memUsers {
	m := &memUsers{byID: map[string]*entity.User{}}
	for _, u := range us {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.byID {
		if other.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Update(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.User
	for _, u := range m.byID {
		if companyID == "" || u.CompanyID == companyID {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

type memDeliveries struct {
	mu    sync.Mutex
	byID  map[string]*entity.Delivery
	order []string
	// failCreateAt hace fallar el n-ésimo Create (1-based); 0 = nunca.
	failCreateAt int
	creates      int
}

func newMemDeliveries(ds ...*entity.Delivery) *memDeliveries {
	m := &memDeliveries{byID: map[string]*entity.Delivery{}}
	for _, d := range ds {
		m.byID[d.ID] = d
		m.order = append(m.order, d.ID)
	}
	return m
}

func (m *memDeliveries) Create(_ context.Context, d *entity.Delivery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.failCreateAt > 0 && m.creates == m.failCreateAt {
		return domain.ErrConflict
	}
	cp := *d
	m.byID[d.ID] = &cp
	m.order = append(m.order, d.ID)
	return nil
}

func (m *memDeliveries) GetByID(_ context.Context, id string) (*entity.Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.byID[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (m *memDeliveries) Update(_ context.Context, d *entity.Delivery, from entity.DeliveryStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.byID[d.ID]; !ok || cur.Status != from {
		return domain.ErrConflict
	}
	cp := *d
	m.byID[d.ID] = &cp
	return nil
}

func (m *memDeliveries) UpdateStatus(_ context.Context, id string, from, to entity.DeliveryStatus, delivererID *string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byID[id]
	if !ok || d.Status != from {
		return domain.ErrConflict
	}
	cp := *d
	cp.Status = to
	cp.DelivererID = delivererID
	cp.UpdatedAt = updatedAt
	m.byID[id] = &cp
	return nil
}

func (m *memDeliveries) List(_ context.Context, f repository.DeliveryFilter) ([]*entity.Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Delivery
	for _, id := range m.order {
		d, ok := m.byID[id]
		if !ok {
			continue
		}
		if f.CompanyID != "" && d.CompanyID != f.CompanyID {
			continue
		}
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		if f.From != nil && d.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && !d.Date.Before(*f.To) {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memDeliveries) CountByStatus(_ context.Context, companyID string) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]int{}
	for _, d := range m.byID {
		if companyID == "" || d.CompanyID == companyID {
			out[string(d.Status)]++
		}
	}
	return out, nil
}

func (m *memDeliveries) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

func (m *memDeliveries) setStatus(id string, status entity.DeliveryStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *m.byID[id]
	cp.Status = status
	m.byID[id] = &cp
}

// racingDeliveries cambia el estado guardado justo después de cada lectura, como si otra
// petición escribiera entre la validación y la escritura.
type racingDeliveries struct {
	*memDeliveries
	flipTo entity.DeliveryStatus
}

func (r racingDeliveries) GetByID(ctx context.Context, id string) (*entity.Delivery, error) {
	d, err := r.memDeliveries.GetByID(ctx, id)
	if d != nil {
		r.setStatus(id, r.flipTo)
	}
	return d, err
}

// snapshot/restore simulan el rollback de la transacción.
func (m *memDeliveries) snapshot() (map[string]*entity.Delivery, []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	by := make(map[string]*entity.Delivery, len(m.byID))
	for k, v := range m.byID {
		by[k] = v
	}
	return by, append([]string(nil), m.order...)
}

func (m *memDeliveries) restore(by map[string]*entity.Delivery, order []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID = by
	m.order = order
}

// memTx ejecuta fn sobre los repos en memoria y deshace las altas si fn falla.
type memTx struct {
	deliveries *memDeliveries
	products   *memProducts
}

func (t *memTx) RunDeliveries(_ context.Context, fn func(repository.DeliveryRepository, repository.ProductRepository) error) error {
	by, order := t.deliveries.snapshot()
	if err := fn(t.deliveries, t.products); err != nil {
		t.deliveries.restore(by, order)
		return err
	}
	return nil
}

var (
	_ repository.CompanyRepository  = (*memCompanies)(nil)
	_ repository.ProductRepository  = (*memProducts)(nil)
	_ repository.UserRepository     = (*memUsers)(nil)
	_ repository.DeliveryRepository = (*memDeliveries)(nil)
)
