package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gestao-entregas/internal/application/dto"
	"github.com/jhoicas/gestao-entregas/internal/application/ports"
	"github.com/jhoicas/gestao-entregas/internal/domain"
	"github.com/jhoicas/gestao-entregas/internal/domain/access"
	"github.com/jhoicas/gestao-entregas/internal/domain/delivery"
	"github.com/jhoicas/gestao-entregas/internal/domain/entity"
	"github.com/jhoicas/gestao-entregas/internal/domain/repository"
)

// DeliveryListFilter filtros del listado (query string).
type DeliveryListFilter struct {
	Status string `query:"status"`
}

// DeliveryUseCase orquesta el ciclo de vida de las entregas: alta (una o varias en una
// transacción), edición completa, cambio de estado, confirmación del entregador y borrado.
type DeliveryUseCase struct {
	repo        repository.DeliveryRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	tx          ports.DeliveryTxRunner
	now         func() time.Time
}

// NewDeliveryUseCase construye el caso de uso.
func NewDeliveryUseCase(
	repo repository.DeliveryRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	tx ports.DeliveryTxRunner,
) *DeliveryUseCase {
	return &DeliveryUseCase{repo: repo, productRepo: productRepo, userRepo: userRepo, tx: tx, now: time.Now}
}

// List devuelve las entregas visibles para el actor, opcionalmente filtradas por estado.
func (uc *DeliveryUseCase) List(ctx context.Context, actor Actor, f DeliveryListFilter) ([]dto.DeliveryResponse, error) {
	if err := actor.require(access.PageDashboard); err != nil {
		return nil, err
	}
	filter := repository.DeliveryFilter{CompanyID: actor.scope()}
	if s := strings.TrimSpace(f.Status); s != "" {
		st, err := delivery.ParseStatus(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		filter.Status = st
	}
	list, err := uc.visible(ctx, actor, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DeliveryResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *ToDeliveryResponse(d))
	}
	return items, nil
}

// GetByID obtiene una entrega visible para el actor.
func (uc *DeliveryUseCase) GetByID(ctx context.Context, actor Actor, id string) (*dto.DeliveryResponse, error) {
	if err := actor.require(access.PageDashboard); err != nil {
		return nil, err
	}
	d, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return ToDeliveryResponse(d), nil
}

// Create crea una entrega pendente por cada ítem, todas en la misma transacción.
func (uc *DeliveryUseCase) Create(ctx context.Context, actor Actor, in dto.CreateDeliveryRequest) ([]dto.DeliveryResponse, error) {
	if err := actor.require(access.PageDeliveries); err != nil {
		return nil, err
	}
	items := in.Items()
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: indique produto_id y quantidade o la lista produtos", domain.ErrInvalidInput)
	}
	for _, it := range items {
		if it.Quantidade < 1 {
			return nil, fmt.Errorf("%w: quantidade debe ser como mínimo 1", domain.ErrInvalidInput)
		}
	}
	delivererID, delivererName, err := uc.resolveDeliverer(ctx, actor, in.EntregadorID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	date := now
	if in.Data != nil && !in.Data.IsZero() {
		date = *in.Data
	}

	created := make([]*entity.Delivery, 0, len(items))
	err = uc.tx.RunDeliveries(ctx, func(deliveryRepo repository.DeliveryRepository, productRepo repository.ProductRepository) error {
		for _, it := range items {
			product, err := productRepo.GetByID(ctx, it.ProdutoID)
			if err != nil {
				return err
			}
			if product == nil || !actor.owns(product.CompanyID) {
				return fmt.Errorf("%w: produto %s no existe", domain.ErrInvalidInput, it.ProdutoID)
			}
			d := &entity.Delivery{
				ID:                 uuid.New().String(),
				CompanyID:          product.CompanyID,
				ProductID:          product.ID,
				Description:        strings.TrimSpace(in.Descricao),
				ClientName:         strings.TrimSpace(in.Cliente),
				Quantity:           it.Quantidade,
				DelivererID:        delivererID,
				Status:             entity.StatusPending,
				Date:               date,
				CreatedAt:          now,
				UpdatedAt:          now,
				ProductDescription: product.Description,
				ProductSalePrice:   product.SalePrice,
				DelivererName:      delivererName,
			}
			if err := deliveryRepo.Create(ctx, d); err != nil {
				return err
			}
			created = append(created, d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.DeliveryResponse, 0, len(created))
	for _, d := range created {
		out = append(out, *ToDeliveryResponse(d))
	}
	return out, nil
}

// Update aplica el PUT completo. Para master/admin reemplaza los campos validando la transición
// de estado. Para el entregador el PUT solo es válido como confirmación: status entregue con
// entregador_id propio; el resto del cuerpo se ignora.
func (uc *DeliveryUseCase) Update(ctx context.Context, actor Actor, id string, in dto.UpdateDeliveryRequest) (*dto.DeliveryResponse, error) {
	if err := actor.require(access.PageDashboard); err != nil {
		return nil, err
	}
	to, err := delivery.ParseStatus(in.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if actor.Role == entity.RoleEntregador {
		if to != entity.StatusDelivered || in.EntregadorID == nil || *in.EntregadorID != actor.UserID {
			return nil, fmt.Errorf("%w: entregador solo confirma entregas propias", domain.ErrForbidden)
		}
		return uc.Confirm(ctx, actor, id)
	}
	if err := actor.require(access.PageDeliveries); err != nil {
		return nil, err
	}

	d, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	from := d.Status
	if err := delivery.Transition(actor.Role, from, to); err != nil {
		return nil, err
	}
	if in.ProdutoID != d.ProductID {
		product, err := uc.productRepo.GetByID(ctx, in.ProdutoID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.CompanyID != d.CompanyID {
			return nil, fmt.Errorf("%w: produto %s no existe", domain.ErrInvalidInput, in.ProdutoID)
		}
		d.ProductID = product.ID
		d.ProductDescription = product.Description
		d.ProductSalePrice = product.SalePrice
	}
	delivererID, delivererName, err := uc.resolveDeliverer(ctx, actor, in.EntregadorID)
	if err != nil {
		return nil, err
	}
	d.Description = strings.TrimSpace(in.Descricao)
	d.ClientName = strings.TrimSpace(in.Cliente)
	d.Quantity = in.Quantidade
	d.Status = to
	d.DelivererID = delivererID
	d.DelivererName = delivererName
	if in.Data != nil && !in.Data.IsZero() {
		d.Date = *in.Data
	}
	d.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, d, from); err != nil {
		return nil, err
	}
	return ToDeliveryResponse(d), nil
}

// UpdateStatus cambia solo el estado (PATCH). Reservado a master/admin.
func (uc *DeliveryUseCase) UpdateStatus(ctx context.Context, actor Actor, id string, status string) (*dto.DeliveryResponse, error) {
	if err := actor.require(access.PageDeliveries); err != nil {
		return nil, err
	}
	to, err := delivery.ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	d, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := delivery.Transition(actor.Role, d.Status, to); err != nil {
		return nil, err
	}
	if d.Status == to {
		return ToDeliveryResponse(d), nil
	}
	now := uc.now()
	if err := uc.repo.UpdateStatus(ctx, d.ID, d.Status, to, d.DelivererID, now); err != nil {
		return nil, err
	}
	d.Status = to
	d.UpdatedAt = now
	return ToDeliveryResponse(d), nil
}

// Confirm marca como entregue una entrega pendente y registra al actor como entregador.
func (uc *DeliveryUseCase) Confirm(ctx context.Context, actor Actor, id string) (*dto.DeliveryResponse, error) {
	if err := actor.require(access.PageDashboard); err != nil {
		return nil, err
	}
	d, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	from := d.Status
	if err := delivery.Confirm(actor.Role, actor.UserID, d); err != nil {
		return nil, err
	}
	now := uc.now()
	if err := uc.repo.UpdateStatus(ctx, d.ID, from, d.Status, d.DelivererID, now); err != nil {
		return nil, err
	}
	d.UpdatedAt = now
	return ToDeliveryResponse(d), nil
}

// Delete elimina una entrega. Una entrega entregue no se elimina.
func (uc *DeliveryUseCase) Delete(ctx context.Context, actor Actor, id string) error {
	if err := actor.require(access.PageDeliveries); err != nil {
		return err
	}
	d, err := uc.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := delivery.CheckDelete(actor.Role, d.Status); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// Stats conteo por estado de las entregas visibles para el actor. Para master/admin se agrega
// en la base (GROUP BY); para el entregador sobre su listado visible.
func (uc *DeliveryUseCase) Stats(ctx context.Context, actor Actor) (*dto.DeliveryStatsResponse, error) {
	if err := actor.require(access.PageDashboard); err != nil {
		return nil, err
	}
	stats := delivery.NewStats()
	if actor.Role == entity.RoleEntregador {
		list, err := uc.visible(ctx, actor, repository.DeliveryFilter{CompanyID: actor.scope()})
		if err != nil {
			return nil, err
		}
		for _, d := range list {
			_ = stats.Add(d.Status)
		}
	} else {
		counts, err := uc.repo.CountByStatus(ctx, actor.scope())
		if err != nil {
			return nil, err
		}
		for status, n := range counts {
			_ = stats.AddN(entity.DeliveryStatus(status), n)
		}
	}
	return ToStatsResponse(stats), nil
}

func (uc *DeliveryUseCase) visible(ctx context.Context, actor Actor, f repository.DeliveryFilter) ([]*entity.Delivery, error) {
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if actor.Role != entity.RoleEntregador {
		return list, nil
	}
	out := list[:0]
	for _, d := range list {
		if delivery.Visible(actor.Role, actor.UserID, d) {
			out = append(out, d)
		}
	}
	return out, nil
}

// load obtiene la entrega si está en el alcance del actor; para el entregador además debe ser visible.
func (uc *DeliveryUseCase) load(ctx context.Context, actor Actor, id string) (*entity.Delivery, error) {
	d, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil || !actor.owns(d.CompanyID) || !delivery.Visible(actor.Role, actor.UserID, d) {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

// resolveDeliverer valida que el entregador exista, sea de la empresa y tenga rol entregador.
func (uc *DeliveryUseCase) resolveDeliverer(ctx context.Context, actor Actor, id *string) (*string, string, error) {
	if id == nil || *id == "" {
		return nil, "", nil
	}
	u, err := uc.userRepo.GetByID(ctx, *id)
	if err != nil {
		return nil, "", err
	}
	if u == nil || !actor.owns(u.CompanyID) || u.Role != entity.RoleEntregador {
		return nil, "", fmt.Errorf("%w: entregador_id no corresponde a un entregador", domain.ErrInvalidInput)
	}
	v := u.ID
	return &v, u.Name, nil
}

// ToDeliveryResponse mapea la entidad a su DTO de salida.
func ToDeliveryResponse(d *entity.Delivery) *dto.DeliveryResponse {
	if d == nil {
		return nil
	}
	out := &dto.DeliveryResponse{
		ID:           d.ID,
		Descricao:    d.Description,
		Cliente:      d.ClientName,
		Quantidade:   d.Quantity,
		ProdutoID:    d.ProductID,
		EntregadorID: d.DelivererID,
		Status:       string(d.Status),
		Data:         d.Date,
		EmpresaID:    d.CompanyID,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.ProductID != "" {
		out.Produto = &dto.DeliveryProduct{ID: d.ProductID, Descricao: d.ProductDescription, PrecoVenda: d.ProductSalePrice}
	}
	if d.DelivererID != nil {
		out.Entregador = &dto.DeliveryUser{ID: *d.DelivererID, Nome: d.DelivererName}
	}
	return out
}

// ToStatsResponse mapea el agregado al DTO de salida.
func ToStatsResponse(s delivery.Stats) *dto.DeliveryStatsResponse {
	out := &dto.DeliveryStatsResponse{
		Total:      s.Total,
		Pendente:   s.Count(entity.StatusPending),
		EmTransito: s.Count(entity.StatusInTransit),
		Entregue:   s.Count(entity.StatusDelivered),
		Cancelada:  s.Count(entity.StatusCancelled),
	}
	if len(s.Unknown) > 0 {
		out.Desconhecidos = make(map[string]int, len(s.Unknown))
		for k, v := range s.Unknown {
			out.Desconhecidos[k] = v
		}
	}
	return out
}
