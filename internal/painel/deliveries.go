package painel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jhoicas/gestao-entregas/internal/application/dto"
	"github.com/jhoicas/gestao-entregas/internal/domain"
	"github.com/jhoicas/gestao-entregas/internal/domain/delivery"
	"github.com/jhoicas/gestao-entregas/internal/domain/entity"
)

// ErrCancelled el usuario no confirmó una acción irreversible.
var ErrCancelled = errors.New("painel: acción cancelada")

// Confirmer pregunta al usuario antes de una acción irreversible.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapta una función a Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implementa Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// deliveryAPI operaciones de la API que usa la vista de entregas.
type deliveryAPI interface {
	ListDeliveries(ctx context.Context, status string) ([]dto.DeliveryResponse, error)
	UpdateDelivery(ctx context.Context, id string, in dto.UpdateDeliveryRequest) (*dto.DeliveryResponse, error)
	UpdateDeliveryStatus(ctx context.Context, id, status string) (*dto.DeliveryResponse, error)
	DeleteDelivery(ctx context.Context, id string) error
	CreateDeliveries(ctx context.Context, in dto.CreateDeliveryRequest) ([]dto.DeliveryResponse, error)
}

// DeliveryFilter filtro local del listado.
type DeliveryFilter struct {
	Search string                // subcadena sin distinción de mayúsculas en descricao, cliente o produto
	Status entity.DeliveryStatus // vacío = todos
}

// DeliveryActions acciones habilitadas sobre una entrega para el rol de la sesión.
type DeliveryActions struct {
	Targets    []entity.DeliveryStatus // opciones del selector de estado
	CanDelete  bool
	CanConfirm bool
}

// DeliveryView vista del ciclo de vida de entregas: listado agrupado por estado, estadísticas,
// cambios de estado, confirmación del entregador y borrado. Tras cada mutación vuelve a pedir
// la lista completa. Solo se aplica la respuesta de la última petición emitida.
type DeliveryView struct {
	api     deliveryAPI
	session *Session

	seq atomic.Uint64

	mu       sync.RWMutex
	items    []dto.DeliveryResponse
	stats    delivery.Stats
	statsErr error
	lastErr  error
}

// NewDeliveryView construye la vista.
func NewDeliveryView(api deliveryAPI, session *Session) *DeliveryView {
	return &DeliveryView{api: api, session: session, stats: delivery.NewStats()}
}

// Refresh vuelve a pedir la lista. Si otra petición se emitió después, esta respuesta se
// descarta. Un fallo conserva el último estado bueno y queda en LastError.
func (v *DeliveryView) Refresh(ctx context.Context) error {
	seq := v.seq.Add(1)
	list, err := v.api.ListDeliveries(ctx, "")

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.seq.Load() {
		return nil
	}
	if err != nil {
		v.lastErr = err
		return err
	}
	v.lastErr = nil
	v.items = list
	statuses := make([]entity.DeliveryStatus, len(list))
	for i, d := range list {
		statuses[i] = entity.DeliveryStatus(d.Status)
	}
	v.stats, v.statsErr = delivery.Aggregate(statuses)
	return nil
}

// Items devuelve las entregas que pasan el filtro, en el orden del backend.
func (v *DeliveryView) Items(f DeliveryFilter) []dto.DeliveryResponse {
	v.mu.RLock()
	defer v.mu.RUnlock()
	needle := fold(f.Search)
	out := make([]dto.DeliveryResponse, 0, len(v.items))
	for _, d := range v.items {
		if f.Status != "" && entity.DeliveryStatus(d.Status) != f.Status {
			continue
		}
		if needle != "" && !containsFolded(needle, d.Descricao, d.Cliente, productDescription(d)) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// ByStatus agrupa las entregas cargadas por estado. Los estados desconocidos quedan
// bajo su propio valor.
func (v *DeliveryView) ByStatus() map[entity.DeliveryStatus][]dto.DeliveryResponse {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make(map[entity.DeliveryStatus][]dto.DeliveryResponse, len(entity.DeliveryStatuses()))
	for _, s := range entity.DeliveryStatuses() {
		out[s] = nil
	}
	for _, d := range v.items {
		s := entity.DeliveryStatus(d.Status)
		out[s] = append(out[s], d)
	}
	return out
}

// Stats conteos por estado de la última lista cargada. El error enumera estados desconocidos.
func (v *DeliveryView) Stats() (delivery.Stats, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.stats, v.statsErr
}

// LastError error de la última petición fallida, o nil.
func (v *DeliveryView) LastError() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lastErr
}

// Actions acciones habilitadas sobre d para el rol de la sesión.
func (v *DeliveryView) Actions(d dto.DeliveryResponse) (DeliveryActions, error) {
	user, err := v.session.User()
	if err != nil {
		return DeliveryActions{}, err
	}
	role := entity.Role(user.TipoUsuario)
	status := entity.DeliveryStatus(d.Status)
	e := toEntity(d)
	return DeliveryActions{
		Targets:    delivery.Targets(role, status),
		CanDelete:  delivery.CanDelete(role, status),
		CanConfirm: delivery.CheckConfirm(role, user.ID, &e) == nil,
	}, nil
}

// ChangeStatus cambia el estado vía PATCH y recarga la lista.
func (v *DeliveryView) ChangeStatus(ctx context.Context, id string, to entity.DeliveryStatus) error {
	role, err := v.session.Role()
	if err != nil {
		return err
	}
	d, err := v.find(id)
	if err != nil {
		return err
	}
	if err := delivery.Transition(role, entity.DeliveryStatus(d.Status), to); err != nil {
		return err
	}
	if _, err := v.api.UpdateDeliveryStatus(ctx, id, string(to)); err != nil {
		return v.fail(err)
	}
	return v.Refresh(ctx)
}

// ConfirmDelivery confirma como entregador: PUT con el payload completo de la entrega,
// status entregue y entregador_id del usuario de la sesión; después recarga la lista.
func (v *DeliveryView) ConfirmDelivery(ctx context.Context, id string) error {
	user, err := v.session.User()
	if err != nil {
		return err
	}
	d, err := v.find(id)
	if err != nil {
		return err
	}
	e := toEntity(d)
	if err := delivery.CheckConfirm(entity.Role(user.TipoUsuario), user.ID, &e); err != nil {
		return err
	}
	if _, err := v.api.UpdateDelivery(ctx, id, ConfirmationPayload(d, user.ID)); err != nil {
		return v.fail(err)
	}
	return v.Refresh(ctx)
}

// Delete pide confirmación y elimina la entrega. Una entrega entregue no se elimina.
func (v *DeliveryView) Delete(ctx context.Context, id string, confirm Confirmer) error {
	role, err := v.session.Role()
	if err != nil {
		return err
	}
	d, err := v.find(id)
	if err != nil {
		return err
	}
	if err := delivery.CheckDelete(role, entity.DeliveryStatus(d.Status)); err != nil {
		return err
	}
	if confirm == nil || !confirm.Confirm(fmt.Sprintf("Excluir a entrega %q?", d.Descricao)) {
		return ErrCancelled
	}
	if err := v.api.DeleteDelivery(ctx, id); err != nil {
		return v.fail(err)
	}
	return v.Refresh(ctx)
}

// Create crea las entregas del formulario y recarga la lista.
func (v *DeliveryView) Create(ctx context.Context, form DeliveryForm) ([]dto.DeliveryResponse, error) {
	in, err := form.Request()
	if err != nil {
		return nil, err
	}
	out, err := v.api.CreateDeliveries(ctx, in)
	if err != nil {
		return nil, v.fail(err)
	}
	return out, v.Refresh(ctx)
}

// ConfirmationPayload payload completo del PUT de confirmación: la entrega tal cual con
// status entregue y entregador_id del actor.
func ConfirmationPayload(d dto.DeliveryResponse, userID string) dto.UpdateDeliveryRequest {
	data := d.Data
	id := userID
	return dto.UpdateDeliveryRequest{
		Descricao:    d.Descricao,
		Cliente:      d.Cliente,
		ProdutoID:    d.ProdutoID,
		Quantidade:   d.Quantidade,
		Status:       string(entity.StatusDelivered),
		Data:         &data,
		EntregadorID: &id,
	}
}

func (v *DeliveryView) find(id string) (dto.DeliveryResponse, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, d := range v.items {
		if d.ID == id {
			return d, nil
		}
	}
	return dto.DeliveryResponse{}, fmt.Errorf("%w: entrega %s", domain.ErrNotFound, id)
}

func (v *DeliveryView) fail(err error) error {
	v.mu.Lock()
	v.lastErr = err
	v.mu.Unlock()
	return err
}

func toEntity(d dto.DeliveryResponse) entity.Delivery {
	return entity.Delivery{
		ID:          d.ID,
		CompanyID:   d.EmpresaID,
		ProductID:   d.ProdutoID,
		Description: d.Descricao,
		ClientName:  d.Cliente,
		Quantity:    d.Quantidade,
		DelivererID: d.EntregadorID,
		Status:      entity.DeliveryStatus(d.Status),
		Date:        d.Data,
	}
}

func productDescription(d dto.DeliveryResponse) string {
	if d.Produto == nil {
		return ""
	}
	return d.Produto.Descricao
}
