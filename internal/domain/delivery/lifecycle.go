// Package delivery concentra las reglas del ciclo de vida de una entrega:
// transiciones de estado por rol, confirmación por el entregador, borrado y
// visibilidad, además de la agregación de estadísticas por estado.
package delivery

import (
	"fmt"

	"github.com/jhoicas/gestao-entregas/internal/domain"
	"github.com/jhoicas/gestao-entregas/internal/domain/entity"
)

// ParseStatus convierte texto en un estado conocido.
func ParseStatus(s string) (entity.DeliveryStatus, error) {
	st := entity.DeliveryStatus(s)
	if !st.Known() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownStatus, s)
	}
	return st, nil
}

// Targets estados que el rol puede asignar desde el selector partiendo de from.
// em_transito nunca es destino.
func Targets(role entity.Role, from entity.DeliveryStatus) []entity.DeliveryStatus {
	var out []entity.DeliveryStatus
	for _, to := range entity.DeliveryStatuses() {
		if to != from && Transition(role, from, to) == nil {
			out = append(out, to)
		}
	}
	return out
}

// Transition valida el cambio de estado from → to para el rol.
//
// Reglas:
//   - el destino debe ser un estado conocido y distinto de em_transito;
//   - entregue y cancelada son terminales;
//   - master y admin pueden cerrar una entrega (entregue o cancelada);
//   - entregador solo puede pasar de pendente a entregue.
//
// Repetir el estado actual es un no-op válido para master y admin.
func Transition(role entity.Role, from, to entity.DeliveryStatus) error {
	if !to.Known() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownStatus, string(to))
	}
	if to == entity.StatusInTransit {
		return fmt.Errorf("%w: %s no es un destino válido", domain.ErrInvalidTransition, to)
	}
	switch role {
	case entity.RoleMaster, entity.RoleAdmin:
		if from == to {
			return nil
		}
		if from.Terminal() {
			return fmt.Errorf("%w: %s es terminal", domain.ErrInvalidTransition, from)
		}
		if to == entity.StatusPending {
			return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, from, to)
		}
		return nil
	case entity.RoleEntregador:
		if from == entity.StatusPending && to == entity.StatusDelivered {
			return nil
		}
		return fmt.Errorf("%w: entregador solo confirma entregas pendentes", domain.ErrInvalidTransition)
	default:
		return domain.ErrForbidden
	}
}

// CheckConfirm valida que userID (rol entregador) pueda confirmar la entrega d:
// debe estar pendente y sin entregador o asignada a él.
func CheckConfirm(role entity.Role, userID string, d *entity.Delivery) error {
	if role != entity.RoleEntregador {
		return fmt.Errorf("%w: solo un entregador confirma entregas", domain.ErrForbidden)
	}
	if d.DelivererID != nil && !d.AssignedTo(userID) {
		return fmt.Errorf("%w: entrega asignada a otro entregador", domain.ErrForbidden)
	}
	return Transition(role, d.Status, entity.StatusDelivered)
}

// Confirm aplica la confirmación: estado entregue y actor registrado como entregador.
func Confirm(role entity.Role, userID string, d *entity.Delivery) error {
	if err := CheckConfirm(role, userID, d); err != nil {
		return err
	}
	d.Status = entity.StatusDelivered
	id := userID
	d.DelivererID = &id
	return nil
}

// CheckDelete valida el borrado. Entregador nunca borra; una entrega entregue no se
// borra con ningún rol.
func CheckDelete(role entity.Role, status entity.DeliveryStatus) error {
	if role != entity.RoleMaster && role != entity.RoleAdmin {
		return domain.ErrForbidden
	}
	if status == entity.StatusDelivered {
		return domain.ErrDeliveryLocked
	}
	return nil
}

// CanDelete versión booleana de CheckDelete, para habilitar la acción en la vista.
func CanDelete(role entity.Role, status entity.DeliveryStatus) bool {
	return CheckDelete(role, status) == nil
}

// Visible informa si el usuario ve la entrega en sus listados. El entregador ve las
// pendentes libres o asignadas a él y las entregues que él mismo confirmó.
func Visible(role entity.Role, userID string, d *entity.Delivery) bool {
	if role != entity.RoleEntregador {
		return true
	}
	switch d.Status {
	case entity.StatusPending:
		return d.DelivererID == nil || d.AssignedTo(userID)
	case entity.StatusDelivered:
		return d.AssignedTo(userID)
	default:
		return false
	}
}
