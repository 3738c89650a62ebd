package delivery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestao-entregas/internal/domain"
	"github.com/jhoicas/gestao-entregas/internal/domain/delivery"
	"github.com/jhoicas/gestao-entregas/internal/domain/entity"
)

const (
	entregadorID = "u-entregador"
	otroID       = "u-otro"
)

func ptr(s string) *string { return &s }

func TestTransition_AdminCierraPendente(t *testing.T) {
	for _, role := range []entity.Role{entity.RoleAdmin, entity.RoleMaster} {
		assert.NoError(t, delivery.Transition(role, entity.StatusPending, entity.StatusDelivered))
		assert.NoError(t, delivery.Transition(role, entity.StatusPending, entity.StatusCancelled))
		assert.NoError(t, delivery.Transition(role, entity.StatusInTransit, entity.StatusDelivered))
		assert.NoError(t, delivery.Transition(role, entity.StatusPending, entity.StatusPending), "no-op")
	}
}

func TestTransition_EstadosTerminales(t *testing.T) {
	for _, from := range []entity.DeliveryStatus{entity.StatusDelivered, entity.StatusCancelled} {
		for _, to := range []entity.DeliveryStatus{entity.StatusPending, entity.StatusDelivered, entity.StatusCancelled} {
			if from == to {
				continue
			}
			err := delivery.Transition(entity.RoleAdmin, from, to)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition, "%s → %s", from, to)
		}
	}
}

func TestTransition_EmTransitoNuncaEsDestino(t *testing.T) {
	err := delivery.Transition(entity.RoleMaster, entity.StatusPending, entity.StatusInTransit)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransition_EstadoDesconocido(t *testing.T) {
	err := delivery.Transition(entity.RoleAdmin, entity.StatusPending, entity.DeliveryStatus("perdida"))
	assert.ErrorIs(t, err, domain.ErrUnknownStatus)
}

func TestTransition_EntregadorSoloPendenteAEntregue(t *testing.T) {
	assert.NoError(t, delivery.Transition(entity.RoleEntregador, entity.StatusPending, entity.StatusDelivered))
	assert.ErrorIs(t,
		delivery.Transition(entity.RoleEntregador, entity.StatusPending, entity.StatusCancelled),
		domain.ErrInvalidTransition)
	assert.ErrorIs(t,
		delivery.Transition(entity.RoleEntregador, entity.StatusDelivered, entity.StatusDelivered),
		domain.ErrInvalidTransition)
}

func TestTransition_RolDesconocido(t *testing.T) {
	err := delivery.Transition(entity.Role("x"), entity.StatusPending, entity.StatusDelivered)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTargets(t *testing.T) {
	assert.Equal(t,
		[]entity.DeliveryStatus{entity.StatusDelivered, entity.StatusCancelled},
		delivery.Targets(entity.RoleAdmin, entity.StatusPending))
	assert.Equal(t,
		[]entity.DeliveryStatus{entity.StatusDelivered},
		delivery.Targets(entity.RoleEntregador, entity.StatusPending))
	assert.Empty(t, delivery.Targets(entity.RoleAdmin, entity.StatusDelivered))
}

// Confirmar una entrega pendente como entregador deja status=entregue y entregador_id=actor.
func TestConfirm_EntregadorAsignaseYEntrega(t *testing.T) {
	d := &entity.Delivery{ID: "e1", Status: entity.StatusPending}
	require.NoError(t, delivery.Confirm(entity.RoleEntregador, entregadorID, d))

	assert.Equal(t, entity.StatusDelivered, d.Status)
	require.NotNil(t, d.DelivererID)
	assert.Equal(t, entregadorID, *d.DelivererID)
}

func TestConfirm_AsignadaAOtroEntregador(t *testing.T) {
	d := &entity.Delivery{ID: "e1", Status: entity.StatusPending, DelivererID: ptr(otroID)}
	err := delivery.Confirm(entity.RoleEntregador, entregadorID, d)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, entity.StatusPending, d.Status, "la entrega no debe modificarse")
}

func TestConfirm_NoPendente(t *testing.T) {
	d := &entity.Delivery{ID: "e1", Status: entity.StatusCancelled}
	assert.ErrorIs(t, delivery.Confirm(entity.RoleEntregador, entregadorID, d), domain.ErrInvalidTransition)
}

func TestConfirm_AdminNoConfirma(t *testing.T) {
	d := &entity.Delivery{ID: "e1", Status: entity.StatusPending}
	assert.ErrorIs(t, delivery.Confirm(entity.RoleAdmin, "admin", d), domain.ErrForbidden)
}

// Una entrega entregue nunca expone un borrado habilitado.
func TestCheckDelete(t *testing.T) {
	for _, role := range entity.Roles() {
		assert.False(t, delivery.CanDelete(role, entity.StatusDelivered), "rol %s", role)
	}
	assert.ErrorIs(t, delivery.CheckDelete(entity.RoleAdmin, entity.StatusDelivered), domain.ErrDeliveryLocked)
	assert.ErrorIs(t, delivery.CheckDelete(entity.RoleEntregador, entity.StatusPending), domain.ErrForbidden)
	assert.True(t, delivery.CanDelete(entity.RoleAdmin, entity.StatusPending))
	assert.True(t, delivery.CanDelete(entity.RoleMaster, entity.StatusCancelled))
}

func TestVisible_AlcanceDelEntregador(t *testing.T) {
	libre := &entity.Delivery{Status: entity.StatusPending}
	propia := &entity.Delivery{Status: entity.StatusPending, DelivererID: ptr(entregadorID)}
	ajena := &entity.Delivery{Status: entity.StatusPending, DelivererID: ptr(otroID)}
	entreguePropia := &entity.Delivery{Status: entity.StatusDelivered, DelivererID: ptr(entregadorID)}
	entregueAjena := &entity.Delivery{Status: entity.StatusDelivered, DelivererID: ptr(otroID)}
	cancelada := &entity.Delivery{Status: entity.StatusCancelled}

	assert.True(t, delivery.Visible(entity.RoleEntregador, entregadorID, libre))
	assert.True(t, delivery.Visible(entity.RoleEntregador, entregadorID, propia))
	assert.False(t, delivery.Visible(entity.RoleEntregador, entregadorID, ajena))
	assert.True(t, delivery.Visible(entity.RoleEntregador, entregadorID, entreguePropia))
	assert.False(t, delivery.Visible(entity.RoleEntregador, entregadorID, entregueAjena))
	assert.False(t, delivery.Visible(entity.RoleEntregador, entregadorID, cancelada))
	assert.True(t, delivery.Visible(entity.RoleAdmin, "admin", entregueAjena))
}

func TestParseStatus(t *testing.T) {
	st, err := delivery.ParseStatus("em_transito")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInTransit, st)

	_, err = delivery.ParseStatus("ENTREGUE")
	assert.ErrorIs(t, err, domain.ErrUnknownStatus)
}
