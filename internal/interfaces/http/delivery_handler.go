package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestao-entregas/internal/application/dto"
	"github.com/jhoicas/gestao-entregas/internal/application/usecase"
	"github.com/jhoicas/gestao-entregas/pkg/logger"
)

// DeliveryHandler maneja las peticiones HTTP para Entrega. Las lecturas, estadísticas y la
// confirmación están abiertas a todos los roles del dashboard; el caso de uso aplica el alcance.
type DeliveryHandler struct {
	uc  *usecase.DeliveryUseCase
	log *logger.Logger
}

// NewDeliveryHandler construye el handler.
func NewDeliveryHandler(uc *usecase.DeliveryUseCase, log *logger.Logger) *DeliveryHandler {
	return &DeliveryHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar entregas
// @Tags         entregas
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pendente | em_transito | entregue | cancelada"
// @Success      200     {array}  dto.DeliveryResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/entregas [get]
func (h *DeliveryHandler) List(c *fiber.Ctx) error {
	var f usecase.DeliveryListFilter
	if err := c.QueryParser(&f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.List(c.UserContext(), ActorFrom(c), f)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener entrega por ID
// @Tags         entregas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrega"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/entregas/{id} [get]
func (h *DeliveryHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.GetByID(c.UserContext(), ActorFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear entregas
// @Description  Con produto_id + quantidade devuelve la entrega creada; con la lista produtos
// @Description  devuelve un array (una entrega por ítem, todas en una transacción).
// @Tags         entregas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDeliveryRequest  true  "Datos de la entrega"
// @Success      201   {object}  dto.DeliveryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/entregas [post]
func (h *DeliveryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDeliveryRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), ActorFrom(c), in)
	if err != nil {
		return err
	}
	if len(in.Produtos) == 0 && len(out) == 1 {
		return c.Status(fiber.StatusCreated).JSON(out[0])
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar entrega (payload completo)
// @Description  Para el entregador solo vale como confirmación: status entregue con su entregador_id.
// @Tags         entregas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la entrega"
// @Param        body  body  dto.UpdateDeliveryRequest  true  "Entrega completa"
// @Success      200   {object}  dto.DeliveryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/entregas/{id} [put]
func (h *DeliveryHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	var in dto.UpdateDeliveryRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), ActorFrom(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de una entrega
// @Tags         entregas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la entrega"
// @Param        body  body  dto.UpdateStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.DeliveryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/entregas/{id}/status [patch]
func (h *DeliveryHandler) UpdateStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	var in dto.UpdateStatusRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), ActorFrom(c), id, in.Status)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirmar entrega (entregador)
// @Tags         entregas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrega"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/entregas/{id}/confirmar [post]
func (h *DeliveryHandler) Confirm(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.Confirm(c.UserContext(), ActorFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar entrega
// @Tags         entregas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrega"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/entregas/{id} [delete]
func (h *DeliveryHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	if err := h.uc.Delete(c.UserContext(), ActorFrom(c), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "entrega eliminada"})
}

// Stats godoc
// @Summary      Conteo de entregas por estado
// @Tags         entregas
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DeliveryStatsResponse
// @Router       /api/entregas/estatisticas [get]
func (h *DeliveryHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext(), ActorFrom(c))
	if err != nil {
		return err
	}
	if len(out.Desconhecidos) > 0 {
		h.log.Warn().
			Interface("desconhecidos", out.Desconhecidos).
			Str("company_id", GetCompanyID(c)).
			Msg("entregas con estado desconocido")
	}
	return c.JSON(out)
}
