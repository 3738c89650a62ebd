package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestao-entregas/internal/application/dto"
	"github.com/jhoicas/gestao-entregas/internal/application/usecase"
)

// CompanyHandler maneja las peticiones HTTP para el recurso Empresa (solo master).
type CompanyHandler struct {
	uc *usecase.CompanyUseCase
}

// NewCompanyHandler construye el handler inyectando el caso de uso.
func NewCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Create godoc
// @Summary      Crear empresa
// @Tags         empresas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CompanyRequest  true  "Datos de la empresa"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/empresas [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CompanyRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), ActorFrom(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener empresa por ID
// @Tags         empresas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/empresas/{id} [get]
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
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

// List godoc
// @Summary      Listar empresas
// @Tags         empresas
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(500)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.CompanyResponse
// @Router       /api/empresas [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	page, err := pageFrom(c)
	if err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), ActorFrom(c), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar empresa
// @Tags         empresas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la empresa"
// @Param        body  body  dto.CompanyRequest  true  "Datos de la empresa"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/empresas/{id} [put]
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	var in dto.CompanyRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), ActorFrom(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar empresa
// @Tags         empresas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/empresas/{id} [delete]
func (h *CompanyHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	if err := h.uc.Delete(c.UserContext(), ActorFrom(c), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "empresa eliminada"})
}

// Lookup godoc
// @Summary      Consultar CNPJ en el registro público
// @Tags         empresas
// @Security     Bearer
// @Produce      json
// @Param        cnpj  path  string  true  "CNPJ (con o sin máscara)"
// @Success      200   {object}  dto.CompanyLookupResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/empresas/consulta/{cnpj} [get]
func (h *CompanyHandler) Lookup(c *fiber.Ctx) error {
	out, err := h.uc.Lookup(c.UserContext(), ActorFrom(c), c.Params("cnpj"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// pageFrom lee limit/offset de la query con valores por defecto.
func pageFrom(c *fiber.Ctx) (dto.PageRequest, error) {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 0), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	if err := dto.Validate(page); err != nil {
		return page, err
	}
	return page, nil
}
