package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestao-entregas/internal/application/dto"
	"github.com/jhoicas/gestao-entregas/internal/application/ports"
	"github.com/jhoicas/gestao-entregas/internal/domain"
	"github.com/jhoicas/gestao-entregas/pkg/logger"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// Orden relevante: el primer sentinel que coincide decide.
var errorMappings = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnknownStatus, fiber.StatusBadRequest, "UNKNOWN_STATUS"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrSelfDelete, fiber.StatusForbidden, "SELF_DELETE"},
	{domain.ErrSelfRoleChange, fiber.StatusForbidden, "SELF_ROLE_CHANGE"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{ports.ErrRegistryNotFound, fiber.StatusNotFound, "CNPJ_NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrDeliveryLocked, fiber.StatusConflict, "DELIVERY_LOCKED"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
}

// ErrorHandler traduce errores de dominio a status + dto.ErrorResponse. Lo que no es de
// dominio se registra y se responde 500 sin detalles internos.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: codeForStatus(fe.Code), Message: fe.Message})
		}
		for _, m := range errorMappings {
			if errors.Is(err, m.target) {
				return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
			}
		}
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("request_id", requestID(c)).
			Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
	}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	default:
		if status >= fiber.StatusInternalServerError {
			return "INTERNAL"
		}
		return "ERROR"
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func missingID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
}

// bind parsea el cuerpo JSON y valida las etiquetas. Si responde un error de cuerpo,
// ok es false y la respuesta ya fue escrita.
func bind(c *fiber.Ctx, out any) (ok bool, err error) {
	if err := c.BodyParser(out); err != nil {
		return false, invalidBody(c)
	}
	if err := dto.Validate(out); err != nil {
		return false, err
	}
	return true, nil
}
