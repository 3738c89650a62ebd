package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gestao-entregas/pkg/logger"
)

// RequestLogger registra cada petición con método, ruta, status y latencia.
// 5xx → error, 4xx → warn, resto → info.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			// El ErrorHandler escribe la respuesta; así el status registrado es el real.
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()

		var ev *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		default:
			ev = log.Info()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Str("request_id", requestID(c)).
			Msg("request")
		return nil
	}
}

func requestID(c *fiber.Ctx) string {
	if s, ok := c.Locals("requestid").(string); ok {
		return s
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
