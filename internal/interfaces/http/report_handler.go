package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestao-entregas/internal/application/analytics"
)

// ReportHandler expone los informes de entregas.
type ReportHandler struct {
	uc  *analytics.ReportUseCase
	now func() time.Time
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc, now: time.Now}
}

// Deliveries godoc
// @Summary      Informe PDF de entregas
// @Description  Rango inclusive; sin parámetros usa el mes en curso.
// @Tags         relatorios
// @Security     Bearer
// @Produce      application/pdf
// @Param        inicio  query  string  false  "AAAA-MM-DD"
// @Param        fim     query  string  false  "AAAA-MM-DD"
// @Success      200     {file}    binary
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/relatorios/entregas [get]
func (h *ReportHandler) Deliveries(c *fiber.Ctx) error {
	rng, err := analytics.ParseRange(c.Query("inicio"), c.Query("fim"), h.now())
	if err != nil {
		return err
	}
	pdf, err := h.uc.Generate(c.UserContext(), ActorFrom(c), rng)
	if err != nil {
		return err
	}
	filename := fmt.Sprintf("entregas_%s_%s.pdf", rng.Inicio.Format("20060102"), rng.Fim.Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
