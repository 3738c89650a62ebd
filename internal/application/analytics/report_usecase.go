// Package analytics contiene los casos de uso de informes sobre entregas.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/gestao-entregas/internal/application/dto"
	"github.com/jhoicas/gestao-entregas/internal/application/ports"
	"github.com/jhoicas/gestao-entregas/internal/application/usecase"
	"github.com/jhoicas/gestao-entregas/internal/domain"
	"github.com/jhoicas/gestao-entregas/internal/domain/access"
	"github.com/jhoicas/gestao-entregas/internal/domain/delivery"
	"github.com/jhoicas/gestao-entregas/internal/domain/entity"
	"github.com/jhoicas/gestao-entregas/internal/domain/repository"
)

const maxReportDays = 366 // rango máximo del informe

// ReportUseCase genera el informe PDF de entregas de un período.
//
// Fuente de datos: DeliveryRepository (lectura). El documento lo produce el ReportGenerator.
type ReportUseCase struct {
	deliveryRepo repository.DeliveryRepository
	companyRepo  repository.CompanyRepository
	generator    ports.ReportGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	deliveryRepo repository.DeliveryRepository,
	companyRepo repository.CompanyRepository,
	generator ports.ReportGenerator,
) *ReportUseCase {
	return &ReportUseCase{deliveryRepo: deliveryRepo, companyRepo: companyRepo, generator: generator}
}

// ParseRange interpreta inicio/fim (YYYY-MM-DD, ambos inclusive). Vacíos: mes en curso hasta hoy.
func ParseRange(inicio, fim string, now time.Time) (dto.ReportRange, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var err error
	if inicio != "" {
		if start, err = time.ParseInLocation(time.DateOnly, inicio, now.Location()); err != nil {
			return dto.ReportRange{}, fmt.Errorf("%w: inicio debe tener formato AAAA-MM-DD", domain.ErrInvalidInput)
		}
	}
	if fim != "" {
		if end, err = time.ParseInLocation(time.DateOnly, fim, now.Location()); err != nil {
			return dto.ReportRange{}, fmt.Errorf("%w: fim debe tener formato AAAA-MM-DD", domain.ErrInvalidInput)
		}
	}
	if end.Before(start) {
		return dto.ReportRange{}, fmt.Errorf("%w: fim anterior a inicio", domain.ErrInvalidInput)
	}
	if end.Sub(start) > maxReportDays*24*time.Hour {
		return dto.ReportRange{}, fmt.Errorf("%w: el rango no puede superar %d días", domain.ErrInvalidInput, maxReportDays)
	}
	return dto.ReportRange{Inicio: start, Fim: end}, nil
}

// Generate construye el informe de entregas del rango para el alcance del actor.
func (uc *ReportUseCase) Generate(ctx context.Context, actor usecase.Actor, rng dto.ReportRange) ([]byte, error) {
	if !access.Allowed(actor.Role, access.PageDeliveries) {
		return nil, fmt.Errorf("%w: informe reservado a master y admin", domain.ErrForbidden)
	}
	from := rng.Inicio
	to := rng.Fim.AddDate(0, 0, 1) // fim inclusive
	filter := repository.DeliveryFilter{From: &from, To: &to}
	var company *entity.Company
	if !actor.IsMaster() {
		filter.CompanyID = actor.CompanyID
		c, err := uc.companyRepo.GetByID(ctx, actor.CompanyID)
		if err != nil {
			return nil, err
		}
		company = c
	}
	list, err := uc.deliveryRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	stats := delivery.NewStats()
	for _, d := range list {
		_ = stats.Add(d.Status)
	}

	report := ports.DeliveryReport{
		Company:    company,
		Deliveries: list,
		ByStatus:   stats.ByStatus,
		Title: fmt.Sprintf("Relatório de entregas %s a %s",
			rng.Inicio.Format("02/01/2006"), rng.Fim.Format("02/01/2006")),
	}
	return uc.generator.GenerateDeliveryReport(ctx, report)
}
