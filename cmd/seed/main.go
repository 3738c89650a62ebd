// seed crea la empresa inicial y su usuario master en una base vacía.
//
// Uso: go run ./cmd/seed -cnpj 11222333000181 -razao "Minha Empresa" -email master@empresa.com -nome Master
// La senha se lee de SEED_PASSWORD o se pide por terminal sin eco.
// Es idempotente: si la empresa o el email ya existen, los reutiliza.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/jhoicas/gestao-entregas/internal/domain/entity"
	"github.com/jhoicas/gestao-entregas/internal/infrastructure/postgres"
	"github.com/jhoicas/gestao-entregas/pkg/config"
	"github.com/jhoicas/gestao-entregas/pkg/logger"
	"github.com/jhoicas/gestao-entregas/pkg/taxid"
)

var readPassword = term.ReadPassword

func main() {
	cnpj := flag.String("cnpj", "", "CNPJ/CPF de la empresa")
	razao := flag.String("razao", "", "razão social")
	email := flag.String("email", "", "email del usuario master")
	nome := flag.String("nome", "Master", "nombre del usuario master")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})

	digits, _, err := taxid.Validate(*cnpj)
	if err != nil {
		log.Fatal().Err(err).Msg("-cnpj inválido")
	}
	if strings.TrimSpace(*razao) == "" || strings.TrimSpace(*email) == "" {
		log.Fatal().Msg("-razao y -email son obligatorios")
	}
	password, err := seedPassword()
	if err != nil {
		log.Fatal().Err(err).Msg("leer senha")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	companies := postgres.NewCompanyRepository(pool)
	users := postgres.NewUserRepository(pool)
	now := time.Now()

	company, err := companies.GetByTaxID(ctx, digits)
	if err != nil {
		log.Fatal().Err(err).Msg("buscar empresa")
	}
	if company == nil {
		company = &entity.Company{
			ID:        uuid.New().String(),
			TaxID:     digits,
			LegalName: strings.TrimSpace(*razao),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := companies.Create(ctx, company); err != nil {
			log.Fatal().Err(err).Msg("crear empresa")
		}
		log.Info().Str("empresa_id", company.ID).Msg("empresa creada")
	} else {
		log.Info().Str("empresa_id", company.ID).Msg("empresa existente")
	}

	mail := strings.ToLower(strings.TrimSpace(*email))
	existing, err := users.GetByEmail(ctx, mail)
	if err != nil {
		log.Fatal().Err(err).Msg("buscar usuario")
	}
	if existing != nil {
		log.Info().Str("usuario_id", existing.ID).Str("tipo_usuario", string(existing.Role)).Msg("usuario existente; sin cambios")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash de senha")
	}
	master := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    company.ID,
		Name:         strings.TrimSpace(*nome),
		Email:        mail,
		PasswordHash: string(hash),
		Role:         entity.RoleMaster,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, master); err != nil {
		log.Fatal().Err(err).Msg("crear usuario master")
	}
	log.Info().Str("usuario_id", master.ID).Str("email", mail).Msg("usuario master creado")
}

func seedPassword() (string, error) {
	if p := os.Getenv("SEED_PASSWORD"); p != "" {
		return p, nil
	}
	fmt.Fprint(os.Stderr, "Senha do master: ")
	raw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if len(raw) < 6 {
		return "", fmt.Errorf("la senha debe tener al menos 6 caracteres")
	}
	return string(raw), nil
}
