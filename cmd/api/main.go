package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestao-entregas/internal/application/analytics"
	"github.com/jhoicas/gestao-entregas/internal/application/auth"
	"github.com/jhoicas/gestao-entregas/internal/application/ports"
	"github.com/jhoicas/gestao-entregas/internal/application/usecase"
	"github.com/jhoicas/gestao-entregas/internal/infrastructure/cache"
	"github.com/jhoicas/gestao-entregas/internal/infrastructure/cnpja"
	infrapdf "github.com/jhoicas/gestao-entregas/internal/infrastructure/pdf"
	"github.com/jhoicas/gestao-entregas/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/gestao-entregas/internal/interfaces/http"
	"github.com/jhoicas/gestao-entregas/pkg/config"
	"github.com/jhoicas/gestao-entregas/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	// preco_custo / preco_venda viajan como número JSON, como los espera el painel.
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	deliveryRepo := postgres.NewDeliveryRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Consulta de CNPJ; con REDIS_ADDR las respuestas se cachean (un fallo de Redis es un miss).
	var registry ports.CompanyRegistry = cnpja.NewClient(cfg.CNPJLookup.BaseURL, cfg.CNPJLookup.Timeout)
	if cfg.Redis.Addr != "" {
		rdb := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log.Component("redis"))
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rdb.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no responde; se sigue sin caché efectiva")
		}
		cancel()
		registry = cache.NewCachedRegistry(registry, rdb, cfg.CNPJLookup.CacheTTL)
	}

	companyUC := usecase.NewCompanyUseCase(companyRepo, registry)
	productUC := usecase.NewProductUseCase(productRepo, companyRepo)
	userUC := usecase.NewUserUseCase(userRepo, companyRepo)
	deliveryUC := usecase.NewDeliveryUseCase(deliveryRepo, productRepo, userRepo, txRunner)
	reportUC := analytics.NewReportUseCase(deliveryRepo, companyRepo, infrapdf.NewMarotoPDFGenerator())
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret: cfg.JWT.Secret,
		TTL:    cfg.JWT.TTL(),
		Issuer: cfg.JWT.Issuer,
	})

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:        cfg.App.Name,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Log:         log,
	})

	// Swagger UI: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Gestão de Entregas API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado; /docs deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		CompanyUC:  companyUC,
		ProductUC:  productUC,
		UserUC:     userUC,
		DeliveryUC: deliveryUC,
		ReportUC:   reportUC,
		JWTSecret:  cfg.JWT.Secret,
		Log:        log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
