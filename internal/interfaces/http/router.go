package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/gestao-entregas/internal/application/analytics"
	"github.com/jhoicas/gestao-entregas/internal/application/auth"
	"github.com/jhoicas/gestao-entregas/internal/application/usecase"
	"github.com/jhoicas/gestao-entregas/internal/domain/access"
	"github.com/jhoicas/gestao-entregas/pkg/logger"
)

// AppConfig opciones del servidor Fiber.
type AppConfig struct {
	Name        string
	CORSOrigins string
	Log         *logger.Logger
}

// NewApp crea la aplicación Fiber con el ErrorHandler de dominio y los middlewares comunes
// (recover, request id, CORS y log de peticiones). Registra también GET /health.
func NewApp(cfg AppConfig) *fiber.App {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ErrorHandler: ErrorHandler(log),
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	app.Use(RequestLogger(log.Component("http")))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.Name})
	})
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	CompanyUC  *usecase.CompanyUseCase
	ProductUC  *usecase.ProductUseCase
	UserUC     *usecase.UserUseCase
	DeliveryUC *usecase.DeliveryUseCase
	ReportUC   *analytics.ReportUseCase
	JWTSecret  string
	Log        *logger.Logger
}

// Router registra las rutas de la API.
//
// Acceso por página del panel:
//   - dashboard (todos): lectura de entregas, estadísticas, confirmación, PUT de entrega
//   - produtos, usuarios: master y admin
//   - entregas (escritura) y relatorios: master y admin
//   - empresas: solo master
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")
	authMW := AuthMiddleware(deps.JWTSecret)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)
	api.Get("/auth/me", authMW, authHandler.Me)

	// Empresas (master)
	companies := api.Group("/empresas", authMW, RequirePage(access.PageCompanies))
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/consulta/:cnpj", companyHandler.Lookup)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", companyHandler.Update)
	companies.Delete("/:id", companyHandler.Delete)

	// Produtos
	products := api.Group("/produtos", authMW, RequirePage(access.PageProducts))
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Usuarios
	users := api.Group("/usuarios", authMW, RequirePage(access.PageUsers))
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Entregas
	deliveries := api.Group("/entregas", authMW, RequirePage(access.PageDashboard))
	deliveryHandler := NewDeliveryHandler(deps.DeliveryUC, log.Component("entregas"))
	manage := RequirePage(access.PageDeliveries)
	deliveries.Get("/", deliveryHandler.List)
	deliveries.Get("/estatisticas", deliveryHandler.Stats)
	deliveries.Get("/:id", deliveryHandler.GetByID)
	deliveries.Post("/", manage, deliveryHandler.Create)
	deliveries.Put("/:id", deliveryHandler.Update)
	deliveries.Patch("/:id/status", manage, deliveryHandler.UpdateStatus)
	deliveries.Post("/:id/confirmar", deliveryHandler.Confirm)
	deliveries.Delete("/:id", manage, deliveryHandler.Delete)

	// Relatorios
	reports := api.Group("/relatorios", authMW, RequirePage(access.PageDeliveries))
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/entregas", reportHandler.Deliveries)
}
