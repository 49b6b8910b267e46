package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/wareflow-api/internal/application/auth"
	"github.com/jhoicas/wareflow-api/internal/application/inventory"
	"github.com/jhoicas/wareflow-api/internal/application/orders"
	"github.com/jhoicas/wareflow-api/internal/application/stock"
	"github.com/jhoicas/wareflow-api/internal/application/usecase"
	"github.com/jhoicas/wareflow-api/internal/infrastructure/messaging"
	infrapdf "github.com/jhoicas/wareflow-api/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/wareflow-api/internal/interfaces/http"
	"github.com/jhoicas/wareflow-api/pkg/config"
	"github.com/jhoicas/wareflow-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx := context.Background()
	repos, closeRepos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer closeRepos()

	// Eventos de stock: RabbitMQ si AMQP_URL está definido; si no, se descartan.
	var publisher stock.EventPublisher = stock.NopPublisher{}
	if cfg.Broker.Enabled() {
		p, err := messaging.Dial(cfg.Broker, log.Component("messaging"))
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ no disponible, los eventos de stock no se publicarán")
		} else {
			defer p.Close()
			publisher = p
		}
	}

	stockSvc := stock.NewService(repos.products, publisher, log.Component("stock"))
	movementUC := inventory.NewMovementUseCase(repos.movements, stockSvc, log.Component("inventory"))
	stockUC := inventory.NewStockUseCase(stockSvc, movementUC, log.Component("inventory"))

	ordersLog := log.Component("orders")
	receiptRenderer := infrapdf.NewMarotoReceiptRenderer(cfg.App.Name)
	salesUC := orders.NewSalesOrderUseCase(repos.sales, stockSvc, movementUC, receiptRenderer, ordersLog)
	purchaseUC := orders.NewPurchaseOrderUseCase(repos.purchases, stockSvc, movementUC, ordersLog)
	returnUC := orders.NewReturnUseCase(repos.returns, repos.sales, stockSvc, movementUC, ordersLog)
	receiptUC := orders.NewGoodsReceiptUseCase(repos.receipts, repos.purchases, stockSvc, movementUC, ordersLog)

	authUC := auth.NewAuthUseCase(repos.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Wareflow API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		UserUC:          usecase.NewUserUseCase(repos.users),
		ProductUC:       usecase.NewProductUseCase(repos.products),
		StockUC:         stockUC,
		MovementUC:      movementUC,
		SalesOrderUC:    salesUC,
		PurchaseOrderUC: purchaseUC,
		ReturnUC:        returnUC,
		GoodsReceiptUC:  receiptUC,
		JWTSecret:       cfg.JWT.Secret,
		Log:             log.Component("http"),
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
