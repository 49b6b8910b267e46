package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/wareflow-api/internal/application/auth"
	"github.com/jhoicas/wareflow-api/internal/application/inventory"
	"github.com/jhoicas/wareflow-api/internal/application/orders"
	"github.com/jhoicas/wareflow-api/internal/application/usecase"
)

const localErr = "handler_error"

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	UserUC          *usecase.UserUseCase
	ProductUC       *usecase.ProductUseCase
	StockUC         *inventory.StockUseCase
	MovementUC      *inventory.MovementUseCase
	SalesOrderUC    *orders.SalesOrderUseCase
	PurchaseOrderUC *orders.PurchaseOrderUseCase
	ReturnUC        *orders.ReturnUseCase
	GoodsReceiptUC  *orders.GoodsReceiptUseCase
	JWTSecret       string
	Log             zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", RequestLogger(deps.Log))

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Users (solo admin)
	users := protected.Group("/users", RequireAdmin())
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Delete("/:id", userHandler.Delete)

	// Products (lectura para todos; escritura admin)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/code/:code", productHandler.GetByCode)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", RequireAdmin(), productHandler.Create)
	products.Put("/:id", RequireAdmin(), productHandler.Update)
	products.Delete("/:id", RequireAdmin(), productHandler.Delete)

	// Stock
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup.Post("/increase", stockHandler.Increase)
	stockGroup.Post("/decrease", stockHandler.Decrease)
	stockGroup.Post("/adjust", stockHandler.Adjust)

	// Inventory movements
	movements := protected.Group("/inventory-movements")
	movementHandler := NewMovementHandler(deps.MovementUC)
	movements.Get("/", movementHandler.List)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Post("/", movementHandler.Create)
	movements.Put("/:id", movementHandler.Update)
	movements.Delete("/:id", RequireAdmin(), movementHandler.Delete)

	// Sales orders
	sales := protected.Group("/sales-orders")
	salesHandler := NewSalesOrderHandler(deps.SalesOrderUC)
	sales.Get("/", salesHandler.List)
	sales.Get("/:id", salesHandler.GetByID)
	sales.Get("/:id/receipt", salesHandler.Receipt)
	sales.Post("/", salesHandler.Create)
	sales.Put("/:id", salesHandler.Update)
	sales.Delete("/:id", salesHandler.Delete)

	// Purchase orders
	purchases := protected.Group("/purchase-orders")
	purchaseHandler := NewPurchaseOrderHandler(deps.PurchaseOrderUC)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Put("/:id", purchaseHandler.Update)
	purchases.Delete("/:id", purchaseHandler.Delete)

	// Returns
	returns := protected.Group("/returns")
	returnHandler := NewReturnHandler(deps.ReturnUC)
	returns.Get("/", returnHandler.List)
	returns.Get("/:id", returnHandler.GetByID)
	returns.Post("/", returnHandler.Create)
	returns.Put("/:id", returnHandler.Update)
	returns.Delete("/:id", returnHandler.Delete)

	// Goods receipts
	receipts := protected.Group("/goods-receipts")
	receiptHandler := NewGoodsReceiptHandler(deps.GoodsReceiptUC)
	receipts.Get("/", receiptHandler.List)
	receipts.Get("/:id", receiptHandler.GetByID)
	receipts.Post("/", receiptHandler.Create)
	receipts.Put("/:id", receiptHandler.Update)
	receipts.Delete("/:id", receiptHandler.Delete)
}

// RequestLogger registra cada petición con zerolog. Las respuestas 5xx incluyen el error del handler.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
			if herr, ok := c.Locals(localErr).(error); ok {
				ev = ev.Err(herr)
			}
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("request")
		return err
	}
}
