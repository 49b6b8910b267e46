// seed crea el usuario administrador inicial y un catálogo de ejemplo con algunas ventas.
//
// Uso: SEED_ADMIN_PASSWORD=... go run ./cmd/seed
// Si el administrador ya existe no hace nada.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/wareflow-api/internal/application/dto"
	"github.com/jhoicas/wareflow-api/internal/application/inventory"
	"github.com/jhoicas/wareflow-api/internal/application/orders"
	"github.com/jhoicas/wareflow-api/internal/application/stock"
	"github.com/jhoicas/wareflow-api/internal/application/usecase"
	"github.com/jhoicas/wareflow-api/internal/infrastructure/postgres"
	"github.com/jhoicas/wareflow-api/pkg/config"
	"github.com/jhoicas/wareflow-api/pkg/logger"
)

type sampleProduct struct {
	code        string
	article     string
	color       string
	description string
	price       string
	stock       int
	minStock    int
	sizes       []string
}

var (
	clothingSizes = []string{"XS", "S", "M", "L", "XL"}
	shoeSizes     = []string{"37", "38", "39", "40", "41", "42", "43", "44"}
)

var catalog = []sampleProduct{
	{code: "TSH123", article: "T-Shirt", color: "Blue", description: "Camiseta azul de algodón.", price: "19.99", stock: 20, minStock: 10, sizes: clothingSizes},
	{code: "JNS456", article: "Jeans", color: "Black", description: "Jean negro.", price: "49.99", stock: 20, minStock: 5, sizes: clothingSizes},
	{code: "SNK789", article: "Sneakers", color: "White", description: "Tenis blancos.", price: "79.99", stock: 15, minStock: 5, sizes: shoeSizes},
	{code: "EARR123", article: "Earrings", color: "Silver", description: "Aretes de plata.", price: "29.99", stock: 10, minStock: 5},
	{code: "BEAN456", article: "Beanie", color: "Black", description: "Gorro de lana negro.", price: "19.99", stock: 15, minStock: 10},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "seed"})
	if cfg.Seed.AdminPassword == "" {
		log.Fatal().Msg("SEED_ADMIN_PASSWORD es requerido")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migrar esquema")
	}

	userRepo := postgres.NewUserRepository(pool)
	existing, err := userRepo.GetByEmail(ctx, cfg.Seed.AdminEmail)
	if err != nil {
		log.Fatal().Err(err).Msg("buscar administrador")
	}
	if existing != nil {
		log.Info().Str("email", existing.Email).Msg("datos ya creados")
		return
	}

	admin, err := usecase.NewUserUseCase(userRepo).Create(ctx, dto.CreateUserRequest{
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
		Admin:    true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear administrador")
	}
	log.Info().Str("email", admin.Email).Msg("administrador creado")

	productRepo := postgres.NewProductRepository(pool)
	productUC := usecase.NewProductUseCase(productRepo)
	for _, p := range catalog {
		for _, req := range p.requests() {
			if _, err := productUC.Create(ctx, req); err != nil {
				log.Fatal().Err(err).Str("code", req.Code).Msg("crear producto")
			}
			log.Info().Str("code", req.Code).Str("size", req.Size).Msg("producto creado")
		}
	}

	stockSvc := stock.NewService(productRepo, nil, log.Component("stock"))
	movements := inventory.NewMovementUseCase(postgres.NewInventoryMovementRepository(pool), stockSvc, log.Component("inventory"))
	salesUC := orders.NewSalesOrderUseCase(postgres.NewSalesOrderRepository(pool), stockSvc, movements, nil, log.Component("orders"))

	sales := []dto.CreateSalesOrderRequest{
		saleOf("EARR123", "29.99", 2, time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)),
		saleOf("BEAN456", "19.99", 3, time.Date(2024, 1, 12, 16, 30, 0, 0, time.UTC)),
	}
	for _, req := range sales {
		order, err := salesUC.Create(ctx, req)
		if err != nil {
			log.Fatal().Err(err).Msg("crear venta")
		}
		log.Info().Str("id", order.ID).Str("total", order.TotalAmount.String()).Msg("venta creada")
	}
}

// requests expande el producto en una variante por talla; sin tallas usa NOSIZE.
func (p sampleProduct) requests() []dto.CreateProductRequest {
	sizes := p.sizes
	if len(sizes) == 0 {
		sizes = []string{""}
	}
	out := make([]dto.CreateProductRequest, 0, len(sizes))
	for _, size := range sizes {
		code := p.code
		if size != "" {
			code = fmt.Sprintf("%s-%s", p.code, size)
		} else {
			size = "NOSIZE"
		}
		minStock := p.minStock
		out = append(out, dto.CreateProductRequest{
			Code:        code,
			Article:     p.article,
			Size:        size,
			Color:       p.color,
			Description: p.description,
			Price:       decimal.RequireFromString(p.price),
			Stock:       p.stock,
			MinStock:    &minStock,
		})
	}
	return out
}

func saleOf(code, price string, qty int, at time.Time) dto.CreateSalesOrderRequest {
	return dto.CreateSalesOrderRequest{
		Lines:    []dto.SalesLineDTO{{ProductCode: code, Price: decimal.RequireFromString(price), Quantity: qty}},
		SaleDate: &at,
	}
}
