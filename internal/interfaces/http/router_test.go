package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wareflow-api/internal/application/auth"
	"github.com/jhoicas/wareflow-api/internal/application/dto"
	"github.com/jhoicas/wareflow-api/internal/application/inventory"
	"github.com/jhoicas/wareflow-api/internal/application/orders"
	"github.com/jhoicas/wareflow-api/internal/application/stock"
	"github.com/jhoicas/wareflow-api/internal/application/usecase"
	"github.com/jhoicas/wareflow-api/internal/domain/entity"
	"github.com/jhoicas/wareflow-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/wareflow-api/internal/interfaces/http"
)

type fakeRenderer struct{}

func (fakeRenderer) RenderSalesReceipt(order *entity.SalesOrder) ([]byte, error) {
	return []byte("%PDF-" + order.ID), nil
}

type apiFixture struct {
	app      *fiber.App
	products *memory.ProductRepo
	users    *usecase.UserUseCase
}

// newAPI arma la API completa sobre el almacenamiento en memoria.
func newAPI(t *testing.T, stocks map[string]int) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	for code, qty := range stocks {
		require.NoError(t, products.Create(context.Background(), entity.NewProduct("id-"+code, code, qty, time.Now())))
	}
	log := zerolog.Nop()
	svc := stock.NewService(products, nil, log)
	movements := inventory.NewMovementUseCase(memory.NewInventoryMovementRepository(store), svc, log)
	userRepo := memory.NewUserRepository(store)
	salesRepo := memory.NewSalesOrderRepository(store)
	purchaseRepo := memory.NewPurchaseOrderRepository(store)
	users := usecase.NewUserUseCase(userRepo)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:          auth.NewAuthUseCase(userRepo, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		UserUC:          users,
		ProductUC:       usecase.NewProductUseCase(products),
		StockUC:         inventory.NewStockUseCase(svc, movements, log),
		MovementUC:      movements,
		SalesOrderUC:    orders.NewSalesOrderUseCase(salesRepo, svc, movements, fakeRenderer{}, log),
		PurchaseOrderUC: orders.NewPurchaseOrderUseCase(purchaseRepo, svc, movements, log),
		ReturnUC:        orders.NewReturnUseCase(memory.NewReturnRepository(store), salesRepo, svc, movements, log),
		GoodsReceiptUC:  orders.NewGoodsReceiptUseCase(memory.NewGoodsReceiptRepository(store), purchaseRepo, svc, movements, log),
		JWTSecret:       testJWTSecret,
		Log:             log,
	})
	return &apiFixture{app: app, products: products, users: users}
}

func (f *apiFixture) call(t *testing.T, method, path, role string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (f *apiFixture) stockOf(t *testing.T, code string) int {
	t.Helper()
	p, err := f.products.GetByCode(context.Background(), code)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock()
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ─── auth ──────────────────────────────────────────────────────────────────

func TestLogin_CredencialesValidas(t *testing.T) {
	f := newAPI(t, nil)
	_, err := f.users.Create(context.Background(), dto.CreateUserRequest{Email: "Admin@Tienda.com", Password: "supersecreta", Admin: true})
	require.NoError(t, err)

	resp := f.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@tienda.com", Password: "supersecreta"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.LoginResponse](t, resp)
	assert.NotEmpty(t, out.AccessToken)
	assert.Equal(t, "Bearer", out.TokenType)
	assert.Equal(t, entity.RoleAdmin, out.User.Role)
}

func TestLogin_PasswordIncorrecto_401(t *testing.T) {
	f := newAPI(t, nil)
	_, err := f.users.Create(context.Background(), dto.CreateUserRequest{Email: "user@tienda.com", Password: "supersecreta"})
	require.NoError(t, err)

	resp := f.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "user@tienda.com", Password: "otra-clave"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_EmailInvalido_400(t *testing.T) {
	f := newAPI(t, nil)
	resp := f.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "no-es-email", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)
}

func TestRutasProtegidas_SinToken_401(t *testing.T) {
	f := newAPI(t, nil)
	resp := f.call(t, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ─── productos y usuarios ──────────────────────────────────────────────────

func TestProducts_CrearRequiereAdmin(t *testing.T) {
	f := newAPI(t, nil)
	body := map[string]any{"code": "C1", "article": "Camisa", "price": 25000, "stock": 4}

	resp := f.call(t, http.MethodPost, "/api/products", "user", body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.call(t, http.MethodPost, "/api/products", "admin", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, "C1", out.Code)
	assert.Equal(t, 4, out.Stock)

	resp = f.call(t, http.MethodPost, "/api/products", "admin", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, resp).Code)
}

func TestProducts_GetByCode(t *testing.T) {
	f := newAPI(t, map[string]int{"A1": 7})

	resp := f.call(t, http.MethodGet, "/api/products/code/A1", "user", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 7, decode[dto.ProductResponse](t, resp).Stock)

	resp = f.call(t, http.MethodGet, "/api/products/code/NOPE", "user", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUsers_SoloAdmin(t *testing.T) {
	f := newAPI(t, nil)
	resp := f.call(t, http.MethodGet, "/api/users", "user", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.call(t, http.MethodPost, "/api/users", "admin", dto.CreateUserRequest{Email: "nuevo@tienda.com", Password: "12345678"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.UserResponse](t, resp)

	resp = f.call(t, http.MethodDelete, "/api/users/"+created.ID, "admin", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = f.call(t, http.MethodDelete, "/api/users/"+created.ID, "admin", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ─── stock ─────────────────────────────────────────────────────────────────

func TestStock_DecrementoInsuficiente_409(t *testing.T) {
	f := newAPI(t, map[string]int{"A1": 2})

	resp := f.call(t, http.MethodPost, "/api/stock/decrease", "user", dto.StockChangeRequest{ProductCode: "A1", Quantity: 3})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[dto.ErrorResponse](t, resp).Code)
	assert.Equal(t, 2, f.stockOf(t, "A1"))
}

func TestStock_AjusteConSigno(t *testing.T) {
	f := newAPI(t, map[string]int{"A1": 2})

	resp := f.call(t, http.MethodPost, "/api/stock/adjust", "user", dto.StockAdjustRequest{ProductCode: "A1", Delta: 5})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 7, decode[dto.StockResponse](t, resp).NewStock)
}

func TestStock_CantidadCero_400(t *testing.T) {
	f := newAPI(t, map[string]int{"A1": 2})
	resp := f.call(t, http.MethodPost, "/api/stock/increase", "user", dto.StockChangeRequest{ProductCode: "A1", Quantity: 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStock_CantidadFueraDeRango_400(t *testing.T) {
	f := newAPI(t, map[string]int{"A1": 2})

	resp := f.call(t, http.MethodPost, "/api/stock/increase", "user", dto.StockChangeRequest{ProductCode: "A1", Quantity: 2_000_000})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)

	resp = f.call(t, http.MethodPost, "/api/sales-orders", "user", dto.CreateSalesOrderRequest{
		Lines: []dto.SalesLineDTO{{ProductCode: "A1", Quantity: 1_000_001}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 2, f.stockOf(t, "A1"))
}

// ─── movimientos ───────────────────────────────────────────────────────────

func TestMovements_CrearYListarPorOrigen(t *testing.T) {
	f := newAPI(t, map[string]int{"A1": 5})

	resp := f.call(t, http.MethodPost, "/api/inventory-movements", "user", dto.CreateMovementRequest{
		MovementType: entity.MovementTypeOutbound,
		Lines:        []dto.MovementLineDTO{{ProductCode: "A1", Quantity: 2}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.MovementResponse](t, resp)
	assert.Equal(t, entity.MovementSourceManual, created.Source)
	assert.Equal(t, 3, f.stockOf(t, "A1"))

	resp = f.call(t, http.MethodGet, "/api/inventory-movements?source=manual", "user", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.MovementListResponse](t, resp)
	require.Len(t, list.Items, 1)
	assert.Equal(t, created.ID, list.Items[0].ID)
}

func TestMovements_TipoInvalido_400(t *testing.T) {
	f := newAPI(t, map[string]int{"A1": 5})
	resp := f.call(t, http.MethodPost, "/api/inventory-movements", "user", map[string]any{
		"movementType": "transfer",
		"lines":        []map[string]any{{"productCode": "A1", "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMovements_EliminarSoloAdmin(t *testing.T) {
	f := newAPI(t, map[string]int{"A1": 5})
	resp := f.call(t, http.MethodPost, "/api/inventory-movements", "user", dto.CreateMovementRequest{
		MovementType: entity.MovementTypeInbound,
		Lines:        []dto.MovementLineDTO{{ProductCode: "A1", Quantity: 1}},
	})
	created := decode[dto.MovementResponse](t, resp)

	resp = f.call(t, http.MethodDelete, "/api/inventory-movements/"+created.ID, "user", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = f.call(t, http.MethodDelete, "/api/inventory-movements/"+created.ID, "admin", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 6, f.stockOf(t, "A1"))
}

// ─── ventas ────────────────────────────────────────────────────────────────

func TestSalesOrders_CicloCompleto(t *testing.T) {
	f := newAPI(t, map[string]int{"A1": 10, "B2": 4})

	resp := f.call(t, http.MethodPost, "/api/sales-orders", "user", map[string]any{
		"lines": []map[string]any{
			{"productCode": "A1", "price": 12.5, "quantity": 3},
			{"productCode": "B2", "price": 4, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decode[dto.SalesOrderResponse](t, resp)
	assert.Equal(t, "41.5", order.TotalAmount.String())
	assert.Equal(t, 7, f.stockOf(t, "A1"))
	assert.Equal(t, 3, f.stockOf(t, "B2"))

	resp = f.call(t, http.MethodGet, "/api/sales-orders/"+order.ID+"/receipt", "user", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "%PDF-"+order.ID, string(raw))

	resp = f.call(t, http.MethodDelete, "/api/sales-orders/"+order.ID, "user", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 10, f.stockOf(t, "A1"))
	assert.Equal(t, 4, f.stockOf(t, "B2"))

	resp = f.call(t, http.MethodGet, "/api/sales-orders/"+order.ID, "user", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSalesOrders_ProductoDesconocido_404(t *testing.T) {
	f := newAPI(t, map[string]int{"A1": 10})

	resp := f.call(t, http.MethodPost, "/api/sales-orders", "user", map[string]any{
		"lines": []map[string]any{
			{"productCode": "A1", "price": 1, "quantity": 1},
			{"productCode": "ZZ", "price": 1, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "UNKNOWN_PRODUCT", decode[dto.ErrorResponse](t, resp).Code)
	assert.Equal(t, 10, f.stockOf(t, "A1"))
}

func TestSalesOrders_StockInsuficiente_409(t *testing.T) {
	f := newAPI(t, map[string]int{"A1": 1})

	resp := f.call(t, http.MethodPost, "/api/sales-orders", "user", map[string]any{
		"lines": []map[string]any{{"productCode": "A1", "price": 1, "quantity": 2}},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, 1, f.stockOf(t, "A1"))
}

// ─── compras y recepciones ─────────────────────────────────────────────────

func TestPurchaseOrders_ArrivedIncrementaStock(t *testing.T) {
	f := newAPI(t, map[string]int{"A1": 0})

	resp := f.call(t, http.MethodPost, "/api/purchase-orders", "user", map[string]any{
		"supplier": "Textiles SA",
		"lines":    []map[string]any{{"productCode": "A1", "quantity": 6}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	po := decode[dto.PurchaseOrderResponse](t, resp)
	assert.Equal(t, 0, f.stockOf(t, "A1"))

	resp = f.call(t, http.MethodPut, "/api/purchase-orders/"+po.ID, "user", map[string]any{"status": "Arrived"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 6, f.stockOf(t, "A1"))

	resp = f.call(t, http.MethodPut, "/api/purchase-orders/"+po.ID, "user", map[string]any{"status": "Pending"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 6, f.stockOf(t, "A1"))

	resp = f.call(t, http.MethodGet, "/api/purchase-orders?status=Arrived", "user", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[dto.PurchaseOrderListResponse](t, resp).Items, 1)
}

func TestGoodsReceipts_OrdenInexistente_404(t *testing.T) {
	f := newAPI(t, map[string]int{"A1": 0})

	resp := f.call(t, http.MethodPost, "/api/goods-receipts", "user", map[string]any{
		"purchaseOrderId": "no-existe",
		"lines":           []map[string]any{{"productCode": "A1", "receivedQuantity": 2}},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 0, f.stockOf(t, "A1"))
}

// ─── devoluciones ──────────────────────────────────────────────────────────

func TestReturns_IncrementaStock(t *testing.T) {
	f := newAPI(t, map[string]int{"A1": 1})

	resp := f.call(t, http.MethodPost, "/api/returns", "user", map[string]any{
		"lines": []map[string]any{{"productCode": "A1", "quantity": 2, "reason": "talla"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 3, f.stockOf(t, "A1"))
}
