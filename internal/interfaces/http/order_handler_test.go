package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfigueroa/stockcore/internal/application/dto"
	"github.com/jfigueroa/stockcore/internal/application/fulfillment"
	"github.com/jfigueroa/stockcore/internal/application/ledger"
	"github.com/jfigueroa/stockcore/internal/domain/entity"
	apphttp "github.com/jfigueroa/stockcore/internal/interfaces/http"
	"github.com/jfigueroa/stockcore/internal/testsupport"
	"github.com/jfigueroa/stockcore/pkg/logger"
)

// buildOrderApp wires the order route against the in-memory store.
func buildOrderApp(t *testing.T) (*fiber.App, *testsupport.MemStore) {
	t.Helper()
	store := testsupport.NewMemStore()
	recorder := testsupport.NewEventRecorder()
	stockLedger := ledger.New(store, recorder, logger.Nop())
	engine := fulfillment.NewEngine(stockLedger, store, store.BackorderRepo(), recorder, logger.Nop())
	handler := apphttp.NewOrderHandler(engine, store)

	app := fiber.New()
	app.Post("/api/orders", handler.Create)
	app.Get("/api/orders/:id", handler.GetByID)
	return app, store
}

func postOrder(t *testing.T, app *fiber.App, in dto.CreateOrderRequest) *http.Response {
	t.Helper()
	body, err := json.Marshal(in)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestOrderCreate_Completed201(t *testing.T) {
	app, store := buildOrderApp(t)
	store.SeedEntry(entity.StockEntry{ProductID: "P1", WarehouseID: "W1", Quantity: 10})

	resp := postOrder(t, app, dto.CreateOrderRequest{
		CustomerID:  "C1",
		WarehouseID: "W1",
		Items:       []dto.OrderItemInput{{ProductID: "P1", Quantity: 2}},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var out dto.OrderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "COMPLETED", out.Status)
	assert.Empty(t, out.RejectionReason)
	require.Len(t, out.Items, 1)
}

// A rejection comes back as 409 with the order body carrying the cause.
func TestOrderCreate_Rejected409WithCause(t *testing.T) {
	app, store := buildOrderApp(t)
	store.SeedEntry(entity.StockEntry{ProductID: "P1", WarehouseID: "W1", Quantity: 1})

	resp := postOrder(t, app, dto.CreateOrderRequest{
		CustomerID:  "C1",
		WarehouseID: "W1",
		Items:       []dto.OrderItemInput{{ProductID: "P1", Quantity: 5}},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var out dto.OrderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "REJECTED", out.Status)
	assert.Equal(t, "insufficient stock for product P1", out.RejectionReason)
}

func TestOrderCreate_EmptyItems400(t *testing.T) {
	app, _ := buildOrderApp(t)

	resp := postOrder(t, app, dto.CreateOrderRequest{CustomerID: "C1", WarehouseID: "W1"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOrderGetByID(t *testing.T) {
	app, store := buildOrderApp(t)
	store.SeedEntry(entity.StockEntry{ProductID: "P1", WarehouseID: "W1", Quantity: 10})

	resp := postOrder(t, app, dto.CreateOrderRequest{
		CustomerID:  "C1",
		WarehouseID: "W1",
		Items:       []dto.OrderItemInput{{ProductID: "P1", Quantity: 1}},
	})
	var created dto.OrderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+created.ID, nil)
	getResp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer getResp.Body.Close()

	assert.Equal(t, http.StatusOK, getResp.StatusCode)

	var fetched dto.OrderResponse
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "COMPLETED", fetched.Status)

	// Unknown id -> 404
	missReq := httptest.NewRequest(http.MethodGet, "/api/orders/nope", nil)
	missResp, err := app.Test(missReq, -1)
	require.NoError(t, err)
	defer missResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, missResp.StatusCode)
}
