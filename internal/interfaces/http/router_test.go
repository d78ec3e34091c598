package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-market/internal/application/cash"
	"github.com/jhoicas/caja-market/internal/application/dto"
	"github.com/jhoicas/caja-market/internal/application/inventory"
	"github.com/jhoicas/caja-market/internal/application/sales"
	"github.com/jhoicas/caja-market/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/caja-market/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/caja-market/internal/interfaces/http"
)

// newAPI arma la API completa sobre el store en memoria con el catálogo demo
// (AGUA-625 es el producto 1, con 48 unidades).
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.New()
	repos := store.Repositories()
	runner := memory.NewTxRunner(store)
	log := zerolog.Nop()

	stock := inventory.NewStockLedger(runner, repos.Products, repos.StockMovements, 0, log)
	ledger := cash.NewLedger(runner, repos.CashMovements, log)
	sessions := cash.NewSessionManager(runner, repos.CashSessions, repos.CashMovements,
		infrapdf.NewMarotoReportGenerator(), decimal.Zero, "Gimnasio Test", log)
	_, err := stock.ImportCatalog(context.Background(), nil, inventory.DemoCatalog())
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		Sales:     sales.NewOrchestrator(runner, repos.Sales, stock, ledger, log),
		CashBook:  ledger,
		Sessions:  sessions,
		Stock:     stock,
		JWTSecret: testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func saleBody(qty int) map[string]interface{} {
	return map[string]interface{}{
		"buyer_kind": "visitante",
		"total":      "5.00",
		"method":     "efectivo",
		"items": []map[string]interface{}{
			{"product_id": 1, "quantity": qty, "unit_price": "2.50"},
		},
	}
}

func TestAPI_RequiereToken(t *testing.T) {
	resp := call(t, newAPI(t), http.MethodGet, "/api/sales", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_VentaYAnulacion(t *testing.T) {
	app := newAPI(t)

	resp := call(t, app, http.MethodPost, "/api/cash/sessions", "recepcion", map[string]interface{}{
		"opening": map[string]string{"efectivo": "100.00"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var opened dto.OpenSessionResult
	decode(t, resp, &opened)

	resp = call(t, app, http.MethodPost, "/api/sales", "recepcion", saleBody(2))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sale dto.SaleResult
	decode(t, resp, &sale)
	assert.Equal(t, "completada", sale.Status)

	resp = call(t, app, http.MethodGet, "/api/cash/sessions/current/balances", "recepcion", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var bal dto.SessionBalancesResponse
	decode(t, resp, &bal)
	assert.Equal(t, "105.00", bal.Expected.Efectivo.StringFixed(2))

	resp = call(t, app, http.MethodPost, "/api/cash/movements/1/reverse", "admin", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var saleMov dto.ErrorResponse
	decode(t, resp, &saleMov)
	assert.Equal(t, "SALE_MOVEMENT", saleMov.Code, "el ingreso de la venta se extorna anulando la venta")

	resp = call(t, app, http.MethodPost, "/api/sales/1/cancel", "recepcion", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/sales/1/cancel", "recepcion", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var errBody dto.ErrorResponse
	decode(t, resp, &errBody)
	assert.Equal(t, "ALREADY_CANCELLED", errBody.Code)

	resp = call(t, app, http.MethodGet, "/api/inventory/products/1/movements?limit=5", "recepcion", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var hist struct {
		Total     int                         `json:"total"`
		Movements []dto.StockMovementResponse `json:"movements"`
	}
	decode(t, resp, &hist)
	require.Equal(t, 3, hist.Total, "stock inicial, venta y anulación")
	assert.Equal(t, 48, hist.Movements[0].StockAfter)

	for _, kind := range []string{"venta", "venta_anulada"} {
		resp = call(t, app, http.MethodGet, "/api/inventory/references/"+kind+"/1/movements", "recepcion", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var byRef struct {
			Total int `json:"total"`
		}
		decode(t, resp, &byRef)
		assert.Equal(t, 1, byRef.Total, kind)
	}

	resp = call(t, app, http.MethodGet, "/api/inventory/references/compra/1/movements", "recepcion", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_StockInsuficiente409(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, http.MethodPost, "/api/sales", "recepcion", saleBody(1000))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var errBody dto.ErrorResponse
	decode(t, resp, &errBody)
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody.Code)
}

func TestAPI_ValidacionesDeVenta400(t *testing.T) {
	app := newAPI(t)
	body := saleBody(1)
	body["method"] = "tarjeta"

	resp := call(t, app, http.MethodPost, "/api/sales", "recepcion", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errBody dto.ErrorResponse
	decode(t, resp, &errBody)
	assert.Equal(t, "INVALID_METHOD", errBody.Code)

	resp = call(t, app, http.MethodGet, "/api/sales?from=2024-13-01", "recepcion", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_SoloAdminAjustaStockYExtorna(t *testing.T) {
	app := newAPI(t)
	adjust := map[string]interface{}{"product_id": 1, "type": "ajuste", "quantity": -3, "reason": "conteo"}

	resp := call(t, app, http.MethodPost, "/api/inventory/movements", "recepcion", adjust)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/inventory/movements", "admin", adjust)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var res dto.StockMovementResult
	decode(t, resp, &res)
	assert.Equal(t, 45, res.NewStock)

	resp = call(t, app, http.MethodPost, "/api/cash/movements", "recepcion", map[string]interface{}{
		"direction": "egreso", "category": "gasto", "method": "efectivo", "amount": "12.00", "description": "limpieza",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var mov dto.CashMovementResult
	decode(t, resp, &mov)
	assert.Nil(t, mov.SessionID, "sin caja abierta")

	resp = call(t, app, http.MethodPost, "/api/cash/movements/1/reverse", "recepcion", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/cash/movements/1/reverse", "admin", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_CierreYReporte(t *testing.T) {
	app := newAPI(t)

	resp := call(t, app, http.MethodPost, "/api/cash/sessions", "recepcion", map[string]interface{}{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/cash/sessions", "recepcion", map[string]interface{}{})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var errBody dto.ErrorResponse
	decode(t, resp, &errBody)
	assert.Equal(t, "SESSION_ALREADY_OPEN", errBody.Code)

	resp = call(t, app, http.MethodPost, "/api/cash/transfers", "recepcion", map[string]interface{}{
		"from": "efectivo", "to": "yape", "amount": "0",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/sales", "recepcion", saleBody(2))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/cash/sessions/1/close", "recepcion", map[string]interface{}{
		"counted": map[string]string{"efectivo": "4.00"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "las diferencias no son error")
	var closed dto.CloseSessionResult
	decode(t, resp, &closed)
	assert.Equal(t, "con_diferencias", closed.Status)
	assert.Equal(t, "-1.00", closed.Differences.Efectivo.StringFixed(2))

	resp = call(t, app, http.MethodPost, "/api/cash/sessions/1/close", "recepcion", map[string]interface{}{})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/cash/sessions/1/report", "recepcion", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "cierre-caja-1.pdf")
	pdf, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	resp = call(t, app, http.MethodGet, "/api/cash/sessions/current", "recepcion", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_BajoStock(t *testing.T) {
	resp := call(t, newAPI(t), http.MethodGet, "/api/inventory/low-stock", "recepcion", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Total    int                `json:"total"`
		Products []dto.LowStockItem `json:"products"`
	}
	decode(t, resp, &body)
	require.Equal(t, 1, body.Total)
	assert.Equal(t, "CANDADO", body.Products[0].SKU)
}
