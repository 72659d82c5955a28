package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megatonytrader/express-entregas-zap/internal/cart"
)

func cartRouter(t *testing.T) (*gin.Engine, *cart.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := cart.NewMemoryStore()
	h := NewCartHandler(store)

	r := gin.New()
	r.GET("/v1/cart", h.Get)
	r.POST("/v1/cart/items", h.AddItem)
	r.PATCH("/v1/cart/items/:id", h.UpdateQuantity)
	r.DELETE("/v1/cart/items/:id", h.RemoveItem)
	r.DELETE("/v1/cart", h.Clear)
	return r, store
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeCart(t *testing.T, w *httptest.ResponseRecorder) cartResp {
	t.Helper()
	var resp cartResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCartHandler_AddItemSetsSessionCookie(t *testing.T) {
	r, _ := cartRouter(t)

	w := doJSON(t, r, http.MethodPost, "/v1/cart/items",
		`{"product_id":"p1","product_name":"X-Burger","unit_price_cents":1000,"quantity":2}`, "")

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, sessionCookie, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)

	resp := decodeCart(t, w)
	assert.Equal(t, 2, resp.ItemCount)
	assert.Equal(t, int64(2000), resp.TotalCents)
	assert.Equal(t, "R$ 20.00", resp.Total)
	assert.Contains(t, resp.Message, "X-Burger foi adicionado")
}

func TestCartHandler_CartSurvivesAcrossRequests(t *testing.T) {
	r, _ := cartRouter(t)

	doJSON(t, r, http.MethodPost, "/v1/cart/items",
		`{"product_id":"p1","product_name":"X-Burger","unit_price_cents":1000}`, "sess-1")
	doJSON(t, r, http.MethodPost, "/v1/cart/items",
		`{"product_id":"p1","product_name":"X-Burger","unit_price_cents":1000}`, "sess-1")

	w := doJSON(t, r, http.MethodGet, "/v1/cart", "", "sess-1")
	resp := decodeCart(t, w)
	require.Len(t, resp.Lines, 1, "same configuration merges across requests")
	assert.Equal(t, 2, resp.Lines[0].Quantity)
}

func TestCartHandler_SessionsAreIsolated(t *testing.T) {
	r, _ := cartRouter(t)

	doJSON(t, r, http.MethodPost, "/v1/cart/items",
		`{"product_id":"p1","product_name":"X-Burger","unit_price_cents":1000}`, "sess-a")

	w := doJSON(t, r, http.MethodGet, "/v1/cart", "", "sess-b")
	resp := decodeCart(t, w)
	assert.Empty(t, resp.Lines)
}

func TestCartHandler_UpdateQuantityToZeroRemoves(t *testing.T) {
	r, _ := cartRouter(t)

	w := doJSON(t, r, http.MethodPost, "/v1/cart/items",
		`{"product_id":"p1","product_name":"X-Burger","unit_price_cents":1000}`, "sess-1")
	lineID := decodeCart(t, w).Lines[0].ID

	w = doJSON(t, r, http.MethodPatch, "/v1/cart/items/"+lineID, `{"quantity":0}`, "sess-1")
	resp := decodeCart(t, w)
	assert.Empty(t, resp.Lines)
	assert.Contains(t, resp.Message, "removido")
}

func TestCartHandler_Clear(t *testing.T) {
	r, _ := cartRouter(t)

	doJSON(t, r, http.MethodPost, "/v1/cart/items",
		`{"product_id":"p1","product_name":"X-Burger","unit_price_cents":1000}`, "sess-1")

	w := doJSON(t, r, http.MethodDelete, "/v1/cart", "", "sess-1")
	resp := decodeCart(t, w)
	assert.Empty(t, resp.Lines)
	assert.Equal(t, int64(0), resp.TotalCents)

	w = doJSON(t, r, http.MethodGet, "/v1/cart", "", "sess-1")
	assert.Empty(t, decodeCart(t, w).Lines)
}

func TestCartHandler_AddItemRejectsBadBody(t *testing.T) {
	r, _ := cartRouter(t)

	w := doJSON(t, r, http.MethodPost, "/v1/cart/items", `{"quantity":1}`, "sess-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
