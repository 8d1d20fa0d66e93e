package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentneo/sureshment001/cart"
)

func setupCartRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	Carts = cart.NewManager(func(string) cart.Store { return cart.NewMemoryStore() })

	r := gin.New()
	r.GET("/cart", GetCart)
	r.PUT("/cart/update", UpdateCartItem)
	r.DELETE("/cart/remove/:productId", RemoveFromCart)
	r.DELETE("/cart/clear", ClearCart)
	return r
}

func doCartRequest(r *gin.Engine, method, path, body, session string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: cartSessionCookie, Value: session})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type cartBody struct {
	Items      []cart.LineItem `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice float64         `json:"total_price"`
}

func parseCartBody(t *testing.T, w *httptest.ResponseRecorder) cartBody {
	t.Helper()
	var body cartBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func seedCart(session string, items ...cart.Product) {
	ctx := context.Background()
	ct := Carts.Get(ctx, session)
	for _, p := range items {
		ct.AddItem(ctx, p, 1)
	}
}

func TestGetCartMintsSessionCookie(t *testing.T) {
	r := setupCartRouter(t)

	w := doCartRequest(r, http.MethodGet, "/cart", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	var found bool
	for _, ck := range cookies {
		if ck.Name == cartSessionCookie && ck.Value != "" {
			found = true
		}
	}
	assert.True(t, found, "first touch must mint a cart session cookie")
	assert.Equal(t, 0, parseCartBody(t, w).TotalItems)
}

func TestUpdateCartItemClampsToOne(t *testing.T) {
	r := setupCartRouter(t)
	seedCart("s1", cart.Product{ID: "A", Name: "Honey Bear", Price: 10})
	Carts.Get(context.Background(), "s1").UpdateQuantity(context.Background(), "A", 3)

	w := doCartRequest(r, http.MethodPut, "/cart/update", `{"product_id":"A","quantity":0}`, "s1")

	require.Equal(t, http.StatusOK, w.Code)
	body := parseCartBody(t, w)
	require.Len(t, body.Items, 1)
	assert.Equal(t, 1, body.Items[0].Quantity)
}

func TestUpdateCartItemUnknownIDIsNoOp(t *testing.T) {
	r := setupCartRouter(t)
	seedCart("s1", cart.Product{ID: "A", Name: "Honey Bear", Price: 10})

	w := doCartRequest(r, http.MethodPut, "/cart/update", `{"product_id":"missing","quantity":5}`, "s1")

	require.Equal(t, http.StatusOK, w.Code)
	body := parseCartBody(t, w)
	assert.Equal(t, 1, body.TotalItems)
}

func TestRemoveFromCart(t *testing.T) {
	r := setupCartRouter(t)
	seedCart("s1",
		cart.Product{ID: "A", Name: "Honey Bear", Price: 10},
		cart.Product{ID: "B", Name: "Panda", Price: 5},
	)

	w := doCartRequest(r, http.MethodDelete, "/cart/remove/A", "", "s1")

	require.Equal(t, http.StatusOK, w.Code)
	body := parseCartBody(t, w)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "B", body.Items[0].ProductID)
	assert.Equal(t, 5.0, body.TotalPrice)
}

func TestClearCart(t *testing.T) {
	r := setupCartRouter(t)
	seedCart("s1", cart.Product{ID: "A", Name: "Honey Bear", Price: 10})

	w := doCartRequest(r, http.MethodDelete, "/cart/clear", "", "s1")

	require.Equal(t, http.StatusOK, w.Code)
	body := parseCartBody(t, w)
	assert.Empty(t, body.Items)
	assert.Equal(t, 0, body.TotalItems)
	assert.Equal(t, 0.0, body.TotalPrice)
}

func TestCartsAreIsolatedPerSession(t *testing.T) {
	r := setupCartRouter(t)
	seedCart("s1", cart.Product{ID: "A", Name: "Honey Bear", Price: 10})

	w := doCartRequest(r, http.MethodGet, "/cart", "", "s2")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, parseCartBody(t, w).TotalItems)
}
