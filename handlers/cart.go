package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mentneo/sureshment001/cart"
)

const cartSessionCookie = "cart_session"

// cartSession resolves the session id owning the cart, minting a cookie for
// first-time visitors. Guests keep their cart across reloads the same way
// signed-in users do; the cart belongs to the browser session, not the
// account.
func cartSession(c *gin.Context) string {
	if sid, err := c.Cookie(cartSessionCookie); err == nil && sid != "" {
		return sid
	}
	sid := uuid.New().String()
	c.SetCookie(cartSessionCookie, sid, 30*24*3600, "/", "", false, true)
	return sid
}

func sessionCart(c *gin.Context) *cart.Container {
	return Carts.Get(c.Request.Context(), cartSession(c))
}

func cartResponse(ct *cart.Container) gin.H {
	totals := ct.Totals()
	return gin.H{
		"items":       ct.Items(),
		"total_items": totals.TotalItems,
		"total_price": totals.TotalPrice,
	}
}

// GetCart returns the session's items and derived totals
func GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, cartResponse(sessionCart(c)))
}

// AddToCart puts a catalog product into the session cart. A quantity below 1
// is clamped, not rejected.
func AddToCart(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	// Snapshot name/price/image at add time so the line item survives later
	// catalog edits
	var name, imageURL string
	var price float64
	query := `SELECT name, price, COALESCE(image_url, '') FROM products WHERE id = $1`
	err = DB.QueryRow(query, productID).Scan(&name, &price, &imageURL)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	ct := sessionCart(c)
	ct.AddItem(c.Request.Context(), cart.Product{
		ID:       req.ProductID,
		Name:     name,
		Price:    price,
		ImageURL: imageURL,
	}, req.Quantity)

	c.JSON(http.StatusOK, cartResponse(ct))
}

// UpdateCartItem replaces a line item's quantity. Unknown ids are a no-op;
// values below 1 clamp to 1.
func UpdateCartItem(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ct := sessionCart(c)
	ct.UpdateQuantity(c.Request.Context(), req.ProductID, req.Quantity)

	c.JSON(http.StatusOK, cartResponse(ct))
}

// RemoveFromCart drops a line item; removing an absent id changes nothing
func RemoveFromCart(c *gin.Context) {
	ct := sessionCart(c)
	ct.RemoveItem(c.Request.Context(), c.Param("productId"))

	c.JSON(http.StatusOK, cartResponse(ct))
}

// ClearCart empties the session cart
func ClearCart(c *gin.Context) {
	ct := sessionCart(c)
	ct.Clear(c.Request.Context())

	c.JSON(http.StatusOK, cartResponse(ct))
}
