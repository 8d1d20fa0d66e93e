package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware checks if the user is an admin. A failed role lookup is
// treated as "no elevated role", not as a server error.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
			c.Abort()
			return
		}

		if lookupRole(userID.(string)) != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminDashboard returns the store-wide numbers the admin landing page shows
func AdminDashboard(c *gin.Context) {
	var totalProducts, totalOrders, pendingOrders int
	var totalRevenue float64

	if err := DB.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&totalProducts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard stats"})
		return
	}
	if err := DB.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&totalOrders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard stats"})
		return
	}
	// Pending includes processing: anything still needing admin attention
	err := DB.QueryRow(
		`SELECT COUNT(*) FROM orders WHERE status IN ('pending', 'processing')`,
	).Scan(&pendingOrders)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard stats"})
		return
	}
	if err := DB.QueryRow(`SELECT COALESCE(SUM(total_amount), 0) FROM orders`).Scan(&totalRevenue); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard stats"})
		return
	}

	recentQuery := `SELECT id, user_email, status, total_amount, created_at
	                FROM orders ORDER BY created_at DESC LIMIT 5`
	rows, err := DB.Query(recentQuery)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load recent orders"})
		return
	}
	defer rows.Close()

	var recentOrders []gin.H
	for rows.Next() {
		var id, userEmail, status string
		var totalAmount float64
		var createdAt time.Time
		if err := rows.Scan(&id, &userEmail, &status, &totalAmount, &createdAt); err != nil {
			continue
		}
		recentOrders = append(recentOrders, gin.H{
			"id":           id,
			"user_email":   userEmail,
			"status":       status,
			"total_amount": totalAmount,
			"created_at":   createdAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"total_products": totalProducts,
		"total_orders":   totalOrders,
		"pending_orders": pendingOrders,
		"total_revenue":  totalRevenue,
		"recent_orders":  recentOrders,
	})
}
