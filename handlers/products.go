package handlers

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mentneo/sureshment001/models"
	"github.com/mentneo/sureshment001/services"
)

// GetProducts lists the catalog. Supports the storefront's category filter
// and price/newest sorting.
func GetProducts(c *gin.Context) {
	query := `SELECT id, name, description, price, category, size, color, in_stock,
	                 COALESCE(image_url, ''), COALESCE(image_public_id, ''), COALESCE(image_provider, 'default'),
	                 created_at, updated_at
	          FROM products`
	args := []interface{}{}

	if category := c.Query("category"); category != "" && category != "all" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}

	switch c.Query("sort") {
	case "price-low":
		query += ` ORDER BY price ASC`
	case "price-high":
		query += ` ORDER BY price DESC`
	default:
		query += ` ORDER BY created_at DESC`
	}

	rows, err := DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
			&p.Size, &p.Color, &p.InStock, &p.ImageURL, &p.ImagePublicID,
			&p.ImageProvider, &p.CreatedAt, &p.UpdatedAt); err != nil {
			continue
		}
		products = append(products, p)
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct returns one product; an absent id is an empty state, not a failure page
func GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var p models.Product
	query := `SELECT id, name, description, price, category, size, color, in_stock,
	                 COALESCE(image_url, ''), COALESCE(image_public_id, ''), COALESCE(image_provider, 'default'),
	                 created_at, updated_at
	          FROM products WHERE id = $1`
	err = DB.QueryRow(query, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price,
		&p.Category, &p.Size, &p.Color, &p.InStock, &p.ImageURL, &p.ImagePublicID,
		&p.ImageProvider, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": p})
}

type productRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" binding:"min=0"`
	Category      string  `json:"category" binding:"required"`
	Size          string  `json:"size"`
	Color         string  `json:"color"`
	InStock       *bool   `json:"in_stock"`
	ImageURL      string  `json:"image_url"`
	ImagePublicID string  `json:"image_public_id"`
	ImageProvider string  `json:"image_provider"`
}

// CreateProduct adds a catalog entry (admin)
func CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}
	if req.ImageURL == "" {
		ref := Media.DefaultRef()
		req.ImageURL = ref.URL
		req.ImagePublicID = ref.PublicID
		req.ImageProvider = ref.Provider
	}

	var p models.Product
	insertQuery := `INSERT INTO products (name, description, price, category, size, color, in_stock, image_url, image_public_id, image_provider)
	                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	                RETURNING id, name, description, price, category, size, color, in_stock,
	                          image_url, image_public_id, image_provider, created_at, updated_at`
	err := DB.QueryRow(insertQuery, req.Name, req.Description, req.Price, req.Category,
		req.Size, req.Color, inStock, req.ImageURL, req.ImagePublicID, req.ImageProvider).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Size, &p.Color,
		&p.InStock, &p.ImageURL, &p.ImagePublicID, &p.ImageProvider, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": p})
}

// UpdateProduct edits a catalog entry (admin)
func UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}

	updateQuery := `UPDATE products
	                SET name = $1, description = $2, price = $3, category = $4,
	                    size = $5, color = $6, in_stock = $7,
	                    image_url = COALESCE(NULLIF($8, ''), image_url),
	                    image_public_id = COALESCE(NULLIF($9, ''), image_public_id),
	                    image_provider = COALESCE(NULLIF($10, ''), image_provider),
	                    updated_at = now()
	                WHERE id = $11`
	result, err := DB.Exec(updateQuery, req.Name, req.Description, req.Price, req.Category,
		req.Size, req.Color, inStock, req.ImageURL, req.ImagePublicID, req.ImageProvider, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
}

// DeleteProduct removes a catalog entry (admin) and best-effort cleans up
// its hosted image
func DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var publicID, provider string
	err = DB.QueryRow(`SELECT COALESCE(image_public_id, ''), COALESCE(image_provider, '') FROM products WHERE id = $1`, id).
		Scan(&publicID, &provider)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	if _, err := DB.Exec(`DELETE FROM products WHERE id = $1`, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	if provider == services.ProviderHosted && publicID != "" && services.Cloudinary != nil {
		if err := services.Cloudinary.DeleteImage(context.Background(), publicID); err != nil {
			log.Printf("Failed to delete hosted image %s: %v", publicID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// GetCategories returns the distinct categories present in the catalog
func GetCategories(c *gin.Context) {
	rows, err := DB.Query(`SELECT DISTINCT category FROM products WHERE category <> '' ORDER BY category`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			continue
		}
		categories = append(categories, category)
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
