package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Hard cap on product photo uploads
const maxUploadBytes = 10 << 20

// UploadImage accepts a product image and runs it through the provider
// chain. The response always carries a usable reference; a failed hosted
// upload degrades to an embedded or placeholder image instead of an error.
func UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}

	if file.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file too large"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open file"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	ref := Media.Upload(c.Request.Context(), data, file.Filename)

	c.JSON(http.StatusOK, gin.H{
		"url":       ref.URL,
		"public_id": ref.PublicID,
		"provider":  ref.Provider,
	})
}
