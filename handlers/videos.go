package handlers

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mentneo/sureshment001/models"
)

var youtubeIDPattern = regexp.MustCompile(`(?:v=|youtu\.be/)([\w-]{11})`)

// youtubeID extracts the 11-character video id from a YouTube watch or
// short-link URL; empty when none is found.
func youtubeID(url string) string {
	m := youtubeIDPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// GetVideos lists videos newest-first for the public videos page
func GetVideos(c *gin.Context) {
	rows, err := DB.Query(`SELECT id, COALESCE(title, ''), url, created_at FROM videos ORDER BY created_at DESC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch videos"})
		return
	}
	defer rows.Close()

	videos := []gin.H{}
	for rows.Next() {
		var v models.Video
		if err := rows.Scan(&v.ID, &v.Title, &v.URL, &v.CreatedAt); err != nil {
			continue
		}
		videos = append(videos, gin.H{
			"id":         v.ID,
			"title":      v.Title,
			"url":        v.URL,
			"youtube_id": youtubeID(v.URL),
			"created_at": v.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"videos": videos})
}

// CreateVideo adds a YouTube video to the public page (admin)
func CreateVideo(c *gin.Context) {
	var req struct {
		Title string `json:"title"`
		URL   string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if youtubeID(req.URL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is not a recognizable YouTube video link"})
		return
	}

	var v models.Video
	err := DB.QueryRow(
		`INSERT INTO videos (title, url) VALUES ($1, $2) RETURNING id, COALESCE(title, ''), url, created_at`,
		req.Title, req.URL,
	).Scan(&v.ID, &v.Title, &v.URL, &v.CreatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create video"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"video": v})
}

// DeleteVideo removes a video (admin)
func DeleteVideo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid video ID"})
		return
	}

	result, err := DB.Exec(`DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete video"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Video deleted successfully"})
}
