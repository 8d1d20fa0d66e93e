package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

var Cloudinary *CloudinaryService

func InitializeCloudinary(cloudinaryURL string) error {
	if cloudinaryURL == "" {
		return fmt.Errorf("cloudinary URL is required")
	}

	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	Cloudinary = &CloudinaryService{cld: cld}
	return nil
}

func (cs *CloudinaryService) UploadImageFromBytes(ctx context.Context, data []byte, folder, filename string) (*uploader.UploadResult, error) {
	// Generate unique public ID
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	publicID := fmt.Sprintf("%s/%s_%d", folder, safeFileName(base), time.Now().UnixNano())

	result, err := cs.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     publicID,
		Folder:       folder,
		ResourceType: "image",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	// Normalize URLs to HTTPS to avoid production blocking
	if result != nil {
		if result.URL != "" {
			result.URL = forceHTTPS(result.URL)
		}
		if result.SecureURL != "" {
			result.SecureURL = forceHTTPS(result.SecureURL)
		} else if result.URL != "" {
			result.SecureURL = forceHTTPS(result.URL)
		}
	}

	return result, nil
}

func (cs *CloudinaryService) DeleteImage(ctx context.Context, publicID string) error {
	_, err := cs.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return nil
}

// ExtractPublicID pulls the public ID out of a Cloudinary delivery URL like
// https://res.cloudinary.com/account/image/upload/v1234567890/folder/file.jpg
func ExtractPublicID(url string) string {
	parts := strings.Split(url, "/")
	if len(parts) < 4 {
		return ""
	}

	for i, part := range parts {
		if part == "upload" && i+1 < len(parts) {
			path := strings.Join(parts[i+1:], "/")
			// Remove version prefix (v1234567890/)
			if strings.Contains(path, "/") {
				pathParts := strings.Split(path, "/")
				if len(pathParts) > 1 && strings.HasPrefix(pathParts[0], "v") {
					path = strings.Join(pathParts[1:], "/")
				}
			}
			return strings.TrimSuffix(path, filepath.Ext(path))
		}
	}

	return ""
}

// safeFileName strips characters Cloudinary public IDs cannot carry
func safeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() > 40 {
		return b.String()[:40]
	}
	return b.String()
}

// forceHTTPS ensures Cloudinary URLs use https scheme
func forceHTTPS(in string) string {
	if in == "" {
		return in
	}
	out := strings.TrimSpace(in)
	out = strings.Replace(out, "http://", "https://", 1)
	return out
}
