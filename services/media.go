package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
)

// Image providers, in fallback order.
const (
	ProviderHosted   = "hosted"
	ProviderEmbedded = "embedded"
	ProviderDefault  = "default"
)

// ImageRef is the stored reference to an uploaded image.
type ImageRef struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Provider string `json:"provider"`
}

// UploadProvider is one strategy in the upload fallback chain.
type UploadProvider interface {
	Name() string
	Upload(ctx context.Context, data []byte, filename string) (ImageRef, error)
}

// MediaService uploads product images through an ordered list of providers:
// hosted upload first, an embedded data URI when hosting is unavailable, and
// a fixed placeholder when everything else fails. Upload never returns an
// error to the caller.
type MediaService struct {
	providers []UploadProvider
	fallback  ImageRef
}

func NewMediaService(defaultImageURL string, providers ...UploadProvider) *MediaService {
	return &MediaService{
		providers: providers,
		fallback: ImageRef{
			URL:      defaultImageURL,
			PublicID: "default-teddy",
			Provider: ProviderDefault,
		},
	}
}

// Upload tries each provider in order and returns the first success. Empty
// input skips straight to the default placeholder.
func (m *MediaService) Upload(ctx context.Context, data []byte, filename string) ImageRef {
	if len(data) == 0 {
		return m.fallback
	}

	for _, p := range m.providers {
		ref, err := p.Upload(ctx, data, filename)
		if err != nil {
			log.Printf("media: %s upload failed for %s: %v", p.Name(), filename, err)
			continue
		}
		return ref
	}

	return m.fallback
}

// DefaultRef returns the placeholder reference used when no image exists.
func (m *MediaService) DefaultRef() ImageRef {
	return m.fallback
}

// hostedProvider uploads to Cloudinary.
type hostedProvider struct {
	cld    *CloudinaryService
	folder string
}

func NewHostedProvider(cld *CloudinaryService, folder string) UploadProvider {
	return &hostedProvider{cld: cld, folder: folder}
}

func (p *hostedProvider) Name() string { return ProviderHosted }

func (p *hostedProvider) Upload(ctx context.Context, data []byte, filename string) (ImageRef, error) {
	if p.cld == nil {
		return ImageRef{}, fmt.Errorf("cloudinary not initialized")
	}

	result, err := p.cld.UploadImageFromBytes(ctx, data, p.folder, filename)
	if err != nil {
		return ImageRef{}, err
	}

	url := result.SecureURL
	if url == "" {
		url = result.URL
	}
	return ImageRef{URL: url, PublicID: result.PublicID, Provider: ProviderHosted}, nil
}

// embeddedProvider inlines the image as a base64 data URI. Self-contained,
// so it works with no external hosting at all, but only for small images.
type embeddedProvider struct {
	maxBytes int
}

func NewEmbeddedProvider(maxBytes int) UploadProvider {
	return &embeddedProvider{maxBytes: maxBytes}
}

func (p *embeddedProvider) Name() string { return ProviderEmbedded }

func (p *embeddedProvider) Upload(ctx context.Context, data []byte, filename string) (ImageRef, error) {
	if len(data) > p.maxBytes {
		return ImageRef{}, fmt.Errorf("image too large to embed: %d bytes (max %d)", len(data), p.maxBytes)
	}

	contentType := http.DetectContentType(data)
	uri := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
	return ImageRef{URL: uri, PublicID: "embedded_" + safeFileName(filename), Provider: ProviderEmbedded}, nil
}
