package media

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ona-rest/ona/internal/config"
)

var (
	// ErrTooLarge is returned when the upload exceeds the configured size
	ErrTooLarge = errors.New("file too large")
	// ErrNotImage is returned when the upload is not an image
	ErrNotImage = errors.New("file is not an image")
	// ErrEmpty is returned when the upload carries no bytes
	ErrEmpty = errors.New("file is empty")
)

// Upload is an image received from the admin panel
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Asset is a hosted image
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Host stores and removes hosted images
type Host interface {
	Upload(ctx context.Context, u Upload) (*Asset, error)
	// Delete removes the asset; deleting an unknown asset is not an error
	Delete(ctx context.Context, publicID string) error
}

// New builds the Host selected by cfg.ImageProvider
func New(ctx context.Context, cfg *config.Config) (Host, error) {
	switch cfg.ImageProvider {
	case config.ProviderCloudinary:
		return NewCloudinary(CloudinaryConfig{
			BaseURL:   cfg.CloudinaryBaseURL,
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.ImageFolder,
			Timeout:   cfg.HTTPTimeout,
		}), nil
	case config.ProviderR2:
		return NewR2(ctx, R2Config{
			Endpoint:  cfg.R2Endpoint,
			AccessKey: cfg.R2AccessKey,
			SecretKey: cfg.R2SecretKey,
			Bucket:    cfg.R2Bucket,
			PublicURL: cfg.R2PublicURL,
			Folder:    cfg.ImageFolder,
		})
	default:
		return nil, fmt.Errorf("unknown image provider %q", cfg.ImageProvider)
	}
}

// Validate checks the upload against the size limit and sniffs its content type.
// The sniffed type replaces whatever the client claimed.
func Validate(u *Upload, maxSize int64) error {
	if len(u.Data) == 0 {
		return ErrEmpty
	}
	if int64(len(u.Data)) > maxSize {
		return ErrTooLarge
	}

	sniffed := http.DetectContentType(u.Data)
	// SVG sniffs as text/xml and is rejected along with everything else
	if !strings.HasPrefix(sniffed, "image/") {
		return ErrNotImage
	}
	u.ContentType = sniffed
	return nil
}

// extension picks the object extension from the sniffed content type, falling back to the filename
func extension(u Upload) string {
	switch u.ContentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return strings.ToLower(filepath.Ext(u.Filename))
}
