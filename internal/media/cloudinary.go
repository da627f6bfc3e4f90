package media

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ona-rest/ona/internal/utils"
)

// CloudinaryConfig configures the Cloudinary upload API client
type CloudinaryConfig struct {
	BaseURL   string
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	Timeout   time.Duration
}

// Cloudinary hosts images through the Cloudinary REST upload API
type Cloudinary struct {
	client *resty.Client
	cfg    CloudinaryConfig
	now    func() time.Time
}

type cloudinaryUploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

type cloudinaryDestroyResponse struct {
	Result string `json:"result"`
}

type cloudinaryError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewCloudinary(cfg CloudinaryConfig) *Cloudinary {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.cloudinary.com/v1_1"
	}

	return &Cloudinary{
		client: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(cfg.Timeout),
		cfg: cfg,
		now: time.Now,
	}
}

// signed adds api_key, timestamp and signature to the params
func (c *Cloudinary) signed(params map[string]string) map[string]string {
	params["timestamp"] = strconv.FormatInt(c.now().Unix(), 10)
	params["signature"] = utils.SignParams(params, c.cfg.APISecret)
	params["api_key"] = c.cfg.APIKey
	return params
}

// Upload streams the image to Cloudinary under the configured folder
func (c *Cloudinary) Upload(ctx context.Context, u Upload) (*Asset, error) {
	params := c.signed(map[string]string{"folder": c.cfg.Folder})

	var result cloudinaryUploadResponse
	var apiErr cloudinaryError
	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(params).
		SetFileReader("file", u.Filename, bytes.NewReader(u.Data)).
		SetResult(&result).
		SetError(&apiErr).
		Post(fmt.Sprintf("/%s/image/upload", c.cfg.CloudName))

	if err != nil {
		return nil, fmt.Errorf("cloudinary upload request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("cloudinary upload failed with status %d: %s", resp.StatusCode(), apiErr.Error.Message)
	}
	if result.SecureURL == "" || result.PublicID == "" {
		return nil, fmt.Errorf("cloudinary upload returned no asset")
	}

	return &Asset{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

// Delete destroys the asset. A "not found" result counts as deleted.
func (c *Cloudinary) Delete(ctx context.Context, publicID string) error {
	params := c.signed(map[string]string{"public_id": publicID})

	var result cloudinaryDestroyResponse
	var apiErr cloudinaryError
	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(params).
		SetResult(&result).
		SetError(&apiErr).
		Post(fmt.Sprintf("/%s/image/destroy", c.cfg.CloudName))

	if err != nil {
		return fmt.Errorf("cloudinary destroy request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("cloudinary destroy failed with status %d: %s", resp.StatusCode(), apiErr.Error.Message)
	}

	switch result.Result {
	case "ok", "not found":
		return nil
	default:
		return fmt.Errorf("cloudinary destroy returned %q", result.Result)
	}
}
