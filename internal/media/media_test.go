package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ona-rest/ona/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		upload  Upload
		max     int64
		wantErr error
	}{
		{name: "png", upload: Upload{Filename: "a.png", Data: pngBytes}, max: 1024},
		{name: "empty", upload: Upload{Filename: "a.png"}, max: 1024, wantErr: ErrEmpty},
		{name: "too large", upload: Upload{Filename: "a.png", Data: pngBytes}, max: 10, wantErr: ErrTooLarge},
		{name: "text", upload: Upload{Filename: "a.png", Data: []byte("hello world")}, max: 1024, wantErr: ErrNotImage},
		{name: "svg", upload: Upload{Filename: "a.svg", Data: []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"></svg>`)}, max: 1024, wantErr: ErrNotImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.upload
			err := Validate(&u, tt.max)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "image/png", u.ContentType)
		})
	}
}

func newTestCloudinary(t *testing.T, handler http.HandlerFunc) *Cloudinary {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewCloudinary(CloudinaryConfig{
		BaseURL:   srv.URL,
		CloudName: "ona",
		APIKey:    "key",
		APISecret: "secret",
		Folder:    "ona-news",
		Timeout:   5 * time.Second,
	})
	c.now = func() time.Time { return time.Unix(1700000000, 0) }
	return c
}

func TestCloudinaryUpload(t *testing.T) {
	c := newTestCloudinary(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ona/image/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "key", r.FormValue("api_key"))
		assert.Equal(t, "ona-news", r.FormValue("folder"))
		assert.Equal(t, "1700000000", r.FormValue("timestamp"))
		want := utils.SignParams(map[string]string{"folder": "ona-news", "timestamp": "1700000000"}, "secret")
		assert.Equal(t, want, r.FormValue("signature"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "dish.png", header.Filename)
		assert.True(t, bytes.Equal(pngBytes, data))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"secure_url": "https://res.cloudinary.com/ona/image/upload/v1/ona-news/abc.png",
			"public_id":  "ona-news/abc",
		})
	})

	asset, err := c.Upload(context.Background(), Upload{Filename: "dish.png", ContentType: "image/png", Data: pngBytes})
	require.NoError(t, err)
	assert.Equal(t, "ona-news/abc", asset.PublicID)
	assert.Contains(t, asset.URL, "https://res.cloudinary.com/")
}

func TestCloudinaryUploadError(t *testing.T) {
	c := newTestCloudinary(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
	})

	_, err := c.Upload(context.Background(), Upload{Filename: "dish.png", Data: pngBytes})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid Signature")
}

func TestCloudinaryDelete(t *testing.T) {
	for _, result := range []string{"ok", "not found"} {
		t.Run(result, func(t *testing.T) {
			c := newTestCloudinary(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/ona/image/destroy", r.URL.Path)
				require.NoError(t, r.ParseForm())
				assert.Equal(t, "ona-news/abc", r.FormValue("public_id"))
				want := utils.SignParams(map[string]string{"public_id": "ona-news/abc", "timestamp": "1700000000"}, "secret")
				assert.Equal(t, want, r.FormValue("signature"))

				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]string{"result": result})
			})
			assert.NoError(t, c.Delete(context.Background(), "ona-news/abc"))
		})
	}
}

func TestCloudinaryDeleteUnexpectedResult(t *testing.T) {
	c := newTestCloudinary(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"error"}`))
	})
	assert.Error(t, c.Delete(context.Background(), "ona-news/abc"))
}

type fakeObjectAPI struct {
	put     *s3.PutObjectInput
	deleted *s3.DeleteObjectInput
	err     error
}

func (f *fakeObjectAPI) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	return &s3.PutObjectOutput{}, f.err
}

func (f *fakeObjectAPI) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = in
	return &s3.DeleteObjectOutput{}, f.err
}

func TestR2UploadAndDelete(t *testing.T) {
	api := &fakeObjectAPI{}
	r := newR2(api, R2Config{Bucket: "ona", PublicURL: "https://cdn.example.com/", Folder: "/ona-news/"})
	r.newID = func() string { return "fixed" }

	asset, err := r.Upload(context.Background(), Upload{Filename: "dish.PNG", ContentType: "image/png", Data: pngBytes})
	require.NoError(t, err)

	assert.Equal(t, "ona-news/fixed.png", asset.PublicID)
	assert.Equal(t, "https://cdn.example.com/ona-news/fixed.png", asset.URL)
	assert.Equal(t, "ona", aws.ToString(api.put.Bucket))
	assert.Equal(t, "image/png", aws.ToString(api.put.ContentType))

	require.NoError(t, r.Delete(context.Background(), asset.PublicID))
	assert.Equal(t, "ona-news/fixed.png", aws.ToString(api.deleted.Key))
}

func TestR2UploadError(t *testing.T) {
	api := &fakeObjectAPI{err: errors.New("boom")}
	r := newR2(api, R2Config{Bucket: "ona", PublicURL: "https://cdn.example.com"})

	_, err := r.Upload(context.Background(), Upload{Filename: "a.png", ContentType: "image/png", Data: pngBytes})
	assert.Error(t, err)
}
