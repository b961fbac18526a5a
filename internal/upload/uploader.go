// Package upload sends image files to the object storage bucket.
// The bucket is exposed over HTTP: objects are written with a PUT to
// <baseURL>/<key> and are publicly readable at the same URL afterwards.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hayabusatrip/gateway/internal/domain"
)

// Storage uploads images to an HTTP-fronted object storage bucket.
type Storage struct {
	baseURL string
	http    *http.Client
}

// NewStorage constructs a Storage writing to the bucket at baseURL
// (scheme + host + optional path prefix, no trailing slash).
func NewStorage(baseURL string) *Storage {
	return &Storage{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload writes img to the bucket under key and returns the public URL of
// the stored object.
func (s *Storage) Upload(ctx context.Context, img domain.ImageFile, key string) (string, error) {
	url := s.baseURL + "/" + key

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(img.Data))
	if err != nil {
		return "", fmt.Errorf("upload.Storage.Upload: %w", err)
	}
	req.Header.Set("Content-Type", img.ContentType)

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload.Storage.Upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("upload.Storage.Upload: unexpected status %d", resp.StatusCode)
	}
	return url, nil
}

// TripImageKey builds the object key for a trip image owned by uid.
// The random suffix makes keys collision-free across repeated uploads.
func TripImageKey(uid string, img domain.ImageFile) string {
	return objectKey("trips", uid, img)
}

// UserIconKey builds the object key for a user icon owned by uid.
func UserIconKey(uid string, img domain.ImageFile) string {
	return objectKey("users", uid, img)
}

// objectKey forms "<prefix>/<uid>-<random>.<ext>", deriving the extension
// from the MIME subtype ("image/png" -> "png").
func objectKey(prefix, uid string, img domain.ImageFile) string {
	ext := "bin"
	if _, sub, ok := strings.Cut(img.ContentType, "/"); ok && sub != "" {
		ext = sub
	}
	return fmt.Sprintf("%s/%s-%s.%s", prefix, uid, uuid.NewString(), ext)
}
