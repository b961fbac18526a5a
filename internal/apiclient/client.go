// Package apiclient implements the typed client for the upstream trip API.
// It is the sole translation boundary between transport failures and the
// fixed set of domain failure kinds: every operation catches transport and
// server errors at the call boundary and re-raises the matching
// domain.Err* sentinel, so nothing above this package ever inspects a raw
// HTTP error.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hayabusatrip/gateway/internal/domain"
)

// Uploader sends an image to object storage and returns its public URL.
// Implemented by upload.Storage; defined here because the client is the
// consumer: an image accompanying an update is uploaded first and only the
// resulting URL is attached to the record, never the file itself.
type Uploader interface {
	Upload(ctx context.Context, img domain.ImageFile, key string) (string, error)
}

// Client issues authenticated REST calls against the upstream trip API.
// Each call carries the user's id token as a bearer credential.
type Client struct {
	baseURL  string
	http     *http.Client
	uploader Uploader
}

// New constructs a Client for the API at baseURL. uploader handles the
// image side effect of update operations; pass nil when the caller never
// attaches images (tests, read-only tooling).
func New(baseURL string, uploader Uploader) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 10 * time.Second},
		uploader: uploader,
	}
}

// errNoUploader reports an image attachment on a client built without an
// uploader. Reaching it is a wiring bug, not a user error.
var errNoUploader = errors.New("no uploader configured")

// do performs one JSON round trip. A non-nil body is marshalled into the
// request; a non-nil out receives the decoded response. A 404 surfaces as
// domain.ErrNotFound; any other failure is returned raw for the calling
// operation to translate into its failure kind.
func (c *Client) do(ctx context.Context, method, path, idToken string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idToken != "" {
		req.Header.Set("Authorization", "Bearer "+idToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// translate folds err into the operation's failure kind. A 404 keeps its
// domain.ErrNotFound identity so handlers can distinguish a missing record
// from an upstream outage; everything else becomes kind, with the
// underlying cause preserved in the message for logs only.
func translate(op string, err, kind error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %v: %w", op, err, kind)
}
