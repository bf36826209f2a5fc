// Package apiclient is a typed HTTP client for the Wanderkart /api surface.
// It is the remote side of the reconcile package: WishlistRemote and
// CartRemote adapt it to reconcile.Remote.
//
// Every error response is expected as {"success": false, "message": "..."}.
// HTTP 401 is reported as an error wrapping domain.ErrUnauthorized; any other
// non-2xx status is an *APIError.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/pkordes/wanderkart/backend/internal/domain"
)

// APIError is a non-2xx, non-401 response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to one Wanderkart server. The session cookie set by Login is
// kept in the client's cookie jar.
type Client struct {
	base *url.URL
	http *http.Client
}

// New returns a Client for the server at baseURL (e.g. "http://localhost:8080").
// If hc is nil a client with a cookie jar and a 15s timeout is used.
func New(baseURL string, hc *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("apiclient.New: %w", err)
	}
	if hc == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("apiclient.New: cookie jar: %w", err)
		}
		hc = &http.Client{Jar: jar, Timeout: 15 * time.Second}
	}
	return &Client{base: u, http: hc}, nil
}

// envelope is the common response wrapper.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// do sends a JSON request and decodes a JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: %s %s: encode: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, rdr)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("apiclient: %s %s: %w", method, path, domain.ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		_ = json.Unmarshal(raw, &env)
		if env.Message == "" {
			env.Message = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("apiclient: %s %s: %w", method, path, &APIError{Status: resp.StatusCode, Message: env.Message})
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("apiclient: %s %s: decode: %w", method, path, err)
	}
	return nil
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
