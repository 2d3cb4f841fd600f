// Package apiclient talks to the guest, gift and purchase API that owns all
// persisted wedding data.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"casamento/internal/models"

	"github.com/rs/zerolog"
)

var (
	ErrGuestNotFound = errors.New("guest not found")
)

// StatusError is returned when the API answers with an unexpected status code
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Client is a typed client for the wedding API. Calls are bounded only by the
// request context; nothing is retried.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// New creates a client for the API rooted at baseURL. A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log.With().Str("component", "APIClient").Logger(),
	}
}

// GetGuest fetches the guest owning an invitation code.
// An unknown code yields ErrGuestNotFound.
func (c *Client) GetGuest(ctx context.Context, code string) (*models.Guest, error) {
	path := "/guests/me?invitation_code=" + url.QueryEscape(code)

	var guest models.Guest
	err := c.do(ctx, http.MethodGet, path, nil, &guest)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return nil, ErrGuestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

// UpdateGuest sends a partial update; only the non-nil fields of u are transmitted.
func (c *Client) UpdateGuest(ctx context.Context, u models.GuestUpdate) (*models.Guest, error) {
	var guest models.Guest
	err := c.do(ctx, http.MethodPut, "/guests", u, &guest)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return nil, ErrGuestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

// ListGifts returns the gift catalog
func (c *Client) ListGifts(ctx context.Context) ([]models.Gift, error) {
	var gifts []models.Gift
	if err := c.do(ctx, http.MethodGet, "/gifts", nil, &gifts); err != nil {
		return nil, err
	}
	return gifts, nil
}

// CreatePurchase registers a purchase and returns the payment preference id
func (c *Client) CreatePurchase(ctx context.Context, items []models.PurchaseItem) (string, error) {
	var resp models.PurchaseResponse
	if err := c.do(ctx, http.MethodPost, "/purchases", models.PurchaseRequest{Items: items}, &resp); err != nil {
		return "", err
	}
	if resp.Data.ID == "" {
		return "", fmt.Errorf("POST /purchases: response has no preference id")
	}
	return resp.Data.ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("API call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
