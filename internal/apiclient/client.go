// Package apiclient talks to the kitchen HTTP API on behalf of the storefront
// and the admin tools.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"hannas-kitchen/internal/models"
)

// NetworkError is returned when a call to the API fails for any reason:
// transport failure, timeout or a non-2xx response.
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: server responded %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetwork reports whether err is a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// Image is an optional file attached to a new menu item.
type Image struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Client is a thin JSON client for /api.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the API at baseURL. A nil httpClient gets a
// client with a 15 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// ListItems fetches the menu.
func (c *Client) ListItems(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := c.getJSON(ctx, "list items", "/api/items", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListOrders fetches every order with resolved item names.
func (c *Client) ListOrders(ctx context.Context) ([]models.ResolvedOrder, error) {
	var orders []models.ResolvedOrder
	if err := c.getJSON(ctx, "list orders", "/api/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateOrder submits an order.
func (c *Client) CreateOrder(ctx context.Context, req models.CreateOrderRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}
	return c.send(ctx, "place order", "/api/orders", "application/json", bytes.NewReader(body))
}

// AddItem posts a multipart item form. Fields are sent as given; image may be nil.
func (c *Client) AddItem(ctx context.Context, fields map[string]string, image *Image) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, key := range []string{"name", "price", "category", "tags"} {
		if err := w.WriteField(key, fields[key]); err != nil {
			return fmt.Errorf("encode item form: %w", err)
		}
	}
	if image != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, image.Filename))
		ct := image.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return fmt.Errorf("encode item image: %w", err)
		}
		if _, err := io.Copy(part, image.Body); err != nil {
			return fmt.Errorf("read item image: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("encode item form: %w", err)
	}
	return c.send(ctx, "add item", "/api/items", w.FormDataContentType(), &buf)
}

func (c *Client) getJSON(ctx context.Context, op, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	resp, err := c.do(op, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) send(ctx context.Context, op, path, contentType string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.do(op, req)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}

// do executes req and turns non-2xx responses into a NetworkError carrying
// the server's error message.
func (c *Client) do(op string, req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		var payload struct {
			Error string `json:"error"`
		}
		msg := http.StatusText(resp.StatusCode)
		if json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&payload) == nil && payload.Error != "" {
			msg = payload.Error
		}
		return nil, &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(msg)}
	}
	return resp, nil
}
