package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"chaletbook/internal/domain/booking"
	"chaletbook/internal/domain/pricing"
)

// Client talks to the booking REST backend. All calls are context-bound
// and non-blocking for the caller's event loop; timeouts come from the
// underlying http.Client.
type Client struct {
	http    *http.Client
	baseURL string
	logger  *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Chalet fetches the detail record including reserved periods.
func (c *Client) Chalet(ctx context.Context, id string) (*Chalet, error) {
	var out Chalet
	if err := c.get(ctx, "/chalet/"+url.PathEscape(id), nil, &out); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, ErrChaletNotFound
		}
		return nil, err
	}
	return &out, nil
}

// SearchChalets queries the catalog with the active filter set.
func (c *Client) SearchChalets(ctx context.Context, filters booking.Filters, page int) (*CatalogPage, error) {
	q := url.Values{}
	if filters.City != "" {
		q.Set("city", filters.City)
	}
	if filters.Village != "" {
		q.Set("village", filters.Village)
	}
	if filters.Bedrooms > 0 {
		q.Set("bedrooms", strconv.Itoa(filters.Bedrooms))
	}
	if filters.Guests > 0 {
		q.Set("guests", strconv.Itoa(filters.Guests))
	}
	if filters.PriceMin > 0 {
		q.Set("priceMin", strconv.FormatFloat(filters.PriceMin, 'f', -1, 64))
	}
	if filters.PriceMax > 0 {
		q.Set("priceMax", strconv.FormatFloat(filters.PriceMax, 'f', -1, 64))
	}
	if len(filters.Features) > 0 {
		q.Set("features", strings.Join(filters.Features, ","))
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	var out CatalogPage
	if err := c.get(ctx, "/chalet", q, &out); err != nil {
		return nil, err
	}
	if out.Page == 0 {
		out.Page = page
	}
	return &out, nil
}

// ApplyCoupon resolves a code into a discount descriptor. Any non-2xx
// response or empty body maps to ErrInvalidCoupon; the code is sent
// exactly as received, no normalization.
func (c *Client) ApplyCoupon(ctx context.Context, req CouponRequest) (*pricing.Coupon, error) {
	var out pricing.Coupon
	if err := c.post(ctx, "/coupon/apply", req, &out); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			return nil, ErrInvalidCoupon
		}
		return nil, err
	}
	if out.Code == "" || out.Validate() != nil {
		return nil, ErrInvalidCoupon
	}
	return &out, nil
}

// SubmitBooking records a pending booking request.
func (c *Client) SubmitBooking(ctx context.Context, req BookingRequest) (*Receipt, error) {
	var out Receipt
	if err := c.post(ctx, "/booking", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("backend request failed", "method", req.Method, "url", req.URL.String(), "error", err)
		}
		return fmt.Errorf("backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		apiErr := &APIError{Status: resp.StatusCode, Message: extractMessage(snippet)}
		if c.logger != nil {
			c.logger.Warn("backend returned error", "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode, "message", apiErr.Message)
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return &APIError{Status: resp.StatusCode, Message: "empty response body"}
		}
		return fmt.Errorf("backend: decode response: %w", err)
	}
	return nil
}

// extractMessage pulls a {"message": ...} or {"error": ...} field out of
// an error body, falling back to the raw snippet.
func extractMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return strings.TrimSpace(string(body))
}
