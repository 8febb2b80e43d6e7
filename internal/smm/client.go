package smm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ripple/internal/config"
)

const (
	defaultBaseURL     = "https://amazingsmm.com/api/v2"
	defaultQuantity    = 100
	defaultHTTPTimeout = 30 * time.Second
)

// OrderStatus is the remote state of one boost order.
type OrderStatus struct {
	Status  string
	Charge  string
	Remains string
}

// Completed reports whether the panel finished delivering the order.
func (s OrderStatus) Completed() bool {
	return strings.EqualFold(strings.TrimSpace(s.Status), "Completed")
}

// Failed reports whether the panel gave up on the order.
func (s OrderStatus) Failed() bool {
	switch strings.ToLower(strings.TrimSpace(s.Status)) {
	case "canceled", "cancelled", "refunded":
		return true
	default:
		return false
	}
}

// Client talks to the boost panel API.
type Client struct {
	cfg        config.SMM
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a boost client from the smm section of the
// configuration.
func NewClient(cfg config.SMM, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Quantity returns the configured likes-per-order amount.
func (c *Client) Quantity() int {
	if c.cfg.BoostQuantity > 0 {
		return c.cfg.BoostQuantity
	}
	return defaultQuantity
}

// OrderCommentLikes places one boost order for the comment identified by
// the post link and commenting username. It returns the panel's order
// reference.
func (c *Client) OrderCommentLikes(ctx context.Context, link, username string, quantity int) (string, error) {
	if strings.TrimSpace(c.cfg.ServiceID) == "" {
		return "", errors.New("smm order: service id required")
	}
	if strings.TrimSpace(link) == "" || strings.TrimSpace(username) == "" {
		return "", errors.New("smm order: link and username required")
	}
	if quantity <= 0 {
		quantity = c.Quantity()
	}

	form := url.Values{}
	form.Set("action", "add")
	form.Set("service", c.cfg.ServiceID)
	form.Set("link", link)
	form.Set("quantity", strconv.Itoa(quantity))
	form.Set("username", username)

	var placed struct {
		Order json.Number `json:"order"`
		Error string      `json:"error"`
	}
	if err := c.post(ctx, form, &placed); err != nil {
		return "", fmt.Errorf("smm order: %w", err)
	}
	if placed.Error != "" {
		return "", fmt.Errorf("smm order: api error: %s", placed.Error)
	}
	order := placed.Order.String()
	if order == "" {
		return "", errors.New("smm order: no order id in response")
	}
	return order, nil
}

// CheckOrder fetches the remote state of one boost order.
func (c *Client) CheckOrder(ctx context.Context, orderRef string) (OrderStatus, error) {
	var empty OrderStatus
	if strings.TrimSpace(orderRef) == "" {
		return empty, errors.New("smm status: order ref required")
	}

	form := url.Values{}
	form.Set("action", "status")
	form.Set("order", orderRef)

	var checked struct {
		Status  string `json:"status"`
		Charge  string `json:"charge"`
		Remains string `json:"remains"`
		Error   string `json:"error"`
	}
	if err := c.post(ctx, form, &checked); err != nil {
		return empty, fmt.Errorf("smm status: %w", err)
	}
	if checked.Error != "" {
		return empty, fmt.Errorf("smm status: api error: %s", checked.Error)
	}
	if checked.Status == "" {
		return empty, errors.New("smm status: no status in response")
	}
	return OrderStatus{Status: checked.Status, Charge: checked.Charge, Remains: checked.Remains}, nil
}

func (c *Client) post(ctx context.Context, form url.Values, target any) error {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return errors.New("api key required")
	}
	form.Set("key", c.cfg.APIKey)

	endpoint := strings.TrimSpace(c.cfg.BaseURL)
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
