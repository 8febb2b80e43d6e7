package ugc

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

	"ripple/internal/config"
)

const (
	defaultBaseURL     = "https://api.ugc.inc"
	defaultHTTPTimeout = 30 * time.Second
)

// Comment is the remote view of one submitted comment.
type Comment struct {
	ID          string `json:"id"`
	AccountID   string `json:"accountId"`
	PostURL     string `json:"postUrl"`
	CommentText string `json:"commentText"`
	Status      string `json:"status"`
	CommentURL  string `json:"commentUrl"`
	Error       string `json:"error"`
}

// Account is one posting account registered with the service.
type Account struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Username string `json:"username"`
	NickName string `json:"nick_name"`
	Status   string `json:"status"`
}

// Client talks to the comment submission API.
type Client struct {
	cfg        config.UGC
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

// NewClient constructs a submission client from the ugc section of the
// configuration.
func NewClient(cfg config.UGC, opts ...Option) *Client {
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

// The API wraps every response in a {code, data, message} envelope.
type envelope struct {
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// CreateComment queues one comment for posting and returns the external
// reference assigned by the service.
func (c *Client) CreateComment(ctx context.Context, accountID, postURL, commentText string) (string, error) {
	if strings.TrimSpace(accountID) == "" {
		return "", errors.New("ugc create: account id required")
	}
	if strings.TrimSpace(postURL) == "" || strings.TrimSpace(commentText) == "" {
		return "", errors.New("ugc create: post url and comment text required")
	}

	data, err := c.post(ctx, "/comment/create", map[string]any{
		"accountId":   accountID,
		"postUrl":     postURL,
		"commentText": commentText,
	})
	if err != nil {
		return "", fmt.Errorf("ugc create: %w", err)
	}

	var created struct {
		CommentID string `json:"commentId"`
	}
	if err := json.Unmarshal(data, &created); err != nil {
		return "", fmt.Errorf("ugc create: decode data: %w", err)
	}
	if created.CommentID == "" {
		return "", errors.New("ugc create: no comment id in response")
	}
	return created.CommentID, nil
}

// Comments fetches the remote state of the given comment references.
func (c *Client) Comments(ctx context.Context, commentIDs []string) ([]Comment, error) {
	if len(commentIDs) == 0 {
		return nil, nil
	}
	data, err := c.post(ctx, "/comment", map[string]any{"commentIds": commentIDs})
	if err != nil {
		return nil, fmt.Errorf("ugc comments: %w", err)
	}
	var comments []Comment
	if err := json.Unmarshal(data, &comments); err != nil {
		return nil, fmt.Errorf("ugc comments: decode data: %w", err)
	}
	return comments, nil
}

// CommentStatus fetches the remote state of a single comment.
func (c *Client) CommentStatus(ctx context.Context, commentID string) (*Comment, error) {
	comments, err := c.Comments(ctx, []string{commentID})
	if err != nil {
		return nil, err
	}
	for i := range comments {
		if comments[i].ID == commentID {
			return &comments[i], nil
		}
	}
	return nil, fmt.Errorf("ugc comments: comment %s not found", commentID)
}

// Accounts lists posting accounts that are ready for use.
func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	data, err := c.post(ctx, "/accounts", map[string]any{"status": "setup"})
	if err != nil {
		return nil, fmt.Errorf("ugc accounts: %w", err)
	}
	var accounts []Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("ugc accounts: decode data: %w", err)
	}
	return accounts, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, errors.New("api key required")
	}
	base := strings.TrimSpace(c.cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(base, "/")+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("empty response (http %d)", resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode envelope (http %d): %w", resp.StatusCode, err)
	}
	if env.Code != http.StatusOK {
		message := env.Message
		if message == "" {
			message = strings.TrimSpace(string(body))
		}
		return nil, fmt.Errorf("api error (code %d): %s", env.Code, message)
	}
	return env.Data, nil
}
