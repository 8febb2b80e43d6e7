package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ripple/internal/config"
)

const (
	defaultBaseURL     = "https://api.scrapecreators.com"
	defaultRegion      = "US"
	defaultLimit       = 10
	defaultHTTPTimeout = 30 * time.Second
)

// Video is one discovered content unit as returned by the scraping API.
type Video struct {
	ExternalID   string
	Description  string
	CoverURL     string
	PlayURL      string
	Author       string
	DiggCount    int64
	CommentCount int64
	PlayCount    int64
	ShareCount   int64
	PostedAt     time.Time
}

// Client talks to the discovery API.
type Client struct {
	cfg        config.Scrape
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

// NewClient constructs a discovery client from the scrape section of the
// configuration.
func NewClient(cfg config.Scrape, opts ...Option) *Client {
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

// ProfileVideos returns the latest videos posted by one profile handle.
func (c *Client) ProfileVideos(ctx context.Context, handle string) ([]Video, error) {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return nil, errors.New("scrape: profile handle required")
	}
	query := url.Values{}
	query.Set("handle", handle)
	query.Set("sort_by", "latest")
	videos, err := c.fetch(ctx, "/v3/tiktok/profile/videos", query, handle)
	if err != nil {
		return nil, fmt.Errorf("scrape profile %q: %w", handle, err)
	}
	return videos, nil
}

// HashtagVideos returns recent videos found under one hashtag.
func (c *Client) HashtagVideos(ctx context.Context, hashtag string) ([]Video, error) {
	hashtag = strings.TrimPrefix(strings.TrimSpace(hashtag), "#")
	if hashtag == "" {
		return nil, errors.New("scrape: hashtag required")
	}
	region := strings.TrimSpace(c.cfg.Region)
	if region == "" {
		region = defaultRegion
	}
	query := url.Values{}
	query.Set("hashtag", hashtag)
	query.Set("region", region)
	videos, err := c.fetch(ctx, "/v1/tiktok/search/hashtag", query, "")
	if err != nil {
		return nil, fmt.Errorf("scrape hashtag %q: %w", hashtag, err)
	}
	return videos, nil
}

type awemeListResponse struct {
	AwemeList []awemeEntry `json:"aweme_list"`
}

type awemeEntry struct {
	AwemeID    string `json:"aweme_id"`
	Desc       string `json:"desc"`
	CreateTime int64  `json:"create_time"`
	Author     struct {
		UniqueID string `json:"unique_id"`
	} `json:"author"`
	Statistics struct {
		DiggCount    int64 `json:"digg_count"`
		CommentCount int64 `json:"comment_count"`
		PlayCount    int64 `json:"play_count"`
		ShareCount   int64 `json:"share_count"`
	} `json:"statistics"`
	Video struct {
		Cover struct {
			URLList []string `json:"url_list"`
		} `json:"cover"`
		PlayAddr struct {
			URLList []string `json:"url_list"`
		} `json:"play_addr"`
	} `json:"video"`
}

func (c *Client) fetch(ctx context.Context, path string, query url.Values, fallbackAuthor string) ([]Video, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, errors.New("api key required")
	}
	base := strings.TrimSpace(c.cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	endpoint := strings.TrimRight(base, "/") + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("x-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload awemeListResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	limit := c.cfg.DiscoveryLimit
	if limit <= 0 {
		limit = defaultLimit
	}
	videos := make([]Video, 0, len(payload.AwemeList))
	for _, entry := range payload.AwemeList {
		if len(videos) >= limit {
			break
		}
		if entry.AwemeID == "" {
			continue
		}
		video := Video{
			ExternalID:   entry.AwemeID,
			Description:  entry.Desc,
			Author:       entry.Author.UniqueID,
			DiggCount:    entry.Statistics.DiggCount,
			CommentCount: entry.Statistics.CommentCount,
			PlayCount:    entry.Statistics.PlayCount,
			ShareCount:   entry.Statistics.ShareCount,
		}
		if video.Author == "" {
			video.Author = fallbackAuthor
		}
		if len(entry.Video.Cover.URLList) > 0 {
			video.CoverURL = entry.Video.Cover.URLList[0]
		}
		if len(entry.Video.PlayAddr.URLList) > 0 {
			video.PlayURL = entry.Video.PlayAddr.URLList[0]
		}
		if entry.CreateTime > 0 {
			video.PostedAt = time.Unix(entry.CreateTime, 0).UTC()
		}
		videos = append(videos, video)
	}
	return videos, nil
}
