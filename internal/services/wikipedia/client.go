package wikipedia

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

	"github.com/asherwoodbury/wikidata-football-cleanup/internal/services"
)

const (
	defaultHTTPTimeout   = 30 * time.Second
	defaultRetryAttempts = 3
	defaultRetryBase     = 2 * time.Second
	defaultRetryMax      = 30 * time.Second
	defaultSearchLimit   = 3

	// The API caps pipe-separated title lists at fifty.
	maxBatchTitles = 50
)

// Config captures the runtime settings required to talk to the Wikipedia API.
type Config struct {
	APIURL      string
	UserAgent   string
	MaxRetries  int
	SearchLimit int
}

// Page is one article returned by the query API.
type Page struct {
	PageID       string
	Title        string
	URL          string
	Extract      string
	RevisionTime string
}

// Client wraps the MediaWiki query API.
type Client struct {
	cfg        Config
	httpClient *http.Client

	retryBase time.Duration
	retryMax  time.Duration
	sleeper   func(time.Duration)
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

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(base, max time.Duration) Option {
	return func(c *Client) {
		c.retryBase = base
		c.retryMax = max
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// NewClient constructs a Wikipedia client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	client := &Client{
		cfg: Config{
			APIURL:      strings.TrimSpace(cfg.APIURL),
			UserAgent:   strings.TrimSpace(cfg.UserAgent),
			MaxRetries:  cfg.MaxRetries,
			SearchLimit: cfg.SearchLimit,
		},
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		retryBase:  defaultRetryBase,
		retryMax:   defaultRetryMax,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.APIURL == "" {
		client.cfg.APIURL = "https://en.wikipedia.org/w/api.php"
	}
	if client.cfg.MaxRetries <= 0 {
		client.cfg.MaxRetries = defaultRetryAttempts
	}
	if client.cfg.SearchLimit <= 0 {
		client.cfg.SearchLimit = defaultSearchLimit
	}
	return client
}

type httpStatusError struct {
	StatusCode int
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("wikipedia request: http %d", e.StatusCode)
}

type queryResponse struct {
	Query struct {
		Pages map[string]struct {
			Title     string `json:"title"`
			FullURL   string `json:"fullurl"`
			Extract   string `json:"extract"`
			Revisions []struct {
				Timestamp string `json:"timestamp"`
			} `json:"revisions"`
		} `json:"pages"`
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// FetchByTitle fetches one article by exact title. Pages that do not exist
// return nil, nil; redirects are followed by the API.
func (c *Client) FetchByTitle(ctx context.Context, title string) (*Page, error) {
	pages, err := c.FetchBatch(ctx, []string{title})
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, nil
	}
	for _, page := range pages {
		return page, nil
	}
	return nil, nil
}

// FetchBatch fetches up to fifty articles in one API call, keyed by the
// title the API reports. Missing pages are simply absent from the result.
func (c *Client) FetchBatch(ctx context.Context, titles []string) (map[string]*Page, error) {
	cleaned := make([]string, 0, len(titles))
	for _, title := range titles {
		if title = strings.TrimSpace(title); title != "" {
			cleaned = append(cleaned, title)
		}
	}
	if len(cleaned) == 0 {
		return nil, nil
	}
	if len(cleaned) > maxBatchTitles {
		cleaned = cleaned[:maxBatchTitles]
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("titles", strings.Join(cleaned, "|"))
	params.Set("prop", "extracts|revisions|info")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")
	params.Set("rvprop", "timestamp")
	params.Set("inprop", "url")
	params.Set("format", "json")

	parsed, err := c.queryWithRetry(ctx, params, "fetch")
	if err != nil {
		return nil, err
	}

	results := make(map[string]*Page)
	for pageID, page := range parsed.Query.Pages {
		if pageID == "-1" || strings.HasPrefix(pageID, "-") {
			continue
		}
		result := &Page{
			PageID:  pageID,
			Title:   page.Title,
			URL:     page.FullURL,
			Extract: page.Extract,
		}
		if len(page.Revisions) > 0 {
			result.RevisionTime = page.Revisions[0].Timestamp
		}
		results[page.Title] = result
	}
	return results, nil
}

// Search runs a full-text search and returns candidate article titles.
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", strconv.Itoa(c.cfg.SearchLimit))
	params.Set("format", "json")

	parsed, err := c.queryWithRetry(ctx, params, "search")
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(parsed.Query.Search))
	for _, hit := range parsed.Query.Search {
		titles = append(titles, hit.Title)
	}
	return titles, nil
}

type parseResponse struct {
	Parse struct {
		Title string `json:"title"`
		Text  struct {
			Content string `json:"*"`
		} `json:"text"`
	} `json:"parse"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// FetchHTML fetches the rendered article body for infobox parsing. Pages
// that do not exist return "", nil.
func (c *Client) FetchHTML(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", nil
	}

	params := url.Values{}
	params.Set("action", "parse")
	params.Set("page", title)
	params.Set("prop", "text")
	params.Set("redirects", "1")
	params.Set("format", "json")

	body, err := c.getWithRetry(ctx, params, "parse")
	if err != nil {
		return "", err
	}
	parsed := &parseResponse{}
	if err := json.Unmarshal(body, parsed); err != nil {
		return "", services.Wrap(services.ErrTransient, "wikipedia", "parse", "decode response", err)
	}
	if parsed.Error != nil {
		if parsed.Error.Code == "missingtitle" {
			return "", nil
		}
		return "", services.Wrap(services.ErrTransient, "wikipedia", "parse", parsed.Error.Info, nil)
	}
	return parsed.Parse.Text.Content, nil
}

func (c *Client) queryWithRetry(ctx context.Context, params url.Values, op string) (*queryResponse, error) {
	body, err := c.getWithRetry(ctx, params, op)
	if err != nil {
		return nil, err
	}
	parsed := &queryResponse{}
	if err := json.Unmarshal(body, parsed); err != nil {
		return nil, services.Wrap(services.ErrTransient, "wikipedia", op, "decode response", err)
	}
	if parsed.Error != nil {
		return nil, services.Wrap(services.ErrTransient, "wikipedia", op, parsed.Error.Code+": "+parsed.Error.Info, nil)
	}
	return parsed, nil
}

func (c *Client) getWithRetry(ctx context.Context, params url.Values, op string) ([]byte, error) {
	attempts := c.cfg.MaxRetries
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		body, err := c.getOnce(ctx, params)
		if err == nil {
			return body, nil
		}
		lastErr = err

		delay, retry := c.retryDelay(ctx, err, attempt, attempts)
		if !retry {
			break
		}
		if err := c.sleep(ctx, delay); err != nil {
			return nil, services.Wrap(services.ErrTransient, "wikipedia", op, "retry interrupted", err)
		}
	}
	return nil, services.Wrap(services.ErrTransient, "wikipedia", op, fmt.Sprintf("failed after %d attempts", attempts), lastErr)
}

func (c *Client) getOnce(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("wikipedia request: new request: %w", err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia request: http error: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("wikipedia request: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, &httpStatusError{StatusCode: resp.StatusCode, RetryAfter: retryAfter}
	}
	return body, nil
}

func (c *Client) retryDelay(ctx context.Context, err error, attempt, maxAttempts int) (time.Duration, bool) {
	if attempt >= maxAttempts || ctx.Err() != nil {
		return 0, false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= http.StatusInternalServerError:
			if statusErr.RetryAfter > 0 {
				return c.capDelay(statusErr.RetryAfter), true
			}
			return c.backoffDelay(attempt), true
		default:
			return 0, false
		}
	}
	// Connection errors and timeouts get the standard backoff.
	return c.backoffDelay(attempt), true
}

// backoffDelay returns base * 2^(attempt-1) capped at the configured max.
func (c *Client) backoffDelay(attempt int) time.Duration {
	delay := c.retryBase
	for i := 1; i < attempt; i++ {
		if delay > c.retryMax/2 {
			delay = c.retryMax
			break
		}
		delay *= 2
	}
	return c.capDelay(delay)
}

func (c *Client) capDelay(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	if c.retryMax > 0 && delay > c.retryMax {
		return c.retryMax
	}
	return delay
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		delay := time.Until(when)
		if delay < 0 {
			return 0, false
		}
		return delay, true
	}
	return 0, false
}
