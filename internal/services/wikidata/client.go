package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/asherwoodbury/wikidata-football-cleanup/internal/services"
)

const defaultHTTPTimeout = 15 * time.Second

// Config captures the runtime settings required to talk to the Wikidata API.
type Config struct {
	APIURL    string
	UserAgent string
}

// Client wraps the wbgetentities endpoint.
type Client struct {
	cfg        Config
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

// NewClient constructs a Wikidata client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	client := &Client{
		cfg: Config{
			APIURL:    strings.TrimSpace(cfg.APIURL),
			UserAgent: strings.TrimSpace(cfg.UserAgent),
		},
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.APIURL == "" {
		client.cfg.APIURL = "https://www.wikidata.org/w/api.php"
	}
	return client
}

type entitiesResponse struct {
	Entities map[string]struct {
		Missing   *string `json:"missing"`
		Sitelinks map[string]struct {
			Title string `json:"title"`
		} `json:"sitelinks"`
	} `json:"entities"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// Sitelink returns the English Wikipedia article title linked from the
// entity, or "" when the entity has no enwiki sitelink. A missing entity is
// reported as services.ErrNotFound.
func (c *Client) Sitelink(ctx context.Context, qid string) (string, error) {
	qid = strings.TrimSpace(qid)
	if qid == "" {
		return "", services.Wrap(services.ErrValidation, "wikidata", "sitelink", "qid required", nil)
	}

	params := url.Values{}
	params.Set("action", "wbgetentities")
	params.Set("ids", qid)
	params.Set("props", "sitelinks")
	params.Set("sitefilter", "enwiki")
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "wikidata", "sitelink", "new request", err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "wikidata", "sitelink", "http error", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "wikidata", "sitelink", "read body", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrTransient, "wikidata", "sitelink", fmt.Sprintf("http %d", resp.StatusCode), nil)
	}

	var parsed entitiesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", services.Wrap(services.ErrTransient, "wikidata", "sitelink", "decode response", err)
	}
	if parsed.Error != nil {
		if parsed.Error.Code == "no-such-entity" {
			return "", services.Wrap(services.ErrNotFound, "wikidata", "sitelink", qid, nil)
		}
		return "", services.Wrap(services.ErrTransient, "wikidata", "sitelink", parsed.Error.Info, nil)
	}

	entity, ok := parsed.Entities[qid]
	if !ok {
		return "", services.Wrap(services.ErrNotFound, "wikidata", "sitelink", qid, nil)
	}
	if entity.Missing != nil {
		return "", services.Wrap(services.ErrNotFound, "wikidata", "sitelink", qid, nil)
	}
	if link, ok := entity.Sitelinks["enwiki"]; ok {
		return link.Title, nil
	}
	return "", nil
}
