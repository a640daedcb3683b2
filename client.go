package serpapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/serpapi-go/transport"
)

type Config struct {
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	Retries  int
	// Params are sent with every request unless the caller overrides them,
	// e.g. Params{"engine": "google", "hl": "en"}.
	Params   Params
	Recorder Recorder
}

// Client exposes the named SerpApi endpoints. It is safe for concurrent use;
// the stored API key is the only mutable state.
type Client struct {
	transport *transport.Transport
	logger    *zap.Logger
	defaults  Params

	mu     sync.RWMutex
	apiKey string
}

func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		transport: transport.New(transport.Config{
			BaseURL:  cfg.BaseURL,
			Timeout:  cfg.Timeout,
			Retries:  cfg.Retries,
			Recorder: cfg.Recorder,
		}, logger),
		logger:   logger,
		defaults: copyParams(cfg.Params),
		apiKey:   cfg.APIKey,
	}
}

// SetAPIKey replaces the key sent with every subsequent request.
func (c *Client) SetAPIKey(key string) {
	c.mu.Lock()
	c.apiKey = key
	c.mu.Unlock()

	c.logger.Debug("serpapi api key updated")
}

func (c *Client) APIKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey
}

// Search runs a search on /search. An empty mode means json.
func (c *Client) Search(ctx context.Context, params Params, mode Mode) (*Result, error) {
	return c.transport.Do(ctx, "/search", c.merge(params), mode)
}

// HTML returns the raw HTML results page for a search.
func (c *Client) HTML(ctx context.Context, params Params) (string, error) {
	res, err := c.transport.Do(ctx, "/search", c.merge(params), ModeHTML)
	if err != nil {
		return "", err
	}
	return res.HTML, nil
}

// Location queries the Locations API, e.g. Params{"q": "Austin", "limit": 3}.
func (c *Client) Location(ctx context.Context, params Params) ([]any, error) {
	res, err := c.transport.Do(ctx, "/locations.json", c.merge(params), ModeJSON)
	if err != nil {
		return nil, err
	}

	locations, ok := res.JSON.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: locations: got %T", ErrUnexpectedPayload, res.JSON)
	}
	return locations, nil
}

// SearchArchive fetches a previous search by id. The mode is checked before
// any request is sent.
func (c *Client) SearchArchive(ctx context.Context, searchID string, mode Mode) (*Result, error) {
	if mode == "" {
		mode = ModeJSON
	}
	ext, err := mode.Extension()
	if err != nil {
		return nil, err
	}

	searchID = strings.TrimSpace(searchID)
	if searchID == "" {
		return nil, fmt.Errorf("%w: empty search id", ErrUsage)
	}

	path := "/searches/" + url.PathEscape(searchID) + "." + ext
	return c.transport.Do(ctx, path, c.merge(nil), mode)
}

// Account returns account information. A non-empty apiKey is stored on the
// client first and used by every later call.
func (c *Client) Account(ctx context.Context, apiKey string) (map[string]any, error) {
	if apiKey != "" {
		c.SetAPIKey(apiKey)
	}

	res, err := c.transport.Do(ctx, "/account", c.merge(nil), ModeJSON)
	if err != nil {
		return nil, err
	}

	account, ok := res.JSON.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: account: got %T", ErrUnexpectedPayload, res.JSON)
	}
	return account, nil
}

// merge layers, lowest first: default params, the stored api_key, caller
// params. The transport adds output and source afterwards, so those always win.
func (c *Client) merge(params Params) Params {
	out := make(Params, len(c.defaults)+len(params)+1)
	for k, v := range c.defaults {
		out[k] = v
	}
	if key := c.APIKey(); key != "" {
		out["api_key"] = key
	}
	for k, v := range params {
		out[k] = v
	}
	return out
}

func copyParams(params Params) Params {
	out := make(Params, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
