package mock

import (
	"context"
	"sync"
	"time"

	serpapi "github.com/kitbuilder587/serpapi-go"
	"github.com/kitbuilder587/serpapi-go/transport"
)

// Call records one invocation on the mock.
type Call struct {
	Op       string
	Params   serpapi.Params
	Mode     serpapi.Mode
	SearchID string
	APIKey   string
}

// Client is an in-memory serpapi.Searcher.
type Client struct {
	JSON        any
	HTMLBody    string
	Locations   []any
	AccountInfo map[string]any
	Error       error
	Delay       time.Duration

	CallCount int
	LastCall  Call
	AllCalls  []Call

	mu sync.Mutex
}

var _ serpapi.Searcher = (*Client)(nil)

func New() *Client {
	return &Client{}
}

func (c *Client) WithJSON(v any) *Client {
	c.JSON = v
	return c
}

func (c *Client) WithHTML(body string) *Client {
	c.HTMLBody = body
	return c
}

func (c *Client) WithLocations(locations []any) *Client {
	c.Locations = locations
	return c
}

func (c *Client) WithAccount(info map[string]any) *Client {
	c.AccountInfo = info
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

func (c *Client) record(ctx context.Context, call Call) error {
	c.mu.Lock()
	c.CallCount++
	c.LastCall = call
	c.AllCalls = append(c.AllCalls, call)
	delay := c.Delay
	err := c.Error
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}

func (c *Client) result(mode serpapi.Mode) (*serpapi.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch mode {
	case serpapi.ModeJSON, "":
		return &serpapi.Result{Mode: serpapi.ModeJSON, JSON: c.JSON}, nil
	case serpapi.ModeHTML:
		return &serpapi.Result{Mode: mode, HTML: c.HTMLBody}, nil
	case serpapi.ModeObject:
		return &serpapi.Result{Mode: mode, Object: transport.NewObject(c.JSON)}, nil
	default:
		return nil, serpapi.ErrInvalidDecoder
	}
}

func (c *Client) Search(ctx context.Context, params serpapi.Params, mode serpapi.Mode) (*serpapi.Result, error) {
	if err := c.record(ctx, Call{Op: "search", Params: params, Mode: mode}); err != nil {
		return nil, err
	}
	return c.result(mode)
}

func (c *Client) HTML(ctx context.Context, params serpapi.Params) (string, error) {
	if err := c.record(ctx, Call{Op: "html", Params: params, Mode: serpapi.ModeHTML}); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.HTMLBody, nil
}

func (c *Client) Location(ctx context.Context, params serpapi.Params) ([]any, error) {
	if err := c.record(ctx, Call{Op: "location", Params: params, Mode: serpapi.ModeJSON}); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Locations, nil
}

// SearchArchive rejects unsupported modes without recording a call, like the
// real client which never sends the request.
func (c *Client) SearchArchive(ctx context.Context, searchID string, mode serpapi.Mode) (*serpapi.Result, error) {
	if mode == "" {
		mode = serpapi.ModeJSON
	}
	if _, err := mode.Extension(); err != nil {
		return nil, err
	}
	if err := c.record(ctx, Call{Op: "archive", SearchID: searchID, Mode: mode}); err != nil {
		return nil, err
	}
	return c.result(mode)
}

func (c *Client) Account(ctx context.Context, apiKey string) (map[string]any, error) {
	if err := c.record(ctx, Call{Op: "account", APIKey: apiKey, Mode: serpapi.ModeJSON}); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.AccountInfo, nil
}

func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallCount = 0
	c.LastCall = Call{}
	c.AllCalls = nil
}
