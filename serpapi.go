// Package serpapi is a client for the SerpApi search results API
// (https://serpapi.com). Every operation performs a single GET request and
// decodes the response as JSON, raw HTML or a dynamic Object.
package serpapi

import (
	"context"

	"github.com/kitbuilder587/serpapi-go/transport"
)

type (
	Params   = transport.Params
	Mode     = transport.Mode
	Result   = transport.Result
	Object   = transport.Object
	Kind     = transport.Kind
	APIError = transport.APIError
	Recorder = transport.Recorder
)

const (
	ModeJSON   = transport.ModeJSON
	ModeHTML   = transport.ModeHTML
	ModeObject = transport.ModeObject
)

var (
	ErrUsage             = transport.ErrUsage
	ErrAPI               = transport.ErrAPI
	ErrDecode            = transport.ErrDecode
	ErrInvalidDecoder    = transport.ErrInvalidDecoder
	ErrUnexpectedPayload = transport.ErrUnexpectedPayload
)

// Searcher is implemented by *Client and by mock.Client.
type Searcher interface {
	Search(ctx context.Context, params Params, mode Mode) (*Result, error)
	HTML(ctx context.Context, params Params) (string, error)
	Location(ctx context.Context, params Params) ([]any, error)
	SearchArchive(ctx context.Context, searchID string, mode Mode) (*Result, error)
	Account(ctx context.Context, apiKey string) (map[string]any, error)
}

var _ Searcher = (*Client)(nil)
