package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL   = "https://serpapi.com"
	DefaultTimeout   = 60 * time.Second
	DefaultUserAgent = "serpapi-go/0.1.0"

	// Source identifies this client to the service on every request.
	Source = "go"
)

// Params holds query parameters. Values are strings or primitives.
type Params map[string]any

// Recorder receives per-request measurements. internal/metrics provides a
// prometheus implementation.
type Recorder interface {
	RecordRequest(endpoint, status string, duration time.Duration)
	IncRequestsInFlight()
	DecRequestsInFlight()
}

type Config struct {
	BaseURL   string
	Timeout   time.Duration
	Retries   int
	UserAgent string
	Recorder  Recorder
}

// Result is a decoded response. Exactly one of JSON, HTML or Object is set,
// according to Mode.
type Result struct {
	Mode   Mode
	JSON   any
	HTML   string
	Object *Object
}

// Transport performs GET requests against the API over a single pooled client.
type Transport struct {
	baseURL   string
	userAgent string
	client    *retryablehttp.Client
	recorder  Recorder
	logger    *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Transport {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	// http.Client treats a non-positive timeout as none at all
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.Retries
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = newRetryLogger(logger)
	rc.CheckRetry = checkRetry
	// keep the final response so error bodies can be decoded
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Transport{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client:    rc,
		recorder:  cfg.Recorder,
		logger:    logger,
	}
}

// Do issues GET <base><path> with params plus the injected "output" and
// "source" keys, and decodes the body according to mode.
func (t *Transport) Do(ctx context.Context, path string, params Params, mode Mode) (*Result, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrUsage)
	}
	if mode == "" {
		mode = ModeJSON
	}

	if t.recorder != nil {
		t.recorder.IncRequestsInFlight()
		defer t.recorder.DecRequestsInFlight()
	}

	start := time.Now()
	res, status, err := t.do(ctx, path, params, mode)
	elapsed := time.Since(start)

	if t.recorder != nil {
		t.recorder.RecordRequest(endpointLabel(path), outcome(err), elapsed)
	}

	t.logger.Debug("serpapi request",
		zap.String("path", path),
		zap.String("mode", string(mode)),
		zap.Int("status", status),
		zap.Duration("duration", elapsed),
	)
	return res, err
}

func (t *Transport) do(ctx context.Context, path string, params Params, mode Mode) (*Result, int, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.URL.RawQuery = encodeQuery(params, mode).Encode()
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = redactURL(urlErr.URL)
		}
		return nil, 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := parseAPIError(resp.StatusCode, body)
		t.logger.Warn("serpapi request failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("error", apiErr.Message),
		)
		return nil, resp.StatusCode, apiErr
	}

	res, err := decode(body, mode)
	return res, resp.StatusCode, err
}

// checkRetry keeps retryablehttp's default policy but drops its status error
// once a response arrived; non-200 statuses are reported by decode.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	retry, checkErr := retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	if err == nil && resp != nil && ctx.Err() == nil {
		return retry, nil
	}
	return retry, checkErr
}

func encodeQuery(params Params, mode Mode) url.Values {
	q := make(url.Values, len(params)+2)
	for k, v := range params {
		if v == nil {
			continue
		}
		q.Set(k, formatValue(v))
	}
	q.Set("output", mode.Output())
	q.Set("source", Source)
	return q
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func parseAPIError(status int, body []byte) *APIError {
	var envelope map[string]any
	if err := sonic.Unmarshal(body, &envelope); err == nil {
		if msg, ok := envelope["error"].(string); ok {
			return &APIError{Status: status, Message: msg}
		}
	}
	return &APIError{Status: status, Message: string(body)}
}

func decode(body []byte, mode Mode) (*Result, error) {
	switch mode {
	case ModeJSON:
		var v any
		if err := sonic.Unmarshal(body, &v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return &Result{Mode: mode, JSON: v}, nil

	case ModeHTML:
		return &Result{Mode: mode, HTML: string(body)}, nil

	case ModeObject:
		var v any
		if err := sonic.Unmarshal(body, &v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return &Result{Mode: mode, Object: NewObject(v)}, nil

	default:
		return nil, fmt.Errorf("%w: got %q", ErrInvalidDecoder, string(mode))
	}
}

func endpointLabel(path string) string {
	if strings.HasPrefix(path, "/searches/") {
		return "/searches"
	}
	return path
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case isAPIError(err):
		return "api_error"
	case isUsageError(err):
		return "usage_error"
	default:
		return "error"
	}
}
