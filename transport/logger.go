package transport

import (
	"net/url"

	"go.uber.org/zap"
)

const redacted = "REDACTED"

// retryLogger adapts zap to retryablehttp.LeveledLogger. Request URLs carry
// the api_key, so they are redacted before logging.
type retryLogger struct {
	s *zap.SugaredLogger
}

func newRetryLogger(logger *zap.Logger) retryLogger {
	return retryLogger{s: logger.Named("retry").Sugar()}
}

func (l retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, redactFields(keysAndValues)...)
}

func (l retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Infow(msg, redactFields(keysAndValues)...)
}

func (l retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, redactFields(keysAndValues)...)
}

func (l retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.s.Warnw(msg, redactFields(keysAndValues)...)
}

func redactFields(kv []interface{}) []interface{} {
	out := make([]interface{}, len(kv))
	for i, v := range kv {
		switch val := v.(type) {
		case *url.URL:
			out[i] = redactURL(val.String())
		case string:
			out[i] = redactURL(val)
		default:
			out[i] = v
		}
	}
	return out
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery == "" {
		return raw
	}
	q := u.Query()
	if !q.Has("api_key") {
		return raw
	}
	q.Set("api_key", redacted)
	u.RawQuery = q.Encode()
	return u.String()
}
