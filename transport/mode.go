package transport

import (
	"fmt"
	"strings"
)

// Mode selects how a response body is decoded.
type Mode string

const (
	ModeJSON   Mode = "json"
	ModeHTML   Mode = "html"
	ModeObject Mode = "object"
)

var supportedModes = []Mode{ModeJSON, ModeHTML, ModeObject}

func (m Mode) Valid() bool {
	for _, s := range supportedModes {
		if m == s {
			return true
		}
	}
	return false
}

// Output is the value sent as the "output" query parameter.
func (m Mode) Output() string {
	if m == ModeObject {
		return string(ModeJSON)
	}
	return string(m)
}

// Extension is the file extension used by the search archive endpoint.
func (m Mode) Extension() (string, error) {
	if !m.Valid() {
		return "", fmt.Errorf("%w: decoder must be json or html or object, got %q", ErrUsage, string(m))
	}
	return m.Output(), nil
}

func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return ModeJSON, nil
	}
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDecoder, s)
	}
	return m, nil
}
