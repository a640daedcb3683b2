package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	serpapi "github.com/kitbuilder587/serpapi-go"
)

var errBadParam = errors.New("invalid parameter")

// parseParams turns key=value arguments into search parameters.
func parseParams(args []string) (serpapi.Params, error) {
	params := make(serpapi.Params, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q, want key=value", errBadParam, arg)
		}
		params[key] = value
	}
	return params, nil
}

func (a *app) printResult(w io.Writer, res *serpapi.Result, path string) error {
	switch res.Mode {
	case serpapi.ModeHTML:
		return printRaw(w, res.HTML)
	case serpapi.ModeObject:
		obj := res.Object
		if path != "" {
			obj = obj.Path(path)
			if obj.IsNull() {
				return fmt.Errorf("%w: no value at path %q", errBadParam, path)
			}
		}
		if s, ok := obj.AsString(); ok {
			return printRaw(w, s)
		}
		return a.printValue(w, obj.Value())
	default:
		return a.printValue(w, res.JSON)
	}
}

func (a *app) printValue(w io.Writer, v any) error {
	var (
		out []byte
		err error
	)
	if a.format == "yaml" {
		out, err = yaml.Marshal(v)
	} else {
		out, err = sonic.ConfigStd.MarshalIndent(v, "", "  ")
		out = append(out, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = w.Write(out)
	return err
}

func printRaw(w io.Writer, s string) error {
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := io.WriteString(w, s)
	return err
}

// printSelection prints the trimmed text of every element matching selector,
// one per line.
func printSelection(w io.Writer, html, selector string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}

	var b strings.Builder
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			b.WriteString(text)
			b.WriteByte('\n')
		}
	})
	_, err = io.WriteString(w, b.String())
	return err
}
