package webfont

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/collection-desk/internal/config"
)

// ErrNoFontURL is returned when the stylesheet does not reference any font file.
var ErrNoFontURL = errors.New("stylesheet has no font url")

var fontURLPattern = regexp.MustCompile(`url\(\s*['"]?([^'")]+)['"]?\s*\)`)

// Client downloads a web font through its CSS descriptor.
type Client interface {
	FetchFont(ctx context.Context) ([]byte, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	cssURL     string
}

// NewClient builds a web font client using the provided configuration values.
func NewClient(cfg config.FontConfig) *APIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	restyClient := resty.New().
		// A non-browser agent makes Google Fonts answer with TrueType instead of woff2.
		SetHeader("User-Agent", "collection-desk/1.0").
		SetTimeout(timeout)

	return &APIClient{httpClient: restyClient, cssURL: cfg.WebFontCSS}
}

// FetchFont loads the stylesheet, takes the first url(...) it declares and downloads it.
// There is exactly one attempt per call.
func (c *APIClient) FetchFont(ctx context.Context) ([]byte, error) {
	if c.cssURL == "" {
		return nil, errors.New("web font stylesheet url is empty")
	}

	cssResp, err := c.httpClient.R().SetContext(ctx).Get(c.cssURL)
	if err != nil {
		return nil, fmt.Errorf("fetch font stylesheet: %w", err)
	}
	if cssResp.IsError() {
		return nil, fmt.Errorf("font stylesheet status=%d", cssResp.StatusCode())
	}

	fontURL, err := FirstFontURL(cssResp.String())
	if err != nil {
		return nil, err
	}

	fontResp, err := c.httpClient.R().SetContext(ctx).Get(fontURL)
	if err != nil {
		return nil, fmt.Errorf("fetch font file: %w", err)
	}
	if fontResp.IsError() {
		return nil, fmt.Errorf("font file status=%d", fontResp.StatusCode())
	}

	body := fontResp.Body()
	if len(body) == 0 {
		return nil, errors.New("font file is empty")
	}
	return body, nil
}

// FirstFontURL extracts the first url(...) target of a stylesheet.
func FirstFontURL(css string) (string, error) {
	match := fontURLPattern.FindStringSubmatch(css)
	if len(match) < 2 {
		return "", ErrNoFontURL
	}
	return strings.TrimSpace(match[1]), nil
}
