package forecast

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const (
	// DefaultURL is the six-day summit forecast for Avoriaz.
	DefaultURL = "https://www.snow-forecast.com/resorts/Avoriaz/6day/top"

	defaultTimeout = 10 * time.Second

	// The site serves a reduced page to non-browser agents.
	browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// FetchError reports a failed forecast page request: either a transport error or a
// non-2xx status.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("GET %s returned status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client downloads and parses the forecast page.
type Client struct {
	url    string
	client *http.Client
}

// NewClient constructs a Client for pageURL. A zero timeout uses the 10-second default.
func NewClient(pageURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{url: pageURL, client: &http.Client{Timeout: timeout}}
}

// Fetch performs a single GET of the forecast page and parses it. It does not retry.
func (c *Client) Fetch(ctx context.Context) (*Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", c.url, err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: c.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: c.url, StatusCode: resp.StatusCode}
	}

	report, err := ParseReader(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: c.url, StatusCode: resp.StatusCode, Err: err}
	}
	return &report, nil
}
