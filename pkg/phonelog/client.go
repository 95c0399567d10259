// Package phonelog retrieves console logs from the web interface of SCCP desk
// phones.
package phonelog

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/gzhttp"
)

// IndexPath is the path of the console log listing page on the device.
const IndexPath = "/CGI/Java/Serviceability?adapter=device.statistics.consolelog"

var defaultClient = &http.Client{
	Transport: gzhttp.Transport(http.DefaultTransport),
}

// Client fetches pages and files from a device over plain HTTP.
type Client struct {
	Client    *http.Client
	UserAgent string
}

// IndexURL returns the url of the console log listing page on host.
func IndexURL(host string) string {
	return "http://" + host + IndexPath
}

// LogURL returns the url of the log file href on host.
func LogURL(host, href string) string {
	return "http://" + host + "/" + strings.TrimLeft(href, "/")
}

// Index gets the console log listing page from host.
func (c *Client) Index(ctx context.Context, host string) ([]byte, error) {
	resp, err := c.Open(ctx, IndexURL(host))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", resp.Request.URL, err)
	}
	return buf, nil
}

// Open issues a GET request for u. The caller must close the response body. A
// non-2xx response is returned as an error.
func (c *Client) Open(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", u, err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	resp, err := cmp.Or(c.Client, defaultClient).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", u, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, fmt.Errorf("fetch %q: %w", u, statusCodeError(resp))
	}
	return resp, nil
}

func statusCodeError(resp *http.Response) error {
	if buf, _ := io.ReadAll(io.LimitReader(resp.Body, 1024)); len(buf) != 0 && utf8.Valid(buf) {
		return fmt.Errorf("response status %d (body: %q)", resp.StatusCode, buf)
	}
	return fmt.Errorf("response status %d", resp.StatusCode)
}
