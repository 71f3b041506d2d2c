package fetch

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/shopscout/backend/internal/domain"
)

// headerProfile is one realistic browser identity. A profile is picked at
// random per request so successive calls do not present a uniform
// fingerprint; there is no session affinity between calls.
type headerProfile struct {
	userAgent string
	secChUA   string
	platform  string
}

var headerProfiles = []headerProfile{
	{
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
		secChUA:   `"Not_A Brand";v="8", "Chromium";v="131", "Google Chrome";v="131"`,
		platform:  `"Windows"`,
	},
	{
		userAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
		secChUA:   `"Not_A Brand";v="8", "Chromium";v="131", "Google Chrome";v="131"`,
		platform:  `"macOS"`,
	},
	{
		userAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
		secChUA:   `"Not_A Brand";v="8", "Chromium";v="131", "Google Chrome";v="131"`,
		platform:  `"Linux"`,
	},
}

// Response is a fully-read HTTP response body with its status.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the response carries a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client issues timeout-bounded GET requests with rotating browser-identity
// headers. It performs no retries; retry policy belongs to callers.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a fetch client.
func NewClient() *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		// Accept-Encoding is set explicitly (including br), so decompression
		// is handled here rather than by the transport.
		DisableCompression: true,
	}

	return &Client{
		httpClient: &http.Client{Transport: transport},
	}
}

// Get fetches a URL with a hard wall-clock timeout, cancelling the
// underlying request when the deadline passes. Extra headers override the
// profile's defaults. Failures map to domain.ErrTimeout for deadline
// expiry and domain.ErrNetwork for transport errors.
func (c *Client) Get(ctx context.Context, rawURL string, timeout time.Duration, extra http.Header) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}

	profile := headerProfiles[rand.Intn(len(headerProfiles))]
	req.Header.Set("User-Agent", profile.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Sec-Ch-Ua", profile.secChUA)
	req.Header.Set("Sec-Ch-Ua-Mobile", "?0")
	req.Header.Set("Sec-Ch-Ua-Platform", profile.platform)

	for key, values := range extra {
		for _, v := range values {
			req.Header.Set(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyError(rawURL, err)
	}
	defer resp.Body.Close()

	reader, err := decompressReader(resp.Header.Get("Content-Encoding"), resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress %s: %v", domain.ErrNetwork, rawURL, err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, classifyError(rawURL, err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// classifyError maps a transport failure to the domain error taxonomy.
func classifyError(url string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", domain.ErrTimeout, url)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s", domain.ErrTimeout, url)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrNetwork, url, err)
}

// decompressReader wraps a body reader with the appropriate decompressor.
// Handles gzip, deflate, and brotli (br) encodings.
func decompressReader(encoding string, body io.Reader) (io.Reader, error) {
	switch encoding {
	case "gzip":
		return gzip.NewReader(body)
	case "deflate":
		return flate.NewReader(body), nil
	case "br":
		return brotli.NewReader(body), nil
	default:
		return body, nil
	}
}
