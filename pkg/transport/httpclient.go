package transport

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/richard-senior/sketchsvg/internal/logger"
)

const (
	// CABundleEnv names an optional PEM file appended to the system roots (corporate proxies)
	CABundleEnv  = "SKETCHSVG_CA_BUNDLE"
	maxRedirects = 10
	userAgent    = "sketchsvg/1.0"
)

// Client downloads reconstruction json over http(s)
type Client struct {
	http *http.Client
}

var _ Fetcher = (*Client)(nil)

// loadCABundle returns the extra CA bundle named by CABundleEnv, if any
func loadCABundle() ([]byte, error) {
	path := os.Getenv(CABundleEnv)
	if path == "" {
		return nil, nil
	}
	caCert, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA bundle %s: %w", path, err)
	}
	return caCert, nil
}

// NewClient returns a client with the given timeout and a custom TLS configuration
func NewClient(timeout time.Duration) *Client {
	rootCAs, err := x509.SystemCertPool()
	if err != nil {
		logger.Warn("Failed to get system cert pool", err)
		rootCAs = x509.NewCertPool()
	}

	bundle, err := loadCABundle()
	if err != nil {
		logger.Warn("Proceeding without extra CA bundle", err)
	} else if bundle != nil {
		if ok := rootCAs.AppendCertsFromPEM(bundle); !ok {
			logger.Warn("Failed to append CA bundle")
		} else {
			logger.Debug("Added CA bundle to root CAs")
		}
	}

	customTransport := &http.Transport{
		TLSClientConfig: &tls.Config{
			RootCAs: rootCAs,
		},
		Proxy: http.ProxyFromEnvironment,
	}

	return &Client{
		http: &http.Client{
			Transport: customTransport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
	}
}

// Fetch GETs url and returns the decoded body
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request for %s returned error status %d", url, resp.StatusCode)
	}

	reader, err := decodeBody(resp)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	return data, nil
}

// decodeBody unwraps the Content-Encoding of resp
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	contentEncoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	switch contentEncoding {
	case "gzip":
		logger.Debug("Handling gzip compressed content")
		r, err := NewGzipReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return r, nil
	case "deflate":
		logger.Debug("Handling deflate compressed content")
		return NewDeflateReader(resp.Body)
	case "br":
		logger.Debug("Handling brotli compressed content")
		return NewBrotliReader(resp.Body)
	case "", "identity":
		return io.NopCloser(resp.Body), nil
	default:
		logger.Warn("Unknown content encoding:", contentEncoding)
		return io.NopCloser(resp.Body), nil
	}
}

// NewGzipReader creates a gzip reader from the provided io.Reader
func NewGzipReader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

// NewDeflateReader creates a deflate reader from the provided io.Reader
func NewDeflateReader(r io.Reader) (io.ReadCloser, error) {
	return flate.NewReader(r), nil
}

// NewBrotliReader creates a brotli reader from the provided io.Reader
func NewBrotliReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(brotli.NewReader(r)), nil
}
