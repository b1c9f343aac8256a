package transport

import "context"

// Fetcher retrieves a remote reconstruction document
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
