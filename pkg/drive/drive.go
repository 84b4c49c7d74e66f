// Package drive talks to the remote document store. It exposes the two
// capabilities the pipeline needs, listing the immediate children of a
// folder (paginated) and fetching a document's content, plus the error
// classification the backoff client keys on.
package drive

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Item is one entry of a folder listing.
type Item struct {
	ID           string
	Name         string
	MimeType     string
	Size         int64
	ModifiedTime time.Time
}

// Page is one page of a folder listing. An empty NextPageToken means the
// listing is complete.
type Page struct {
	Items         []Item
	NextPageToken string
}

// Lister lists the immediate children of a folder, one page at a time.
type Lister interface {
	ListChildren(ctx context.Context, folderID, pageToken string) (*Page, error)
}

// ContentFetcher retrieves the raw bytes of a document. Native documents
// are exported to an extractable representation; uploaded files are
// downloaded as-is.
type ContentFetcher interface {
	FetchContent(ctx context.Context, fileID, mimeType string) ([]byte, error)
}

// RateLimitError signals the upstream rejected a call for quota reasons.
// These calls are worth retrying with backoff.
type RateLimitError struct {
	StatusCode int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("upstream rate limit (status %d)", e.StatusCode)
}

// UpstreamError is any other non-success response. It is not retried.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error (status %d): %s", e.StatusCode, e.Body)
}

// IsRateLimited reports whether err is a retryable rate-limit signal.
func IsRateLimited(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

// classifyStatus converts a non-2xx response status into a typed error.
// 403 and 429 are how the upstream signals quota exhaustion.
func classifyStatus(status int, body string) error {
	if status == http.StatusForbidden || status == http.StatusTooManyRequests {
		return &RateLimitError{StatusCode: status}
	}
	return &UpstreamError{StatusCode: status, Body: body}
}
