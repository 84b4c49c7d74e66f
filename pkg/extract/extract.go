// Package extract converts a remote document into raw text.
//
// The Adapter is the pipeline's capability boundary: given a document handle
// and its declared format, return text or fail with a typed error. The
// DriveAdapter implementation fetches bytes through the backoff client and
// dispatches on format.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/daringdolphin/curate/models"
	"github.com/daringdolphin/curate/pkg/backoff"
	"github.com/daringdolphin/curate/pkg/drive"
)

// Typed extraction failures. Callers distinguish these from upstream
// retrieval errors via errors.Is.
var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrEmptyDocument     = errors.New("document appears to be empty or corrupted")
)

// Adapter extracts raw text from one document.
type Adapter interface {
	Extract(ctx context.Context, fileID, mimeType string) (string, error)
}

// DriveAdapter fetches document bytes from the remote store and extracts
// text according to the declared format.
type DriveAdapter struct {
	fetcher drive.ContentFetcher
	policy  *backoff.Policy
	logger  *slog.Logger
}

// NewDriveAdapter builds an adapter over the given content fetcher.
func NewDriveAdapter(fetcher drive.ContentFetcher, policy *backoff.Policy, logger *slog.Logger) *DriveAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DriveAdapter{fetcher: fetcher, policy: policy, logger: logger}
}

// Extract downloads and extracts one document. Unsupported formats, empty
// documents, and upstream failures each surface as distinct error kinds.
func (a *DriveAdapter) Extract(ctx context.Context, fileID, mimeType string) (string, error) {
	if !models.EligibleMime(mimeType) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}

	data, err := backoff.Retry(ctx, a.policy, func() ([]byte, error) {
		return a.fetcher.FetchContent(ctx, fileID, mimeType)
	})
	if err != nil {
		return "", fmt.Errorf("failed to fetch content for %s: %w", fileID, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: zero bytes returned for %s", ErrEmptyDocument, fileID)
	}

	a.logger.Debug("extracting document", "file_id", fileID, "mime", mimeType, "bytes", len(data))

	switch mimeType {
	case models.MimeDocx:
		return extractDocx(data)
	case models.MimePDF:
		return extractPDF(data)
	case models.MimeGoogleDoc:
		return extractHTML(data, fileID)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}
}
