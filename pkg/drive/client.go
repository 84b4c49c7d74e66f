package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/daringdolphin/curate/models"
)

const (
	// DefaultBaseURL is the Drive v3 REST endpoint.
	DefaultBaseURL = "https://www.googleapis.com/drive/v3"

	// listPageSize is the maximum page size the listing API allows.
	listPageSize = 1000

	// exportMime is the representation native documents are exported to.
	// HTML keeps the document structure and feeds the readability extractor.
	exportMime = "text/html"

	// maxErrorBody caps how much of an error response lands in messages.
	maxErrorBody = 512
)

// Client is an HTTP implementation of Lister and ContentFetcher.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// NewClient builds a Client authenticated with the given access token.
func NewClient(accessToken string, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		baseURL:     DefaultBaseURL,
		accessToken: accessToken,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// listResponse mirrors the wire format of a files.list call. Sizes arrive
// as decimal strings and native documents omit them entirely.
type listResponse struct {
	NextPageToken string     `json:"nextPageToken"`
	Files         []wireItem `json:"files"`
}

type wireItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	Size         string `json:"size"`
	ModifiedTime string `json:"modifiedTime"`
}

// ListChildren lists one page of a folder's immediate children. Pass the
// NextPageToken of the previous page to continue; an empty token starts over.
func (c *Client) ListChildren(ctx context.Context, folderID, pageToken string) (*Page, error) {
	q := url.Values{}
	q.Set("q", fmt.Sprintf("'%s' in parents and trashed = false", folderID))
	q.Set("fields", "nextPageToken, files(id, name, mimeType, size, modifiedTime)")
	q.Set("pageSize", strconv.Itoa(listPageSize))
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}

	body, err := c.get(ctx, c.baseURL+"/files?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode listing response: %w", err)
	}

	page := &Page{NextPageToken: resp.NextPageToken}
	for _, f := range resp.Files {
		item := Item{
			ID:       f.ID,
			Name:     f.Name,
			MimeType: f.MimeType,
		}
		if f.Size != "" {
			if n, err := strconv.ParseInt(f.Size, 10, 64); err == nil {
				item.Size = n
			}
		}
		if f.ModifiedTime != "" {
			if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
				item.ModifiedTime = t
			}
		}
		page.Items = append(page.Items, item)
	}
	return page, nil
}

// FetchContent downloads a document's bytes. Native documents are exported
// to HTML; everything else is fetched as stored.
func (c *Client) FetchContent(ctx context.Context, fileID, mimeType string) ([]byte, error) {
	var endpoint string
	if mimeType == models.MimeGoogleDoc {
		endpoint = fmt.Sprintf("%s/files/%s/export?mimeType=%s", c.baseURL, url.PathEscape(fileID), url.QueryEscape(exportMime))
	} else {
		endpoint = fmt.Sprintf("%s/files/%s?alt=media", c.baseURL, url.PathEscape(fileID))
	}
	return c.get(ctx, endpoint)
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, classifyStatus(resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
