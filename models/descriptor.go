package models

import "time"

// MIME types recognized during folder traversal. Only the document types
// below are eligible for descriptor emission; folders drive the traversal.
const (
	MimeFolder    = "application/vnd.google-apps.folder"
	MimeGoogleDoc = "application/vnd.google-apps.document"
	MimePDF       = "application/pdf"
	MimeDocx      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// EligibleMime reports whether a MIME type belongs to the closed set of
// document formats the pipeline can extract.
func EligibleMime(mime string) bool {
	switch mime {
	case MimePDF, MimeDocx, MimeGoogleDoc:
		return true
	}
	return false
}

// Descriptor is the metadata record for one eligible remote document,
// produced by the folder walker. It is immutable once emitted; token counts
// and cached content live in associated records keyed by ID.
type Descriptor struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	ModifiedTime time.Time `json:"modifiedTime"`

	// ParentPath is the slash-joined folder path from the traversal root,
	// empty for root-level documents.
	ParentPath string `json:"parentPath"`

	// Oversize marks documents above the selection size limit. They are
	// listed for visibility but are never selectable.
	Oversize bool `json:"oversize,omitempty"`
}
