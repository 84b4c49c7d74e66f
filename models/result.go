package models

// Error classifications carried on ProcessingResult.ErrorType. They let a
// consumer render per-document state distinctly without parsing messages.
const (
	ErrorTypeUpstream  = "upstream_error"
	ErrorTypeExtract   = "extract_error"
	ErrorTypeImageOnly = "image_only"
	ErrorTypeEmpty     = "empty_document"
	ErrorTypeTokenize  = "tokenize_error"
)

// ProcessingResult is the per-document output of a pipeline run. Exactly one
// result is emitted per input descriptor; a failed document carries zero
// tokens and an error classification instead of aborting its batch.
type ProcessingResult struct {
	FileID    string `json:"fileId"`
	Tokens    int    `json:"tokens"`
	Content   string `json:"content,omitempty"`
	Language  string `json:"language,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorType string `json:"errorType,omitempty"`

	// CacheHit marks results served from previously extracted content
	// without re-invoking the extraction adapter.
	CacheHit bool `json:"cacheHit,omitempty"`
}

// Failed reports whether the document could not be processed.
func (r ProcessingResult) Failed() bool {
	return r.Error != ""
}

// Selectable reports whether a processed document may enter the selection:
// it needs a positive token count and no recorded error.
func (r ProcessingResult) Selectable() bool {
	return !r.Failed() && r.Tokens > 0
}
