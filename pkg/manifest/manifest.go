package manifest

// BundleManifest summarizes one session's documents and selection against
// the token caps. It gives a reader the full budget picture without loading
// any document content.
type BundleManifest struct {
	GeneratedAt    string            `yaml:"generated_at"`
	TotalDocuments int               `yaml:"total_documents"`
	Selected       int               `yaml:"selected"`
	Failed         int               `yaml:"failed"`
	SelectedTokens int               `yaml:"selected_tokens"`
	SoftCap        int               `yaml:"soft_cap"`
	HardCap        int               `yaml:"hard_cap"`
	OverSoftCap    bool              `yaml:"over_soft_cap"`
	Documents      []DocumentSummary `yaml:"documents"`
}

// Document status values, in rough lifecycle order.
const (
	StatusPending   = "pending"
	StatusReady     = "ready"
	StatusSelected  = "selected"
	StatusOversize  = "oversize"
	StatusImageOnly = "image_only"
	StatusError     = "error"
)

// DocumentSummary is one document's line in the manifest.
type DocumentSummary struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Path         string `yaml:"path,omitempty"`
	Tokens       int    `yaml:"tokens,omitempty"`
	Status       string `yaml:"status"`
	ErrorMessage string `yaml:"error_message,omitempty"`
}
