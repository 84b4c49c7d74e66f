package manifest

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/daringdolphin/curate/models"
)

// Generate builds a manifest over the session's documents. results holds
// processing outcomes keyed by document id; ids absent from it are pending.
// selected and selectedTokens describe the current admission state.
func Generate(docs []models.Descriptor, results map[string]models.ProcessingResult, selected map[string]bool, selectedTokens, softCap, hardCap int) *BundleManifest {
	m := &BundleManifest{
		GeneratedAt:    time.Now().Format(time.RFC3339),
		TotalDocuments: len(docs),
		SelectedTokens: selectedTokens,
		SoftCap:        softCap,
		HardCap:        hardCap,
		OverSoftCap:    selectedTokens > softCap,
	}

	for _, d := range docs {
		summary := DocumentSummary{
			ID:   d.ID,
			Name: d.Name,
			Path: d.ParentPath,
		}

		result, processed := results[d.ID]
		switch {
		case selected[d.ID]:
			m.Selected++
			summary.Status = StatusSelected
			summary.Tokens = result.Tokens
		case d.Oversize:
			summary.Status = StatusOversize
		case !processed:
			summary.Status = StatusPending
		case result.ErrorType == models.ErrorTypeImageOnly:
			m.Failed++
			summary.Status = StatusImageOnly
			summary.ErrorMessage = result.Error
		case result.Failed():
			m.Failed++
			summary.Status = StatusError
			summary.ErrorMessage = result.Error
		default:
			summary.Status = StatusReady
			summary.Tokens = result.Tokens
		}

		m.Documents = append(m.Documents, summary)
	}

	return m
}

// WriteYAML renders the manifest to w.
func (m *BundleManifest) WriteYAML(w io.Writer) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("error marshalling manifest: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("error writing manifest: %w", err)
	}
	return nil
}
