package manifest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/daringdolphin/curate/models"
)

func TestGenerate_Statuses(t *testing.T) {
	docs := []models.Descriptor{
		{ID: "sel", Name: "picked.docx", ParentPath: "Reports"},
		{ID: "ready", Name: "waiting.pdf"},
		{ID: "big", Name: "huge.pdf", Oversize: true},
		{ID: "scan", Name: "scan.pdf"},
		{ID: "broken", Name: "corrupt.docx"},
		{ID: "new", Name: "unprocessed.docx"},
	}
	results := map[string]models.ProcessingResult{
		"sel":    {FileID: "sel", Tokens: 1200},
		"ready":  {FileID: "ready", Tokens: 300},
		"scan":   {FileID: "scan", Error: "image-only PDF with no extractable text", ErrorType: models.ErrorTypeImageOnly},
		"broken": {FileID: "broken", Error: "not a DOCX archive", ErrorType: models.ErrorTypeExtract},
	}
	selected := map[string]bool{"sel": true}

	m := Generate(docs, results, selected, 1200, 750_000, 1_000_000)

	if m.TotalDocuments != 6 || m.Selected != 1 || m.Failed != 2 {
		t.Errorf("totals = %d/%d/%d, want 6/1/2", m.TotalDocuments, m.Selected, m.Failed)
	}
	if m.OverSoftCap {
		t.Error("1200 tokens flagged over a 750k soft cap")
	}

	want := map[string]string{
		"sel":    StatusSelected,
		"ready":  StatusReady,
		"big":    StatusOversize,
		"scan":   StatusImageOnly,
		"broken": StatusError,
		"new":    StatusPending,
	}
	for _, s := range m.Documents {
		if s.Status != want[s.ID] {
			t.Errorf("%s status = %q, want %q", s.ID, s.Status, want[s.ID])
		}
	}
}

func TestGenerate_OverSoftCap(t *testing.T) {
	m := Generate(nil, nil, nil, 800_000, 750_000, 1_000_000)
	if !m.OverSoftCap {
		t.Error("selection over soft cap not flagged")
	}
}

func TestWriteYAML(t *testing.T) {
	m := Generate(
		[]models.Descriptor{{ID: "f1", Name: "a.docx", ParentPath: "Q3"}},
		map[string]models.ProcessingResult{"f1": {FileID: "f1", Tokens: 42}},
		map[string]bool{"f1": true},
		42, 750_000, 1_000_000,
	)

	var buf bytes.Buffer
	if err := m.WriteYAML(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, frag := range []string{"name: a.docx", "path: Q3", "tokens: 42", "status: selected", "hard_cap: 1000000"} {
		if !strings.Contains(out, frag) {
			t.Errorf("manifest missing %q:\n%s", frag, out)
		}
	}
}
