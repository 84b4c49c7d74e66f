package snippet

import (
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	got := Format("Report.docx", "  Quarterly numbers.\n", "")
	want := "File: Report.docx\n\n```\nQuarterly numbers.\n```\n\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormat_WithInstructions(t *testing.T) {
	got := Format("notes.pdf", "body", "summarize in one paragraph")
	if !strings.HasSuffix(got, "Instructions: summarize in one paragraph\n\n") {
		t.Errorf("instructions missing or misplaced: %q", got)
	}
	if !strings.Contains(got, "```\nbody\n```") {
		t.Errorf("fence malformed: %q", got)
	}
}

func TestBundle_Order(t *testing.T) {
	got := Bundle([]string{"a.docx", "b.pdf"}, []string{"first", "second"}, "")
	ia := strings.Index(got, "File: a.docx")
	ib := strings.Index(got, "File: b.pdf")
	if ia < 0 || ib < 0 || ia > ib {
		t.Errorf("documents out of order: %q", got)
	}
}

func TestBundle_InstructionsOnce(t *testing.T) {
	got := Bundle([]string{"a", "b"}, []string{"x", "y"}, "keep it short")
	if n := strings.Count(got, "Instructions:"); n != 1 {
		t.Errorf("instructions appear %d times, want 1", n)
	}
	if !strings.HasSuffix(got, "Instructions: keep it short\n") {
		t.Errorf("instructions not at end: %q", got)
	}
}
