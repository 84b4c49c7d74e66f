package db

import (
	"testing"

	"github.com/daringdolphin/curate/models"
)

func TestUpsertResult_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	sessionID, err := db.CreateSession("root")
	if err != nil {
		t.Fatal(err)
	}
	insertTestDocument(t, db, sessionID, "f1")

	want := models.ProcessingResult{
		FileID:   "f1",
		Tokens:   1234,
		Language: "en",
		CacheHit: true,
	}
	if err := db.UpsertResult(sessionID, want); err != nil {
		t.Fatalf("UpsertResult() error = %v", err)
	}

	results, err := db.GetResults(sessionID)
	if err != nil {
		t.Fatalf("GetResults() error = %v", err)
	}
	got, ok := results["f1"]
	if !ok {
		t.Fatal("result for f1 missing")
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestUpsertResult_ReplacesError(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	sessionID, err := db.CreateSession("root")
	if err != nil {
		t.Fatal(err)
	}
	insertTestDocument(t, db, sessionID, "f1")

	// First attempt failed, retry succeeded.
	upsertTestResult(t, db, sessionID, "f1", 0, models.ErrorTypeUpstream)
	upsertTestResult(t, db, sessionID, "f1", 900, "")

	results, err := db.GetResults(sessionID)
	if err != nil {
		t.Fatal(err)
	}
	got := results["f1"]
	if got.Tokens != 900 {
		t.Errorf("tokens = %d, want 900", got.Tokens)
	}
	if got.ErrorType != "" || got.Error != "" {
		t.Errorf("stale error survived upsert: %+v", got)
	}
	if len(results) != 1 {
		t.Errorf("got %d result rows, want 1", len(results))
	}
}

func TestContent_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	sessionID, err := db.CreateSession("root")
	if err != nil {
		t.Fatal(err)
	}
	insertTestDocument(t, db, sessionID, "f1")

	if _, ok, err := db.GetContent(sessionID, "f1"); err != nil || ok {
		t.Fatalf("GetContent() before save = ok=%v err=%v, want absent", ok, err)
	}

	if err := db.SaveContent(sessionID, "f1", "extracted text", "abc123"); err != nil {
		t.Fatalf("SaveContent() error = %v", err)
	}

	content, ok, err := db.GetContent(sessionID, "f1")
	if err != nil {
		t.Fatalf("GetContent() error = %v", err)
	}
	if !ok || content != "extracted text" {
		t.Errorf("content = %q ok=%v, want extracted text", content, ok)
	}

	// Overwrite replaces, never duplicates.
	if err := db.SaveContent(sessionID, "f1", "newer text", "def456"); err != nil {
		t.Fatal(err)
	}
	contents, err := db.GetContents(sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 || contents["f1"] != "newer text" {
		t.Errorf("contents = %+v, want single newer text", contents)
	}
}
