package db

import (
	"testing"
	"time"

	"github.com/daringdolphin/curate/models"
)

func insertTestDocument(t *testing.T, db *DB, sessionID int64, id string) {
	t.Helper()
	err := db.InsertDocument(sessionID, models.Descriptor{
		ID:           id,
		Name:         id + ".docx",
		MimeType:     models.MimeDocx,
		Size:         1024,
		ModifiedTime: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("InsertDocument(%s) error = %v", id, err)
	}
}

func upsertTestResult(t *testing.T, db *DB, sessionID int64, id string, tokens int, errorType string) {
	t.Helper()
	r := models.ProcessingResult{FileID: id, Tokens: tokens, ErrorType: errorType}
	if errorType != "" {
		r.Error = "processing failed"
	}
	if err := db.UpsertResult(sessionID, r); err != nil {
		t.Fatalf("UpsertResult(%s) error = %v", id, err)
	}
}

func TestInsertDocument_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	sessionID, err := db.CreateSession("root")
	if err != nil {
		t.Fatal(err)
	}

	want := models.Descriptor{
		ID:           "f1",
		Name:         "Report.pdf",
		MimeType:     models.MimePDF,
		Size:         4096,
		ModifiedTime: time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC),
		ParentPath:   "Q1/Reports",
		Oversize:     true,
	}
	if err := db.InsertDocument(sessionID, want); err != nil {
		t.Fatalf("InsertDocument() error = %v", err)
	}

	got, err := db.GetDocument(sessionID, "f1")
	if err != nil {
		t.Fatalf("GetDocument() error = %v", err)
	}
	if got.Name != want.Name || got.MimeType != want.MimeType || got.Size != want.Size {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if got.ParentPath != want.ParentPath {
		t.Errorf("ParentPath = %q, want %q", got.ParentPath, want.ParentPath)
	}
	if !got.Oversize {
		t.Error("Oversize flag lost")
	}
	if !got.ModifiedTime.Equal(want.ModifiedTime) {
		t.Errorf("ModifiedTime = %v, want %v", got.ModifiedTime, want.ModifiedTime)
	}
}

func TestInsertDocument_UpsertKeepsOrder(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	sessionID, err := db.CreateSession("root")
	if err != nil {
		t.Fatal(err)
	}

	insertTestDocument(t, db, sessionID, "a")
	insertTestDocument(t, db, sessionID, "b")
	insertTestDocument(t, db, sessionID, "c")

	// Re-insert the first document with a new name; it must keep its slot.
	if err := db.InsertDocument(sessionID, models.Descriptor{
		ID: "a", Name: "renamed.docx", MimeType: models.MimeDocx,
	}); err != nil {
		t.Fatal(err)
	}

	docs, err := db.GetDocuments(sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 3 {
		t.Fatalf("got %d documents, want 3", len(docs))
	}
	if docs[0].ID != "a" || docs[0].Name != "renamed.docx" {
		t.Errorf("first document = %s/%s, want a/renamed.docx", docs[0].ID, docs[0].Name)
	}
	if docs[1].ID != "b" || docs[2].ID != "c" {
		t.Errorf("order disturbed: %s, %s", docs[1].ID, docs[2].ID)
	}
}

func TestUnprocessedAndFailedDocuments(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	sessionID, err := db.CreateSession("root")
	if err != nil {
		t.Fatal(err)
	}

	insertTestDocument(t, db, sessionID, "done")
	insertTestDocument(t, db, sessionID, "failed")
	insertTestDocument(t, db, sessionID, "pending")

	upsertTestResult(t, db, sessionID, "done", 500, "")
	upsertTestResult(t, db, sessionID, "failed", 0, models.ErrorTypeExtract)

	unprocessed, err := db.UnprocessedDocuments(sessionID)
	if err != nil {
		t.Fatalf("UnprocessedDocuments() error = %v", err)
	}
	if len(unprocessed) != 1 || unprocessed[0].ID != "pending" {
		t.Errorf("unprocessed = %+v, want just pending", unprocessed)
	}

	failed, err := db.FailedDocuments(sessionID)
	if err != nil {
		t.Fatalf("FailedDocuments() error = %v", err)
	}
	if len(failed) != 1 || failed[0].ID != "failed" {
		t.Errorf("failed = %+v, want just failed", failed)
	}
}
