package db

import "testing"

func TestSelections(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	sessionID, err := db.CreateSession("root")
	if err != nil {
		t.Fatal(err)
	}
	insertTestDocument(t, db, sessionID, "a")
	insertTestDocument(t, db, sessionID, "b")

	if err := db.SelectDocument(sessionID, "a", 1000); err != nil {
		t.Fatalf("SelectDocument() error = %v", err)
	}
	if err := db.SelectDocument(sessionID, "b", 2000); err != nil {
		t.Fatal(err)
	}

	total, err := db.SelectedTokens(sessionID)
	if err != nil {
		t.Fatalf("SelectedTokens() error = %v", err)
	}
	if total != 3000 {
		t.Errorf("SelectedTokens() = %d, want 3000", total)
	}

	// Re-selecting updates the cost rather than double counting.
	if err := db.SelectDocument(sessionID, "a", 1500); err != nil {
		t.Fatal(err)
	}
	total, err = db.SelectedTokens(sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3500 {
		t.Errorf("SelectedTokens() after reselect = %d, want 3500", total)
	}

	if err := db.DeselectDocument(sessionID, "a"); err != nil {
		t.Fatalf("DeselectDocument() error = %v", err)
	}
	selections, err := db.GetSelections(sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if len(selections) != 1 || selections["b"] != 2000 {
		t.Errorf("selections = %+v, want only b", selections)
	}

	// Deselecting an unselected document is harmless.
	if err := db.DeselectDocument(sessionID, "never-selected"); err != nil {
		t.Errorf("DeselectDocument(unselected) error = %v", err)
	}
}

func TestClearSelections(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	sessionID, err := db.CreateSession("root")
	if err != nil {
		t.Fatal(err)
	}
	insertTestDocument(t, db, sessionID, "a")
	insertTestDocument(t, db, sessionID, "b")
	if err := db.SelectDocument(sessionID, "a", 10); err != nil {
		t.Fatal(err)
	}
	if err := db.SelectDocument(sessionID, "b", 20); err != nil {
		t.Fatal(err)
	}

	if err := db.ClearSelections(sessionID); err != nil {
		t.Fatalf("ClearSelections() error = %v", err)
	}
	total, err := db.SelectedTokens(sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 {
		t.Errorf("SelectedTokens() after clear = %d, want 0", total)
	}
}
