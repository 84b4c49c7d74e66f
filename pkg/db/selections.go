package db

import "fmt"

// SelectDocument records an admitted document and its token cost. Selecting
// an already selected document updates the stored cost.
func (db *DB) SelectDocument(sessionID int64, documentID string, tokens int) error {
	_, err := db.Exec(`
		INSERT INTO selections (session_id, document_id, tokens)
		VALUES (?, ?, ?)
		ON CONFLICT(session_id, document_id) DO UPDATE SET
			tokens = excluded.tokens
	`, sessionID, documentID, tokens)
	if err != nil {
		return fmt.Errorf("failed to select document %s: %w", documentID, err)
	}
	return nil
}

// DeselectDocument removes a document from the selection. Removing an
// unselected document is a no-op.
func (db *DB) DeselectDocument(sessionID int64, documentID string) error {
	_, err := db.Exec(`
		DELETE FROM selections
		WHERE session_id = ? AND document_id = ?
	`, sessionID, documentID)
	if err != nil {
		return fmt.Errorf("failed to deselect document %s: %w", documentID, err)
	}
	return nil
}

// ClearSelections empties a session's selection
func (db *DB) ClearSelections(sessionID int64) error {
	_, err := db.Exec(`DELETE FROM selections WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to clear selections: %w", err)
	}
	return nil
}

// GetSelections returns selected document ids and their token costs
func (db *DB) GetSelections(sessionID int64) (map[string]int, error) {
	rows, err := db.Query(`
		SELECT document_id, tokens FROM selections
		WHERE session_id = ?
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get selections: %w", err)
	}
	defer rows.Close()

	selections := make(map[string]int)
	for rows.Next() {
		var id string
		var tokens int
		if err := rows.Scan(&id, &tokens); err != nil {
			return nil, fmt.Errorf("failed to scan selection: %w", err)
		}
		selections[id] = tokens
	}

	return selections, nil
}

// SelectedTokens returns the total token cost of a session's selection
func (db *DB) SelectedTokens(sessionID int64) (int, error) {
	var total int
	err := db.QueryRow(`
		SELECT COALESCE(SUM(tokens), 0) FROM selections
		WHERE session_id = ?
	`, sessionID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum selected tokens: %w", err)
	}
	return total, nil
}
