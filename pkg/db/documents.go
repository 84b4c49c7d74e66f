package db

import (
	"fmt"

	"github.com/daringdolphin/curate/models"
)

// InsertDocument stores a discovered descriptor for a session. Re-inserting
// the same document id updates the metadata in place, so a re-scan of the
// same session refreshes names and sizes without duplicating rows.
func (db *DB) InsertDocument(sessionID int64, d models.Descriptor) error {
	_, err := db.Exec(`
		INSERT INTO documents (session_id, document_id, name, mime_type, size_bytes, modified_time, parent_path, oversize, discovered_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?,
			COALESCE((SELECT discovered_order FROM documents WHERE session_id = ? AND document_id = ?),
				(SELECT COUNT(*) FROM documents WHERE session_id = ?)))
		ON CONFLICT(session_id, document_id) DO UPDATE SET
			name = excluded.name,
			mime_type = excluded.mime_type,
			size_bytes = excluded.size_bytes,
			modified_time = excluded.modified_time,
			parent_path = excluded.parent_path,
			oversize = excluded.oversize
	`, sessionID, d.ID, d.Name, d.MimeType, d.Size, d.ModifiedTime, d.ParentPath, d.Oversize,
		sessionID, d.ID, sessionID)
	if err != nil {
		return fmt.Errorf("failed to insert document %s: %w", d.ID, err)
	}
	return nil
}

// GetDocuments returns a session's descriptors in discovery order
func (db *DB) GetDocuments(sessionID int64) ([]models.Descriptor, error) {
	rows, err := db.Query(`
		SELECT document_id, name, mime_type, size_bytes, modified_time, parent_path, oversize
		FROM documents
		WHERE session_id = ?
		ORDER BY discovered_order
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Descriptor
	for rows.Next() {
		var d models.Descriptor
		if err := rows.Scan(&d.ID, &d.Name, &d.MimeType, &d.Size, &d.ModifiedTime, &d.ParentPath, &d.Oversize); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}

	return docs, nil
}

// GetDocument returns one descriptor by id
func (db *DB) GetDocument(sessionID int64, documentID string) (models.Descriptor, error) {
	var d models.Descriptor
	err := db.QueryRow(`
		SELECT document_id, name, mime_type, size_bytes, modified_time, parent_path, oversize
		FROM documents
		WHERE session_id = ? AND document_id = ?
	`, sessionID, documentID).Scan(&d.ID, &d.Name, &d.MimeType, &d.Size, &d.ModifiedTime, &d.ParentPath, &d.Oversize)
	if err != nil {
		return models.Descriptor{}, fmt.Errorf("document %s not found in session %d: %w", documentID, sessionID, err)
	}
	return d, nil
}

// UnprocessedDocuments returns descriptors with no result row yet
func (db *DB) UnprocessedDocuments(sessionID int64) ([]models.Descriptor, error) {
	rows, err := db.Query(`
		SELECT d.document_id, d.name, d.mime_type, d.size_bytes, d.modified_time, d.parent_path, d.oversize
		FROM documents d
		LEFT JOIN results r ON d.session_id = r.session_id AND d.document_id = r.document_id
		WHERE d.session_id = ? AND r.document_id IS NULL
		ORDER BY d.discovered_order
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get unprocessed documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Descriptor
	for rows.Next() {
		var d models.Descriptor
		if err := rows.Scan(&d.ID, &d.Name, &d.MimeType, &d.Size, &d.ModifiedTime, &d.ParentPath, &d.Oversize); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}

	return docs, nil
}

// FailedDocuments returns descriptors whose latest result carries an error
func (db *DB) FailedDocuments(sessionID int64) ([]models.Descriptor, error) {
	rows, err := db.Query(`
		SELECT d.document_id, d.name, d.mime_type, d.size_bytes, d.modified_time, d.parent_path, d.oversize
		FROM documents d
		JOIN results r ON d.session_id = r.session_id AND d.document_id = r.document_id
		WHERE d.session_id = ? AND r.error_type IS NOT NULL
		ORDER BY d.discovered_order
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get failed documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Descriptor
	for rows.Next() {
		var d models.Descriptor
		if err := rows.Scan(&d.ID, &d.Name, &d.MimeType, &d.Size, &d.ModifiedTime, &d.ParentPath, &d.Oversize); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}

	return docs, nil
}
