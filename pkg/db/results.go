package db

import (
	"database/sql"
	"fmt"

	"github.com/daringdolphin/curate/models"
)

// UpsertResult records the latest processing outcome for a document
func (db *DB) UpsertResult(sessionID int64, r models.ProcessingResult) error {
	var language, errorType, errorMessage sql.NullString
	if r.Language != "" {
		language = sql.NullString{String: r.Language, Valid: true}
	}
	if r.ErrorType != "" {
		errorType = sql.NullString{String: r.ErrorType, Valid: true}
	}
	if r.Error != "" {
		errorMessage = sql.NullString{String: r.Error, Valid: true}
	}

	_, err := db.Exec(`
		INSERT INTO results (session_id, document_id, tokens, language, error_type, error_message, cache_hit)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, document_id) DO UPDATE SET
			tokens = excluded.tokens,
			language = excluded.language,
			error_type = excluded.error_type,
			error_message = excluded.error_message,
			cache_hit = excluded.cache_hit,
			processed_at = CURRENT_TIMESTAMP
	`, sessionID, r.FileID, r.Tokens, language, errorType, errorMessage, r.CacheHit)
	if err != nil {
		return fmt.Errorf("failed to upsert result for %s: %w", r.FileID, err)
	}
	return nil
}

// GetResults returns a session's processing outcomes keyed by document id
func (db *DB) GetResults(sessionID int64) (map[string]models.ProcessingResult, error) {
	rows, err := db.Query(`
		SELECT document_id, tokens, language, error_type, error_message, cache_hit
		FROM results
		WHERE session_id = ?
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}
	defer rows.Close()

	results := make(map[string]models.ProcessingResult)
	for rows.Next() {
		var r models.ProcessingResult
		var language, errorType, errorMessage sql.NullString
		if err := rows.Scan(&r.FileID, &r.Tokens, &language, &errorType, &errorMessage, &r.CacheHit); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		r.Language = language.String
		r.ErrorType = errorType.String
		r.Error = errorMessage.String
		results[r.FileID] = r
	}

	return results, nil
}

// SaveContent caches extracted text for a document
func (db *DB) SaveContent(sessionID int64, documentID, content, contentHash string) error {
	_, err := db.Exec(`
		INSERT INTO contents (session_id, document_id, content, content_hash)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, document_id) DO UPDATE SET
			content = excluded.content,
			content_hash = excluded.content_hash,
			cached_at = CURRENT_TIMESTAMP
	`, sessionID, documentID, content, contentHash)
	if err != nil {
		return fmt.Errorf("failed to save content for %s: %w", documentID, err)
	}
	return nil
}

// GetContent returns cached text for a document, with ok false when absent
func (db *DB) GetContent(sessionID int64, documentID string) (string, bool, error) {
	var content string
	err := db.QueryRow(`
		SELECT content FROM contents
		WHERE session_id = ? AND document_id = ?
	`, sessionID, documentID).Scan(&content)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get content for %s: %w", documentID, err)
	}
	return content, true, nil
}

// GetContents returns all cached text for a session keyed by document id
func (db *DB) GetContents(sessionID int64) (map[string]string, error) {
	rows, err := db.Query(`
		SELECT document_id, content FROM contents
		WHERE session_id = ?
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contents: %w", err)
	}
	defer rows.Close()

	contents := make(map[string]string)
	for rows.Next() {
		var id, content string
		if err := rows.Scan(&id, &content); err != nil {
			return nil, fmt.Errorf("failed to scan content: %w", err)
		}
		contents[id] = content
	}

	return contents, nil
}
