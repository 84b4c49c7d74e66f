package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Session represents one scan of a root folder
type Session struct {
	SessionID      int64
	CreatedAt      time.Time
	RootFolderID   string
	DocumentCount  int
	ProcessedCount int
	FailedCount    int
}

// CreateSession starts a new session for the given root folder
func (db *DB) CreateSession(rootFolderID string) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO sessions (root_folder_id)
		VALUES (?)
	`, rootFolderID)
	if err != nil {
		return 0, fmt.Errorf("failed to create session: %w", err)
	}

	sessionID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get session ID: %w", err)
	}
	return sessionID, nil
}

// GetSessionByID retrieves a session by its ID
func (db *DB) GetSessionByID(sessionID int64) (*Session, error) {
	var session Session
	err := db.QueryRow(`
		SELECT session_id, created_at, root_folder_id, document_count, processed_count, failed_count
		FROM sessions
		WHERE session_id = ?
	`, sessionID).Scan(
		&session.SessionID,
		&session.CreatedAt,
		&session.RootFolderID,
		&session.DocumentCount,
		&session.ProcessedCount,
		&session.FailedCount,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %d not found", sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// LatestSession returns the most recent session, or an error if none exist
func (db *DB) LatestSession() (*Session, error) {
	var session Session
	err := db.QueryRow(`
		SELECT session_id, created_at, root_folder_id, document_count, processed_count, failed_count
		FROM sessions
		ORDER BY session_id DESC
		LIMIT 1
	`).Scan(
		&session.SessionID,
		&session.CreatedAt,
		&session.RootFolderID,
		&session.DocumentCount,
		&session.ProcessedCount,
		&session.FailedCount,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no sessions found; run a scan first")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest session: %w", err)
	}
	return &session, nil
}

// ListSessions retrieves all sessions ordered by most recent first
func (db *DB) ListSessions(limit int) ([]Session, error) {
	query := `
		SELECT session_id, created_at, root_folder_id, document_count, processed_count, failed_count
		FROM sessions
		ORDER BY created_at DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.SessionID, &s.CreatedAt, &s.RootFolderID,
			&s.DocumentCount, &s.ProcessedCount, &s.FailedCount); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, nil
}

// UpdateSessionStats refreshes the counters from documents and results
func (db *DB) UpdateSessionStats(sessionID int64) error {
	_, err := db.Exec(`
		UPDATE sessions SET
			document_count = (SELECT COUNT(*) FROM documents WHERE session_id = ?),
			processed_count = (SELECT COUNT(*) FROM results WHERE session_id = ? AND error_type IS NULL),
			failed_count = (SELECT COUNT(*) FROM results WHERE session_id = ? AND error_type IS NOT NULL)
		WHERE session_id = ?
	`, sessionID, sessionID, sessionID, sessionID)
	if err != nil {
		return fmt.Errorf("failed to update session stats: %w", err)
	}
	return nil
}
