package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Message is one conversation message stored for a session. ContentJSON
// carries tool calls and tool results in their wire form.
type Message struct {
	ID          int64     `json:"id"`
	SessionID   string    `json:"sessionId"`
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	ContentJSON string    `json:"contentJson,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// EnsureSession creates the session row if it does not exist yet.
func (s *Store) EnsureSession(sessionID string) error {
	now := time.Now()
	_, err := s.db.Exec(`
		INSERT INTO sessions (session_id, created_at, last_active, message_count)
		VALUES (?, ?, ?, 0)
		ON CONFLICT(session_id) DO NOTHING
	`, sessionID, now, now)
	if err != nil {
		return fmt.Errorf("ensure session: %w", err)
	}
	return nil
}

// SaveMessage persists a message and bumps the session's aggregates.
func (s *Store) SaveMessage(msg *Message) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	result, err := tx.Exec(`
		INSERT INTO messages (session_id, role, content, content_json, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, msg.SessionID, msg.Role, msg.Content, nullIfEmpty(msg.ContentJSON), msg.Timestamp)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	msg.ID = id

	if _, err := tx.Exec(`
		UPDATE sessions
		SET message_count = message_count + 1, last_active = ?
		WHERE session_id = ?
	`, time.Now(), msg.SessionID); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Messages returns a session's messages in insertion order.
func (s *Store) Messages(sessionID string) ([]Message, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, role, content, COALESCE(content_json, ''), timestamp
		FROM messages
		WHERE session_id = ?
		ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.ContentJSON, &m.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return sql.NullString{}
	}
	return s
}
