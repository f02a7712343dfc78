// Package archive persists finished interview transcripts for later
// review. The live session store stays in memory; the archive is a
// write-behind audit record, not session state.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/voxlab/interviewd/internal/domain"
)

// Summary is one archived interview without its transcript.
type Summary struct {
	SessionID     string    `json:"session_id"`
	CandidateName string    `json:"candidate_name"`
	JobRole       string    `json:"job_role"`
	Turns         int       `json:"turns"`
	Concluded     bool      `json:"concluded"`
	CreatedAt     time.Time `json:"created_at"`
	ArchivedAt    time.Time `json:"archived_at"`
}

// SQLiteArchive implements the archive on SQLite.
type SQLiteArchive struct {
	db *sql.DB
}

// NewSQLiteArchive opens (or creates) the archive database and runs
// migrations.
func NewSQLiteArchive(dsn string) (*SQLiteArchive, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open archive database: %w", err)
	}

	a := &SQLiteArchive{db: db}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate archive database: %w", err)
	}
	return a, nil
}

func (a *SQLiteArchive) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS interviews (
			session_id TEXT PRIMARY KEY,
			candidate_name TEXT NOT NULL,
			job_role TEXT NOT NULL,
			turns INTEGER NOT NULL,
			concluded INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			archived_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS interview_messages (
			session_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			PRIMARY KEY (session_id, seq),
			FOREIGN KEY (session_id) REFERENCES interviews(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_interviews_archived ON interviews(archived_at)`,
	}
	for _, m := range migrations {
		if _, err := a.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (a *SQLiteArchive) Close() error {
	return a.db.Close()
}

// Save writes one session and its full transcript. Re-archiving the
// same session replaces the previous record.
func (a *SQLiteArchive) Save(ctx context.Context, sess *domain.Session) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO interviews
			(session_id, candidate_name, job_role, turns, concluded, created_at, archived_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sess.SessionID, sess.CandidateName, sess.JobRole, sess.Turns, sess.Concluded,
		sess.CreatedAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("archive interview: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM interview_messages WHERE session_id = ?`, sess.SessionID); err != nil {
		return fmt.Errorf("clear archived messages: %w", err)
	}
	for i, msg := range sess.Transcript {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO interview_messages (session_id, seq, role, content) VALUES (?, ?, ?, ?)`,
			sess.SessionID, i, string(msg.Role), msg.Content); err != nil {
			return fmt.Errorf("archive message: %w", err)
		}
	}

	return tx.Commit()
}

// List returns archived interviews, newest first.
func (a *SQLiteArchive) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := a.db.QueryContext(ctx,
		`SELECT session_id, candidate_name, job_role, turns, concluded, created_at, archived_at
		 FROM interviews ORDER BY archived_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list archived interviews: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.SessionID, &s.CandidateName, &s.JobRole, &s.Turns,
			&s.Concluded, &s.CreatedAt, &s.ArchivedAt); err != nil {
			return nil, fmt.Errorf("scan archived interview: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Transcript returns the archived messages of one interview in order.
func (a *SQLiteArchive) Transcript(ctx context.Context, sessionID string) ([]domain.Message, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT role, content FROM interview_messages WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load archived transcript: %w", err)
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, fmt.Errorf("scan archived message: %w", err)
		}
		msgs = append(msgs, domain.Message{Role: domain.Role(role), Content: content})
	}
	return msgs, rows.Err()
}
