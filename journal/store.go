package journal

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// Entry is one terminal disposition.
type Entry struct {
	ID          int64
	RunID       string
	MessageID   string
	ThreadID    string
	Sender      string
	Subject     string
	Sentiment   string
	Disposition string
	Draft       string
	Error       string
	RecordedAt  time.Time
}

// Store is an append-only SQLite journal of reply dispositions.
type Store struct {
	db     *sql.DB
	logger *logrus.Logger
}

// Open opens or creates the journal at dbPath.
func Open(dbPath string, logger *logrus.Logger) (*Store, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	// One writer; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.WithField("path", dbPath).Info("Journal initialized")
	return &Store{db: db, logger: logger}, nil
}

// Record appends e. A zero RecordedAt is set to now.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO replies (run_id, message_id, thread_id, sender, subject, sentiment, disposition, draft, error, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.MessageID, e.ThreadID, e.Sender, e.Subject, e.Sentiment,
		e.Disposition, e.Draft, e.Error, e.RecordedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record %s: %w", e.MessageID, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, message_id, thread_id, sender, subject, sentiment, disposition, draft, error, recorded_at
		FROM replies
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var threadID, sender, subject, sentiment, draft, errText sql.NullString
		var recordedAt string
		if err := rows.Scan(&e.ID, &e.RunID, &e.MessageID, &threadID, &sender, &subject,
			&sentiment, &e.Disposition, &draft, &errText, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		e.ThreadID = threadID.String
		e.Sender = sender.String
		e.Subject = subject.String
		e.Sentiment = sentiment.String
		e.Draft = draft.String
		e.Error = errText.String
		if e.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
			s.logger.WithError(err).WithField("id", e.ID).Warn("Unparseable journal timestamp")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
