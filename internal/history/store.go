// internal/history/store.go
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sms-dispatcher/internal/common/database"
)

// Attempt statuses
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Record is one dispatch attempt as written to the delivery log.
type Record struct {
	ID         string    `json:"id" db:"id"`
	Recipient  string    `json:"recipient" db:"recipient"`
	Body       string    `json:"body" db:"body"`
	Backend    string    `json:"backend" db:"backend"`
	Kind       string    `json:"kind" db:"kind"`
	Status     string    `json:"status" db:"status"`
	StatusCode int       `json:"status_code" db:"status_code"`
	MessageID  string    `json:"message_id" db:"message_id"`
	Fault      string    `json:"fault" db:"fault"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Store persists dispatch attempts to PostgreSQL.
type Store struct {
	db *database.PostgresClient
}

func NewStore(db *database.PostgresClient) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the deliveries table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS deliveries (
			id          UUID PRIMARY KEY,
			recipient   TEXT NOT NULL,
			body        TEXT NOT NULL,
			backend     TEXT NOT NULL,
			kind        TEXT NOT NULL,
			status      TEXT NOT NULL,
			status_code INT NOT NULL DEFAULT 0,
			message_id  TEXT NOT NULL DEFAULT '',
			fault       TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure deliveries schema: %w", err)
	}
	return nil
}

// LogAttempt inserts one attempt. ID and CreatedAt are filled when empty.
func (s *Store) LogAttempt(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO deliveries
			(id, recipient, body, backend, kind, status, status_code, message_id, fault, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.Recipient, rec.Body, rec.Backend, rec.Kind,
		rec.Status, rec.StatusCode, rec.MessageID, rec.Fault, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert delivery record: %w", err)
	}
	return nil
}

// RecentByRecipient returns the latest attempts for one recipient, newest
// first.
func (s *Store) RecentByRecipient(ctx context.Context, recipient string, limit int) ([]Record, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, recipient, body, backend, kind, status, status_code, message_id, fault, created_at
		FROM deliveries
		WHERE recipient = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		recipient, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query deliveries: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID, &rec.Recipient, &rec.Body, &rec.Backend, &rec.Kind,
			&rec.Status, &rec.StatusCode, &rec.MessageID, &rec.Fault, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
