package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Recording is a stored video clip.
type Recording struct {
	ID        string    `json:"id"`
	MimeType  string    `json:"mime_type"`
	Data      []byte    `json:"-"`
	Size      int       `json:"size"`
	Frames    int       `json:"frames"`
	StartedAt time.Time `json:"started_at"`
	StoppedAt time.Time `json:"stopped_at"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordingRepository provides access to stored recordings.
type RecordingRepository struct {
	db *sql.DB
}

// Recordings returns the recording repository for this store.
func (s *Store) Recordings() *RecordingRepository {
	return &RecordingRepository{db: s.db}
}

// Create stores rec, assigning an ID if it has none.
func (r *RecordingRepository) Create(rec *Recording) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.CreatedAt = time.Now()
	rec.Size = len(rec.Data)

	_, err := r.db.Exec(
		`INSERT INTO recordings (id, mime_type, data, frames, started_at, stopped_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.MimeType, rec.Data, rec.Frames, rec.StartedAt, rec.StoppedAt, rec.CreatedAt,
	)
	return err
}

// Get retrieves a recording, including its data, by ID.
func (r *RecordingRepository) Get(id string) (*Recording, error) {
	return r.scanOne(r.db.QueryRow(
		`SELECT id, mime_type, data, frames, started_at, stopped_at, created_at
		 FROM recordings WHERE id = ?`,
		id,
	))
}

func (r *RecordingRepository) scanOne(row *sql.Row) (*Recording, error) {
	rec := &Recording{}
	err := row.Scan(&rec.ID, &rec.MimeType, &rec.Data, &rec.Frames, &rec.StartedAt, &rec.StoppedAt, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rec.Size = len(rec.Data)
	return rec, nil
}

// List returns recording metadata, newest first. Data is not loaded.
func (r *RecordingRepository) List() ([]Recording, error) {
	rows, err := r.db.Query(
		`SELECT id, mime_type, length(data), frames, started_at, stopped_at, created_at
		 FROM recordings ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []Recording{}
	for rows.Next() {
		var rec Recording
		if err := rows.Scan(&rec.ID, &rec.MimeType, &rec.Size, &rec.Frames, &rec.StartedAt, &rec.StoppedAt, &rec.CreatedAt); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// DeleteAll removes every recording.
func (r *RecordingRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM recordings`)
	return err
}
