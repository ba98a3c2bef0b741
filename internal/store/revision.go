package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Revision is one accepted value of the transcript sentence.
type Revision struct {
	Seq       int64     `json:"seq"`
	ID        string    `json:"id"`
	Sentence  string    `json:"sentence"`
	CreatedAt time.Time `json:"created_at"`
}

// RevisionRepository is the append-only transcript journal.
type RevisionRepository struct {
	db *sql.DB
}

// Revisions returns the revision repository for this store.
func (s *Store) Revisions() *RevisionRepository {
	return &RevisionRepository{db: s.db}
}

// Append records sentence as the newest revision.
func (r *RevisionRepository) Append(sentence string) (*Revision, error) {
	rev := &Revision{
		ID:        uuid.New().String(),
		Sentence:  sentence,
		CreatedAt: time.Now(),
	}

	res, err := r.db.Exec(
		`INSERT INTO transcript_revisions (id, sentence, created_at) VALUES (?, ?, ?)`,
		rev.ID, rev.Sentence, rev.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rev.Seq, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return rev, nil
}

// List returns all revisions, oldest first.
func (r *RevisionRepository) List() ([]Revision, error) {
	rows, err := r.db.Query(
		`SELECT seq, id, sentence, created_at FROM transcript_revisions ORDER BY seq`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	revs := []Revision{}
	for rows.Next() {
		var rev Revision
		if err := rows.Scan(&rev.Seq, &rev.ID, &rev.Sentence, &rev.CreatedAt); err != nil {
			return nil, err
		}
		revs = append(revs, rev)
	}
	return revs, rows.Err()
}

// DeleteAll empties the journal.
func (r *RevisionRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM transcript_revisions`)
	return err
}
