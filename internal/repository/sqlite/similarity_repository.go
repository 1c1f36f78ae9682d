package sqlite

import (
	"fmt"

	"cloudriddle/internal/model"
)

// SimilarityRepository implements repository.SimilarityRepository for SQLite.
type SimilarityRepository struct {
	db *DB
}

// NewSimilarityRepository creates a new SQLite similarity repository.
func NewSimilarityRepository(db *DB) *SimilarityRepository {
	return &SimilarityRepository{db: db}
}

// InsertBatch adds the ranked answers of one riddle in a single transaction.
func (r *SimilarityRepository) InsertBatch(similarities []model.Similarity) error {
	r.db.Lock()
	defer r.db.Unlock()

	tx, err := r.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO similarities (riddle_id, label, confidence, rank)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, sim := range similarities {
		if _, err := stmt.Exec(sim.RiddleID, sim.Label, sim.Confidence, sim.Rank); err != nil {
			return fmt.Errorf("failed to insert similarity: %w", err)
		}
	}

	return tx.Commit()
}

// GetByRiddleID retrieves the answers of a riddle in rank order.
func (r *SimilarityRepository) GetByRiddleID(riddleID int64) ([]model.Similarity, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT id, riddle_id, label, confidence, rank
		FROM similarities WHERE riddle_id = ? ORDER BY rank
	`, riddleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query similarities: %w", err)
	}
	defer rows.Close()

	var similarities []model.Similarity
	for rows.Next() {
		var sim model.Similarity
		if err := rows.Scan(&sim.ID, &sim.RiddleID, &sim.Label, &sim.Confidence, &sim.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan similarity: %w", err)
		}
		similarities = append(similarities, sim)
	}
	return similarities, rows.Err()
}

// GetAllLabels returns every distinct answer label, case-folded and sorted.
func (r *SimilarityRepository) GetAllLabels() ([]string, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`SELECT DISTINCT LOWER(label) AS l FROM similarities ORDER BY l`)
	if err != nil {
		return nil, fmt.Errorf("failed to query labels: %w", err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}
