package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"cloudriddle/internal/dto"
	"cloudriddle/internal/model"
)

// RiddleRepository implements repository.RiddleRepository for SQLite.
type RiddleRepository struct {
	db *DB
}

// NewRiddleRepository creates a new SQLite riddle repository.
func NewRiddleRepository(db *DB) *RiddleRepository {
	return &RiddleRepository{db: db}
}

// Insert adds a new riddle record to the database.
func (r *RiddleRepository) Insert(riddle *model.Riddle) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	var capturedAt sql.NullTime
	if !riddle.CapturedAt.IsZero() {
		capturedAt = sql.NullTime{Time: riddle.CapturedAt.UTC().Truncate(time.Second), Valid: true}
	}

	result, err := r.db.Conn().Exec(`
		INSERT INTO riddles (session_id, photo_name, captured_at, guess, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, riddle.SessionID, riddle.PhotoName, capturedAt, riddle.Guess, riddle.CreatedAt.UTC().Truncate(time.Second))
	if err != nil {
		return 0, fmt.Errorf("failed to insert riddle: %w", err)
	}

	return result.LastInsertId()
}

// GetByID retrieves a riddle by its ID; a missing riddle yields nil, nil.
func (r *RiddleRepository) GetByID(id int64) (*model.Riddle, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	row := r.db.Conn().QueryRow(`
		SELECT id, session_id, photo_name, captured_at, guess, created_at
		FROM riddles WHERE id = ?
	`, id)

	riddle, err := scanRiddle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get riddle: %w", err)
	}
	return riddle, nil
}

// GetAll retrieves riddles matching the filter, newest first.
func (r *RiddleRepository) GetAll(filter *dto.RiddleFilters) ([]model.Riddle, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	where, args := buildRiddleFilter(filter)
	query := `
		SELECT DISTINCT r.id, r.session_id, r.photo_name, r.captured_at, r.guess, r.created_at
		FROM riddles r
		LEFT JOIN similarities s ON r.id = s.riddle_id
	` + where + " ORDER BY r.created_at DESC, r.id DESC"

	if filter != nil && filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query riddles: %w", err)
	}
	defer rows.Close()

	var riddles []model.Riddle
	for rows.Next() {
		riddle, err := scanRiddle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan riddle: %w", err)
		}
		riddles = append(riddles, *riddle)
	}
	return riddles, rows.Err()
}

// GetTotalCount returns the total count of riddles matching the filter.
func (r *RiddleRepository) GetTotalCount(filter *dto.RiddleFilters) (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	where, args := buildRiddleFilter(filter)
	query := `
		SELECT COUNT(DISTINCT r.id)
		FROM riddles r
		LEFT JOIN similarities s ON r.id = s.riddle_id
	` + where

	var count int
	if err := r.db.Conn().QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count riddles: %w", err)
	}
	return count, nil
}

// GetStats returns how many riddles were played and how often each label was the top answer.
func (r *RiddleRepository) GetStats() (*model.RiddleStats, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	stats := &model.RiddleStats{LabelCounts: make(map[string]int)}

	if err := r.db.Conn().QueryRow(`SELECT COUNT(*) FROM riddles`).Scan(&stats.TotalRiddles); err != nil {
		return nil, fmt.Errorf("failed to count riddles: %w", err)
	}

	rows, err := r.db.Conn().Query(`
		SELECT LOWER(label), COUNT(*) AS cnt
		FROM similarities
		WHERE rank = 1
		GROUP BY LOWER(label)
		ORDER BY cnt DESC
		LIMIT 10
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query label counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, fmt.Errorf("failed to scan label count: %w", err)
		}
		stats.LabelCounts[label] = count
	}
	return stats, rows.Err()
}

// Delete removes a riddle and its answers.
func (r *RiddleRepository) Delete(id int64) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM similarities WHERE riddle_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete similarities: %w", err)
	}
	if _, err := r.db.Conn().Exec(`DELETE FROM riddles WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete riddle: %w", err)
	}
	return nil
}

// DeleteAll removes all riddles and their answers.
func (r *RiddleRepository) DeleteAll() error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM similarities`); err != nil {
		return fmt.Errorf("failed to delete similarities: %w", err)
	}
	if _, err := r.db.Conn().Exec(`DELETE FROM riddles`); err != nil {
		return fmt.Errorf("failed to delete riddles: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRiddle(s scanner) (*model.Riddle, error) {
	var riddle model.Riddle
	var capturedAt sql.NullTime
	if err := s.Scan(&riddle.ID, &riddle.SessionID, &riddle.PhotoName, &capturedAt, &riddle.Guess, &riddle.CreatedAt); err != nil {
		return nil, err
	}
	if capturedAt.Valid {
		riddle.CapturedAt = capturedAt.Time
	}
	return &riddle, nil
}

// buildRiddleFilter turns the filter into a WHERE clause over riddles r and similarities s.
func buildRiddleFilter(filter *dto.RiddleFilters) (string, []any) {
	var clauses []string
	var args []any

	if filter != nil {
		if filter.Label != "" {
			clauses = append(clauses, "s.label = ? COLLATE NOCASE")
			args = append(args, filter.Label)
		}
		if !filter.DateAfter.IsZero() {
			clauses = append(clauses, "DATE(r.created_at) >= ?")
			args = append(args, filter.DateAfter.Format("2006-01-02"))
		}
		if !filter.DateBefore.IsZero() {
			clauses = append(clauses, "DATE(r.created_at) <= ?")
			args = append(args, filter.DateBefore.Format("2006-01-02"))
		}
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
