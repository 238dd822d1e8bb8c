package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Transition is a recorded open/closed status change.
type Transition struct {
	ID         int64     `json:"id"`
	Open       bool      `json:"open"`
	NextChange string    `json:"next_change,omitempty"`
	ObservedAt time.Time `json:"observed_at"`
}

// RecordTransition stores a status change.
func (db *DB) RecordTransition(ctx context.Context, open bool, nextChange string, at time.Time) error {
	var next sql.NullString
	if nextChange != "" {
		next = sql.NullString{String: nextChange, Valid: true}
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO status_transitions (is_open, next_change, observed_at) VALUES (?, ?, ?)`,
		open, next, at)
	if err != nil {
		return fmt.Errorf("record transition: %w", err)
	}
	return nil
}

// RecentTransitions returns the latest transitions, newest first.
func (db *DB) RecentTransitions(ctx context.Context, limit int) ([]Transition, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, is_open, next_change, observed_at
		FROM status_transitions
		ORDER BY observed_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transition
	for rows.Next() {
		var tr Transition
		var next sql.NullString
		if err := rows.Scan(&tr.ID, &tr.Open, &next, &tr.ObservedAt); err != nil {
			return nil, err
		}
		if next.Valid {
			tr.NextChange = next.String
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}
