package repositories

import (
	"database/sql"
	"fmt"
)

// CounterRepository advances the durable per-day order sequence. The counter
// row is keyed by the yyyyMMdd day string and advanced atomically, so every
// caller (and every process) observes a strictly increasing sequence for the
// same day.
type CounterRepository interface {
	NextSequence(executor SQLExecutor, day string) (int, error)
}

type counterRepository struct {
	db *sql.DB
}

// NewCounterRepository creates a new instance of CounterRepository.
func NewCounterRepository(db *sql.DB) CounterRepository {
	return &counterRepository{db: db}
}

func (r *counterRepository) NextSequence(executor SQLExecutor, day string) (int, error) {
	var seq int
	query := `INSERT INTO order_counters (day, last_seq)
	          VALUES ($1, 1)
	          ON CONFLICT (day) DO UPDATE SET last_seq = order_counters.last_seq + 1
	          RETURNING last_seq`
	if err := executor.QueryRow(query, day).Scan(&seq); err != nil {
		return 0, fmt.Errorf("%w: advancing order counter for day %s: %v", ErrDatabaseError, day, err)
	}
	return seq, nil
}
