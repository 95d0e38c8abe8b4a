package services

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"restaurant_backend/internal/repositories"
)

const (
	orderNumberPrefix  = "PED"
	orderNumberDateFmt = "20060102"
)

// FormatOrderNumber renders a date-scoped sequential order number, e.g.
// PED-20260829-0007.
func FormatOrderNumber(t time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%04d", orderNumberPrefix, t.Format(orderNumberDateFmt), seq)
}

// ParseOrderNumber splits an order number into its day and sequence parts.
// ok is false when the string does not follow the PED-<yyyyMMdd>-<seq> shape.
func ParseOrderNumber(number string) (day string, seq int, ok bool) {
	parts := strings.Split(number, "-")
	if len(parts) != 3 || parts[0] != orderNumberPrefix || len(parts[1]) != 8 {
		return "", 0, false
	}
	if _, err := time.Parse(orderNumberDateFmt, parts[1]); err != nil {
		return "", 0, false
	}
	seq, err := strconv.Atoi(parts[2])
	if err != nil || seq < 1 {
		return "", 0, false
	}
	return parts[1], seq, true
}

// OrderNumberSource produces process-unique, date-scoped order numbers.
type OrderNumberSource interface {
	Next(t time.Time) (string, error)
}

// memoryNumberSource keeps the sequence in memory. Uniqueness holds only
// within one running process for one calendar day: a second instance, or a
// restart without reseeding, can repeat numbers. Prefer the durable source
// in production.
type memoryNumberSource struct {
	mu      sync.Mutex
	day     string
	lastSeq int
}

// NewMemoryNumberSource creates an in-memory number source. lastStoredNumber
// is the most recently persisted order number (empty if none): when its date
// component matches the first generation day, the sequence resumes after it.
func NewMemoryNumberSource(lastStoredNumber string) OrderNumberSource {
	src := &memoryNumberSource{}
	if day, seq, ok := ParseOrderNumber(lastStoredNumber); ok {
		src.day = day
		src.lastSeq = seq
	}
	return src
}

func (s *memoryNumberSource) Next(t time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := t.Format(orderNumberDateFmt)
	if day != s.day {
		s.day = day
		s.lastSeq = 0
	}
	s.lastSeq++
	return FormatOrderNumber(t, s.lastSeq), nil
}

// durableNumberSource advances a per-day counter row in the database, so the
// sequence survives restarts and stays collision-free across instances. A
// sequence value reserved by a request that later fails is simply skipped;
// gaps are acceptable, collisions are not.
type durableNumberSource struct {
	db       *sql.DB
	counters repositories.CounterRepository
}

// NewDurableNumberSource creates a database-backed number source.
func NewDurableNumberSource(db *sql.DB, counters repositories.CounterRepository) OrderNumberSource {
	return &durableNumberSource{db: db, counters: counters}
}

func (s *durableNumberSource) Next(t time.Time) (string, error) {
	seq, err := s.counters.NextSequence(s.db, t.Format(orderNumberDateFmt))
	if err != nil {
		return "", fmt.Errorf("generating order number: %w", err)
	}
	return FormatOrderNumber(t, seq), nil
}
