// Package store provides fail-soft key-value persistence for mastery records.
//
// Values are JSON documents (or plain strings for a few keys) stored by string key in
// a Backend. Reads never fail: a missing or malformed value yields the caller's
// fallback. Writes report success as a bool and retry once after a retention sweep
// when the backend runs out of space.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/swamp-dev/mastery/internal/clock"
	"github.com/swamp-dev/mastery/internal/record"
)

var (
	// ErrNotFound is returned by a Backend for an absent key.
	ErrNotFound = errors.New("key not found")
	// ErrQuotaExceeded is returned by a Backend that has no room for a write.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrNotPersisted is reported by callers when a fail-soft write returned false.
	ErrNotPersisted = errors.New("value not persisted")
)

// DefaultRetentionMonths is how far back a capacity sweep keeps daily records.
const DefaultRetentionMonths = 3

// Backend is the raw key-value persistence a Store is built on.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// Store is the single owner of persisted bytes.
type Store struct {
	backend         Backend
	clock           clock.Clock
	logger          *slog.Logger
	retentionMonths int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for fallback and sweep diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock used to compute retention cutoffs.
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithRetentionMonths sets how many months of daily records a capacity sweep keeps.
func WithRetentionMonths(months int) Option {
	return func(s *Store) {
		if months > 0 {
			s.retentionMonths = months
		}
	}
}

// New wraps a backend.
func New(b Backend, opts ...Option) *Store {
	s := &Store{
		backend:         b,
		clock:           clock.System{},
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		retentionMonths: DefaultRetentionMonths,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open opens a SQLite-backed store at path with the default size cap.
func Open(path string, opts ...Option) (*Store, error) {
	b, err := OpenSQLite(path, DefaultMaxBytes)
	if err != nil {
		return nil, err
	}
	return New(b, opts...), nil
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Clock returns the store's clock.
func (s *Store) Clock() clock.Clock {
	return s.clock
}

// Get decodes the JSON value under key, returning fallback when the key is missing or
// the value cannot be decoded.
func Get[T any](ctx context.Context, s *Store, key string, fallback T) T {
	raw, ok := s.read(ctx, key)
	if !ok {
		return fallback
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.logger.Warn("malformed value, using fallback", "key", key, "error", err)
		return fallback
	}
	return v
}

// GetString returns the plain string under key, or fallback.
func (s *Store) GetString(ctx context.Context, key, fallback string) string {
	raw, ok := s.read(ctx, key)
	if !ok {
		return fallback
	}
	return raw
}

func (s *Store) read(ctx context.Context, key string) (string, bool) {
	raw, err := s.backend.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", false
	}
	if err != nil {
		s.logger.Warn("read failed, using fallback", "key", key, "error", err)
		return "", false
	}
	return raw, true
}

// Set encodes v as JSON and persists it. It reports whether the write stuck.
func (s *Store) Set(ctx context.Context, key string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encoding value", "key", key, "error", err)
		return false
	}
	return s.SetString(ctx, key, string(data))
}

// SetString persists a raw value. On a quota failure it sweeps records older than the
// retention horizon and retries once.
func (s *Store) SetString(ctx context.Context, key, value string) bool {
	err := s.backend.Set(ctx, key, value)
	if err == nil {
		return true
	}
	if !errors.Is(err, ErrQuotaExceeded) {
		s.logger.Error("write failed", "key", key, "error", err)
		return false
	}

	s.logger.Warn("storage full, sweeping old records", "key", key, "retention_months", s.retentionMonths)
	if _, sweepErr := s.SweepOlderThan(ctx, s.RetentionCutoff()); sweepErr != nil {
		s.logger.Error("retention sweep failed", "error", sweepErr)
	}

	if err := s.backend.Set(ctx, key, value); err != nil {
		s.logger.Error("write failed after sweep", "key", key, "error", err)
		return false
	}
	return true
}

// Delete removes a key.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, key)
}

// Keys lists keys with the given prefix in sorted order.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	return s.backend.Keys(ctx, prefix)
}

// RetentionCutoff is the first day a capacity sweep keeps.
func (s *Store) RetentionCutoff() time.Time {
	return clock.Today(s.clock).AddDate(0, -s.retentionMonths, 0)
}

// SweepOlderThan deletes every daily record dated before cutoff's calendar day and
// returns how many were removed.
func (s *Store) SweepOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	keys, err := s.backend.Keys(ctx, Prefix)
	if err != nil {
		return 0, fmt.Errorf("listing daily records: %w", err)
	}

	limit := clock.Day(cutoff)
	removed := 0
	for _, key := range keys {
		day, ok := ParseDayKey(key)
		if !ok || !day.Before(limit) {
			continue
		}
		if err := s.backend.Delete(ctx, key); err != nil {
			return removed, fmt.Errorf("sweeping %s: %w", key, err)
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("swept old daily records", "removed", removed, "cutoff", clock.FormatDate(limit))
	}
	return removed, nil
}

// Day returns the normalized record for date; unseen or unreadable days are empty.
func (s *Store) Day(ctx context.Context, date time.Time) record.DailyRecord {
	r := Get(ctx, s, DayKey(date), record.New())
	r.Normalize()
	return r
}

// PutDay persists the record for date.
func (s *Store) PutDay(ctx context.Context, date time.Time, r record.DailyRecord) bool {
	return s.Set(ctx, DayKey(date), r)
}

// UpdateDay reads the record for date, applies fn, and writes the whole record back.
// When fn fails nothing is written.
func (s *Store) UpdateDay(ctx context.Context, date time.Time, fn func(*record.DailyRecord) error) (record.DailyRecord, error) {
	r := s.Day(ctx, date)
	if err := fn(&r); err != nil {
		return r, err
	}
	if !s.PutDay(ctx, date, r) {
		s.logger.Warn("daily record not persisted", "date", clock.FormatDate(date))
	}
	return r, nil
}

// RecordedDays returns the dates of all stored daily records, oldest first.
func (s *Store) RecordedDays(ctx context.Context) ([]time.Time, error) {
	keys, err := s.backend.Keys(ctx, Prefix)
	if err != nil {
		return nil, fmt.Errorf("listing daily records: %w", err)
	}

	var days []time.Time
	for _, key := range keys {
		if d, ok := ParseDayKey(key); ok {
			days = append(days, d)
		}
	}
	return days, nil
}

// DaysBetween returns every date from start to end inclusive alongside its normalized
// record, oldest first.
func (s *Store) DaysBetween(ctx context.Context, start, end time.Time) ([]time.Time, []record.DailyRecord) {
	var (
		dates []time.Time
		recs  []record.DailyRecord
	)
	last := clock.Day(end)
	for d := clock.Day(start); !d.After(last); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
		recs = append(recs, s.Day(ctx, d))
	}
	return dates, recs
}
