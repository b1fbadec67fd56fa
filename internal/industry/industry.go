// Package industry records relationship strength with industry targets and the
// monthly outreach log.
package industry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/swamp-dev/mastery/internal/clock"
	"github.com/swamp-dev/mastery/internal/record"
	"github.com/swamp-dev/mastery/internal/store"
)

// Kind names one of the monthly outreach logs.
type Kind string

const (
	Events    Kind = "events"
	Followups Kind = "followups"
	Contacts  Kind = "contacts"
)

// MinDetailLength is the shortest accepted entry description.
const MinDetailLength = 5

// Relationship levels run from a cold contact to a close ally.
const (
	MinLevel = 1
	MaxLevel = 5
)

// Kinds returns every log kind.
func Kinds() []Kind {
	return []Kind{Events, Followups, Contacts}
}

// ParseKind accepts a log kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown industry log %q (want events, followups or contacts)", s)
}

// Entry is one logged outreach action.
type Entry struct {
	Type      string    `json:"type"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// Log manages industry data in a store.
type Log struct {
	store  *store.Store
	logger *slog.Logger
}

// New creates a Log. A nil logger discards output.
func New(s *store.Store, logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Log{store: s, logger: logger}
}

// SetRelationship records how strong the relationship with name is.
func (l *Log) SetRelationship(ctx context.Context, name string, level int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &record.ValidationError{Field: "name", Message: "relationship target cannot be empty"}
	}
	if level < MinLevel || level > MaxLevel {
		return &record.ValidationError{
			Field:   "level",
			Message: fmt.Sprintf("relationship level must be between %d and %d", MinLevel, MaxLevel),
		}
	}

	rels := l.Relationships(ctx)
	rels[name] = level
	if !l.store.Set(ctx, store.RelationshipsKey, rels) {
		return fmt.Errorf("saving relationships: %w", store.ErrNotPersisted)
	}
	return nil
}

// Relationships returns every recorded target and level. The map is never nil.
func (l *Log) Relationships(ctx context.Context) map[string]int {
	rels := store.Get(ctx, l.store, store.RelationshipsKey, map[string]int{})
	if rels == nil {
		rels = map[string]int{}
	}
	return rels
}

// Add appends an entry to the current month's log of kind.
func (l *Log) Add(ctx context.Context, kind Kind, typ, details string) (Entry, error) {
	details = strings.TrimSpace(details)
	if utf8.RuneCountInString(details) < MinDetailLength {
		return Entry{}, &record.ValidationError{
			Field:   "details",
			Message: fmt.Sprintf("details must be at least %d characters", MinDetailLength),
		}
	}

	now := l.store.Clock().Now()
	e := Entry{Type: strings.TrimSpace(typ), Details: details, Timestamp: now}

	key := store.IndustryKey(string(kind), now)
	entries := store.Get(ctx, l.store, key, []Entry{})
	entries = append(entries, e)
	if !l.store.Set(ctx, key, entries) {
		return Entry{}, fmt.Errorf("saving %s log: %w", kind, store.ErrNotPersisted)
	}

	l.logger.Debug("industry entry logged", "kind", kind, "type", e.Type)
	return e, nil
}

// Entries returns the log of kind for month.
func (l *Log) Entries(ctx context.Context, kind Kind, month time.Time) []Entry {
	return store.Get(ctx, l.store, store.IndustryKey(string(kind), month), []Entry{})
}

// OutreachOn reports whether any entry of any kind was logged on day.
func (l *Log) OutreachOn(ctx context.Context, day time.Time) bool {
	want := clock.FormatDate(day)
	for _, k := range Kinds() {
		for _, e := range l.Entries(ctx, k, day) {
			if clock.FormatDate(e.Timestamp.In(day.Location())) == want {
				return true
			}
		}
	}
	return false
}
