// Package review stores weekly reviews and renders them as a markdown diary.
package review

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/swamp-dev/mastery/internal/clock"
	"github.com/swamp-dev/mastery/internal/record"
	"github.com/swamp-dev/mastery/internal/store"
)

// MinEvidenceLength is the shortest accepted evidence text.
const MinEvidenceLength = 5

// Review is one week's reflection.
type Review struct {
	Evidence            string    `json:"evidence"`
	AlignmentReflection string    `json:"alignmentReflection"`
	NextActions         string    `json:"nextActions"`
	Timestamp           time.Time `json:"timestamp"`
	GoalContext         string    `json:"goalContext"`
}

// Week pairs a review with the Monday that keys it.
type Week struct {
	Monday time.Time
	Review Review
}

// Book is the collection of weekly reviews in a store.
type Book struct {
	store  *store.Store
	logger *slog.Logger
}

// New creates a Book. A nil logger discards output.
func New(s *store.Store, logger *slog.Logger) *Book {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Book{store: s, logger: logger}
}

// Save stores r as the review for the current week, replacing any earlier one.
// The timestamp is set to now.
func (b *Book) Save(ctx context.Context, r Review) (Review, error) {
	r.Evidence = strings.TrimSpace(r.Evidence)
	r.AlignmentReflection = strings.TrimSpace(r.AlignmentReflection)
	r.NextActions = strings.TrimSpace(r.NextActions)
	r.GoalContext = strings.TrimSpace(r.GoalContext)

	if utf8.RuneCountInString(r.Evidence) < MinEvidenceLength {
		return r, &record.ValidationError{
			Field:   "evidence",
			Message: fmt.Sprintf("evidence must be at least %d characters", MinEvidenceLength),
		}
	}

	now := b.store.Clock().Now()
	r.Timestamp = now
	key := store.ReviewKey(now)
	if !b.store.Set(ctx, key, r) {
		return r, fmt.Errorf("saving review %s: %w", key, store.ErrNotPersisted)
	}
	b.logger.Debug("weekly review saved", "key", key)
	return r, nil
}

// Get returns the review of the week containing t.
func (b *Book) Get(ctx context.Context, t time.Time) (Review, bool) {
	r := store.Get(ctx, b.store, store.ReviewKey(t), Review{})
	return r, r.Evidence != ""
}

// List returns every stored review, most recent week first.
func (b *Book) List(ctx context.Context) ([]Week, error) {
	keys, err := b.store.Keys(ctx, store.ReviewPrefix())
	if err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}

	var weeks []Week
	for _, key := range keys {
		monday, err := clock.ParseDate(strings.TrimPrefix(key, store.ReviewPrefix()))
		if err != nil {
			b.logger.Warn("skipping review with malformed key", "key", key)
			continue
		}
		r, ok := b.Get(ctx, monday)
		if !ok {
			continue
		}
		weeks = append(weeks, Week{Monday: monday, Review: r})
	}

	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Monday.After(weeks[j].Monday) })
	return weeks, nil
}

// ExportMarkdown renders every review as one markdown document.
func (b *Book) ExportMarkdown(ctx context.Context) (string, error) {
	weeks, err := b.List(ctx)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("# Weekly Reviews\n\n")
	if len(weeks) == 0 {
		sb.WriteString("_No reviews yet._\n")
		return sb.String(), nil
	}
	for i, w := range weeks {
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}
		sb.WriteString(RenderMarkdown(w))
	}
	return sb.String(), nil
}

// RenderMarkdown formats a single week's review.
func RenderMarkdown(w Week) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## Week of %s\n", clock.FormatDate(w.Monday)))
	sb.WriteString(fmt.Sprintf("**Saved %s**\n\n", w.Review.Timestamp.Format("2006-01-02 15:04")))

	section := func(title, body string) {
		if body == "" {
			return
		}
		sb.WriteString(fmt.Sprintf("### %s\n%s\n\n", title, body))
	}
	section("Goal Context", w.Review.GoalContext)
	section("Evidence", w.Review.Evidence)
	section("Alignment Reflection", w.Review.AlignmentReflection)
	section("Next Actions", w.Review.NextActions)

	return strings.TrimRight(sb.String(), "\n") + "\n"
}
