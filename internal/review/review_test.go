package review

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swamp-dev/mastery/internal/clock"
	"github.com/swamp-dev/mastery/internal/record"
	"github.com/swamp-dev/mastery/internal/store"
)

// Sunday; the week's Monday is 2026-10-12.
var testNow = time.Date(2026, 10, 18, 20, 15, 0, 0, time.Local)

func newTestBook(t *testing.T) (*Book, *store.Store) {
	t.Helper()
	s, err := store.Open(":memory:", store.WithClock(clock.Fixed(testNow)))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(s, nil), s
}

func TestSaveAndGet(t *testing.T) {
	b, s := newTestBook(t)
	ctx := context.Background()

	_, ok := b.Get(ctx, testNow)
	assert.False(t, ok)

	saved, err := b.Save(ctx, Review{
		Evidence:            "  Booked two auditions and filmed a short  ",
		AlignmentReflection: "Mornings were aligned, evenings drifted.",
		NextActions:         "Protect evening writing block.",
		GoalContext:         "Series regular by 2028",
	})
	require.NoError(t, err)
	assert.Equal(t, "Booked two auditions and filmed a short", saved.Evidence)
	assert.True(t, saved.Timestamp.Equal(testNow))

	assert.NotEmpty(t, s.GetString(ctx, "mastery_review_2026-10-12", ""))

	got, ok := b.Get(ctx, time.Date(2026, 10, 14, 0, 0, 0, 0, time.Local))
	require.True(t, ok)
	assert.Equal(t, saved.Evidence, got.Evidence)
	assert.Equal(t, saved.NextActions, got.NextActions)
}

func TestSaveRejectsShortEvidence(t *testing.T) {
	b, _ := newTestBook(t)
	ctx := context.Background()

	_, err := b.Save(ctx, Review{Evidence: " ok "})
	var ve *record.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "evidence", ve.Field)

	_, ok := b.Get(ctx, testNow)
	assert.False(t, ok)
}

func TestListNewestFirst(t *testing.T) {
	b, s := newTestBook(t)
	ctx := context.Background()

	older := Review{Evidence: "first week evidence", Timestamp: testNow.AddDate(0, 0, -14)}
	require.True(t, s.Set(ctx, "mastery_review_2026-09-28", older))
	require.True(t, s.SetString(ctx, "mastery_review_garbage", "{}"))
	_, err := b.Save(ctx, Review{Evidence: "this week evidence"})
	require.NoError(t, err)

	weeks, err := b.List(ctx)
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.Equal(t, "2026-10-12", clock.FormatDate(weeks[0].Monday))
	assert.Equal(t, "2026-09-28", clock.FormatDate(weeks[1].Monday))
}

func TestRenderMarkdown(t *testing.T) {
	w := Week{
		Monday: time.Date(2026, 10, 12, 0, 0, 0, 0, time.Local),
		Review: Review{
			Evidence:    "Shot the pilot scene",
			NextActions: "Edit the reel",
			Timestamp:   testNow,
		},
	}

	md := RenderMarkdown(w)
	assert.True(t, strings.HasPrefix(md, "## Week of 2026-10-12\n"))
	assert.Contains(t, md, "**Saved 2026-10-18 20:15**")
	assert.Contains(t, md, "### Evidence\nShot the pilot scene")
	assert.Contains(t, md, "### Next Actions\nEdit the reel")
	assert.NotContains(t, md, "Alignment Reflection")
	assert.NotContains(t, md, "Goal Context")
}

func TestExportMarkdown(t *testing.T) {
	b, _ := newTestBook(t)
	ctx := context.Background()

	md, err := b.ExportMarkdown(ctx)
	require.NoError(t, err)
	assert.Contains(t, md, "_No reviews yet._")

	_, err = b.Save(ctx, Review{Evidence: "Landed a callback"})
	require.NoError(t, err)

	md, err = b.ExportMarkdown(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(md, "# Weekly Reviews\n\n## Week of 2026-10-12"))
	assert.Contains(t, md, "Landed a callback")
}
