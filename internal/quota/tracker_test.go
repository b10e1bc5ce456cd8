package quota

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/modelscout/modelscout/internal/model"
)

func TestRecordAndLast(t *testing.T) {
	tr := NewTracker(t.TempDir(), zap.NewNop())

	_, ok := tr.Last("default")
	require.False(t, ok)

	q := model.QuotaState{Limit: 1000, Remaining: 750, ResetAt: "2026-09-01T00:00:00Z", ObservedAt: time.Now().UTC()}
	require.NoError(t, tr.Record("default", q))

	got, ok := tr.Last("default")
	require.True(t, ok)
	require.Equal(t, 750, got.Remaining)
	require.Equal(t, "2026-09-01T00:00:00Z", got.ResetAt)
}

func TestRecordOverwritesWithLatest(t *testing.T) {
	tr := NewTracker(t.TempDir(), zap.NewNop())

	require.NoError(t, tr.Record("default", model.QuotaState{Limit: 1000, Remaining: 900}))
	require.NoError(t, tr.Record("default", model.QuotaState{Limit: 1000, Remaining: 899}))

	got, ok := tr.Last("default")
	require.True(t, ok)
	require.Equal(t, 899, got.Remaining)
}

func TestProfilesAreNamespaced(t *testing.T) {
	tr := NewTracker(t.TempDir(), zap.NewNop())

	require.NoError(t, tr.Record("work", model.QuotaState{Limit: 1000, Remaining: 10}))
	require.NoError(t, tr.Record("personal", model.QuotaState{Limit: 500, Remaining: 400}))

	work, ok := tr.Last("work")
	require.True(t, ok)
	require.Equal(t, 10, work.Remaining)

	personal, ok := tr.Last("personal")
	require.True(t, ok)
	require.Equal(t, 400, personal.Remaining)
}

func TestCorruptRecordIsAbsent(t *testing.T) {
	dir := t.TempDir()
	tr := NewTracker(dir, zap.NewNop())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quota-default.json"), []byte("not json"), 0o644))

	_, ok := tr.Last("default")
	require.False(t, ok)
}

func TestLowThreshold(t *testing.T) {
	require.True(t, model.QuotaState{Limit: 1000, Remaining: 50}.Low())
	require.True(t, model.QuotaState{Limit: 1000, Remaining: 99}.Low())
	require.False(t, model.QuotaState{Limit: 1000, Remaining: 100}.Low())
	require.False(t, model.QuotaState{Limit: 0, Remaining: 0}.Low())
}
