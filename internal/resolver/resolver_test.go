package resolver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/modelscout/modelscout/internal/cache"
	"github.com/modelscout/modelscout/internal/model"
	"github.com/modelscout/modelscout/internal/origin"
	"github.com/modelscout/modelscout/internal/schema"
)

func benchTable(rows int) *model.Table {
	def, _ := schema.Lookup("benchmarks")
	t := &model.Table{Name: def.Name, Columns: def.Columns}
	for i := 0; i < rows; i++ {
		row := make([]any, len(def.Columns))
		row[0] = "m"
		t.Rows = append(t.Rows, row)
	}
	return t
}

type fakeHosted struct {
	manifest      *model.Manifest
	table         *model.Table
	manifestErr   error
	tableErr      error
	manifestCalls int
	tableCalls    int
}

func (f *fakeHosted) FetchManifest(ctx context.Context) (*model.Manifest, error) {
	f.manifestCalls++
	if f.manifestErr != nil {
		return nil, f.manifestErr
	}
	return f.manifest, nil
}

func (f *fakeHosted) FetchTable(ctx context.Context, name string, m *model.Manifest) (*model.Table, string, error) {
	f.tableCalls++
	if f.tableErr != nil {
		return nil, "", f.tableErr
	}
	asset := m.Tables[name]
	return f.table, asset.SHA256, nil
}

type fakeOrigin struct {
	table *model.Table
	err   error
	calls int
}

func (f *fakeOrigin) Fetch(ctx context.Context, table string) (*model.Table, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.table, nil
}

func manifestFor(sha string, rows int) *model.Manifest {
	return &model.Manifest{
		Version:     "v1",
		GeneratedAt: time.Now().UTC(),
		Tables: map[string]model.TableAsset{
			"benchmarks": {File: "benchmarks.json", SHA256: sha, RowCount: rows},
		},
	}
}

func newTestStore(t *testing.T) *cache.Store {
	t.Helper()
	s, err := cache.NewStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestFreshCacheResolvesWithoutNetwork(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Write("benchmarks", benchTable(5), model.SourceHosted, "sha-1")
	require.NoError(t, err)

	hosted := &fakeHosted{manifestErr: errors.New("must not be called")}
	orig := &fakeOrigin{err: errors.New("must not be called")}
	r := New(store, hosted, orig, zap.NewNop())

	res, err := r.Resolve(context.Background(), Request{Table: "benchmarks"})
	require.NoError(t, err)
	assert.Equal(t, model.SourceHosted, res.Source)
	assert.Equal(t, 5, res.Table.RowCount())
	assert.Zero(t, hosted.manifestCalls)
	assert.Zero(t, orig.calls)
}

func TestStaleCacheFallsThroughToHosted(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Write("benchmarks", benchTable(5), model.SourceHosted, "sha-old")
	require.NoError(t, err)

	hosted := &fakeHosted{manifest: manifestFor("sha-new", 9), table: benchTable(9)}
	orig := &fakeOrigin{err: errors.New("must not be called")}
	r := New(store, hosted, orig, zap.NewNop()).WithTTL(0) // everything is stale

	res, err := r.Resolve(context.Background(), Request{Table: "benchmarks"})
	require.NoError(t, err)
	assert.Equal(t, model.SourceHosted, res.Source)
	assert.Equal(t, 9, res.Table.RowCount())
	assert.Equal(t, 1, hosted.tableCalls)
	assert.Zero(t, orig.calls, "origin must not be consulted when hosted succeeds")
}

func TestManifestMarkerShortCircuit(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Write("benchmarks", benchTable(5), model.SourceHosted, "sha-same")
	require.NoError(t, err)

	hosted := &fakeHosted{manifest: manifestFor("sha-same", 5)}
	r := New(store, hosted, nil, zap.NewNop()).WithTTL(0)

	before, ok := store.Read("benchmarks")
	require.True(t, ok)

	res, err := r.Resolve(context.Background(), Request{Table: "benchmarks"})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Table.RowCount())
	assert.Zero(t, hosted.tableCalls, "marker unchanged: no payload bytes downloaded")

	after, ok := store.Read("benchmarks")
	require.True(t, ok)
	assert.True(t, after.FetchedAt.After(before.FetchedAt) || after.FetchedAt.Equal(before.FetchedAt))
	assert.True(t, store.IsFresh(after, cache.DefaultTTL), "fetched_at must be re-stamped")
}

func TestForceRefreshSkipsLocalAndMarker(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Write("benchmarks", benchTable(5), model.SourceHosted, "sha-same")
	require.NoError(t, err)

	hosted := &fakeHosted{manifest: manifestFor("sha-same", 7), table: benchTable(7)}
	r := New(store, hosted, nil, zap.NewNop()) // cache is fresh, force must ignore it

	res, err := r.Resolve(context.Background(), Request{Table: "benchmarks", ForceRefresh: true})
	require.NoError(t, err)
	assert.Equal(t, 7, res.Table.RowCount())
	assert.Equal(t, 1, hosted.manifestCalls)
	assert.Equal(t, 1, hosted.tableCalls, "force refresh re-downloads the payload")
}

func TestHostedDownSpillsToOrigin(t *testing.T) {
	store := newTestStore(t)

	hosted := &fakeHosted{manifestErr: errors.New("host unreachable")}
	orig := &fakeOrigin{table: benchTable(3)}
	r := New(store, hosted, orig, zap.NewNop())

	res, err := r.Resolve(context.Background(), Request{Table: "benchmarks"})
	require.NoError(t, err)
	assert.Equal(t, model.SourceOrigin, res.Source)
	assert.Equal(t, 1, orig.calls)

	e, ok := store.Read("benchmarks")
	require.True(t, ok)
	assert.Equal(t, model.SourceOrigin, e.Source)
}

func TestNoCredentialTerminatesWithNoDataSource(t *testing.T) {
	store := newTestStore(t)
	hosted := &fakeHosted{manifestErr: errors.New("host unreachable")}
	r := New(store, hosted, nil, zap.NewNop())

	_, err := r.Resolve(context.Background(), Request{Table: "benchmarks"})
	require.ErrorIs(t, err, ErrNoDataSource)
}

func TestRateLimitSurfacesWithResetAndNoCacheWrite(t *testing.T) {
	store := newTestStore(t)
	hosted := &fakeHosted{manifestErr: errors.New("host unreachable")}
	orig := &fakeOrigin{err: &origin.RateLimitError{ResetAt: "2026-09-01T00:01:00Z"}}
	r := New(store, hosted, orig, zap.NewNop())

	_, err := r.Resolve(context.Background(), Request{Table: "benchmarks"})
	var rle *origin.RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.Contains(t, err.Error(), "2026-09-01T00:01:00Z")

	_, ok := store.Read("benchmarks")
	assert.False(t, ok, "failed resolution must not write a cache file")
}

func TestHostedSnapshotPopulatesEmptyCache(t *testing.T) {
	store := newTestStore(t)
	hosted := &fakeHosted{manifest: manifestFor("sha-1", 200), table: benchTable(200)}
	r := New(store, hosted, nil, zap.NewNop())

	res, err := r.Resolve(context.Background(), Request{Table: "benchmarks"})
	require.NoError(t, err)
	assert.Equal(t, 200, res.Table.RowCount())
	assert.Equal(t, model.SourceHosted, res.Source)

	e, ok := store.Read("benchmarks")
	require.True(t, ok)
	assert.Equal(t, "sha-1", e.Checksum)
	assert.Len(t, e.Rows, 200)
}

func TestPreferOriginReordersChain(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Write("benchmarks", benchTable(5), model.SourceHosted, "sha-1")
	require.NoError(t, err)

	hosted := &fakeHosted{manifestErr: errors.New("must not be needed")}
	orig := &fakeOrigin{table: benchTable(8)}
	r := New(store, hosted, orig, zap.NewNop())

	res, err := r.Resolve(context.Background(), Request{Table: "benchmarks", PreferOrigin: true})
	require.NoError(t, err)
	assert.Equal(t, model.SourceOrigin, res.Source)
	assert.Equal(t, 8, res.Table.RowCount())
}

func TestPreferOriginFallsBackToHostedThenLocal(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Write("benchmarks", benchTable(5), model.SourceHosted, "sha-1")
	require.NoError(t, err)

	hosted := &fakeHosted{manifestErr: errors.New("host unreachable")}
	orig := &fakeOrigin{err: errors.New("origin down")}
	r := New(store, hosted, orig, zap.NewNop())

	res, err := r.Resolve(context.Background(), Request{Table: "benchmarks", PreferOrigin: true})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Table.RowCount(), "fresh local cache is the last resort under prefer-origin")
}

func TestOriginFailureNotesStaleCache(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Write("benchmarks", benchTable(5), model.SourceHosted, "sha-1")
	require.NoError(t, err)

	core, logs := observer.New(zap.WarnLevel)
	hosted := &fakeHosted{manifestErr: errors.New("host unreachable")}
	orig := &fakeOrigin{err: errors.New("origin down")}
	r := New(store, hosted, orig, zap.New(core)).WithTTL(0) // cached entry is stale

	_, err = r.Resolve(context.Background(), Request{Table: "benchmarks", PreferOrigin: true})
	require.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessageSnippet("stale cached data").Len(),
		"the user should learn that stale data exists on disk")

	// No cache on disk, no note.
	empty := newTestStore(t)
	core, logs = observer.New(zap.WarnLevel)
	r = New(empty, hosted, orig, zap.New(core))
	_, err = r.Resolve(context.Background(), Request{Table: "benchmarks"})
	require.Error(t, err)
	assert.Zero(t, logs.FilterMessageSnippet("stale cached data").Len())
}

func TestOriginErrorBeatsGenericFailure(t *testing.T) {
	store := newTestStore(t)
	hosted := &fakeHosted{manifestErr: errors.New("host unreachable")}
	orig := &fakeOrigin{err: origin.ErrAuth}
	r := New(store, hosted, orig, zap.NewNop())

	_, err := r.Resolve(context.Background(), Request{Table: "benchmarks"})
	require.ErrorIs(t, err, origin.ErrAuth)
}

func TestUnknownTableRejected(t *testing.T) {
	r := New(newTestStore(t), &fakeHosted{}, nil, zap.NewNop())
	_, err := r.Resolve(context.Background(), Request{Table: "nope"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoDataSource)
}

func TestCorruptCacheFallsThrough(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Write("benchmarks", benchTable(5), model.SourceHosted, "sha-old")
	require.NoError(t, err)

	// Corrupt the entry on disk; resolution must recover via hosted.
	require.NoError(t, corruptEntry(store, "benchmarks"))

	hosted := &fakeHosted{manifest: manifestFor("sha-new", 4), table: benchTable(4)}
	r := New(store, hosted, nil, zap.NewNop())

	res, err := r.Resolve(context.Background(), Request{Table: "benchmarks"})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Table.RowCount())
}

func corruptEntry(s *cache.Store, table string) error {
	return os.WriteFile(filepath.Join(s.Dir(), table+".dat"), []byte("{not json"), 0o644)
}
