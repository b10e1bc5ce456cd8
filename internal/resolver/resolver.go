// Package resolver decides which data source serves a table: local cache,
// hosted snapshot, or the origin API. The chain is an explicit state machine
// so every transition is independently testable.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/modelscout/modelscout/internal/cache"
	"github.com/modelscout/modelscout/internal/model"
	"github.com/modelscout/modelscout/internal/schema"
)

// ErrNoDataSource is terminal: no credential is configured and both the
// local cache and the hosted snapshot failed to produce the table.
var ErrNoDataSource = errors.New("no data source available: hosted data unreachable and no API key configured")

type State int

const (
	StateCheckLocal State = iota
	StateCheckHosted
	StateCheckOrigin
	StateResolved
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCheckLocal:
		return "check_local"
	case StateCheckHosted:
		return "check_hosted"
	case StateCheckOrigin:
		return "check_origin"
	case StateResolved:
		return "resolved"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Request is one table resolution as handed in by the CLI layer.
type Request struct {
	Table        string
	ForceRefresh bool
	PreferOrigin bool
}

// Result carries the table plus provenance for the caller.
type Result struct {
	Table     *model.Table
	Source    model.Source
	FetchedAt time.Time
}

// HostedSource is the hosted snapshot boundary. Satisfied by *hosted.Client.
type HostedSource interface {
	FetchManifest(ctx context.Context) (*model.Manifest, error)
	FetchTable(ctx context.Context, name string, m *model.Manifest) (*model.Table, string, error)
}

// OriginSource is the origin API boundary. Satisfied by *origin.Client.
type OriginSource interface {
	Fetch(ctx context.Context, table string) (*model.Table, error)
}

type Resolver struct {
	store  *cache.Store
	hosted HostedSource
	origin OriginSource // nil when no credential resolved
	ttl    time.Duration
	log    *zap.Logger
}

func New(store *cache.Store, hosted HostedSource, origin OriginSource, log *zap.Logger) *Resolver {
	return &Resolver{
		store:  store,
		hosted: hosted,
		origin: origin,
		ttl:    cache.DefaultTTL,
		log:    log,
	}
}

// WithTTL overrides the freshness window. Mainly for tests.
func (r *Resolver) WithTTL(ttl time.Duration) *Resolver {
	r.ttl = ttl
	return r
}

// Resolve runs the state machine for one table. Default order is local →
// hosted → origin: cheapest and least credentialed first. PreferOrigin
// reverses the chain for callers that want real-time data. Failures inside
// non-final stages fall through; only the final outcome surfaces.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Result, error) {
	def, ok := schema.Lookup(req.Table)
	if !ok {
		return nil, fmt.Errorf("unknown table %q (known: %v)", req.Table, schema.Names())
	}
	table := def.Name

	chain := []State{StateCheckLocal, StateCheckHosted, StateCheckOrigin}
	if req.PreferOrigin {
		chain = []State{StateCheckOrigin, StateCheckHosted, StateCheckLocal}
	}

	var originErr error
	for _, state := range chain {
		r.log.Debug("resolver transition",
			zap.String("table", table), zap.Stringer("state", state))

		switch state {
		case StateCheckLocal:
			if req.ForceRefresh {
				continue
			}
			if res := r.checkLocal(table); res != nil {
				return res, nil
			}

		case StateCheckHosted:
			res, err := r.checkHosted(ctx, table, req.ForceRefresh)
			if err == nil {
				return res, nil
			}
			r.log.Debug("hosted stage failed, falling through",
				zap.String("table", table), zap.Error(err))

		case StateCheckOrigin:
			if r.origin == nil {
				continue
			}
			res, err := r.checkOrigin(ctx, table)
			if err == nil {
				return res, nil
			}
			originErr = err
			r.log.Debug("origin stage failed",
				zap.String("table", table), zap.Error(err))
		}
	}

	// Terminal: surface the most specific error. An origin failure beats the
	// generic "nothing was available".
	if originErr != nil {
		if e, ok := r.store.Read(table); ok {
			r.log.Warn("request failed but stale cached data remains on disk",
				zap.String("table", table),
				zap.Time("fetched_at", e.FetchedAt))
		}
		return nil, originErr
	}
	return nil, ErrNoDataSource
}

// checkLocal resolves from a fresh cache entry; nil means fall through.
func (r *Resolver) checkLocal(table string) *Result {
	e, ok := r.store.Read(table)
	if !ok || !r.store.IsFresh(e, r.ttl) {
		return nil
	}
	return &Result{Table: e.Data(), Source: e.Source, FetchedAt: e.FetchedAt}
}

// checkHosted consults the release manifest. When the per-table marker
// matches the cached one the entry is confirmed current: fetched_at is
// re-stamped and no payload bytes are downloaded. Otherwise the payload is
// fetched and written through the store.
func (r *Resolver) checkHosted(ctx context.Context, table string, force bool) (*Result, error) {
	m, err := r.hosted.FetchManifest(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.store.SaveManifest(m); err != nil {
		r.log.Warn("failed to save manifest", zap.Error(err))
	}

	if !force {
		if asset, ok := m.Asset(table); ok {
			if e, cached := r.store.Read(table); cached &&
				e.Checksum != "" && e.Checksum == asset.SHA256 {
				if err := r.store.Touch(table); err != nil {
					r.log.Warn("failed to re-stamp cache entry",
						zap.String("table", table), zap.Error(err))
				}
				r.log.Debug("hosted marker unchanged, serving cached data",
					zap.String("table", table))
				return &Result{Table: e.Data(), Source: e.Source, FetchedAt: time.Now().UTC()}, nil
			}
		}
	}

	data, sum, err := r.hosted.FetchTable(ctx, table, m)
	if err != nil {
		return nil, err
	}
	e, err := r.store.Write(table, data, model.SourceHosted, sum)
	if err != nil {
		return nil, err
	}
	return &Result{Table: e.Data(), Source: model.SourceHosted, FetchedAt: e.FetchedAt}, nil
}

func (r *Resolver) checkOrigin(ctx context.Context, table string) (*Result, error) {
	data, err := r.origin.Fetch(ctx, table)
	if err != nil {
		return nil, err
	}
	e, err := r.store.Write(table, data, model.SourceOrigin, "")
	if err != nil {
		return nil, err
	}
	return &Result{Table: e.Data(), Source: model.SourceOrigin, FetchedAt: e.FetchedAt}, nil
}
