// Package quota keeps the last observed rate-limit snapshot per profile.
// Observational only: nothing reads it to gate a request.
package quota

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/modelscout/modelscout/internal/model"
)

type Tracker struct {
	dir string
	log *zap.Logger
}

func NewTracker(dir string, log *zap.Logger) *Tracker {
	return &Tracker{dir: dir, log: log}
}

func (t *Tracker) path(profile string) string {
	return filepath.Join(t.dir, "quota-"+profile+".json")
}

// Record overwrites the stored snapshot for a profile. Each profile has its
// own file, so concurrent profiles never clobber each other.
func (t *Tracker) Record(profile string, q model.QuotaState) error {
	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	raw, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("encode quota state: %w", err)
	}
	if err := os.WriteFile(t.path(profile), raw, 0o644); err != nil {
		return fmt.Errorf("write quota state: %w", err)
	}
	t.log.Debug("quota recorded",
		zap.String("profile", profile),
		zap.Int("remaining", q.Remaining),
		zap.Int("limit", q.Limit))
	return nil
}

// Last returns the most recent snapshot for a profile, if one exists.
func (t *Tracker) Last(profile string) (model.QuotaState, bool) {
	raw, err := os.ReadFile(t.path(profile))
	if err != nil {
		return model.QuotaState{}, false
	}
	var q model.QuotaState
	if err := json.Unmarshal(raw, &q); err != nil {
		t.log.Warn("quota record corrupt", zap.String("profile", profile), zap.Error(err))
		return model.QuotaState{}, false
	}
	return q, true
}
