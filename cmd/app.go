package cmd

import (
	"fmt"
	"os"

	"github.com/modelscout/modelscout/internal/cache"
	"github.com/modelscout/modelscout/internal/config"
	"github.com/modelscout/modelscout/internal/hosted"
	"github.com/modelscout/modelscout/internal/logger"
	"github.com/modelscout/modelscout/internal/origin"
	"github.com/modelscout/modelscout/internal/quota"
	"github.com/modelscout/modelscout/internal/resolver"
)

// app wires the acquisition components for one invocation.
type app struct {
	cfg      config.Config
	store    *cache.Store
	tracker  *quota.Tracker
	resolver *resolver.Resolver
	cred     config.Credential
	hasCred  bool
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	cacheDir, err := config.CacheDir()
	if err != nil {
		return nil, err
	}
	store, err := cache.NewStore(cacheDir, logger.Log)
	if err != nil {
		return nil, err
	}

	tracker := quota.NewTracker(cacheDir, logger.Log)
	hostedClient := hosted.NewClient("", logger.Log)

	var originSrc resolver.OriginSource
	cred, hasCred := cfg.ResolveKey(profileFlag)
	if hasCred {
		originSrc = origin.NewClient("", cred, tracker, logger.Log)
	}

	return &app{
		cfg:      cfg,
		store:    store,
		tracker:  tracker,
		resolver: resolver.New(store, hostedClient, originSrc, logger.Log),
		cred:     cred,
		hasCred:  hasCred,
	}, nil
}

// warnLowQuota prints a stderr warning when the tracked quota for the active
// profile has dropped below 10%.
func (a *app) warnLowQuota() {
	if !a.hasCred {
		return
	}
	q, ok := a.tracker.Last(a.cred.Profile)
	if ok && q.Low() {
		fmt.Fprintf(os.Stderr,
			"\nWARNING: API quota is low (%d of %d requests remaining, %.1f%%)\n",
			q.Remaining, q.Limit, q.PercentRemaining())
	}
}
