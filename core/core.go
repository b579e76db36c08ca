// Package core is the git activity engine: it collects and classifies commits,
// correlates them with work sessions and derives hotspots and commit complexity.
package core

import (
	"errors"
	"time"

	"github.com/huangsam/gitpulse/core/correlate"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/sirupsen/logrus"
)

// Engine exposes the engine operations over an injected git client, store and
// session directory. It is safe for concurrent use; collection runs for the same
// project are serialized only by the store's unique keys.
type Engine struct {
	git         contract.GitClient
	store       contract.Store
	sessions    contract.SessionDirectory
	log         logrus.FieldLogger
	cfg         *contract.Config
	handles     *handleCache
	matcher     correlate.AuthorMatcher
	now         func() time.Time
	recentLimit int
}

// NewEngine wires an engine. A nil logger discards output and a nil config uses defaults.
func NewEngine(git contract.GitClient, store contract.Store, sessions contract.SessionDirectory, log logrus.FieldLogger, cfg *contract.Config) *Engine {
	if log == nil {
		log = contract.DiscardLogger()
	}
	if cfg == nil {
		cfg = contract.DefaultConfig()
	}
	return &Engine{
		git:         git,
		store:       store,
		sessions:    sessions,
		log:         log,
		cfg:         cfg,
		handles:     newHandleCache(cfg.HandleCacheTTL, cfg.HandleCacheSize),
		matcher:     correlate.NewAuthorMatcher(cfg.AuthorMatch),
		now:         time.Now,
		recentLimit: contract.MaxResultLimit,
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() *contract.Config {
	return e.cfg
}

// fail wraps err as an EngineError. An err that already is one passes through
// unchanged so the innermost classification wins.
func fail(err error, kind contract.ErrorKind, code contract.ErrorCode, message string, details map[string]any) error {
	var ee *contract.EngineError
	if errors.As(err, &ee) {
		return ee
	}
	return contract.NewEngineError(kind, code, message, err).WithDetails(details)
}

// normalizeLimit applies a default to non-positive limits and caps large ones.
func normalizeLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return min(limit, contract.MaxResultLimit)
}

// sinceHours returns the point in time hours before now.
func sinceHours(now time.Time, hours int) *time.Time {
	t := now.Add(-time.Duration(hours) * time.Hour)
	return &t
}

func projectDetails(projectID string) map[string]any {
	return map[string]any{"project_id": projectID}
}
