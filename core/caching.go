package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// repoHandle is a resolved, verified working tree of a registered project.
type repoHandle struct {
	Project schema.Project
	Root    string
}

// handleCache keeps repository handles for a bounded time and count. Concurrent
// misses for the same project share one load.
type handleCache struct {
	mu      sync.Mutex
	items   *cache.Cache
	group   singleflight.Group
	maxSize int
}

func newHandleCache(ttl time.Duration, maxSize int) *handleCache {
	if ttl <= 0 {
		ttl = contract.DefaultHandleCacheTTL
	}
	if maxSize < 1 {
		maxSize = contract.DefaultHandleCacheSize
	}
	return &handleCache{items: cache.New(ttl, ttl), maxSize: maxSize}
}

// get returns the cached handle for key or loads and caches it.
func (c *handleCache) get(ctx context.Context, key string, load func(context.Context) (*repoHandle, error)) (*repoHandle, error) {
	if v, ok := c.items.Get(key); ok {
		return v.(*repoHandle), nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		h, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.put(key, h)
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*repoHandle), nil
}

// put stores a handle, evicting the entry closest to expiry when the cache is full.
func (c *handleCache) put(key string, h *repoHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, found := c.items.Get(key); !found {
		for c.items.ItemCount() >= c.maxSize {
			if !c.evictOldest() {
				break
			}
		}
	}
	c.items.SetDefault(key, h)
}

func (c *handleCache) evictOldest() bool {
	oldestKey := ""
	var oldest int64
	for k, item := range c.items.Items() {
		if oldestKey == "" || item.Expiration < oldest {
			oldestKey, oldest = k, item.Expiration
		}
	}
	if oldestKey == "" {
		// only expired entries are left
		c.items.DeleteExpired()
		return c.items.ItemCount() < c.maxSize
	}
	c.items.Delete(oldestKey)
	return true
}

func (c *handleCache) invalidate(key string) {
	c.items.Delete(key)
}

func (c *handleCache) len() int {
	return c.items.ItemCount()
}

// handle resolves a registered project to a verified working tree.
func (e *Engine) handle(ctx context.Context, projectID string) (*repoHandle, error) {
	if projectID == "" {
		return nil, contract.NewEngineError(contract.KindRepositoryNotFound, contract.CodeRepositoryNotFound,
			"project id is required", nil)
	}
	return e.handles.get(ctx, projectID, func(ctx context.Context) (*repoHandle, error) {
		project, err := e.store.GetProject(ctx, projectID)
		if errors.Is(err, contract.ErrNotFound) {
			return nil, contract.NewEngineError(contract.KindRepositoryNotFound, contract.CodeRepositoryNotFound,
				fmt.Sprintf("project %s is not initialized", projectID), err).WithDetails(projectDetails(projectID))
		}
		if err != nil {
			return nil, contract.NewEngineError(contract.KindQueryFailed, contract.CodeQueryFailed,
				"failed to load project", err).WithDetails(projectDetails(projectID))
		}
		root, err := e.git.GetRepoRoot(ctx, project.RepoPath)
		if err != nil {
			return nil, contract.NewEngineError(contract.KindPathInvalid, contract.CodeInvalidPath,
				fmt.Sprintf("repository of project %s is no longer available", projectID), err).
				WithDetails(map[string]any{"project_id": projectID, "repo_path": project.RepoPath})
		}
		e.log.WithField("project", projectID).Debug("loaded repository handle")
		return &repoHandle{Project: project, Root: root}, nil
	})
}
