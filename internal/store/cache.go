package store

import (
	"strings"
	"time"

	"fv-go/internal/fv"
	"fv-go/internal/model"

	"github.com/jellydator/ttlcache/v3"
)

// Cached wraps a Store and memoizes the read queries that back tree browsing
// (children listings, per-path history, version listings). Entries expire
// after a TTL and are invalidated whenever the wrapped store is written to,
// so readers never see a listing older than the TTL.
type Cached struct {
	inner fv.Store
	cache *ttlcache.Cache[string, any]
}

// NewCached wraps store with a TTL read cache. The returned store owns the
// cache janitor goroutine; Close stops it.
func NewCached(store fv.Store, ttl time.Duration) *Cached {
	cache := ttlcache.New[string, any](
		ttlcache.WithTTL[string, any](ttl),
		ttlcache.WithDisableTouchOnHit[string, any](),
	)
	go cache.Start()
	return &Cached{inner: store, cache: cache}
}

// cacheKey builds a lookup key scoped to a project so that invalidation can
// drop every entry for a project with one prefix scan. NUL separators keep
// user-supplied names from colliding across fields.
func cacheKey(projectID, kind, param string) string {
	return projectID + "\x00" + kind + "\x00" + param
}

// invalidateProject removes every cached entry belonging to the project.
func (c *Cached) invalidateProject(projectID string) {
	prefix := projectID + "\x00"
	for _, key := range c.cache.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Delete(key)
		}
	}
}

// Cached reads

func (c *Cached) ListChildren(projectID, parentID string) ([]*model.Node, error) {
	key := cacheKey(projectID, "children", parentID)
	if item := c.cache.Get(key); item != nil {
		return item.Value().([]*model.Node), nil
	}
	nodes, err := c.inner.ListChildren(projectID, parentID)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, nodes, ttlcache.DefaultTTL)
	return nodes, nil
}

func (c *Cached) ListNodesAtPath(projectID, path string) ([]*model.Node, error) {
	key := cacheKey(projectID, "history", path)
	if item := c.cache.Get(key); item != nil {
		return item.Value().([]*model.Node), nil
	}
	nodes, err := c.inner.ListNodesAtPath(projectID, path)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, nodes, ttlcache.DefaultTTL)
	return nodes, nil
}

func (c *Cached) ListVersions(projectID string) ([]*model.Version, error) {
	key := cacheKey(projectID, "versions", "")
	if item := c.cache.Get(key); item != nil {
		return item.Value().([]*model.Version), nil
	}
	versions, err := c.inner.ListVersions(projectID)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, versions, ttlcache.DefaultTTL)
	return versions, nil
}

// Pass-through reads. Point lookups are not cached because they back write
// paths that must observe their own effects.

func (c *Cached) FindRootFolder(projectID string) (*model.Node, error) {
	return c.inner.FindRootFolder(projectID)
}

func (c *Cached) FindFolderChild(projectID, parentID, name string) (*model.Node, error) {
	return c.inner.FindFolderChild(projectID, parentID, name)
}

func (c *Cached) FindNodeByID(id string) (*model.Node, error) {
	return c.inner.FindNodeByID(id)
}

// Writes delegate then invalidate the project's cached listings.

func (c *Cached) InsertNode(node *model.Node) error {
	if err := c.inner.InsertNode(node); err != nil {
		return err
	}
	c.invalidateProject(node.ProjectID)
	return nil
}

func (c *Cached) DemoteLatestAtPath(projectID, path string) error {
	if err := c.inner.DemoteLatestAtPath(projectID, path); err != nil {
		return err
	}
	c.invalidateProject(projectID)
	return nil
}

func (c *Cached) DemoteAllLatest(projectID string) error {
	if err := c.inner.DemoteAllLatest(projectID); err != nil {
		return err
	}
	c.invalidateProject(projectID)
	return nil
}

func (c *Cached) InsertVersion(version *model.Version) error {
	if err := c.inner.InsertVersion(version); err != nil {
		return err
	}
	c.invalidateProject(version.ProjectID)
	return nil
}

func (c *Cached) DeleteProject(projectID string) error {
	if err := c.inner.DeleteProject(projectID); err != nil {
		return err
	}
	c.invalidateProject(projectID)
	return nil
}

func (c *Cached) CheckMigrations() error {
	return c.inner.CheckMigrations()
}

// Close stops the cache janitor and closes the wrapped store.
func (c *Cached) Close() error {
	c.cache.Stop()
	return c.inner.Close()
}

// Compile-time check that Cached implements fv.Store
var _ fv.Store = (*Cached)(nil)
