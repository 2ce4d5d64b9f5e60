package catalogcache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/viccon/sturdyc"

	"github.com/goliatone/go-menu-catalog/cache"
	"github.com/goliatone/go-menu-catalog/catalog"
	"github.com/goliatone/go-menu-catalog/internal/cacheinfra"
	"github.com/goliatone/go-menu-catalog/internal/store"
	"github.com/goliatone/go-menu-catalog/pkg/testsupport"
)

// countingStore counts reads reaching the aggregate store.
type countingStore struct {
	Store

	mu    sync.Mutex
	calls map[string]int
}

func (c *countingStore) record(method string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[method]++
}

func (c *countingStore) count(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

func (c *countingStore) ListMenus(ctx context.Context) ([]catalog.MenuWithCounts, error) {
	c.record("ListMenus")
	return c.Store.ListMenus(ctx)
}

func (c *countingStore) GetMenu(ctx context.Context, id uuid.UUID) (catalog.MenuWithCounts, error) {
	c.record("GetMenu")
	return c.Store.GetMenu(ctx, id)
}

func (c *countingStore) ListSubmenus(ctx context.Context, menuID uuid.UUID) ([]catalog.SubmenuWithCounts, error) {
	c.record("ListSubmenus")
	return c.Store.ListSubmenus(ctx, menuID)
}

func (c *countingStore) GetSubmenu(ctx context.Context, menuID, id uuid.UUID) (catalog.SubmenuWithCounts, error) {
	c.record("GetSubmenu")
	return c.Store.GetSubmenu(ctx, menuID, id)
}

func (c *countingStore) ListDishes(ctx context.Context, menuID, submenuID uuid.UUID) ([]catalog.Dish, error) {
	c.record("ListDishes")
	return c.Store.ListDishes(ctx, menuID, submenuID)
}

func (c *countingStore) GetDish(ctx context.Context, menuID, submenuID, id uuid.UUID) (catalog.Dish, error) {
	c.record("GetDish")
	return c.Store.GetDish(ctx, menuID, submenuID, id)
}

// recordingCache records every write-side call made to the cache.
type recordingCache struct {
	cache.Store

	mu       sync.Mutex
	sets     []string
	deletes  []string
	patterns []string
}

func (r *recordingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	r.mu.Lock()
	r.sets = append(r.sets, key)
	r.mu.Unlock()
	return r.Store.Set(ctx, key, value, ttl)
}

func (r *recordingCache) Delete(ctx context.Context, keys ...string) error {
	r.mu.Lock()
	r.deletes = append(r.deletes, keys...)
	r.mu.Unlock()
	return r.Store.Delete(ctx, keys...)
}

func (r *recordingCache) DeleteMatching(ctx context.Context, pattern string) error {
	r.mu.Lock()
	r.patterns = append(r.patterns, pattern)
	r.mu.Unlock()
	return r.Store.DeleteMatching(ctx, pattern)
}

func (r *recordingCache) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets, r.deletes, r.patterns = nil, nil, nil
}

func (r *recordingCache) writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sets) + len(r.deletes) + len(r.patterns)
}

// brokenCache fails every call.
type brokenCache struct{}

var errCacheDown = errors.New("cache down")

func (brokenCache) Get(context.Context, string) ([]byte, error) { return nil, errCacheDown }
func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errCacheDown
}
func (brokenCache) Delete(context.Context, ...string) error { return errCacheDown }
func (brokenCache) DeleteMatching(context.Context, string) error { return errCacheDown }
func (brokenCache) FlushAll(context.Context) error { return errCacheDown }

type harness struct {
	catalog *Catalog
	store   *countingStore
	cache   *recordingCache
	mem     *cacheinfra.MemoryStore
	clock   *sturdyc.TestClock
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	return newHarnessWith(t, func(cache.Store) []Option { return opts })
}

// newHarnessWith builds options that need the harness cache.
func newHarnessWith(t *testing.T, build func(cache.Store) []Option) *harness {
	t.Helper()

	db := testsupport.OpenSQLite(t)
	if err := store.CreateSchema(context.Background(), db); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	cs := &countingStore{Store: store.New(db, nil), calls: map[string]int{}}

	clock := sturdyc.NewTestClock(time.Now())
	cfg := cacheinfra.DefaultConfig()
	cfg.Capacity = 1000
	cfg.NumShards = 4
	mem, err := cacheinfra.NewMemoryStore(cfg, cacheinfra.WithClock(clock))
	if err != nil {
		t.Fatalf("memory store: %v", err)
	}
	rc := &recordingCache{Store: mem}

	return &harness{
		catalog: New(cs, rc, build(rc)...),
		store:   cs,
		cache:   rc,
		mem:     mem,
		clock:   clock,
	}
}

func (h *harness) cached(t *testing.T, key string) bool {
	t.Helper()
	_, err := h.mem.Get(context.Background(), key)
	if err != nil && !errors.Is(err, cache.ErrMiss) {
		t.Fatalf("cache get %s: %v", key, err)
	}
	return err == nil
}

// tree is one menu with one submenu and one dish.
type tree struct {
	menu, submenu, dish uuid.UUID
}

func (h *harness) seed(t *testing.T) tree {
	t.Helper()
	ctx := context.Background()

	m, err := h.catalog.Menus.Create(ctx, catalog.Details{Title: "alcohol", Description: "drinks"})
	if err != nil {
		t.Fatalf("create menu: %v", err)
	}
	menuID := uuid.MustParse(m.ID)

	s, err := h.catalog.Submenus.Create(ctx, menuID, catalog.Details{Title: "wine", Description: "red"})
	if err != nil {
		t.Fatalf("create submenu: %v", err)
	}
	submenuID := uuid.MustParse(s.ID)

	d, err := h.catalog.Dishes.Create(ctx, menuID, submenuID, catalog.DishDetails{Title: "merlot", Price: "80.50"})
	if err != nil {
		t.Fatalf("create dish: %v", err)
	}
	return tree{menu: menuID, submenu: submenuID, dish: uuid.MustParse(d.ID)}
}

// warm reads every key of tr so all of them are cached.
func (h *harness) warm(t *testing.T, tr tree) {
	t.Helper()
	ctx := context.Background()
	c := h.catalog

	if _, err := c.Menus.List(ctx); err != nil {
		t.Fatalf("warm menus: %v", err)
	}
	if _, err := c.Menus.Get(ctx, tr.menu); err != nil {
		t.Fatalf("warm menu: %v", err)
	}
	if _, err := c.Submenus.List(ctx, tr.menu); err != nil {
		t.Fatalf("warm submenus: %v", err)
	}
	if _, err := c.Submenus.Get(ctx, tr.menu, tr.submenu); err != nil {
		t.Fatalf("warm submenu: %v", err)
	}
	if _, err := c.Dishes.List(ctx, tr.menu, tr.submenu); err != nil {
		t.Fatalf("warm dishes: %v", err)
	}
	if _, err := c.Dishes.Get(ctx, tr.menu, tr.submenu, tr.dish); err != nil {
		t.Fatalf("warm dish: %v", err)
	}
}

func (tr tree) keys() map[string]string {
	return map[string]string{
		"menus":    cache.MenusKey(),
		"menu":     cache.MenuKey(tr.menu),
		"submenus": cache.SubmenusKey(tr.menu),
		"submenu":  cache.SubmenuKey(tr.menu, tr.submenu),
		"dishes":   cache.DishesKey(tr.menu, tr.submenu),
		"dish":     cache.DishKey(tr.menu, tr.submenu, tr.dish),
	}
}
