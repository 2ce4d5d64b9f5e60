package catalogcache

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-menu-catalog/cache"
	"github.com/goliatone/go-menu-catalog/catalog"
)

// Catalog groups the entity services over one store and one cache.
type Catalog struct {
	Menus    *MenuService
	Submenus *SubmenuService
	Dishes   *DishService

	store  Store
	cache  cache.Store
	logger *zap.Logger
}

// New wires the services. Without options entries live DefaultTTL and
// invalidation runs synchronously.
func New(store Store, cacheStore cache.Store, opts ...Option) *Catalog {
	o := options{ttl: DefaultTTL, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.invalidator == nil {
		o.invalidator = NewSyncInvalidator(cacheStore)
	}

	logger := o.logger.Named("catalog")
	base := service{
		store:  store,
		rt:     cache.NewReadThrough(cacheStore, o.ttl, logger),
		inv:    o.invalidator,
		logger: logger,
	}

	return &Catalog{
		Menus:    &MenuService{service: base},
		Submenus: &SubmenuService{service: base},
		Dishes:   &DishService{service: base},
		store:    store,
		cache:    cacheStore,
		logger:   logger,
	}
}

// FullMenus reads the whole hierarchy fresh from the store with effective
// dish prices. It is not cached.
func (c *Catalog) FullMenus(ctx context.Context) ([]catalog.FullMenuView, error) {
	trees, err := c.store.FullMenus(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]catalog.FullMenuView, 0, len(trees))
	for _, mt := range trees {
		menu := catalog.FullMenuView{
			ID:          mt.ID.String(),
			Title:       mt.Title,
			Description: mt.Description,
			Submenus:    make([]catalog.FullSubmenuView, 0, len(mt.Submenus)),
		}
		for _, st := range mt.Submenus {
			sub := catalog.FullSubmenuView{
				ID:          st.ID.String(),
				Title:       st.Title,
				Description: st.Description,
				Dishes:      make([]catalog.DishView, 0, len(st.Dishes)),
			}
			for _, d := range st.Dishes {
				sub.Dishes = append(sub.Dishes, c.Dishes.priced(ctx, catalog.NewDishView(d)))
			}
			menu.Submenus = append(menu.Submenus, sub)
		}
		out = append(out, menu)
	}
	return out, nil
}

// Flush drops every cache entry.
func (c *Catalog) Flush(ctx context.Context) error {
	c.logger.Info("flushing cache")
	return c.cache.FlushAll(ctx)
}
