// Package catalogcache serves the menu hierarchy through a read-through,
// write-invalidate cache.
//
// # Overview
//
// A Catalog holds one service per entity kind. Each service reads through the
// cache and writes to the aggregate Store first, then updates the cache:
//
//	c := catalogcache.New(store, cacheStore,
//		catalogcache.WithTTL(60*time.Second),
//		catalogcache.WithLogger(logger))
//
//	menus, err := c.Menus.List(ctx)
//	dish, err := c.Dishes.Create(ctx, menuID, submenuID, catalog.DishDetails{
//		Title: "Wine",
//		Price: "80.5",
//	})
//
// # Reads
//
// List and Get probe the listing or detail key. On a miss they query the
// store, which computes the derived counts, cache the view and return it.
// A missing row surfaces as catalog.ErrNotFound.
//
// # Writes
//
// Create caches the new entity under its detail key with zero counts.
// Update re-reads the entity and overwrites its detail key. Both then apply
// the fan-out from cache.PlanFor without the key they just wrote. Delete
// applies the full fan-out, which purges the deleted subtree by pattern.
//
// A successful store write is never undone or reported as failed because of
// the cache. Cache failures are logged.
//
// # Dish prices
//
// Dish entries hold the stored price. Every read applies the current
// {dish_id}_discount entry through pricing.EffectivePrice.
//
// # Invalidation
//
// SyncInvalidator runs the deletes of a plan concurrently before the write
// returns. DeferredInvalidator queues them for background workers and keeps
// going after the request context is cancelled:
//
//	inv := catalogcache.NewDeferredInvalidator(
//		catalogcache.NewSyncInvalidator(cacheStore),
//		catalogcache.DefaultDeferredConfig(),
//		logger)
//	defer inv.Close()
//
//	c := catalogcache.New(store, cacheStore, catalogcache.WithInvalidator(inv))
//
// Readers may briefly see pre-write data between the store write and the
// invalidation. Entries self-heal on the next write or at TTL expiry.
package catalogcache
