// Package cache provides the cache contract, key scheme and read-through
// helpers behind the catalog services.
//
// # Keys
//
// Keys are hierarchical so that a whole subtree can be dropped with one glob:
//
//	menus:all
//	menu:{menu_id}
//	menu:{menu_id}/submenus:all
//	menu:{menu_id}/submenu:{submenu_id}
//	menu:{menu_id}/submenu:{submenu_id}/dishes:all
//	menu:{menu_id}/submenu:{submenu_id}/dish:{dish_id}
//	{dish_id}_discount
//
// The discount key sits outside the hierarchy. It is written by the import
// job with a short TTL and is never touched by entity writes.
//
// # Invalidation
//
// PlanFor maps a committed Mutation to the keys and patterns it makes stale.
// Ancestor detail and listing keys are always included because their counts
// are derived from the children:
//
//	plan := cache.PlanFor(cache.Mutation{
//		Level: cache.LevelDish,
//		Op:    cache.OpCreate,
//		Scope: cache.Scope{MenuID: m, SubmenuID: s},
//	})
//
// # Read-through
//
// GetOrFetch looks a key up, decodes its JSON payload and on a miss calls the
// fetch function, writes the result back and returns it:
//
//	rt := cache.NewReadThrough(store, 60*time.Second, logger)
//	view, err := cache.GetOrFetch(ctx, rt, cache.MenuKey(id), func(ctx context.Context) (catalog.MenuView, error) {
//		return loadMenu(ctx, id)
//	})
//
// Concurrent misses on one key share a single fetch. Payloads that no longer
// decode are deleted and refetched. Use WithBypass to force a fetch.
//
// # Stores
//
// NewMemoryStore builds an in-process store and NewRedisStore wraps a Redis
// client. Store implementations return ErrMiss for absent keys.
package cache
