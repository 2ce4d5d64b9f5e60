package catalogcache

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-menu-catalog/cache"
	"github.com/goliatone/go-menu-catalog/catalog"
)

// MenuService serves menus through the cache.
type MenuService struct {
	service
}

// List returns every menu with its counts.
func (s *MenuService) List(ctx context.Context) ([]catalog.MenuView, error) {
	return cache.GetOrFetch(ctx, s.rt, cache.MenusKey(), func(ctx context.Context) ([]catalog.MenuView, error) {
		rows, err := s.store.ListMenus(ctx)
		if err != nil {
			return nil, err
		}
		views := make([]catalog.MenuView, 0, len(rows))
		for _, row := range rows {
			views = append(views, catalog.NewMenuView(row))
		}
		return views, nil
	})
}

// Get returns one menu.
func (s *MenuService) Get(ctx context.Context, id uuid.UUID) (catalog.MenuView, error) {
	return cache.GetOrFetch(ctx, s.rt, cache.MenuKey(id), func(ctx context.Context) (catalog.MenuView, error) {
		row, err := s.store.GetMenu(ctx, id)
		if err != nil {
			return catalog.MenuView{}, err
		}
		return catalog.NewMenuView(row), nil
	})
}

// Create inserts a menu and caches it with zero counts.
func (s *MenuService) Create(ctx context.Context, d catalog.Details) (catalog.MenuView, error) {
	menu, err := s.store.CreateMenu(ctx, d)
	if err != nil {
		return catalog.MenuView{}, err
	}

	view := catalog.NewMenuView(catalog.MenuWithCounts{Menu: menu})
	key := cache.MenuKey(menu.ID)
	s.rt.Put(ctx, key, view)
	s.invalidate(ctx, cache.Mutation{
		Level: cache.LevelMenu,
		Op:    cache.OpCreate,
		Scope: cache.Scope{MenuID: menu.ID},
	}, key)
	return view, nil
}

// Update overwrites a menu and refreshes its cached entry.
func (s *MenuService) Update(ctx context.Context, id uuid.UUID, d catalog.Details) (catalog.MenuView, error) {
	n, err := s.store.UpdateMenu(ctx, id, d)
	if err != nil {
		return catalog.MenuView{}, err
	}
	if n == 0 {
		return catalog.MenuView{}, catalog.NotFound(catalog.EntityMenu)
	}

	row, err := s.store.GetMenu(ctx, id)
	if err != nil {
		return catalog.MenuView{}, err
	}

	view := catalog.NewMenuView(row)
	key := cache.MenuKey(id)
	s.rt.Put(ctx, key, view)
	s.invalidate(ctx, cache.Mutation{
		Level: cache.LevelMenu,
		Op:    cache.OpUpdate,
		Scope: cache.Scope{MenuID: id},
	}, key)
	return view, nil
}

// Delete removes a menu with everything below it.
func (s *MenuService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.store.DeleteMenu(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return catalog.NotFound(catalog.EntityMenu)
	}

	s.invalidate(ctx, cache.Mutation{
		Level: cache.LevelMenu,
		Op:    cache.OpDelete,
		Scope: cache.Scope{MenuID: id},
	})
	return nil
}
