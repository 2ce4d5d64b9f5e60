package catalogcache

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-menu-catalog/cache"
	"github.com/goliatone/go-menu-catalog/catalog"
)

// SubmenuService serves the submenus of a menu through the cache.
type SubmenuService struct {
	service
}

// List returns the submenus of menuID.
func (s *SubmenuService) List(ctx context.Context, menuID uuid.UUID) ([]catalog.SubmenuView, error) {
	return cache.GetOrFetch(ctx, s.rt, cache.SubmenusKey(menuID), func(ctx context.Context) ([]catalog.SubmenuView, error) {
		rows, err := s.store.ListSubmenus(ctx, menuID)
		if err != nil {
			return nil, err
		}
		views := make([]catalog.SubmenuView, 0, len(rows))
		for _, row := range rows {
			views = append(views, catalog.NewSubmenuView(row))
		}
		return views, nil
	})
}

// Get returns one submenu of menuID.
func (s *SubmenuService) Get(ctx context.Context, menuID, id uuid.UUID) (catalog.SubmenuView, error) {
	return cache.GetOrFetch(ctx, s.rt, cache.SubmenuKey(menuID, id), func(ctx context.Context) (catalog.SubmenuView, error) {
		row, err := s.store.GetSubmenu(ctx, menuID, id)
		if err != nil {
			return catalog.SubmenuView{}, err
		}
		return catalog.NewSubmenuView(row), nil
	})
}

// Create inserts a submenu under menuID.
func (s *SubmenuService) Create(ctx context.Context, menuID uuid.UUID, d catalog.Details) (catalog.SubmenuView, error) {
	submenu, err := s.store.CreateSubmenu(ctx, menuID, d)
	if err != nil {
		return catalog.SubmenuView{}, err
	}

	view := catalog.NewSubmenuView(catalog.SubmenuWithCounts{Submenu: submenu})
	key := cache.SubmenuKey(menuID, submenu.ID)
	s.rt.Put(ctx, key, view)
	s.invalidate(ctx, cache.Mutation{
		Level: cache.LevelSubmenu,
		Op:    cache.OpCreate,
		Scope: cache.Scope{MenuID: menuID, SubmenuID: submenu.ID},
	}, key)
	return view, nil
}

// Update overwrites a submenu and refreshes its cached entry.
func (s *SubmenuService) Update(ctx context.Context, menuID, id uuid.UUID, d catalog.Details) (catalog.SubmenuView, error) {
	n, err := s.store.UpdateSubmenu(ctx, menuID, id, d)
	if err != nil {
		return catalog.SubmenuView{}, err
	}
	if n == 0 {
		return catalog.SubmenuView{}, catalog.NotFound(catalog.EntitySubmenu)
	}

	row, err := s.store.GetSubmenu(ctx, menuID, id)
	if err != nil {
		return catalog.SubmenuView{}, err
	}

	view := catalog.NewSubmenuView(row)
	key := cache.SubmenuKey(menuID, id)
	s.rt.Put(ctx, key, view)
	s.invalidate(ctx, cache.Mutation{
		Level: cache.LevelSubmenu,
		Op:    cache.OpUpdate,
		Scope: cache.Scope{MenuID: menuID, SubmenuID: id},
	}, key)
	return view, nil
}

// Delete removes a submenu with its dishes.
func (s *SubmenuService) Delete(ctx context.Context, menuID, id uuid.UUID) error {
	n, err := s.store.DeleteSubmenu(ctx, menuID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return catalog.NotFound(catalog.EntitySubmenu)
	}

	s.invalidate(ctx, cache.Mutation{
		Level: cache.LevelSubmenu,
		Op:    cache.OpDelete,
		Scope: cache.Scope{MenuID: menuID, SubmenuID: id},
	})
	return nil
}
