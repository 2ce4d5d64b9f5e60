package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/goliatone/go-menu-catalog/catalog"
)

// FullMenus returns every menu with its submenus and dishes.
func (s *Store) FullMenus(ctx context.Context) ([]catalog.MenuTree, error) {
	var (
		menus    []menuModel
		submenus []submenuModel
		dishes   []dishModel
	)

	if err := s.db.NewSelect().Model(&menus).OrderExpr("m.title ASC, m.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("full menus: %w", err)
	}
	if err := s.db.NewSelect().Model(&submenus).OrderExpr("s.title ASC, s.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("full menus: %w", err)
	}
	if err := s.db.NewSelect().Model(&dishes).OrderExpr("d.title ASC, d.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("full menus: %w", err)
	}

	dishesBySubmenu := make(map[uuid.UUID][]catalog.Dish)
	for i := range dishes {
		d := dishes[i].record()
		dishesBySubmenu[d.SubmenuID] = append(dishesBySubmenu[d.SubmenuID], d)
	}

	submenusByMenu := make(map[uuid.UUID][]catalog.SubmenuTree)
	for i := range submenus {
		sm := submenus[i].record()
		list := dishesBySubmenu[sm.ID]
		if list == nil {
			list = []catalog.Dish{}
		}
		submenusByMenu[sm.MenuID] = append(submenusByMenu[sm.MenuID], catalog.SubmenuTree{Submenu: sm, Dishes: list})
	}

	out := make([]catalog.MenuTree, 0, len(menus))
	for i := range menus {
		m := menus[i].record()
		list := submenusByMenu[m.ID]
		if list == nil {
			list = []catalog.SubmenuTree{}
		}
		out = append(out, catalog.MenuTree{Menu: m, Submenus: list})
	}
	return out, nil
}

// Sync makes the stored catalog equal to trees in one transaction: every
// entity is upserted by id and rows absent from trees are deleted.
func (s *Store) Sync(ctx context.Context, trees []catalog.MenuTree) error {
	var (
		menus    []menuModel
		submenus []submenuModel
		dishes   []dishModel
	)
	for _, mt := range trees {
		menus = append(menus, menuModel{ID: mt.ID, Title: mt.Title, Description: mt.Description})
		for _, st := range mt.Submenus {
			submenus = append(submenus, submenuModel{
				ID:          st.ID,
				MenuID:      mt.ID,
				Title:       st.Title,
				Description: st.Description,
			})
			for _, d := range st.Dishes {
				dishes = append(dishes, dishModel{
					ID:          d.ID,
					MenuID:      mt.ID,
					SubmenuID:   st.ID,
					Title:       d.Title,
					Description: d.Description,
					Price:       d.Price,
				})
			}
		}
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := prune(ctx, tx, (*dishModel)(nil), idsOf(dishes, func(d dishModel) uuid.UUID { return d.ID })); err != nil {
			return err
		}
		if err := prune(ctx, tx, (*submenuModel)(nil), idsOf(submenus, func(m submenuModel) uuid.UUID { return m.ID })); err != nil {
			return err
		}
		if err := prune(ctx, tx, (*menuModel)(nil), idsOf(menus, func(m menuModel) uuid.UUID { return m.ID })); err != nil {
			return err
		}

		if len(menus) > 0 {
			_, err := tx.NewInsert().Model(&menus).
				On("CONFLICT (id) DO UPDATE").
				Set("title = EXCLUDED.title").
				Set("description = EXCLUDED.description").
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("upsert menus: %w", err)
			}
		}
		if len(submenus) > 0 {
			_, err := tx.NewInsert().Model(&submenus).
				On("CONFLICT (id) DO UPDATE").
				Set("menu_id = EXCLUDED.menu_id").
				Set("title = EXCLUDED.title").
				Set("description = EXCLUDED.description").
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("upsert submenus: %w", err)
			}
		}
		if len(dishes) > 0 {
			_, err := tx.NewInsert().Model(&dishes).
				On("CONFLICT (id) DO UPDATE").
				Set("menu_id = EXCLUDED.menu_id").
				Set("submenu_id = EXCLUDED.submenu_id").
				Set("title = EXCLUDED.title").
				Set("description = EXCLUDED.description").
				Set("price = EXCLUDED.price").
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("upsert dishes: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sync catalog: %w", err)
	}

	s.logger.Debug("catalog synced",
		zap.Int("menus", len(menus)),
		zap.Int("submenus", len(submenus)),
		zap.Int("dishes", len(dishes)))
	return nil
}

func idsOf[T any](items []T, id func(T) uuid.UUID) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it).String())
	}
	return out
}

func prune(ctx context.Context, tx bun.Tx, model any, keep []string) error {
	q := tx.NewDelete().Model(model)
	if len(keep) == 0 {
		q = q.Where("1 = 1")
	} else {
		q = q.Where("id NOT IN (?)", bun.In(keep))
	}
	if _, err := q.Exec(ctx); err != nil {
		return fmt.Errorf("prune: %w", err)
	}
	return nil
}
