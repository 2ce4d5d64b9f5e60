// Package store persists the catalog hierarchy with bun.
//
// Derived counts are never stored. Every read that needs them runs a
// correlated COUNT subquery, so a fresh read is always exact.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/goliatone/go-menu-catalog/catalog"
)

const (
	submenusCountExpr     = "(SELECT COUNT(*) FROM submenus AS sc WHERE sc.menu_id = m.id) AS submenus_count"
	menuDishesCountExpr   = "(SELECT COUNT(*) FROM dishes AS dc WHERE dc.menu_id = m.id) AS dishes_count"
	submenuDishesCountExp = "(SELECT COUNT(*) FROM dishes AS dc WHERE dc.submenu_id = s.id) AS dishes_count"
)

// Store is the aggregate store of menus, submenus and dishes.
type Store struct {
	db       *bun.DB
	menus    repository.Repository[*menuModel]
	submenus repository.Repository[*submenuModel]
	dishes   repository.Repository[*dishModel]
	logger   *zap.Logger
}

// New returns a Store on db.
func New(db *bun.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		db:       db,
		menus:    newMenuRepository(db),
		submenus: newSubmenuRepository(db),
		dishes:   newDishRepository(db),
		logger:   logger.Named("store"),
	}
}

// DB returns the underlying handle.
func (s *Store) DB() *bun.DB { return s.db }

func notFound(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.NotFound(entity)
	}
	return err
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// Menus

func (s *Store) menuQuery(db bun.IDB, rows any) *bun.SelectQuery {
	return db.NewSelect().Model(rows).
		ColumnExpr("m.*").
		ColumnExpr(submenusCountExpr).
		ColumnExpr(menuDishesCountExpr)
}

// ListMenus returns every menu with its counts, ordered by title.
func (s *Store) ListMenus(ctx context.Context) ([]catalog.MenuWithCounts, error) {
	var rows []menuRow
	if err := s.menuQuery(s.db, &rows).OrderExpr("m.title ASC, m.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}

	out := make([]catalog.MenuWithCounts, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].record())
	}
	return out, nil
}

// GetMenu returns one menu with its counts.
func (s *Store) GetMenu(ctx context.Context, id uuid.UUID) (catalog.MenuWithCounts, error) {
	var row menuRow
	if err := s.menuQuery(s.db, &row).Where("m.id = ?", id).Limit(1).Scan(ctx); err != nil {
		return catalog.MenuWithCounts{}, notFound(err, catalog.EntityMenu)
	}
	return row.record(), nil
}

// CreateMenu inserts a menu with a fresh id.
func (s *Store) CreateMenu(ctx context.Context, d catalog.Details) (catalog.Menu, error) {
	record, err := s.menus.Create(ctx, &menuModel{
		ID:          uuid.New(),
		Title:       d.Title,
		Description: d.Description,
	})
	if err != nil {
		return catalog.Menu{}, fmt.Errorf("create menu: %w", err)
	}
	return record.record(), nil
}

// UpdateMenu overwrites title and description.
func (s *Store) UpdateMenu(ctx context.Context, id uuid.UUID, d catalog.Details) (int64, error) {
	res, err := s.db.NewUpdate().Model((*menuModel)(nil)).
		Set("title = ?", d.Title).
		Set("description = ?", d.Description).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("update menu: %w", err)
	}
	return rowsAffected(res)
}

// DeleteMenu removes a menu and everything below it.
func (s *Store) DeleteMenu(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*dishModel)(nil)).Where("menu_id = ?", id).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*submenuModel)(nil)).Where("menu_id = ?", id).Exec(ctx); err != nil {
			return err
		}
		res, err := tx.NewDelete().Model((*menuModel)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return err
		}
		n, err = rowsAffected(res)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("delete menu: %w", err)
	}
	return n, nil
}

// Submenus

func (s *Store) submenuQuery(db bun.IDB, rows any) *bun.SelectQuery {
	return db.NewSelect().Model(rows).
		ColumnExpr("s.*").
		ColumnExpr(submenuDishesCountExp)
}

// ListSubmenus returns the submenus of a menu with their dish counts.
func (s *Store) ListSubmenus(ctx context.Context, menuID uuid.UUID) ([]catalog.SubmenuWithCounts, error) {
	var rows []submenuRow
	err := s.submenuQuery(s.db, &rows).
		Where("s.menu_id = ?", menuID).
		OrderExpr("s.title ASC, s.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submenus: %w", err)
	}

	out := make([]catalog.SubmenuWithCounts, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].record())
	}
	return out, nil
}

// GetSubmenu returns one submenu of a menu.
func (s *Store) GetSubmenu(ctx context.Context, menuID, id uuid.UUID) (catalog.SubmenuWithCounts, error) {
	var row submenuRow
	err := s.submenuQuery(s.db, &row).
		Where("s.id = ?", id).
		Where("s.menu_id = ?", menuID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return catalog.SubmenuWithCounts{}, notFound(err, catalog.EntitySubmenu)
	}
	return row.record(), nil
}

// CreateSubmenu inserts a submenu under an existing menu.
func (s *Store) CreateSubmenu(ctx context.Context, menuID uuid.UUID, d catalog.Details) (catalog.Submenu, error) {
	var created *submenuModel
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*menuModel)(nil)).Where("id = ?", menuID).Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return catalog.NotFound(catalog.EntityMenu)
		}

		created, err = s.submenus.CreateTx(ctx, tx, &submenuModel{
			ID:          uuid.New(),
			MenuID:      menuID,
			Title:       d.Title,
			Description: d.Description,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return catalog.Submenu{}, err
		}
		return catalog.Submenu{}, fmt.Errorf("create submenu: %w", err)
	}
	return created.record(), nil
}

// UpdateSubmenu overwrites title and description within a menu.
func (s *Store) UpdateSubmenu(ctx context.Context, menuID, id uuid.UUID, d catalog.Details) (int64, error) {
	res, err := s.db.NewUpdate().Model((*submenuModel)(nil)).
		Set("title = ?", d.Title).
		Set("description = ?", d.Description).
		Where("id = ?", id).
		Where("menu_id = ?", menuID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("update submenu: %w", err)
	}
	return rowsAffected(res)
}

// DeleteSubmenu removes a submenu and its dishes.
func (s *Store) DeleteSubmenu(ctx context.Context, menuID, id uuid.UUID) (int64, error) {
	var n int64
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().Model((*submenuModel)(nil)).
			Where("id = ?", id).
			Where("menu_id = ?", menuID).
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, err = rowsAffected(res); err != nil || n == 0 {
			return err
		}
		_, err = tx.NewDelete().Model((*dishModel)(nil)).Where("submenu_id = ?", id).Exec(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("delete submenu: %w", err)
	}
	return n, nil
}

// Dishes

// ListDishes returns the dishes of a submenu.
func (s *Store) ListDishes(ctx context.Context, menuID, submenuID uuid.UUID) ([]catalog.Dish, error) {
	var rows []dishModel
	err := s.db.NewSelect().Model(&rows).
		Where("d.menu_id = ?", menuID).
		Where("d.submenu_id = ?", submenuID).
		OrderExpr("d.title ASC, d.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}

	out := make([]catalog.Dish, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].record())
	}
	return out, nil
}

// GetDish returns one dish of a submenu.
func (s *Store) GetDish(ctx context.Context, menuID, submenuID, id uuid.UUID) (catalog.Dish, error) {
	var row dishModel
	err := s.db.NewSelect().Model(&row).
		Where("d.id = ?", id).
		Where("d.menu_id = ?", menuID).
		Where("d.submenu_id = ?", submenuID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return catalog.Dish{}, notFound(err, catalog.EntityDish)
	}
	return row.record(), nil
}

// CreateDish inserts a dish under an existing submenu. The price must
// already be normalized.
func (s *Store) CreateDish(ctx context.Context, menuID, submenuID uuid.UUID, d catalog.DishDetails) (catalog.Dish, error) {
	var created *dishModel
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*submenuModel)(nil)).
			Where("id = ?", submenuID).
			Where("menu_id = ?", menuID).
			Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return catalog.NotFound(catalog.EntitySubmenu)
		}

		created, err = s.dishes.CreateTx(ctx, tx, &dishModel{
			ID:          uuid.New(),
			MenuID:      menuID,
			SubmenuID:   submenuID,
			Title:       d.Title,
			Description: d.Description,
			Price:       d.Price,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return catalog.Dish{}, err
		}
		return catalog.Dish{}, fmt.Errorf("create dish: %w", err)
	}
	return created.record(), nil
}

// UpdateDish overwrites a dish within its submenu.
func (s *Store) UpdateDish(ctx context.Context, menuID, submenuID, id uuid.UUID, d catalog.DishDetails) (int64, error) {
	res, err := s.db.NewUpdate().Model((*dishModel)(nil)).
		Set("title = ?", d.Title).
		Set("description = ?", d.Description).
		Set("price = ?", d.Price).
		Where("id = ?", id).
		Where("menu_id = ?", menuID).
		Where("submenu_id = ?", submenuID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("update dish: %w", err)
	}
	return rowsAffected(res)
}

// DeleteDish removes a dish.
func (s *Store) DeleteDish(ctx context.Context, menuID, submenuID, id uuid.UUID) (int64, error) {
	res, err := s.db.NewDelete().Model((*dishModel)(nil)).
		Where("id = ?", id).
		Where("menu_id = ?", menuID).
		Where("submenu_id = ?", submenuID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete dish: %w", err)
	}
	return rowsAffected(res)
}
