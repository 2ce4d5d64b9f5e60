package catalogcache

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-menu-catalog/catalog"
)

// Store is the aggregate store the services read through and write to.
// Get methods return a catalog.NotFoundError when nothing matches; update
// and delete report the number of rows they touched.
type Store interface {
	ListMenus(ctx context.Context) ([]catalog.MenuWithCounts, error)
	GetMenu(ctx context.Context, id uuid.UUID) (catalog.MenuWithCounts, error)
	CreateMenu(ctx context.Context, d catalog.Details) (catalog.Menu, error)
	UpdateMenu(ctx context.Context, id uuid.UUID, d catalog.Details) (int64, error)
	DeleteMenu(ctx context.Context, id uuid.UUID) (int64, error)

	ListSubmenus(ctx context.Context, menuID uuid.UUID) ([]catalog.SubmenuWithCounts, error)
	GetSubmenu(ctx context.Context, menuID, id uuid.UUID) (catalog.SubmenuWithCounts, error)
	CreateSubmenu(ctx context.Context, menuID uuid.UUID, d catalog.Details) (catalog.Submenu, error)
	UpdateSubmenu(ctx context.Context, menuID, id uuid.UUID, d catalog.Details) (int64, error)
	DeleteSubmenu(ctx context.Context, menuID, id uuid.UUID) (int64, error)

	ListDishes(ctx context.Context, menuID, submenuID uuid.UUID) ([]catalog.Dish, error)
	GetDish(ctx context.Context, menuID, submenuID, id uuid.UUID) (catalog.Dish, error)
	CreateDish(ctx context.Context, menuID, submenuID uuid.UUID, d catalog.DishDetails) (catalog.Dish, error)
	UpdateDish(ctx context.Context, menuID, submenuID, id uuid.UUID, d catalog.DishDetails) (int64, error)
	DeleteDish(ctx context.Context, menuID, submenuID, id uuid.UUID) (int64, error)

	FullMenus(ctx context.Context) ([]catalog.MenuTree, error)
}
