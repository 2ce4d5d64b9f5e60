package store

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-menu-catalog/catalog"
)

type menuModel struct {
	bun.BaseModel `bun:"table:menus,alias:m"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	Title       string    `bun:"title,notnull"`
	Description string    `bun:"description,notnull"`
}

type submenuModel struct {
	bun.BaseModel `bun:"table:submenus,alias:s"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	MenuID      uuid.UUID `bun:"menu_id,notnull,type:uuid"`
	Title       string    `bun:"title,notnull"`
	Description string    `bun:"description,notnull"`
}

type dishModel struct {
	bun.BaseModel `bun:"table:dishes,alias:d"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	MenuID      uuid.UUID `bun:"menu_id,notnull,type:uuid"`
	SubmenuID   uuid.UUID `bun:"submenu_id,notnull,type:uuid"`
	Title       string    `bun:"title,notnull"`
	Description string    `bun:"description,notnull"`
	Price       string    `bun:"price,notnull"`
}

// menuRow is a menu with its count subqueries.
type menuRow struct {
	menuModel `bun:",extend"`

	SubmenusCount int `bun:"submenus_count,scanonly"`
	DishesCount   int `bun:"dishes_count,scanonly"`
}

type submenuRow struct {
	submenuModel `bun:",extend"`

	DishesCount int `bun:"dishes_count,scanonly"`
}

func (m *menuModel) record() catalog.Menu {
	return catalog.Menu{ID: m.ID, Title: m.Title, Description: m.Description}
}

func (s *submenuModel) record() catalog.Submenu {
	return catalog.Submenu{ID: s.ID, MenuID: s.MenuID, Title: s.Title, Description: s.Description}
}

func (d *dishModel) record() catalog.Dish {
	return catalog.Dish{
		ID:          d.ID,
		MenuID:      d.MenuID,
		SubmenuID:   d.SubmenuID,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
	}
}

func (r *menuRow) record() catalog.MenuWithCounts {
	return catalog.MenuWithCounts{
		Menu:          r.menuModel.record(),
		SubmenusCount: r.SubmenusCount,
		DishesCount:   r.DishesCount,
	}
}

func (r *submenuRow) record() catalog.SubmenuWithCounts {
	return catalog.SubmenuWithCounts{
		Submenu:     r.submenuModel.record(),
		DishesCount: r.DishesCount,
	}
}
