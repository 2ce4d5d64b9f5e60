// Package catalog holds the records and views of the menu → submenu → dish hierarchy.
//
// Records are what the aggregate store returns; views are the plain JSON shapes
// callers receive and the cache stores. Derived counts are never persisted,
// they are computed by the store at read time.
package catalog

import (
	"github.com/google/uuid"
)

// Menu is the top level of the hierarchy.
type Menu struct {
	ID          uuid.UUID
	Title       string
	Description string
}

// MenuWithCounts carries the derived aggregates of a menu.
type MenuWithCounts struct {
	Menu
	SubmenusCount int
	DishesCount   int
}

// Submenu belongs to a menu.
type Submenu struct {
	ID          uuid.UUID
	MenuID      uuid.UUID
	Title       string
	Description string
}

// SubmenuWithCounts carries the derived dish count of a submenu.
type SubmenuWithCounts struct {
	Submenu
	DishesCount int
}

// Dish belongs to a submenu; MenuID is a denormalized back reference.
type Dish struct {
	ID          uuid.UUID
	MenuID      uuid.UUID
	SubmenuID   uuid.UUID
	Title       string
	Description string
	Price       string
}

// Details is the editable part of a menu or submenu.
type Details struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DishDetails is the editable part of a dish.
type DishDetails struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

// MenuTree is a menu with every submenu and dish below it.
type MenuTree struct {
	Menu
	Submenus []SubmenuTree
}

// SubmenuTree is a submenu with its dishes.
type SubmenuTree struct {
	Submenu
	Dishes []Dish
}
