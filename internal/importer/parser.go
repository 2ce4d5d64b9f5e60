// Package importer loads the catalog from a spreadsheet and replaces the
// stored catalog with it.
package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-menu-catalog/catalog"
	"github.com/goliatone/go-menu-catalog/pricing"
)

// Namespace seeds the deterministic ids of imported entities.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("github.com/goliatone/go-menu-catalog/importer"))

// Row levels, given by the column of the first non-empty cell.
const (
	levelMenu = iota
	levelSubmenu
	levelDish
)

// ParseError points at the offending sheet row (1-based).
type ParseError struct {
	Row     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// Batch is a parsed sheet.
type Batch struct {
	Menus []catalog.MenuTree
	// Discounts maps dish ids to a non-zero discount percentage.
	Discounts map[uuid.UUID]string
}

// Counts returns the number of menus, submenus and dishes in the batch.
func (b Batch) Counts() (menus, submenus, dishes int) {
	menus = len(b.Menus)
	for _, m := range b.Menus {
		submenus += len(m.Submenus)
		for _, s := range m.Submenus {
			dishes += len(s.Dishes)
		}
	}
	return menus, submenus, dishes
}

// EntityID derives the id of the entity at path, e.g. "menu/1/submenu/2".
func EntityID(path string) uuid.UUID {
	return uuid.NewSHA1(Namespace, []byte(path))
}

// Parse turns sheet rows into a catalog tree.
//
// Menu and submenu rows read (ordinal, title, description); dish rows read
// (ordinal, title, description, price, discount). Each row starts one column
// to the right of its parent's.
func Parse(rows [][]string) (Batch, error) {
	batch := Batch{Menus: []catalog.MenuTree{}, Discounts: map[uuid.UUID]string{}}

	var (
		menu     *catalog.MenuTree
		submenu  *catalog.SubmenuTree
		menuPath string
		subPath  string
		seen     = map[string]bool{}
	)

	for i, row := range rows {
		line := i + 1
		level := firstCell(row)
		if level < 0 {
			continue
		}
		if level > levelDish {
			return Batch{}, &ParseError{Row: line, Message: fmt.Sprintf("unexpected value in column %d", level+1)}
		}

		ordinal, err := strconv.Atoi(strings.TrimSpace(row[level]))
		if err != nil {
			return Batch{}, &ParseError{Row: line, Message: fmt.Sprintf("ordinal %q is not an integer", row[level])}
		}
		title := cell(row, level+1)
		description := cell(row, level+2)
		if title == "" {
			return Batch{}, &ParseError{Row: line, Message: "missing title"}
		}

		switch level {
		case levelMenu:
			menuPath = fmt.Sprintf("menu/%d", ordinal)
			if seen[menuPath] {
				return Batch{}, &ParseError{Row: line, Message: "duplicate menu ordinal " + strconv.Itoa(ordinal)}
			}
			seen[menuPath] = true
			batch.Menus = append(batch.Menus, catalog.MenuTree{
				Menu: catalog.Menu{
					ID:          EntityID(menuPath),
					Title:       title,
					Description: description,
				},
				Submenus: []catalog.SubmenuTree{},
			})
			menu = &batch.Menus[len(batch.Menus)-1]
			submenu = nil

		case levelSubmenu:
			if menu == nil {
				return Batch{}, &ParseError{Row: line, Message: "submenu outside of a menu"}
			}
			subPath = fmt.Sprintf("%s/submenu/%d", menuPath, ordinal)
			if seen[subPath] {
				return Batch{}, &ParseError{Row: line, Message: "duplicate submenu ordinal " + strconv.Itoa(ordinal)}
			}
			seen[subPath] = true
			menu.Submenus = append(menu.Submenus, catalog.SubmenuTree{
				Submenu: catalog.Submenu{
					ID:          EntityID(subPath),
					MenuID:      menu.ID,
					Title:       title,
					Description: description,
				},
				Dishes: []catalog.Dish{},
			})
			submenu = &menu.Submenus[len(menu.Submenus)-1]

		case levelDish:
			if submenu == nil {
				return Batch{}, &ParseError{Row: line, Message: "dish outside of a submenu"}
			}
			path := fmt.Sprintf("%s/dish/%d", subPath, ordinal)
			if seen[path] {
				return Batch{}, &ParseError{Row: line, Message: "duplicate dish ordinal " + strconv.Itoa(ordinal)}
			}
			seen[path] = true

			price, err := pricing.ValidatePrice(cell(row, level+3))
			if err != nil {
				return Batch{}, &ParseError{Row: line, Message: err.Error()}
			}
			dish := catalog.Dish{
				ID:          EntityID(path),
				MenuID:      menu.ID,
				SubmenuID:   submenu.ID,
				Title:       title,
				Description: description,
				Price:       price,
			}
			submenu.Dishes = append(submenu.Dishes, dish)

			if discount := cell(row, level+4); pricing.ParseDiscount(discount) != 0 {
				batch.Discounts[dish.ID] = discount
			}
		}
	}
	return batch, nil
}

func firstCell(row []string) int {
	for i, c := range row {
		if strings.TrimSpace(c) != "" {
			return i
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
