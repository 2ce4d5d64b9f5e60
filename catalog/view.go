package catalog

// MenuView is the serialized form of a menu.
type MenuView struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	SubmenusCount int    `json:"submenus_count"`
	DishesCount   int    `json:"dishes_count"`
}

// SubmenuView is the serialized form of a submenu.
type SubmenuView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DishesCount int    `json:"dishes_count"`
}

// DishView is the serialized form of a dish. Price holds the stored price
// while cached and the effective price once handed to a caller.
type DishView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

// FullMenuView nests submenus and dishes under a menu.
type FullMenuView struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Submenus    []FullSubmenuView `json:"submenus"`
}

// FullSubmenuView nests dishes under a submenu.
type FullSubmenuView struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Dishes      []DishView `json:"dishes"`
}

// NewMenuView builds the view of a counted menu.
func NewMenuView(m MenuWithCounts) MenuView {
	return MenuView{
		ID:            m.ID.String(),
		Title:         m.Title,
		Description:   m.Description,
		SubmenusCount: m.SubmenusCount,
		DishesCount:   m.DishesCount,
	}
}

// NewSubmenuView builds the view of a counted submenu.
func NewSubmenuView(s SubmenuWithCounts) SubmenuView {
	return SubmenuView{
		ID:          s.ID.String(),
		Title:       s.Title,
		Description: s.Description,
		DishesCount: s.DishesCount,
	}
}

// NewDishView builds the view of a dish with its stored price.
func NewDishView(d Dish) DishView {
	return DishView{
		ID:          d.ID.String(),
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
	}
}
