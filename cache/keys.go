package cache

import "github.com/google/uuid"

const (
	menusKey   = "menus:all"
	submenusAt = "/submenus:all"
	dishesAt   = "/dishes:all"
)

// MenusKey caches the listing of all menus.
func MenusKey() string { return menusKey }

// MenuKey caches a single menu with its counts.
func MenuKey(menuID uuid.UUID) string {
	return "menu:" + menuID.String()
}

// SubmenusKey caches the submenu listing of a menu.
func SubmenusKey(menuID uuid.UUID) string {
	return MenuKey(menuID) + submenusAt
}

// SubmenuKey caches a single submenu with its dish count.
func SubmenuKey(menuID, submenuID uuid.UUID) string {
	return MenuKey(menuID) + "/submenu:" + submenuID.String()
}

// DishesKey caches the dish listing of a submenu.
func DishesKey(menuID, submenuID uuid.UUID) string {
	return SubmenuKey(menuID, submenuID) + dishesAt
}

// DishKey caches a single dish.
func DishKey(menuID, submenuID, dishID uuid.UUID) string {
	return SubmenuKey(menuID, submenuID) + "/dish:" + dishID.String()
}

// DiscountKey holds the transient discount of a dish. It lives outside the
// hierarchy and entity writes never invalidate it.
func DiscountKey(dishID uuid.UUID) string {
	return dishID.String() + "_discount"
}

// Subtree returns the glob matching key and every key nested below it.
func Subtree(key string) string {
	return key + "*"
}
