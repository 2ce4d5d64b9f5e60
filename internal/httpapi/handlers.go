package httpapi

import (
	"net/http"

	"github.com/goliatone/go-menu-catalog/catalog"
)

func (a *API) fullMenu(w http.ResponseWriter, r *http.Request) {
	menus, err := a.catalog.FullMenus(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, menus)
}

// Menus

func (a *API) listMenus(w http.ResponseWriter, r *http.Request) {
	menus, err := a.catalog.Menus.List(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, menus)
}

func (a *API) getMenu(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "menu_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	menu, err := a.catalog.Menus.Get(r.Context(), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

func (a *API) createMenu(w http.ResponseWriter, r *http.Request) {
	var req detailsRequest
	if err := decode(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	menu, err := a.catalog.Menus.Create(r.Context(), req.details())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, menu)
}

func (a *API) updateMenu(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "menu_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var req detailsRequest
	if err := decode(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	menu, err := a.catalog.Menus.Update(r.Context(), id, req.details())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

func (a *API) deleteMenu(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "menu_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.catalog.Menus.Delete(r.Context(), id); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deletedBody(catalog.EntityMenu))
}

// Submenus

func (a *API) listSubmenus(w http.ResponseWriter, r *http.Request) {
	menuID, err := pathID(r, "menu_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	submenus, err := a.catalog.Submenus.List(r.Context(), menuID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, submenus)
}

func (a *API) getSubmenu(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "menu_id", "submenu_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	submenu, err := a.catalog.Submenus.Get(r.Context(), ids[0], ids[1])
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, submenu)
}

func (a *API) createSubmenu(w http.ResponseWriter, r *http.Request) {
	menuID, err := pathID(r, "menu_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var req detailsRequest
	if err := decode(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	submenu, err := a.catalog.Submenus.Create(r.Context(), menuID, req.details())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, submenu)
}

func (a *API) updateSubmenu(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "menu_id", "submenu_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var req detailsRequest
	if err := decode(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	submenu, err := a.catalog.Submenus.Update(r.Context(), ids[0], ids[1], req.details())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, submenu)
}

func (a *API) deleteSubmenu(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "menu_id", "submenu_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.catalog.Submenus.Delete(r.Context(), ids[0], ids[1]); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deletedBody(catalog.EntitySubmenu))
}

// Dishes

func (a *API) listDishes(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "menu_id", "submenu_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	dishes, err := a.catalog.Dishes.List(r.Context(), ids[0], ids[1])
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dishes)
}

func (a *API) getDish(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "menu_id", "submenu_id", "dish_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	dish, err := a.catalog.Dishes.Get(r.Context(), ids[0], ids[1], ids[2])
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dish)
}

func (a *API) createDish(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "menu_id", "submenu_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var req dishRequest
	if err := decode(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	dish, err := a.catalog.Dishes.Create(r.Context(), ids[0], ids[1], req.details())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dish)
}

func (a *API) updateDish(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "menu_id", "submenu_id", "dish_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var req dishRequest
	if err := decode(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	dish, err := a.catalog.Dishes.Update(r.Context(), ids[0], ids[1], ids[2], req.details())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dish)
}

func (a *API) deleteDish(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "menu_id", "submenu_id", "dish_id")
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.catalog.Dishes.Delete(r.Context(), ids[0], ids[1], ids[2]); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deletedBody(catalog.EntityDish))
}
