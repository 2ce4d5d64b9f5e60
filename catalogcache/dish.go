package catalogcache

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-menu-catalog/cache"
	"github.com/goliatone/go-menu-catalog/catalog"
	"github.com/goliatone/go-menu-catalog/pricing"
)

// DishService serves the dishes of a submenu through the cache.
//
// Cached dish entries carry the stored price. The discount is looked up on
// every read, so an expired discount stops applying as soon as its own entry
// is gone.
type DishService struct {
	service
}

func (s *DishService) discount(ctx context.Context, id uuid.UUID) string {
	raw, err := s.rt.Store().Get(ctx, cache.DiscountKey(id))
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("discount lookup failed", zap.Stringer("dish_id", id), zap.Error(err))
		}
		return ""
	}
	return string(raw)
}

func (s *DishService) priced(ctx context.Context, v catalog.DishView) catalog.DishView {
	id, err := uuid.Parse(v.ID)
	if err != nil {
		return v
	}
	v.Price = pricing.EffectivePrice(v.Price, s.discount(ctx, id))
	return v
}

// List returns the dishes of a submenu at their effective price.
func (s *DishService) List(ctx context.Context, menuID, submenuID uuid.UUID) ([]catalog.DishView, error) {
	views, err := cache.GetOrFetch(ctx, s.rt, cache.DishesKey(menuID, submenuID), func(ctx context.Context) ([]catalog.DishView, error) {
		rows, err := s.store.ListDishes(ctx, menuID, submenuID)
		if err != nil {
			return nil, err
		}
		views := make([]catalog.DishView, 0, len(rows))
		for _, row := range rows {
			views = append(views, catalog.NewDishView(row))
		}
		return views, nil
	})
	if err != nil {
		return nil, err
	}

	// views may be shared with concurrent callers
	out := make([]catalog.DishView, len(views))
	for i, v := range views {
		out[i] = s.priced(ctx, v)
	}
	return out, nil
}

// Get returns one dish at its effective price.
func (s *DishService) Get(ctx context.Context, menuID, submenuID, id uuid.UUID) (catalog.DishView, error) {
	view, err := cache.GetOrFetch(ctx, s.rt, cache.DishKey(menuID, submenuID, id), func(ctx context.Context) (catalog.DishView, error) {
		row, err := s.store.GetDish(ctx, menuID, submenuID, id)
		if err != nil {
			return catalog.DishView{}, err
		}
		return catalog.NewDishView(row), nil
	})
	if err != nil {
		return catalog.DishView{}, err
	}
	return s.priced(ctx, view), nil
}

// Create validates the price and inserts a dish under submenuID.
func (s *DishService) Create(ctx context.Context, menuID, submenuID uuid.UUID, d catalog.DishDetails) (catalog.DishView, error) {
	price, err := pricing.ValidatePrice(d.Price)
	if err != nil {
		return catalog.DishView{}, err
	}
	d.Price = price

	dish, err := s.store.CreateDish(ctx, menuID, submenuID, d)
	if err != nil {
		return catalog.DishView{}, err
	}

	view := catalog.NewDishView(dish)
	key := cache.DishKey(menuID, submenuID, dish.ID)
	s.rt.Put(ctx, key, view)
	s.invalidate(ctx, cache.Mutation{
		Level: cache.LevelDish,
		Op:    cache.OpCreate,
		Scope: cache.Scope{MenuID: menuID, SubmenuID: submenuID, DishID: dish.ID},
	}, key)
	return s.priced(ctx, view), nil
}

// Update validates the price, overwrites a dish and refreshes its cached entry.
func (s *DishService) Update(ctx context.Context, menuID, submenuID, id uuid.UUID, d catalog.DishDetails) (catalog.DishView, error) {
	price, err := pricing.ValidatePrice(d.Price)
	if err != nil {
		return catalog.DishView{}, err
	}
	d.Price = price

	n, err := s.store.UpdateDish(ctx, menuID, submenuID, id, d)
	if err != nil {
		return catalog.DishView{}, err
	}
	if n == 0 {
		return catalog.DishView{}, catalog.NotFound(catalog.EntityDish)
	}

	row, err := s.store.GetDish(ctx, menuID, submenuID, id)
	if err != nil {
		return catalog.DishView{}, err
	}

	view := catalog.NewDishView(row)
	key := cache.DishKey(menuID, submenuID, id)
	s.rt.Put(ctx, key, view)
	s.invalidate(ctx, cache.Mutation{
		Level: cache.LevelDish,
		Op:    cache.OpUpdate,
		Scope: cache.Scope{MenuID: menuID, SubmenuID: submenuID, DishID: id},
	}, key)
	return s.priced(ctx, view), nil
}

// Delete removes a dish.
func (s *DishService) Delete(ctx context.Context, menuID, submenuID, id uuid.UUID) error {
	n, err := s.store.DeleteDish(ctx, menuID, submenuID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return catalog.NotFound(catalog.EntityDish)
	}

	s.invalidate(ctx, cache.Mutation{
		Level: cache.LevelDish,
		Op:    cache.OpDelete,
		Scope: cache.Scope{MenuID: menuID, SubmenuID: submenuID, DishID: id},
	})
	return nil
}
