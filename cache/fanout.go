package cache

import (
	"strings"

	"github.com/google/uuid"
)

// Level is a tier of the catalog hierarchy.
type Level int

const (
	LevelMenu Level = iota
	LevelSubmenu
	LevelDish
)

func (l Level) String() string {
	switch l {
	case LevelMenu:
		return "menu"
	case LevelSubmenu:
		return "submenu"
	case LevelDish:
		return "dish"
	default:
		return "unknown"
	}
}

// Op is a kind of write.
type Op int

const (
	OpCreate Op = iota
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Scope locates an entity. Only the ids up to the mutated level are read.
type Scope struct {
	MenuID    uuid.UUID
	SubmenuID uuid.UUID
	DishID    uuid.UUID
}

// Mutation describes a committed store write.
type Mutation struct {
	Level Level
	Op    Op
	Scope Scope
}

// Plan is the set of cache entries a mutation makes stale.
type Plan struct {
	Keys     []string
	Patterns []string
}

// PlanFor returns the invalidation fan-out of m. Writes mark their own
// listing and every ancestor whose derived counts changed; deletes also
// purge the deleted subtree since the store cascades.
func PlanFor(m Mutation) Plan {
	s := m.Scope
	ancestorsOfSubmenu := []string{SubmenusKey(s.MenuID), MenuKey(s.MenuID), MenusKey()}

	switch m.Level {
	case LevelMenu:
		switch m.Op {
		case OpCreate:
			return Plan{Keys: []string{MenusKey()}}
		case OpUpdate:
			return Plan{Keys: []string{MenuKey(s.MenuID), MenusKey()}}
		case OpDelete:
			return Plan{
				Keys:     []string{MenusKey()},
				Patterns: []string{Subtree(MenuKey(s.MenuID))},
			}
		}
	case LevelSubmenu:
		switch m.Op {
		case OpCreate:
			return Plan{Keys: ancestorsOfSubmenu}
		case OpUpdate:
			return Plan{Keys: []string{SubmenusKey(s.MenuID)}}
		case OpDelete:
			return Plan{
				Keys:     ancestorsOfSubmenu,
				Patterns: []string{Subtree(SubmenuKey(s.MenuID, s.SubmenuID))},
			}
		}
	case LevelDish:
		switch m.Op {
		case OpCreate:
			return Plan{Keys: append([]string{
				DishesKey(s.MenuID, s.SubmenuID),
				SubmenuKey(s.MenuID, s.SubmenuID),
			}, ancestorsOfSubmenu...)}
		case OpUpdate:
			return Plan{Keys: []string{DishesKey(s.MenuID, s.SubmenuID)}}
		case OpDelete:
			return Plan{Keys: append([]string{
				DishKey(s.MenuID, s.SubmenuID, s.DishID),
				DishesKey(s.MenuID, s.SubmenuID),
				SubmenuKey(s.MenuID, s.SubmenuID),
			}, ancestorsOfSubmenu...)}
		}
	}
	return Plan{}
}

// Without drops keys that the caller refreshes itself.
func (p Plan) Without(keys ...string) Plan {
	if len(keys) == 0 {
		return p
	}
	out := Plan{Patterns: p.Patterns}
	for _, k := range p.Keys {
		skip := false
		for _, drop := range keys {
			if k == drop {
				skip = true
				break
			}
		}
		if !skip {
			out.Keys = append(out.Keys, k)
		}
	}
	return out
}

// Empty reports whether there is nothing to invalidate.
func (p Plan) Empty() bool {
	return len(p.Keys) == 0 && len(p.Patterns) == 0
}

func (p Plan) String() string {
	parts := append(append([]string(nil), p.Keys...), p.Patterns...)
	return "[" + strings.Join(parts, " ") + "]"
}
