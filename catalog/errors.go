package catalog

import "errors"

// ErrNotFound matches every NotFoundError.
var ErrNotFound = errors.New("not found")

// Entity names used in NotFoundError.
const (
	EntityMenu    = "menu"
	EntitySubmenu = "submenu"
	EntityDish    = "dish"
)

// NotFoundError reports a missing (id, parent scope) combination.
type NotFoundError struct {
	Entity string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotFound returns a NotFoundError for entity.
func NotFound(entity string) error {
	return &NotFoundError{Entity: entity}
}
