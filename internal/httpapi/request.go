package httpapi

import (
	"encoding/json"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-menu-catalog/catalog"
)

const maxBodyBytes = 1 << 20

// detailsRequest is the body of menu and submenu writes.
type detailsRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (r detailsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Description, validation.NotNil, validation.Length(0, 2000)),
	)
}

func (r detailsRequest) details() catalog.Details {
	return catalog.Details{Title: *r.Title, Description: *r.Description}
}

// dishRequest is the body of dish writes. The price is validated further
// down, a malformed one answers 400 rather than 422.
type dishRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
}

func (r dishRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Description, validation.NotNil, validation.Length(0, 2000)),
		validation.Field(&r.Price, validation.NotNil),
	)
}

func (r dishRequest) details() catalog.DishDetails {
	return catalog.DishDetails{Title: *r.Title, Description: *r.Description, Price: *r.Price}
}

// decode reads a JSON body into v and validates it.
func decode(w http.ResponseWriter, r *http.Request, v validation.Validatable) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return &bodyError{err: err}
	}
	return v.Validate()
}
