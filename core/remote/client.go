package remote

import (
	"context"
	"errors"
)

// ErrMissingCredentials is returned when the remote service cannot be reached
// because no base URL or credentials were configured.
var ErrMissingCredentials = errors.New("remote credentials missing")

// Category is one node of the remote category tree.
// Parent is 0 for a root category.
type Category struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Parent int64  `json:"parent"`
	Slug   string `json:"slug,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// ProductRef is a product together with all categories assigned to it.
type ProductRef struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name,omitempty"`
	CategoryIDs []int64 `json:"category_ids"`
}

// Client defines the operations needed on the remote category service.
// Every call is a network call and may fail; retries are the client's concern.
type Client interface {
	// FetchAll returns every category.
	FetchAll(ctx context.Context) ([]Category, error)
	// Create creates a category under parentID (0 for root) and returns its id.
	Create(ctx context.Context, name string, parentID int64) (int64, error)
	// SetParent moves a category under parentID.
	SetParent(ctx context.Context, id, parentID int64) error
	// Rename changes the display name of a category.
	Rename(ctx context.Context, id int64, name string) error
	// Delete removes a category permanently.
	Delete(ctx context.Context, id int64) error
	// ListProductsByCategory returns every product assigned to the category.
	ListProductsByCategory(ctx context.Context, id int64) ([]ProductRef, error)
	// SetProductCategories replaces the category assignment of a product.
	SetProductCategories(ctx context.Context, productID int64, categoryIDs []int64) error
}

// Relocator is implemented by clients that can rename and reparent a
// category in a single request.
type Relocator interface {
	Relocate(ctx context.Context, id int64, name string, parentID int64) error
}
