package item

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no item exists for the requested ID.
var ErrNotFound = errors.New("item not found")

type Item struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CreateItemRequest represents the request to create a new item
type CreateItemRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// UpdateItemRequest carries optional fields; nil fields are left untouched.
type UpdateItemRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Apply copies the non-nil fields of req onto it.
func (it *Item) Apply(req *UpdateItemRequest) {
	if req == nil {
		return
	}
	if req.Name != nil {
		it.Name = *req.Name
	}
	if req.Description != nil {
		it.Description = req.Description
	}
}
