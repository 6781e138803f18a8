package ports

import (
	"context"

	"github.com/avatarctic/news-dashboard/go/internal/core/domain/item"
	"github.com/google/uuid"
)

// ItemRepository defines the interface for item data operations
type ItemRepository interface {
	Create(ctx context.Context, it *item.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*item.Item, error)
	Update(ctx context.Context, it *item.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*item.Item, error)
	Count(ctx context.Context) (int, error)
}

// ItemService defines the interface for item business logic
type ItemService interface {
	CreateItem(ctx context.Context, req *item.CreateItemRequest) (*item.Item, error)
	GetItem(ctx context.Context, id uuid.UUID) (*item.Item, error)
	ListItems(ctx context.Context, limit, offset int) ([]*item.Item, int, error)
	UpdateItem(ctx context.Context, id uuid.UUID, req *item.UpdateItemRequest) (*item.Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}
