package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	impl "github.com/avatarctic/news-dashboard/go/internal/application/services"
	"github.com/avatarctic/news-dashboard/go/internal/core/domain/item"
	"github.com/avatarctic/news-dashboard/go/internal/testutil"
)

func strPtr(s string) *string { return &s }

func TestItemService_CreateAndGet(t *testing.T) {
	repo := testutil.NewItemRepositoryMock()
	svc := impl.NewItemService(repo, nil)

	it, err := svc.CreateItem(context.Background(), &item.CreateItemRequest{Name: "widget", Description: strPtr("blue")})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, it.ID)
	require.False(t, it.CreatedAt.IsZero())
	require.Equal(t, it.CreatedAt, it.UpdatedAt)

	got, err := svc.GetItem(context.Background(), it.ID)
	require.NoError(t, err)
	require.Equal(t, "widget", got.Name)
	require.Equal(t, "blue", *got.Description)
}

func TestItemService_CreateRequiresName(t *testing.T) {
	svc := impl.NewItemService(testutil.NewItemRepositoryMock(), nil)
	_, err := svc.CreateItem(context.Background(), &item.CreateItemRequest{Name: "   "})
	require.ErrorIs(t, err, impl.ErrInvalidItem)
	_, err = svc.CreateItem(context.Background(), nil)
	require.ErrorIs(t, err, impl.ErrInvalidItem)
}

func TestItemService_CreateWrapsRepoError(t *testing.T) {
	repo := testutil.NewItemRepositoryMock()
	boom := errors.New("insert failed")
	repo.CreateFn = func(ctx context.Context, it *item.Item) error { return boom }
	svc := impl.NewItemService(repo, nil)
	_, err := svc.CreateItem(context.Background(), &item.CreateItemRequest{Name: "x"})
	require.ErrorIs(t, err, boom)
}

func TestItemService_GetMissing(t *testing.T) {
	svc := impl.NewItemService(testutil.NewItemRepositoryMock(), nil)
	_, err := svc.GetItem(context.Background(), uuid.New())
	require.ErrorIs(t, err, item.ErrNotFound)
}

func TestItemService_UpdateAppliesOnlySetFields(t *testing.T) {
	repo := testutil.NewItemRepositoryMock()
	svc := impl.NewItemService(repo, nil)
	it, err := svc.CreateItem(context.Background(), &item.CreateItemRequest{Name: "old", Description: strPtr("keep")})
	require.NoError(t, err)

	updated, err := svc.UpdateItem(context.Background(), it.ID, &item.UpdateItemRequest{Name: strPtr("new")})
	require.NoError(t, err)
	require.Equal(t, "new", updated.Name)
	require.Equal(t, "keep", *updated.Description)
	require.False(t, updated.UpdatedAt.Before(it.UpdatedAt))

	_, err = svc.UpdateItem(context.Background(), it.ID, &item.UpdateItemRequest{Name: strPtr("")})
	require.ErrorIs(t, err, impl.ErrInvalidItem)

	_, err = svc.UpdateItem(context.Background(), uuid.New(), &item.UpdateItemRequest{Name: strPtr("x")})
	require.ErrorIs(t, err, item.ErrNotFound)
}

func TestItemService_ListAndDelete(t *testing.T) {
	repo := testutil.NewItemRepositoryMock()
	svc := impl.NewItemService(repo, nil)
	for _, n := range []string{"c", "a", "b"} {
		_, err := svc.CreateItem(context.Background(), &item.CreateItemRequest{Name: n})
		require.NoError(t, err)
	}

	items, total, err := svc.ListItems(context.Background(), 2, 0)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, items, 2)
	require.Equal(t, "a", items[0].Name)

	require.NoError(t, svc.DeleteItem(context.Background(), items[0].ID))
	require.ErrorIs(t, svc.DeleteItem(context.Background(), items[0].ID), item.ErrNotFound)

	_, total, err = svc.ListItems(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Equal(t, 2, total)
}
