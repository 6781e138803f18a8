package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avatarctic/news-dashboard/go/internal/core/domain/item"
	"github.com/avatarctic/news-dashboard/go/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrInvalidItem is returned when a create or update request carries an empty name.
var ErrInvalidItem = errors.New("item name is required")

type ItemService struct {
	repo   ports.ItemRepository
	logger *logrus.Logger
}

func NewItemService(repo ports.ItemRepository, logger *logrus.Logger) ports.ItemService {
	return &ItemService{
		repo:   repo,
		logger: logger,
	}
}

func (s *ItemService) CreateItem(ctx context.Context, req *item.CreateItemRequest) (*item.Item, error) {
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidItem
	}
	now := time.Now().UTC()
	it := &item.Item{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		if s.logger != nil {
			s.logger.WithField("name", req.Name).WithError(err).Error("failed to create item in repo")
		}
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	if s.logger != nil {
		s.logger.WithField("id", it.ID).Info("item created")
	}
	return it, nil
}

func (s *ItemService) GetItem(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.WithField("id", id).Debug("item retrieved")
	}
	return it, nil
}

func (s *ItemService) ListItems(ctx context.Context, limit, offset int) ([]*item.Item, int, error) {
	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return items, count, nil
}

func (s *ItemService) UpdateItem(ctx context.Context, id uuid.UUID, req *item.UpdateItemRequest) (*item.Item, error) {
	if req != nil && req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, ErrInvalidItem
	}
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	it.Apply(req)
	it.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, it); err != nil {
		if s.logger != nil {
			s.logger.WithField("id", id).WithError(err).Error("failed to update item in repo")
		}
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	if s.logger != nil {
		s.logger.WithField("id", id).Info("item updated")
	}
	return it, nil
}

func (s *ItemService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.WithField("id", id).Info("item deleted")
	}
	return nil
}
