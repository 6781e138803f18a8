package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/avatarctic/news-dashboard/go/internal/application/services"
	"github.com/avatarctic/news-dashboard/go/internal/core/domain/item"
	"github.com/avatarctic/news-dashboard/go/internal/infrastructure/httpserver/helpers"
)

// itemError maps service errors onto HTTP status codes.
func itemError(err error) error {
	switch {
	case errors.Is(err, item.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	case errors.Is(err, services.ErrInvalidItem):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) itemsUnavailable() error {
	return echo.NewHTTPError(http.StatusServiceUnavailable, "item storage is not configured")
}

func (s *Server) createItem(c echo.Context) error {
	if s.itemService == nil {
		return s.itemsUnavailable()
	}
	var req item.CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	it, err := s.itemService.CreateItem(c.Request().Context(), &req)
	if err != nil {
		return itemError(err)
	}
	return c.JSON(http.StatusCreated, it)
}

func (s *Server) getItem(c echo.Context) error {
	if s.itemService == nil {
		return s.itemsUnavailable()
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item ID")
	}
	it, err := s.itemService.GetItem(c.Request().Context(), id)
	if err != nil {
		return itemError(err)
	}
	return c.JSON(http.StatusOK, it)
}

func (s *Server) listItems(c echo.Context) error {
	if s.itemService == nil {
		return s.itemsUnavailable()
	}
	limit, err := helpers.QueryInt(c, "limit", 100)
	if err != nil {
		return err
	}
	offset, err := helpers.QueryInt(c, "offset", 0)
	if err != nil {
		return err
	}
	if limit < 1 || limit > 1000 || offset < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "limit must be between 1 and 1000 and offset >= 0")
	}
	items, total, err := s.itemService.ListItems(c.Request().Context(), limit, offset)
	if err != nil {
		return itemError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":  items,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (s *Server) updateItem(c echo.Context) error {
	if s.itemService == nil {
		return s.itemsUnavailable()
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item ID")
	}
	var req item.UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	it, err := s.itemService.UpdateItem(c.Request().Context(), id, &req)
	if err != nil {
		return itemError(err)
	}
	return c.JSON(http.StatusOK, it)
}

func (s *Server) deleteItem(c echo.Context) error {
	if s.itemService == nil {
		return s.itemsUnavailable()
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item ID")
	}
	if err := s.itemService.DeleteItem(c.Request().Context(), id); err != nil {
		return itemError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
