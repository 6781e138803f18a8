package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/news-dashboard/go/internal/core/domain/news"
	"github.com/avatarctic/news-dashboard/go/internal/infrastructure/httpserver/helpers"
)

const maxPageSize = 20

// RefreshRequest is the body of POST /api/news/refresh.
type RefreshRequest struct {
	Category      *string `json:"category"`
	InvalidateAll bool    `json:"invalidate_all"`
}

type RefreshResponse struct {
	Message     string `json:"message"`
	KeysDeleted int    `json:"keys_deleted"`
}

func (s *Server) getNews(c echo.Context) error {
	category := c.QueryParam("category")
	if category == "" {
		category = string(news.DefaultCategory)
	}
	page, err := helpers.QueryInt(c, "page", 1)
	if err != nil {
		return err
	}
	if page < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "page must be >= 1")
	}
	pageSize, err := helpers.QueryInt(c, "page_size", news.DefaultPageSize)
	if err != nil {
		return err
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("page_size must be between 1 and %d", maxPageSize))
	}
	forceRefresh, err := helpers.QueryBool(c, "force_refresh", false)
	if err != nil {
		return err
	}

	res, err := s.newsService.GetFeed(c.Request().Context(), category, page, pageSize, forceRefresh)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "request cancelled")
		}
		if s.logger != nil {
			s.logger.WithError(err).WithField("category", category).Error("failed to get news")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) getCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]news.Category{
		"categories": s.newsService.GetCategories(),
	})
}

func (s *Server) refreshCache(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	var category *string
	if !req.InvalidateAll && req.Category != nil && *req.Category != "" {
		category = req.Category
	}

	deleted, err := s.newsService.InvalidateCache(c.Request().Context(), category)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	message := "All news cache invalidated"
	if category != nil {
		message = fmt.Sprintf("Category '%s' cache invalidated", *category)
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"keys_deleted": deleted,
			"actor":        helpers.GetAdminSubject(c),
		}).Info(message)
	}
	return c.JSON(http.StatusOK, RefreshResponse{Message: message, KeysDeleted: deleted})
}

func (s *Server) getCacheMetrics(c echo.Context) error {
	return c.JSON(http.StatusOK, s.newsService.GetMetrics())
}
