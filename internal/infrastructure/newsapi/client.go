package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/news-dashboard/go/internal/core/domain/news"
)

// Config holds the NewsAPI connection settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Language string
	Timeout  time.Duration
}

// Client implements ports.NewsProvider against the NewsAPI top-headlines endpoint.
type Client struct {
	apiKey   string
	baseURL  string
	language string
	timeout  time.Duration
	http     *http.Client
	logger   *logrus.Logger
	now      func() time.Time
}

func NewClient(cfg *Config, httpClient *http.Client, logger *logrus.Logger) *Client {
	c := &Client{
		baseURL:  "https://newsapi.org/v2",
		language: "en",
		timeout:  10 * time.Second,
		http:     httpClient,
		logger:   logger,
		now:      time.Now,
	}
	if cfg != nil {
		c.apiKey = cfg.APIKey
		if cfg.BaseURL != "" {
			c.baseURL = strings.TrimRight(cfg.BaseURL, "/")
		}
		if cfg.Language != "" {
			c.language = cfg.Language
		}
		if cfg.Timeout > 0 {
			c.timeout = cfg.Timeout
		}
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	return c
}

func (c *Client) Name() string { return "newsapi" }

type apiResponse struct {
	Status       string       `json:"status"`
	Code         string       `json:"code"`
	Message      string       `json:"message"`
	TotalResults int          `json:"totalResults"`
	Articles     []apiArticle `json:"articles"`
}

type apiArticle struct {
	Source struct {
		ID   *string `json:"id"`
		Name string  `json:"name"`
	} `json:"source"`
	Author      *string `json:"author"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	URL         string  `json:"url"`
	URLToImage  *string `json:"urlToImage"`
	PublishedAt string  `json:"publishedAt"`
	Content     *string `json:"content"`
}

// FetchPage performs one top-headlines request bounded by the configured timeout.
func (c *Client) FetchPage(ctx context.Context, category news.Category, page, pageSize int) (news.ProviderPage, error) {
	if c.apiKey == "" {
		return news.UnconfiguredPage("news api key not configured"), nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("category", string(category))
	q.Set("apiKey", c.apiKey)
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	q.Set("language", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/top-headlines?"+q.Encode(), nil)
	if err != nil {
		return news.ProviderPage{}, fmt.Errorf("failed to build newsapi request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return news.ProviderPage{}, fmt.Errorf("newsapi request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return news.ProviderPage{}, fmt.Errorf("failed to read newsapi response: %w", err)
	}

	var data apiResponse
	decodeErr := json.Unmarshal(body, &data)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && data.Message != "" {
			return news.ProviderPage{}, fmt.Errorf("newsapi returned %d: %s", resp.StatusCode, data.Message)
		}
		return news.ProviderPage{}, fmt.Errorf("newsapi returned %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return news.ProviderPage{}, fmt.Errorf("failed to decode newsapi response: %w", decodeErr)
	}
	if data.Status != "ok" {
		return news.ErrorPage("newsapi error: %s", data.Message), nil
	}

	articles := c.normalize(data.Articles, category, pageSize)
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{"category": category, "page": page, "count": len(articles)}).Debug("fetched articles from newsapi")
	}
	return news.ProviderPage{Status: news.ProviderStatusOK, Articles: articles}, nil
}

func (c *Client) normalize(items []apiArticle, category news.Category, pageSize int) []news.Article {
	articles := make([]news.Article, 0, len(items))
	for _, item := range items {
		if pageSize > 0 && len(articles) >= pageSize {
			break
		}
		if item.URL == "" {
			continue
		}
		title := item.Title
		if title == "" {
			title = "No title"
		}
		source := item.Source.Name
		if source == "" {
			source = "Unknown"
		}
		published, err := time.Parse(time.RFC3339, item.PublishedAt)
		if err != nil {
			published = c.now().UTC()
		}
		articles = append(articles, news.Article{
			ID:          news.ArticleID(item.URL),
			Title:       title,
			Description: item.Description,
			Content:     item.Content,
			URL:         item.URL,
			ImageURL:    item.URLToImage,
			PublishedAt: published,
			Source:      source,
			Author:      item.Author,
			Category:    category,
		})
	}
	return articles
}
