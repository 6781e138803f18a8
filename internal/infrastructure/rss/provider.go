package rss

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/news-dashboard/go/internal/core/domain/news"
)

const maxDescriptionLen = 300

// Provider implements ports.NewsProvider on top of one RSS/Atom feed per category.
type Provider struct {
	feeds   map[news.Category]string
	parser  *gofeed.Parser
	timeout time.Duration
	logger  *logrus.Logger
	now     func() time.Time
}

// NewProvider builds a provider from a category→feed URL map. Unknown categories are dropped.
func NewProvider(feeds map[string]string, httpClient *http.Client, timeout time.Duration, logger *logrus.Logger) *Provider {
	parser := gofeed.NewParser()
	if httpClient != nil {
		parser.Client = httpClient
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	m := make(map[news.Category]string, len(feeds))
	for k, v := range feeds {
		c := news.Category(k)
		if !c.IsValid() {
			if logger != nil {
				logger.WithField("category", k).Warn("ignoring rss feed for unknown category")
			}
			continue
		}
		m[c] = v
	}
	return &Provider{feeds: m, parser: parser, timeout: timeout, logger: logger, now: time.Now}
}

func (p *Provider) Name() string { return "rss" }

func (p *Provider) FetchPage(ctx context.Context, category news.Category, page, pageSize int) (news.ProviderPage, error) {
	feedURL, ok := p.feeds[category]
	if !ok {
		return news.ErrorPage("no rss feed configured for category %s", category), nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	feed, err := p.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return news.ProviderPage{}, fmt.Errorf("fetching rss feed for %s: %w", category, err)
	}

	articles := p.normalize(feed, category)
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})

	if pageSize <= 0 {
		pageSize = news.DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(articles) {
		return news.ProviderPage{Status: news.ProviderStatusOK, Articles: []news.Article{}}, nil
	}
	end := start + pageSize
	if end > len(articles) {
		end = len(articles)
	}
	if p.logger != nil {
		p.logger.WithFields(logrus.Fields{"category": category, "page": page, "available": len(articles)}).Debug("parsed rss feed")
	}
	return news.ProviderPage{Status: news.ProviderStatusOK, Articles: articles[start:end]}, nil
}

func (p *Provider) normalize(feed *gofeed.Feed, category news.Category) []news.Article {
	source := strings.TrimSpace(feed.Title)
	if source == "" {
		source = "Unknown"
	}
	now := p.now().UTC()
	articles := make([]news.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}
		published := now
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = "No title"
		}
		a := news.Article{
			ID:          news.ArticleID(item.Link),
			Title:       title,
			URL:         item.Link,
			PublishedAt: published,
			Source:      source,
			Category:    category,
		}
		if d := truncate(stripHTML(item.Description), maxDescriptionLen); d != "" {
			a.Description = &d
		}
		if item.Content != "" {
			content := item.Content
			a.Content = &content
		}
		if item.Image != nil && item.Image.URL != "" {
			img := item.Image.URL
			a.ImageURL = &img
		}
		if len(item.Authors) > 0 && item.Authors[0] != nil && item.Authors[0].Name != "" {
			author := item.Authors[0].Name
			a.Author = &author
		}
		articles = append(articles, a)
	}
	return articles
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
