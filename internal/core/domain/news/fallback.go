package news

import (
	"fmt"
	"strings"
	"time"
)

// DefaultPageSize is used when a caller does not ask for a positive page size.
const DefaultPageSize = 5

// fallbackEpoch anchors synthetic publication dates so fallback output never depends on the clock.
var fallbackEpoch = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

// FallbackArticles returns count synthetic articles derived only from category and index.
func FallbackArticles(category Category, count int) []Article {
	if count <= 0 {
		count = DefaultPageSize
	}
	title := titleCase(string(category))
	articles := make([]Article, 0, count)
	for i := 0; i < count; i++ {
		description := fmt.Sprintf("This is a mock article about %s for testing purposes.", category)
		content := fmt.Sprintf("Full content of the %s article would go here...", category)
		imageURL := fmt.Sprintf("https://picsum.photos/800/400?random=%d", i)
		author := "Test Author"
		articles = append(articles, Article{
			ID:          fmt.Sprintf("mock-%s-%d", category, i),
			Title:       fmt.Sprintf("Example %s News Article #%d", title, i+1),
			Description: &description,
			Content:     &content,
			URL:         fmt.Sprintf("https://example.com/%s/%d", category, i),
			ImageURL:    &imageURL,
			PublishedAt: fallbackEpoch.Add(-time.Duration(i) * time.Hour),
			Source:      "Example News",
			Author:      &author,
			Category:    category,
		})
	}
	return articles
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
