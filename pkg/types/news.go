// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strconv"
	"strings"
)

// NewsOptions enumerates every option recognized by the news-only operation.
type NewsOptions struct {
	Category   string `json:"category,omitempty" yaml:"category,omitempty"`
	Country    string `json:"country,omitempty" yaml:"country,omitempty"`
	Language   string `json:"language,omitempty" yaml:"language,omitempty"`
	MaxResults int    `json:"maxResults,omitempty" yaml:"max_results,omitempty"`
	SortBy     string `json:"sortBy,omitempty" yaml:"sort_by,omitempty"`
	FromDate   string `json:"fromDate,omitempty" yaml:"from_date,omitempty"`
	ToDate     string `json:"toDate,omitempty" yaml:"to_date,omitempty"`
}

// DefaultNewsCountry is used for top headlines when no country is given.
const DefaultNewsCountry = "us"

// WithDefaults returns a copy with unset fields filled in.
func (o NewsOptions) WithDefaults() NewsOptions {
	if strings.TrimSpace(o.Country) == "" {
		o.Country = DefaultNewsCountry
	}
	o.Country = strings.ToLower(o.Country)
	if o.MaxResults <= 0 {
		o.MaxResults = DefaultMaxResults
	}
	if o.MaxResults > MaxMaxResults {
		o.MaxResults = MaxMaxResults
	}
	return o
}

// KeyFields returns the options that distinguish cached headline sets.
func (o NewsOptions) KeyFields() map[string]string {
	fields := map[string]string{
		"type":     "news",
		"category": o.Category,
		"country":  o.Country,
		"language": o.Language,
		"sortBy":   o.SortBy,
		"fromDate": o.FromDate,
		"toDate":   o.ToDate,
	}
	if o.MaxResults > 0 {
		fields["maxResults"] = strconv.Itoa(o.MaxResults)
	}
	for k, v := range fields {
		if v == "" {
			delete(fields, k)
		}
	}
	return fields
}

// NewsArticle is a headline as returned by the news-only operation.
type NewsArticle struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	URL         string `json:"url" yaml:"url"`
	Source      string `json:"source" yaml:"source"`
	Author      string `json:"author,omitempty" yaml:"author,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty" yaml:"published_at,omitempty"`
	URLToImage  string `json:"urlToImage,omitempty" yaml:"url_to_image,omitempty"`
	Content     string `json:"content,omitempty" yaml:"content,omitempty"`
}

// NewsResponse is returned by the news-only operation.
type NewsResponse struct {
	Articles  []NewsArticle `json:"articles" yaml:"articles"`
	Total     int           `json:"total" yaml:"total"`
	Query     string        `json:"query" yaml:"query"`
	Cached    bool          `json:"cached" yaml:"cached"`
	ElapsedMs int64         `json:"elapsedMs" yaml:"elapsed_ms"`

	ProviderMs int64 `json:"-" yaml:"-"`
	CacheMs    int64 `json:"-" yaml:"-"`
}

// ToResult converts an article into a news-article SearchResult. The
// article-only fields ride in metadata so ArticleFromResult can restore them.
func (a NewsArticle) ToResult(score float64) SearchResult {
	meta := map[string]any{}
	for k, v := range map[string]string{
		"author":      a.Author,
		"publishedAt": a.PublishedAt,
		"urlToImage":  a.URLToImage,
		"content":     a.Content,
	} {
		if v != "" {
			meta[k] = v
		}
	}
	return SearchResult{
		Title:          a.Title,
		Description:    a.Description,
		URL:            a.URL,
		Source:         a.Source,
		Type:           TypeNewsArticle,
		RelevanceScore: score,
		Metadata:       meta,
	}
}

// ArticleFromResult is the inverse of NewsArticle.ToResult.
func ArticleFromResult(r SearchResult) NewsArticle {
	str := func(key string) string {
		if s, ok := r.Metadata[key].(string); ok {
			return s
		}
		return ""
	}
	return NewsArticle{
		Title:       r.Title,
		Description: r.Description,
		URL:         r.URL,
		Source:      r.Source,
		Author:      str("author"),
		PublishedAt: str("publishedAt"),
		URLToImage:  str("urlToImage"),
		Content:     str("content"),
	}
}
