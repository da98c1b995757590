package models

import (
	"strings"
	"time"
)

type ContentStatus string

const (
	ContentStatusDraft           ContentStatus = "draft"
	ContentStatusPendingApproval ContentStatus = "pending_approval"
	ContentStatusApproved        ContentStatus = "approved"
	ContentStatusPublished       ContentStatus = "published"
	ContentStatusRejected        ContentStatus = "rejected"
)

// ValidContentStatuses lists every status a content item may carry.
var ValidContentStatuses = []ContentStatus{
	ContentStatusDraft,
	ContentStatusPendingApproval,
	ContentStatusApproved,
	ContentStatusPublished,
	ContentStatusRejected,
}

// SeoData is the optimization block embedded in a content item. TargetNiche
// is set at creation time; the remaining fields are written by the SEO
// optimization pass and may be absent until it has run.
type SeoData struct {
	TargetNiche     string             `json:"target_niche,omitempty"`
	MetaTitle       string             `json:"meta_title,omitempty"`
	MetaDescription string             `json:"meta_description,omitempty"`
	FocusKeywords   []string           `json:"focus_keywords,omitempty"`
	Headers         map[string]any     `json:"headers,omitempty"`
	KeywordDensity  map[string]float64 `json:"keyword_density,omitempty"`
	SeoScore        int                `json:"seo_score,omitempty"`
	Recommendations []string           `json:"recommendations,omitempty"`
	OptimizedAt     *time.Time         `json:"optimized_at,omitempty"`
}

// Merge copies the optimization fields of other into s, leaving fields other
// does not set untouched. Re-running an optimization therefore overwrites
// only what it recomputed; TargetNiche survives unless explicitly replaced.
func (s *SeoData) Merge(other SeoData) {
	if other.TargetNiche != "" {
		s.TargetNiche = other.TargetNiche
	}

	if other.MetaTitle != "" {
		s.MetaTitle = other.MetaTitle
	}

	if other.MetaDescription != "" {
		s.MetaDescription = other.MetaDescription
	}

	if len(other.FocusKeywords) > 0 {
		s.FocusKeywords = other.FocusKeywords
	}

	if len(other.Headers) > 0 {
		s.Headers = other.Headers
	}

	if len(other.KeywordDensity) > 0 {
		s.KeywordDensity = other.KeywordDensity
	}

	// An update stamped with OptimizedAt comes from a full optimization pass
	// whose score is authoritative even when it is 0; an unstamped partial
	// merge only replaces the score with a positive one.
	if other.OptimizedAt != nil || other.SeoScore > 0 {
		s.SeoScore = other.SeoScore
	}

	if len(other.Recommendations) > 0 {
		s.Recommendations = other.Recommendations
	}

	if other.OptimizedAt != nil {
		s.OptimizedAt = other.OptimizedAt
	}
}

// EngagementMetrics currently tracks only the generated word count.
type EngagementMetrics struct {
	WordCount int `json:"word_count"`
}

// ContentItem is a generated piece of content tracked from draft through
// publication. Items are never deleted by the pipeline.
type ContentItem struct {
	ID                string            `json:"id"`
	Title             string            `json:"title"`
	ContentBody       string            `json:"content_body"`
	ContentType       string            `json:"content_type"`
	Author            string            `json:"author"`
	Status            ContentStatus     `json:"status"`
	SeoData           SeoData           `json:"seo_data"`
	EngagementMetrics EngagementMetrics `json:"engagement_metrics"`
	CreatedAt         time.Time         `json:"created_at"`
	PublishedAt       *time.Time        `json:"published_at,omitempty"`
}

// WordCount returns the whitespace-separated word count of the body.
func (c *ContentItem) WordCount() int {
	return len(strings.Fields(c.ContentBody))
}
