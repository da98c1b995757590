package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ecoreach/contentflow/pkg/models"
	"github.com/ecoreach/contentflow/pkg/persistence"
	"github.com/ecoreach/contentflow/pkg/providers"
)

const (
	maxMetaTitleLength = 60
	fallbackSeoScore   = 75
)

// seoResponseSchema is the contract the text provider is asked to honor.
// Responses that do not validate trigger the deterministic fallback.
const seoResponseSchema = `{
	"type": "object",
	"required": ["meta_title", "meta_description", "focus_keywords", "seo_score"],
	"properties": {
		"meta_title": {"type": "string", "minLength": 1, "maxLength": 60},
		"meta_description": {"type": "string", "minLength": 1, "maxLength": 160},
		"focus_keywords": {"type": "array", "items": {"type": "string"}, "minItems": 1, "maxItems": 5},
		"headers": {"type": "object"},
		"seo_score": {"type": "integer", "minimum": 0, "maximum": 100},
		"recommendations": {"type": "array", "items": {"type": "string"}}
	}
}`

type seoResponse struct {
	MetaTitle       string         `json:"meta_title"`
	MetaDescription string         `json:"meta_description"`
	FocusKeywords   []string       `json:"focus_keywords"`
	Headers         map[string]any `json:"headers"`
	SeoScore        int            `json:"seo_score"`
	Recommendations []string       `json:"recommendations"`
}

// SeoResult is the caller-facing summary of one optimization run.
type SeoResult struct {
	ContentID       string             `json:"content_id"`
	MetaTitle       string             `json:"meta_title"`
	MetaDescription string             `json:"meta_description"`
	FocusKeywords   []string           `json:"focus_keywords"`
	SeoScore        int                `json:"seo_score"`
	KeywordDensity  map[string]float64 `json:"keyword_density"`
	UsedFallback    bool               `json:"used_fallback,omitempty"`
}

// SeoOptimization computes SEO metadata for an existing content item and
// merges it into the item's seo_data block. Optimization is best-effort: a
// response that cannot be parsed degrades to a deterministic minimal result
// instead of failing the operation.
type SeoOptimization struct {
	store  persistence.Store
	text   providers.TextGenerator
	logger *slog.Logger
}

func NewSeoOptimization(store persistence.Store, text providers.TextGenerator, logger *slog.Logger) *SeoOptimization {
	return &SeoOptimization{
		store:  store,
		text:   text,
		logger: logger.With("module", "agents.seo_optimization"),
	}
}

// Optimize fetches the content item, asks the text provider for structured
// SEO metadata, and merges the result into seo_data. Re-running overwrites
// only the optimization fields; concurrent runs on the same id race with
// last-write-wins semantics.
func (a *SeoOptimization) Optimize(ctx context.Context, contentID string) (*SeoResult, error) {
	item, err := a.store.Content().GetByID(ctx, contentID)
	if err != nil {
		return nil, err
	}

	artifact, err := a.text.Complete(ctx, seoPrompt(item))
	if err != nil {
		return nil, fmt.Errorf("seo analysis failed: %w", err)
	}

	parsed, usedFallback := a.parseResponse(ctx, artifact.Content, item)

	now := time.Now().UTC()

	update := models.SeoData{
		MetaTitle:       parsed.MetaTitle,
		MetaDescription: parsed.MetaDescription,
		FocusKeywords:   parsed.FocusKeywords,
		Headers:         parsed.Headers,
		KeywordDensity:  keywordDensity(item.ContentBody, parsed.FocusKeywords),
		SeoScore:        parsed.SeoScore,
		Recommendations: parsed.Recommendations,
		OptimizedAt:     &now,
	}

	seo := item.SeoData
	seo.Merge(update)

	err = a.store.Content().UpdateSeoData(ctx, item.ID, seo)
	if err != nil {
		return nil, fmt.Errorf("failed to store seo data: %w", err)
	}

	err = a.store.Agents().TouchLastRun(ctx, models.AgentRoleSeoOptimization, now)
	if err != nil {
		a.logger.WarnContext(ctx, "failed to touch agent last_run",
			"role", models.AgentRoleSeoOptimization, "error", err)
	}

	a.logger.InfoContext(ctx, "content optimized",
		"content_id", item.ID, "seo_score", parsed.SeoScore, "fallback", usedFallback)

	return &SeoResult{
		ContentID:       item.ID,
		MetaTitle:       parsed.MetaTitle,
		MetaDescription: parsed.MetaDescription,
		FocusKeywords:   parsed.FocusKeywords,
		SeoScore:        parsed.SeoScore,
		KeywordDensity:  update.KeywordDensity,
		UsedFallback:    usedFallback,
	}, nil
}

// parseResponse extracts and validates the provider's JSON. Any parse or
// schema failure falls back to the deterministic minimal result.
func (a *SeoOptimization) parseResponse(ctx context.Context, raw string, item *models.ContentItem) (seoResponse, bool) {
	document := extractJSONObject(raw)
	if document == "" {
		a.logger.WarnContext(ctx, "seo response contained no JSON object, using fallback", "content_id", item.ID)

		return fallbackSeo(item), true
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(seoResponseSchema),
		gojsonschema.NewStringLoader(document))
	if err != nil {
		a.logger.WarnContext(ctx, "seo response is not valid JSON, using fallback",
			"content_id", item.ID, "error", err)

		return fallbackSeo(item), true
	}

	if !result.Valid() {
		a.logger.WarnContext(ctx, "seo response failed schema validation, using fallback",
			"content_id", item.ID, "violations", len(result.Errors()))

		return fallbackSeo(item), true
	}

	var parsed seoResponse

	err = json.Unmarshal([]byte(document), &parsed)
	if err != nil {
		return fallbackSeo(item), true
	}

	return parsed, false
}

// fallbackSeo is the deterministic minimal result used when the provider
// response cannot be trusted: truncated title, generic description, the
// target niche as the single keyword, and a fixed middling score.
func fallbackSeo(item *models.ContentItem) seoResponse {
	keyword := item.SeoData.TargetNiche
	if keyword == "" {
		keyword = item.Title
	}

	return seoResponse{
		MetaTitle:       truncate(item.Title, maxMetaTitleLength),
		MetaDescription: fmt.Sprintf("Discover practical insights about %s and sustainable living.", keyword),
		FocusKeywords:   []string{keyword},
		SeoScore:        fallbackSeoScore,
	}
}

func seoPrompt(item *models.ContentItem) string {
	var b strings.Builder

	b.WriteString("Analyze the following content for search engine optimization. ")
	b.WriteString("Respond with a single JSON object and nothing else, with fields: ")
	b.WriteString("meta_title (string, max 60 characters), ")
	b.WriteString("meta_description (string, max 160 characters), ")
	b.WriteString("focus_keywords (array of 3-5 strings), ")
	b.WriteString("headers (object with suggested h2/h3 headings), ")
	b.WriteString("seo_score (integer 0-100), ")
	b.WriteString("recommendations (array of strings).\n\n")

	fmt.Fprintf(&b, "Title: %s\n", item.Title)

	if item.SeoData.TargetNiche != "" {
		fmt.Fprintf(&b, "Niche: %s\n", item.SeoData.TargetNiche)
	}

	fmt.Fprintf(&b, "\nContent:\n%s", item.ContentBody)

	return b.String()
}

// extractJSONObject cuts the outermost {...} span out of a response that may
// wrap the JSON in prose or markdown fences.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")

	if start < 0 || end <= start {
		return ""
	}

	return raw[start : end+1]
}

// keywordDensity computes, per keyword, the case-insensitive substring
// occurrence count divided by the body's word count.
func keywordDensity(body string, keywords []string) map[string]float64 {
	totalWords := len(strings.Fields(body))
	if totalWords == 0 || len(keywords) == 0 {
		return nil
	}

	lowerBody := strings.ToLower(body)
	density := make(map[string]float64, len(keywords))

	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}

		count := strings.Count(lowerBody, strings.ToLower(keyword))
		density[keyword] = float64(count) / float64(totalWords)
	}

	return density
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	return string(runes[:max])
}
