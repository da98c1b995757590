// Package agents implements the content creation and SEO optimization agents
// that sit between the generative providers and the persistence layer.
package agents

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ecoreach/contentflow/pkg/models"
	"github.com/ecoreach/contentflow/pkg/persistence"
	"github.com/ecoreach/contentflow/pkg/providers"
)

const (
	contentAuthor      = "EcoReach Content Agent"
	defaultWordTarget  = 1200
	defaultAudience    = "eco-conscious readers"
	defaultTone        = "informative and engaging"
	defaultContentType = "article"
)

// CreateResult is the caller-facing summary of one content creation run.
type CreateResult struct {
	ContentID string `json:"content_id"`
	Title     string `json:"title"`
	WordCount int    `json:"word_count"`
}

// ContentCreation generates a content item for a niche and persists it
// together with its approval workflow record.
type ContentCreation struct {
	store  persistence.Store
	text   providers.TextGenerator
	logger *slog.Logger
}

func NewContentCreation(store persistence.Store, text providers.TextGenerator, logger *slog.Logger) *ContentCreation {
	return &ContentCreation{
		store:  store,
		text:   text,
		logger: logger.With("module", "agents.content_creation"),
	}
}

// Config loads the agent's registry row keyed by role.
func (a *ContentCreation) Config(ctx context.Context) (*models.Agent, error) {
	agent, err := a.store.Agents().GetByRole(ctx, models.AgentRoleContentCreation)
	if err != nil {
		if persistence.IsAgentNotFound(err) {
			return nil, fmt.Errorf("%w: role %s", ErrAgentNotFound, models.AgentRoleContentCreation)
		}

		return nil, err
	}

	return agent, nil
}

// CreateContent generates one content item. With approvalRequired the item is
// stored as pending_approval with a paired open workflow record; otherwise it
// stays a draft with no workflow row. A provider failure leaves nothing behind.
func (a *ContentCreation) CreateContent(ctx context.Context, niche, contentType string, approvalRequired bool) (*CreateResult, error) {
	agent, err := a.Config(ctx)
	if err != nil {
		return nil, err
	}

	return a.CreateForAgent(ctx, agent, niche, contentType, approvalRequired)
}

// CreateForAgent is CreateContent for a caller that already holds the agent
// row, avoiding a second registry lookup.
func (a *ContentCreation) CreateForAgent(ctx context.Context, agent *models.Agent, niche, contentType string, approvalRequired bool) (*CreateResult, error) {
	if contentType == "" {
		contentType = defaultContentType
	}

	spec := buildTextSpec(niche, contentType)

	a.logger.InfoContext(ctx, "generating content",
		"niche", niche, "content_type", contentType, "provider", a.text.Name())

	artifact, err := a.text.GenerateText(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentGenerationFailed, err)
	}

	title := artifact.Title
	if title == "" {
		title = fmt.Sprintf("%s: a practical guide", niche)
	}

	now := time.Now().UTC()

	status := models.ContentStatusDraft
	if approvalRequired {
		status = models.ContentStatusPendingApproval
	}

	item := &models.ContentItem{
		Title:       title,
		ContentBody: artifact.Content,
		ContentType: contentType,
		Author:      contentAuthor,
		Status:      status,
		SeoData:     models.SeoData{TargetNiche: niche},
		CreatedAt:   now,
	}
	item.EngagementMetrics.WordCount = item.WordCount()

	var record *models.ApprovalWorkflowRecord
	if approvalRequired {
		record = &models.ApprovalWorkflowRecord{
			Status:    models.ApprovalStatusPending,
			CreatedAt: now,
		}
	}

	err = a.store.Content().CreateWithWorkflow(ctx, item, record)
	if err != nil {
		return nil, fmt.Errorf("failed to persist content item: %w", err)
	}

	err = a.store.Agents().TouchLastRun(ctx, agent.Role, now)
	if err != nil {
		a.logger.WarnContext(ctx, "failed to touch agent last_run", "role", agent.Role, "error", err)
	}

	a.logger.InfoContext(ctx, "content created",
		"content_id", item.ID, "title", item.Title, "word_count", item.EngagementMetrics.WordCount)

	return &CreateResult{
		ContentID: item.ID,
		Title:     item.Title,
		WordCount: item.EngagementMetrics.WordCount,
	}, nil
}

func buildTextSpec(niche, contentType string) providers.TextSpec {
	return providers.TextSpec{
		Topic:               niche,
		ContentType:         contentType,
		TargetAudience:      defaultAudience,
		Tone:                defaultTone,
		TargetWordCount:     defaultWordTarget,
		SeoKeywords:         []string{strings.ToLower(niche), "sustainability"},
		SustainabilityFocus: true,
	}
}
