// Package models defines the domain entities for the content generation pipeline.
package models

import "time"

// AgentRole identifies a logical agent. Roles are stable identifiers used to
// look up agent configuration instead of mutable display names.
type AgentRole string

const (
	AgentRoleContentCreation AgentRole = "content_creation"
	AgentRoleSeoOptimization AgentRole = "seo_optimization"
)

type AgentStatus string

const (
	AgentStatusActive   AgentStatus = "active"
	AgentStatusInactive AgentStatus = "inactive"
)

// AgentConfig holds the tunable parameters of an agent. A zero value falls
// back to the documented defaults via the OrDefault helpers.
type AgentConfig struct {
	TargetNiches         []string `json:"target_niches"`
	ArticlesPerDay       int      `json:"articles_per_day"`
	TargetScoreThreshold int      `json:"target_score_threshold"`
}

const defaultArticlesPerDay = 3

// DefaultNiches is used when an agent row carries no niche configuration.
var DefaultNiches = []string{"Renewable Energy", "Zero Waste Living", "Sustainable Fashion"}

func (c AgentConfig) ArticlesPerDayOrDefault() int {
	if c.ArticlesPerDay <= 0 {
		return defaultArticlesPerDay
	}

	return c.ArticlesPerDay
}

func (c AgentConfig) TargetNichesOrDefault() []string {
	if len(c.TargetNiches) == 0 {
		return DefaultNiches
	}

	return c.TargetNiches
}

// Agent is one row of the process-wide agent registry. Rows are created by
// migration seeds; the pipeline only reads config and touches LastRun.
type Agent struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Role      AgentRole   `json:"role"`
	Status    AgentStatus `json:"status"`
	Config    AgentConfig `json:"config"`
	LastRun   *time.Time  `json:"last_run,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (a *Agent) IsActive() bool {
	return a.Status == AgentStatusActive
}
