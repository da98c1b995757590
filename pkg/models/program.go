package models

import "time"

// ProgramStatus is the simplified application-status taxonomy exposed by the
// catalog API, mapped from the affiliate network's raw status strings.
type ProgramStatus string

const (
	ProgramStatusNotApplied ProgramStatus = "not_applied"
	ProgramStatusPending    ProgramStatus = "pending"
	ProgramStatusApproved   ProgramStatus = "approved"
	ProgramStatusRejected   ProgramStatus = "rejected"
)

// Program is one affiliate program row. PriorityScore and Relevance are
// display-only pass-through values; nothing ranks on them.
type Program struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Niche          string        `json:"niche,omitempty"`
	CommissionRate string        `json:"commission_rate,omitempty"`
	PriorityScore  int           `json:"priority_score,omitempty"`
	Relevance      string        `json:"relevance,omitempty"`
	Status         ProgramStatus `json:"status"`
	AppliedAt      *time.Time    `json:"applied_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

// rawProgramStatuses maps affiliate network status strings onto the
// simplified taxonomy. Unknown strings fall back to not_applied.
var rawProgramStatuses = map[string]ProgramStatus{
	"":              ProgramStatusNotApplied,
	"not_applied":   ProgramStatusNotApplied,
	"pending":       ProgramStatusPending,
	"applied":       ProgramStatusPending,
	"under_review":  ProgramStatusPending,
	"approved":      ProgramStatusApproved,
	"joined":        ProgramStatusApproved,
	"rejected":      ProgramStatusRejected,
	"declined":      ProgramStatusRejected,
	"not_suitable":  ProgramStatusRejected,
}

// SimplifyProgramStatus maps a raw affiliate-network status onto the
// taxonomy used by the API.
func SimplifyProgramStatus(raw string) ProgramStatus {
	if status, ok := rawProgramStatuses[raw]; ok {
		return status
	}

	return ProgramStatusNotApplied
}
