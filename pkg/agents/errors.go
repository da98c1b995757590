package agents

import "errors"

var (
	// ErrAgentNotFound indicates the role-keyed agent registry row is missing.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrContentGenerationFailed wraps a provider failure during content
	// creation. Nothing is persisted when generation fails.
	ErrContentGenerationFailed = errors.New("content generation failed")
)

func IsAgentNotFound(err error) bool {
	return errors.Is(err, ErrAgentNotFound)
}

func IsContentGenerationFailed(err error) bool {
	return errors.Is(err, ErrContentGenerationFailed)
}
