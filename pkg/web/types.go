// Package web provides the HTTP surface of the content pipeline: action
// dispatch endpoints for the orchestrator, approval and program catalog, and
// the generator proxy endpoints.
package web

// OrchestratorRequest is the body of the orchestrator action endpoint. The
// action may alternatively arrive as a query parameter.
type OrchestratorRequest struct {
	Action             string `json:"action"`
	Niche              string `json:"niche"`
	ContentType        string `json:"content_type"`
	RunSeoOptimization *bool  `json:"run_seo_optimization"`
}

// RunSeo defaults to true when the field is absent.
func (r OrchestratorRequest) RunSeo() bool {
	if r.RunSeoOptimization == nil {
		return true
	}

	return *r.RunSeoOptimization
}

// ApprovalRequest is the body of the approval action endpoint.
type ApprovalRequest struct {
	Action     string `json:"action"`
	WorkflowID string `json:"workflow_id"`
	ReviewerID string `json:"reviewer_id"`
	Notes      string `json:"notes"`
	Reason     string `json:"reason"`
}

// ProgramRequest is the body of the program catalog action endpoint.
type ProgramRequest struct {
	Action    string `json:"action"`
	ProgramID string `json:"program_id"`
}

// TextGenerationRequest is the body of the text generator proxy.
type TextGenerationRequest struct {
	Topic               string   `json:"topic"                validate:"required,min=2"`
	ContentType         string   `json:"content_type"`
	TargetAudience      string   `json:"target_audience"`
	Tone                string   `json:"tone"`
	WordCount           int      `json:"word_count"           validate:"required"`
	SeoKeywords         []string `json:"seo_keywords"`
	SustainabilityFocus bool     `json:"sustainability_focus"`
	Provider            string   `json:"provider"`
}

// ImageGenerationRequest is the body of the image generator proxy.
type ImageGenerationRequest struct {
	Prompt string `json:"prompt" validate:"required,min=2"`
	Style  string `json:"style"`
	Size   string `json:"size"`
}

// AudioGenerationRequest is the body of the audio generator proxy.
type AudioGenerationRequest struct {
	Text  string `json:"text"  validate:"required,min=2"`
	Voice string `json:"voice"`
}
