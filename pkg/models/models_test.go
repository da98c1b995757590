package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeoDataMergePreservesUnrelatedFields(t *testing.T) {
	data := SeoData{
		TargetNiche: "Renewable Energy",
		MetaTitle:   "Old title",
	}

	now := time.Now().UTC()
	data.Merge(SeoData{
		MetaTitle:       "New title",
		MetaDescription: "A description",
		FocusKeywords:   []string{"solar", "wind"},
		SeoScore:        82,
		OptimizedAt:     &now,
	})

	assert.Equal(t, "Renewable Energy", data.TargetNiche)
	assert.Equal(t, "New title", data.MetaTitle)
	assert.Equal(t, "A description", data.MetaDescription)
	assert.Equal(t, []string{"solar", "wind"}, data.FocusKeywords)
	assert.Equal(t, 82, data.SeoScore)
	assert.Equal(t, &now, data.OptimizedAt)
}

func TestSeoDataMergeZeroValueIsNoOp(t *testing.T) {
	data := SeoData{
		TargetNiche:   "Zero Waste Living",
		FocusKeywords: []string{"compost"},
		SeoScore:      75,
	}

	data.Merge(SeoData{})

	assert.Equal(t, "Zero Waste Living", data.TargetNiche)
	assert.Equal(t, []string{"compost"}, data.FocusKeywords)
	assert.Equal(t, 75, data.SeoScore)
}

func TestSeoDataMergePersistsZeroScoreFromOptimizationPass(t *testing.T) {
	data := SeoData{
		TargetNiche: "Minimalism",
		SeoScore:    75,
	}

	now := time.Now().UTC()
	data.Merge(SeoData{
		MetaTitle:   "Decluttering 101",
		SeoScore:    0,
		OptimizedAt: &now,
	})

	assert.Zero(t, data.SeoScore)
	assert.Equal(t, "Decluttering 101", data.MetaTitle)
}

func TestContentItemWordCount(t *testing.T) {
	item := &ContentItem{ContentBody: "solar power is  the future\nof energy"}

	assert.Equal(t, 7, item.WordCount())
}

func TestApprovalWorkflowRecordIsTerminal(t *testing.T) {
	record := &ApprovalWorkflowRecord{Status: ApprovalStatusPending}
	assert.False(t, record.IsTerminal())

	record.Status = ApprovalStatusApproved
	assert.True(t, record.IsTerminal())

	record.Status = ApprovalStatusRejected
	assert.True(t, record.IsTerminal())
}

func TestAgentConfigDefaults(t *testing.T) {
	var cfg AgentConfig

	assert.Equal(t, 3, cfg.ArticlesPerDayOrDefault())
	assert.Equal(t, DefaultNiches, cfg.TargetNichesOrDefault())

	cfg = AgentConfig{ArticlesPerDay: 5, TargetNiches: []string{"Solar"}}
	assert.Equal(t, 5, cfg.ArticlesPerDayOrDefault())
	assert.Equal(t, []string{"Solar"}, cfg.TargetNichesOrDefault())
}

func TestSimplifyProgramStatus(t *testing.T) {
	assert.Equal(t, ProgramStatusNotApplied, SimplifyProgramStatus(""))
	assert.Equal(t, ProgramStatusPending, SimplifyProgramStatus("applied"))
	assert.Equal(t, ProgramStatusApproved, SimplifyProgramStatus("joined"))
	assert.Equal(t, ProgramStatusRejected, SimplifyProgramStatus("declined"))
	assert.Equal(t, ProgramStatusNotApplied, SimplifyProgramStatus("something-else"))
}
