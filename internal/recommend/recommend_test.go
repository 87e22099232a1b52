package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clintrovert/ticketpilot/pkg/types"
)

func TestRecommend_RuleSelection(t *testing.T) {
	tests := []struct {
		name   string
		ticket types.Ticket
		want   types.RecommendationKind
	}{
		{
			name: "integration failure beats customer label",
			ticket: types.Ticket{
				Key:      "CPE-2925",
				Summary:  "Auto lock macs via snow integration failure",
				Priority: "P3",
				AgeDays:  209,
				Labels:   []string{"VOC_Feedback"},
			},
			want: types.KindVerifyExists,
		},
		{
			name:   "young integration failure falls through",
			ticket: types.Ticket{Summary: "Integration FAILED on sync", AgeDays: 20},
			want:   types.KindAnalyzeStatus,
		},
		{
			name:   "old P1",
			ticket: types.Ticket{Priority: "P1", AgeDays: 91, Summary: "Security scan"},
			want:   types.KindEscalateOrClose,
		},
		{
			name:   "stalled in progress",
			ticket: types.Ticket{Status: "in progress", StaleDays: 31, AgeDays: 40},
			want:   types.KindCheckProgress,
		},
		{
			name:   "security",
			ticket: types.Ticket{Summary: "Patch Vulnerability in OpenSSL", AgeDays: 3},
			want:   types.KindCheckPatch,
		},
		{
			name:   "customer label",
			ticket: types.Ticket{Summary: "Slow exports", AgeDays: 30, Labels: []string{"voc_feedback"}},
			want:   types.KindReproduce,
		},
		{
			name:   "customer mention",
			ticket: types.Ticket{Summary: "Users cannot log in", AgeDays: 30},
			want:   types.KindReproduce,
		},
		{
			name:   "new ticket",
			ticket: types.Ticket{Summary: "Provision laptop", AgeDays: 2},
			want:   types.KindGatherContext,
		},
		{
			name:   "fallback",
			ticket: types.Ticket{Summary: "Rotate certificates", AgeDays: 12},
			want:   types.KindAnalyzeStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Recommend(&tt.ticket)
			assert.Equal(t, tt.want, rec.Kind)
		})
	}
}

func TestRecommend_Total(t *testing.T) {
	inputs := []*types.Ticket{
		nil,
		{},
		{Key: "X-1", AgeDays: 1000, StaleDays: 1000, Priority: "P1", Status: types.StatusInProgress},
		{Key: "X-2", Summary: "user security integration fail", AgeDays: 181},
	}
	for _, in := range inputs {
		rec := Recommend(in)
		assert.Contains(t, Rules(), rec.Kind)
		assert.NotEmpty(t, rec.Title)
		assert.NotEmpty(t, rec.Primary.Label)
		assert.NotEmpty(t, rec.Primary.Instruction)
		assert.NotEmpty(t, rec.Secondary.Label)
		assert.NotEmpty(t, rec.Secondary.Instruction)
	}
}

func TestRecommend_TemplatesUseTicketFields(t *testing.T) {
	rec := Recommend(&types.Ticket{
		Key:       "OPS-7",
		Status:    types.StatusInProgress,
		StaleDays: 45,
		AgeDays:   60,
		Assignee:  "Dana",
	})
	assert.Equal(t, "OPS-7", rec.TicketKey)
	assert.Contains(t, rec.Primary.Instruction, "Dana")
	assert.Contains(t, rec.Primary.Instruction, "45 days")

	rec = Recommend(&types.Ticket{Key: "OPS-8", Status: types.StatusInProgress, StaleDays: 45, AgeDays: 60})
	assert.Contains(t, rec.Primary.Instruction, "the assignee")
}

func TestRules_Order(t *testing.T) {
	assert.Equal(t, []types.RecommendationKind{
		types.KindVerifyExists,
		types.KindEscalateOrClose,
		types.KindCheckProgress,
		types.KindCheckPatch,
		types.KindReproduce,
		types.KindGatherContext,
		types.KindAnalyzeStatus,
	}, Rules())
}
