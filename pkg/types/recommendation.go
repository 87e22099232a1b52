package types

// RecommendationKind identifies which contextual rule produced a recommendation
type RecommendationKind string

// Recommendation kinds, in evaluation order
const (
	KindVerifyExists    RecommendationKind = "verify_exists"
	KindEscalateOrClose RecommendationKind = "escalate_or_close"
	KindCheckProgress   RecommendationKind = "check_progress"
	KindCheckPatch      RecommendationKind = "check_patch"
	KindReproduce       RecommendationKind = "reproduce"
	KindGatherContext   RecommendationKind = "gather_context"
	KindAnalyzeStatus   RecommendationKind = "analyze_status"
)

// Action is a single suggested next step
type Action struct {
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description" yaml:"description"`
	Instruction string `json:"instruction" yaml:"instruction"`
}

// Recommendation is a primary/secondary pair of suggested actions for one ticket
type Recommendation struct {
	Kind      RecommendationKind `json:"kind" yaml:"kind"`
	TicketKey string             `json:"ticket_key" yaml:"ticket_key"`
	Title     string             `json:"title" yaml:"title"`
	Reasoning string             `json:"reasoning" yaml:"reasoning"`
	Primary   Action             `json:"primary" yaml:"primary"`
	Secondary Action             `json:"secondary" yaml:"secondary"`
}
