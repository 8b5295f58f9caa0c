package leads

import "github.com/trivern/leadflow/internal/scoring"

// CaptureRequest is an inbound lead as reported by the conversation
// layer. Phone is the upsert key; everything else is optional and
// merged into whatever is already known.
type CaptureRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Company      string `json:"company"`
	Industry     string `json:"industry"`
	Service      string `json:"service"`
	Context      string `json:"context"`
	Source       string `json:"source"`
	Urgency      string `json:"urgency"`
	BusinessType string `json:"business_type"`
	DecisionRole string `json:"decision_role"`
	BudgetHint   string `json:"budget_hint"`
}

// CaptureResult summarizes a processed capture.
type CaptureResult struct {
	ClientID  string       `json:"client_id"`
	Score     int          `json:"score"`
	Tier      scoring.Tier `json:"tier"`
	Escalated bool         `json:"escalated"`
}
