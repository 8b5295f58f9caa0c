package clients

import (
	"strings"
	"time"
)

// Status is the funnel position of a client record.
type Status string

const (
	StatusNew       Status = "NEW"
	StatusContacted Status = "CONTACTED"
	StatusQualified Status = "QUALIFIED"
	StatusBooked    Status = "BOOKED"
	StatusCompleted Status = "COMPLETED"
	StatusClosed    Status = "CLOSED"
	StatusLost      Status = "LOST"
)

// Client is a captured lead plus its qualification state. Pillar
// scores are persisted so dashboards can explain the total without
// re-running extraction over stale text.
type Client struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email,omitempty"`
	Company          string    `json:"company,omitempty"`
	Industry         string    `json:"industry,omitempty"`
	Service          string    `json:"service,omitempty"`
	Context          string    `json:"context,omitempty"`
	Source           string    `json:"source,omitempty"`
	Urgency          string    `json:"urgency,omitempty"`
	BusinessType     string    `json:"business_type,omitempty"`
	DecisionRole     string    `json:"decision_role,omitempty"`
	Status           Status    `json:"status"`
	Score            int       `json:"score"`
	FitScore         int       `json:"fit_score"`
	PainScore        int       `json:"pain_score"`
	IntentScore      int       `json:"intent_score"`
	AuthorityScore   int       `json:"authority_score"`
	EngagementScore  int       `json:"engagement_score"`
	ScoreOverride    *int      `json:"score_override,omitempty"`
	Escalated        bool      `json:"escalated"`
	EscalationReason string    `json:"escalation_reason,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// EffectiveScore returns the manual override when a human has adjusted
// the lead, otherwise the computed score.
func (c *Client) EffectiveScore() int {
	if c.ScoreOverride != nil {
		return *c.ScoreOverride
	}
	return c.Score
}

// MergeCapture folds a fresh capture into an existing record: known
// fields win over blanks, conversation context accumulates.
func (c *Client) MergeCapture(in *Client) {
	if in.Name != "" {
		c.Name = in.Name
	}
	if in.Company != "" {
		c.Company = in.Company
	}
	if in.Email != "" {
		c.Email = in.Email
	}
	if in.Industry != "" {
		c.Industry = in.Industry
	}
	if in.Service != "" {
		c.Service = in.Service
	}
	if in.Urgency != "" {
		c.Urgency = in.Urgency
	}
	if in.BusinessType != "" {
		c.BusinessType = in.BusinessType
	}
	if in.DecisionRole != "" {
		c.DecisionRole = in.DecisionRole
	}
	if in.Source != "" {
		c.Source = in.Source
	}
	if in.Context != "" {
		if c.Context != "" {
			c.Context = c.Context + "\n---\n" + in.Context
		} else {
			c.Context = in.Context
		}
	}
	if c.Status == StatusNew {
		c.Status = StatusContacted
	}
}

// ValidStatus reports whether s names a known funnel status.
func ValidStatus(s string) bool {
	switch Status(strings.ToUpper(s)) {
	case StatusNew, StatusContacted, StatusQualified, StatusBooked,
		StatusCompleted, StatusClosed, StatusLost:
		return true
	}
	return false
}
