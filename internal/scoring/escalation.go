package scoring

import "strings"

// escalationSignal pairs a set of trigger phrases with the reason shown
// to the human who picks the lead up.
type escalationSignal struct {
	phrases []string
	reason  string
}

// Escalation keyword groups. These are independent of the score so a
// low-scoring lead that mentions "white label" still reaches a human.
var escalationSignals = []escalationSignal{
	{
		phrases: []string{"large budget", "high budget", "big investment"},
		reason:  "Large budget / high-ticket investment",
	},
	{
		phrases: []string{"scaling", "expanding", "growing fast"},
		reason:  "Aggressively scaling operations",
	},
	{
		phrases: []string{"multiple location", "multi-location", "multi location", "branches", "franchise"},
		reason:  "Multi-location / multi-branch business",
	},
	{
		phrases: []string{"partnership", "white label", "white-label"},
		reason:  "Strategic partnership / white-label interest",
	},
	{
		phrases: []string{"enterprise", "corporate"},
		reason:  "Enterprise-level requirements",
	},
}

// Escalation is the outcome of DetectEscalation.
type Escalation struct {
	Escalate bool     `json:"escalate"`
	Reasons  []string `json:"reasons"`
}

// DetectEscalation decides whether a lead should be routed to a human
// ahead of the automated flow. It escalates for HOT leads, CRITICAL
// urgency, or any escalation keyword in the conversation context. The
// detector is stateless; recording that an escalation already happened
// is the caller's job.
func DetectEscalation(tier Tier, urgency, contextText string) Escalation {
	var reasons []string

	if tier == TierHot {
		reasons = append(reasons, "Hot lead (score tier)")
	}
	if urgency == UrgencyCritical {
		reasons = append(reasons, "Critical urgency declared")
	}

	lower := strings.ToLower(contextText)
	for _, sig := range escalationSignals {
		for _, phrase := range sig.phrases {
			if strings.Contains(lower, phrase) {
				reasons = append(reasons, sig.reason)
				break
			}
		}
	}

	return Escalation{Escalate: len(reasons) > 0, Reasons: reasons}
}
