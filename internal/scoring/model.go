// Package scoring turns qualified-lead signals into a deterministic
// 0-100 score, a priority tier, and an escalation decision. Everything
// in this package is pure: no I/O, no clocks, no shared state.
package scoring

// Signals holds the structured facts about a lead. Each boolean is an
// independent contribution to one of the five pillars. Absent fields
// simply contribute nothing, so the zero value scores zero.
type Signals struct {
	// Pillar 1: business fit (max 20)
	IsServiceBusiness bool `json:"is_service_business"`
	IsTargetIndustry  bool `json:"is_target_industry"`
	IsEstablished     bool `json:"is_established"`

	// Pillar 2: pain intensity (max 25)
	MentionsSpecificProblem bool `json:"mentions_specific_problem"`
	ImpactsRevenue          bool `json:"impacts_revenue"`
	ImpactsOperations       bool `json:"impacts_operations"`
	ExpressesFrustration    bool `json:"expresses_frustration"`
	MentionsFinancialLoss   bool `json:"mentions_financial_loss"`

	// Pillar 3: intent strength (max 20)
	AsksAboutProcess      bool `json:"asks_about_process"`
	AsksAboutTimeline     bool `json:"asks_about_timeline"`
	AsksAboutPricing      bool `json:"asks_about_pricing"`
	UsesHighIntentWording bool `json:"uses_high_intent_wording"`

	// Pillar 4: authority and readiness (max 20)
	IsFounderOrOwner          bool `json:"is_founder_or_owner"`
	ConfirmsDecisionAuthority bool `json:"confirms_decision_authority"`
	HasTeamOrRevenue          bool `json:"has_team_or_revenue"`

	// Pillar 5: engagement behavior (max 15)
	RespondsQuickly         bool `json:"responds_quickly"`
	ProvidesDetailedAnswers bool `json:"provides_detailed_answers"`
	CompletesBookingQuickly bool `json:"completes_booking_quickly"`
}

// Result is the full score breakdown for a lead.
type Result struct {
	Total           int  `json:"total"`
	FitScore        int  `json:"fit_score"`
	PainScore       int  `json:"pain_score"`
	IntentScore     int  `json:"intent_score"`
	AuthorityScore  int  `json:"authority_score"`
	EngagementScore int  `json:"engagement_score"`
	BonusApplied    bool `json:"bonus_applied"`
	Tier            Tier `json:"tier"`
}
