package scoring

import (
	"regexp"
	"strings"
)

// Urgency levels as reported by the conversation layer.
const (
	UrgencyLow      = "LOW"
	UrgencyMedium   = "MEDIUM"
	UrgencyHigh     = "HIGH"
	UrgencyCritical = "CRITICAL"
)

// SignalInput is the raw, free-text shape of a lead as captured during
// a conversation. ExtractSignals turns it into structured Signals via
// keyword heuristics. This adapter is deliberately separate from the
// scoring contract so it can be replaced without touching Score or its
// tests.
type SignalInput struct {
	Service      string `json:"service"`
	Context      string `json:"context"`
	BudgetHint   string `json:"budget_hint"`
	Urgency      string `json:"urgency"`
	BusinessType string `json:"business_type"`
	DecisionRole string `json:"decision_role"`
	Industry     string `json:"industry"`
}

// targetIndustries are the verticals the sales team actively serves.
var targetIndustries = []string{
	"coach", "consult", "clinic", "real estate", "salon",
	"gym", "yoga", "dental", "legal", "wellness",
}

var (
	revenueRe     = regexp.MustCompile(`(?i)revenue|sales|leads|clients|customers|money|income`)
	operationsRe  = regexp.MustCompile(`(?i)manual|slow|inefficient|chaos|messy|overwhelm`)
	frustrationRe = regexp.MustCompile(`(?i)frustrat|tired|sick of|fed up|struggling|pain`)
	lossRe        = regexp.MustCompile(`(?i)losing|wasting|cost|expensive|bleeding`)
	processRe     = regexp.MustCompile(`(?i)how|process|steps|what happens`)
	timelineRe    = regexp.MustCompile(`(?i)when|timeline|how long|deadline|urgent`)
	pricingRe     = regexp.MustCompile(`(?i)price|cost|budget|invest|afford`)
	highIntentRe  = regexp.MustCompile(`(?i)need|want|looking for|ready|asap|now`)
	founderRe     = regexp.MustCompile(`(?i)founder|owner|ceo|director|managing`)
	authorityRe   = regexp.MustCompile(`(?i)decision|authority|i decide|my call`)
	teamRevenueRe = regexp.MustCompile(`(?i)team|employees|staff|revenue|turnover`)
)

// ExtractSignals derives boolean scoring signals from free-text lead
// data. The heuristics are intentionally simple keyword checks; the
// deterministic part of qualification lives entirely in Score.
func ExtractSignals(in SignalInput) Signals {
	ctx := strings.ToLower(in.Context)
	svc := strings.ToLower(in.Service)
	ind := strings.ToLower(in.Industry)
	role := strings.ToLower(in.DecisionRole)
	biz := strings.ToLower(in.BusinessType)

	ctxSvc := ctx + " " + svc

	isTarget := false
	for _, t := range targetIndustries {
		if strings.Contains(ind, t) || strings.Contains(biz, t) {
			isTarget = true
			break
		}
	}

	return Signals{
		IsServiceBusiness: strings.Contains(biz, "service") || !strings.Contains(biz, "product"),
		IsTargetIndustry:  isTarget,
		IsEstablished:     !strings.Contains(ctx, "idea stage") && !strings.Contains(ctx, "just starting"),

		MentionsSpecificProblem: len(ctx) > 20,
		ImpactsRevenue:          revenueRe.MatchString(ctx),
		ImpactsOperations:       operationsRe.MatchString(ctx),
		ExpressesFrustration:    frustrationRe.MatchString(ctx),
		MentionsFinancialLoss:   lossRe.MatchString(ctx),

		AsksAboutProcess:      processRe.MatchString(ctxSvc),
		AsksAboutTimeline:     timelineRe.MatchString(ctxSvc),
		AsksAboutPricing:      pricingRe.MatchString(ctxSvc + " " + strings.ToLower(in.BudgetHint)),
		UsesHighIntentWording: highIntentRe.MatchString(ctxSvc),

		IsFounderOrOwner:          founderRe.MatchString(role),
		ConfirmsDecisionAuthority: authorityRe.MatchString(role + " " + ctx),
		HasTeamOrRevenue:          teamRevenueRe.MatchString(ctx),

		RespondsQuickly:         in.Urgency == UrgencyHigh || in.Urgency == UrgencyCritical,
		ProvidesDetailedAnswers: len(ctx) > 50,
		// Unknown at capture time; only observable after a booking exists.
		CompletesBookingQuickly: false,
	}
}
