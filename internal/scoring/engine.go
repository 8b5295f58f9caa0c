package scoring

// Pillar weights. Fit and authority carry one anchor signal worth 10;
// everything else contributes 5.
const (
	weightAnchor = 10
	weightSignal = 5

	// The multiplier bonus rewards leads that are both in real pain and
	// actively shopping: pain >= 20 and intent >= 15 adds 5 points.
	bonusPoints          = 5
	bonusPainThreshold   = 20
	bonusIntentThreshold = 15

	maxTotal = 100
)

// Score computes the five-pillar breakdown and total for the given
// signals. It is a total function: any Signals value produces a valid
// Result with 0 <= Total <= 100.
func Score(s Signals) Result {
	var r Result

	if s.IsServiceBusiness {
		r.FitScore += weightAnchor
	}
	if s.IsTargetIndustry {
		r.FitScore += weightSignal
	}
	if s.IsEstablished {
		r.FitScore += weightSignal
	}

	if s.MentionsSpecificProblem {
		r.PainScore += weightSignal
	}
	if s.ImpactsRevenue {
		r.PainScore += weightSignal
	}
	if s.ImpactsOperations {
		r.PainScore += weightSignal
	}
	if s.ExpressesFrustration {
		r.PainScore += weightSignal
	}
	if s.MentionsFinancialLoss {
		r.PainScore += weightSignal
	}

	if s.AsksAboutProcess {
		r.IntentScore += weightSignal
	}
	if s.AsksAboutTimeline {
		r.IntentScore += weightSignal
	}
	if s.AsksAboutPricing {
		r.IntentScore += weightSignal
	}
	if s.UsesHighIntentWording {
		r.IntentScore += weightSignal
	}

	if s.IsFounderOrOwner {
		r.AuthorityScore += weightAnchor
	}
	if s.ConfirmsDecisionAuthority {
		r.AuthorityScore += weightSignal
	}
	if s.HasTeamOrRevenue {
		r.AuthorityScore += weightSignal
	}

	if s.RespondsQuickly {
		r.EngagementScore += weightSignal
	}
	if s.ProvidesDetailedAnswers {
		r.EngagementScore += weightSignal
	}
	if s.CompletesBookingQuickly {
		r.EngagementScore += weightSignal
	}

	bonus := 0
	if r.PainScore >= bonusPainThreshold && r.IntentScore >= bonusIntentThreshold {
		bonus = bonusPoints
		r.BonusApplied = true
	}

	r.Total = r.FitScore + r.PainScore + r.IntentScore + r.AuthorityScore + r.EngagementScore + bonus
	if r.Total > maxTotal {
		r.Total = maxTotal
	}
	r.Tier = Classify(r.Total)

	return r
}
