package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func allSignals() Signals {
	return Signals{
		IsServiceBusiness:         true,
		IsTargetIndustry:          true,
		IsEstablished:             true,
		MentionsSpecificProblem:   true,
		ImpactsRevenue:            true,
		ImpactsOperations:         true,
		ExpressesFrustration:      true,
		MentionsFinancialLoss:     true,
		AsksAboutProcess:          true,
		AsksAboutTimeline:         true,
		AsksAboutPricing:          true,
		UsesHighIntentWording:     true,
		IsFounderOrOwner:          true,
		ConfirmsDecisionAuthority: true,
		HasTeamOrRevenue:          true,
		RespondsQuickly:           true,
		ProvidesDetailedAnswers:   true,
		CompletesBookingQuickly:   true,
	}
}

func TestScoreZeroValue(t *testing.T) {
	r := Score(Signals{})

	assert.Equal(t, 0, r.Total)
	assert.Equal(t, 0, r.FitScore)
	assert.Equal(t, 0, r.PainScore)
	assert.False(t, r.BonusApplied)
	assert.Equal(t, TierCold, r.Tier)
}

func TestScoreAllSignalsClampsTo100(t *testing.T) {
	r := Score(allSignals())

	// Pillars sum to 100, bonus pushes the raw total to 105, clamped.
	assert.Equal(t, 20, r.FitScore)
	assert.Equal(t, 25, r.PainScore)
	assert.Equal(t, 20, r.IntentScore)
	assert.Equal(t, 20, r.AuthorityScore)
	assert.Equal(t, 15, r.EngagementScore)
	assert.True(t, r.BonusApplied)
	assert.Equal(t, 100, r.Total)
	assert.Equal(t, TierHot, r.Tier)
}

func TestScoreTotalIsSumOfPillarsPlusBonus(t *testing.T) {
	s := Signals{
		IsServiceBusiness: true, // fit 10
		ImpactsRevenue:    true, // pain 5
		AsksAboutPricing:  true, // intent 5
		IsFounderOrOwner:  true, // authority 10
		RespondsQuickly:   true, // engagement 5
	}
	r := Score(s)

	assert.Equal(t, 10, r.FitScore)
	assert.Equal(t, 5, r.PainScore)
	assert.Equal(t, 5, r.IntentScore)
	assert.Equal(t, 10, r.AuthorityScore)
	assert.Equal(t, 5, r.EngagementScore)
	assert.False(t, r.BonusApplied)
	assert.Equal(t, 35, r.Total)
}

func TestBonusBoundaries(t *testing.T) {
	// pain=20, intent=15 → bonus applied
	s := Signals{
		MentionsSpecificProblem: true,
		ImpactsRevenue:          true,
		ImpactsOperations:       true,
		ExpressesFrustration:    true, // pain 20
		AsksAboutProcess:        true,
		AsksAboutTimeline:       true,
		AsksAboutPricing:        true, // intent 15
	}
	r := Score(s)
	assert.Equal(t, 20, r.PainScore)
	assert.Equal(t, 15, r.IntentScore)
	assert.True(t, r.BonusApplied)
	assert.Equal(t, 40, r.Total)

	// pain=20, intent=10 → no bonus
	s.AsksAboutPricing = false
	r = Score(s)
	assert.Equal(t, 10, r.IntentScore)
	assert.False(t, r.BonusApplied)
	assert.Equal(t, 30, r.Total)
}

func TestScoreIsDeterministic(t *testing.T) {
	s := allSignals()
	s.CompletesBookingQuickly = false

	first := Score(s)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(s))
	}
}

func TestScoreBoundsHoldForSparseInputs(t *testing.T) {
	// Flip one field at a time and check the invariant 0 <= total <= 100.
	inputs := []Signals{
		{IsServiceBusiness: true},
		{MentionsFinancialLoss: true},
		{UsesHighIntentWording: true},
		{HasTeamOrRevenue: true},
		{CompletesBookingQuickly: true},
	}
	for _, s := range inputs {
		r := Score(s)
		assert.GreaterOrEqual(t, r.Total, 0)
		assert.LessOrEqual(t, r.Total, 100)
		sum := r.FitScore + r.PainScore + r.IntentScore + r.AuthorityScore + r.EngagementScore
		assert.Equal(t, sum, r.Total) // no bonus possible with one signal
	}
}
