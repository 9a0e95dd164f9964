package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scamguard-lab/internal/domain/models"
)

func TestBuildDetectionReasoning(t *testing.T) {
	reasoning := BuildDetectionReasoning(ReasoningInput{
		ScamType:          models.ScamTypeBankImpersonation,
		RiskLevel:         models.RiskHigh,
		Confidence:        0.85,
		Tactics:           []string{"urgency", "verification", "threat"},
		IntelCounts:       map[string]int{"upiIds": 1, "phoneNumbers": 2},
		PatternMatchCount: 3,
		SimilarityScore:   1.0,
		Recurring:         true,
	})

	assert.Equal(t, "SCAM CONFIRMED — KYC PHISHING", reasoning.Verdict)
	assert.Equal(t, models.FraudKYCPhishing, reasoning.FraudType)
	assert.Equal(t, "amber", reasoning.FraudColor)
	assert.Equal(t, models.RiskHigh, reasoning.RiskLevel)
	assert.True(t, reasoning.Recurring)
	assert.Equal(t, 3, reasoning.PatternMatchCount)

	assert.Contains(t, reasoning.Reasons, "Urgency pattern detected")
	assert.Contains(t, reasoning.Reasons, "Threat/intimidation tactics used")
	assert.Contains(t, reasoning.Reasons, "Identity verification scam pattern")
	assert.Contains(t, reasoning.Reasons, "Identifier recurrence detected (3 items extracted)")
	assert.Contains(t, reasoning.Reasons, "Recurring indicator flag active")
	assert.Contains(t, reasoning.Reasons, "Similar pattern used in 3 previous sessions")
	assert.Contains(t, reasoning.Reasons, "Escalation speed above threshold")
}

func TestBuildDetectionReasoningModerateConfidence(t *testing.T) {
	reasoning := BuildDetectionReasoning(ReasoningInput{
		ScamType:   models.ScamTypeLotteryScam,
		RiskLevel:  models.RiskMedium,
		Confidence: 0.7,
		Tactics:    []string{"payment"},
	})

	assert.Equal(t, models.FraudLottery, reasoning.FraudType)
	assert.Equal(t, "purple", reasoning.FraudColor)
	assert.Contains(t, reasoning.Reasons, "Payment redirection attempt")
	assert.Contains(t, reasoning.Reasons, "Moderate escalation detected")
	assert.NotContains(t, reasoning.Reasons, "Escalation speed above threshold")
}

func TestBuildDetectionReasoningFallback(t *testing.T) {
	reasoning := BuildDetectionReasoning(ReasoningInput{
		ScamType:   models.ScamTypeGenericScam,
		RiskLevel:  models.RiskMedium,
		Confidence: 0.5,
	})

	assert.Equal(t, []string{"Multiple scam indicators triggered"}, reasoning.Reasons)
	assert.Equal(t, models.FraudGeneric, reasoning.FraudType)
	assert.Equal(t, "slate", reasoning.FraudColor)
}
