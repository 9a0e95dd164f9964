package services

import (
	"fmt"
	"strings"

	"scamguard-lab/internal/domain/models"
)

// ReasoningInput carries everything the reasoning generator needs about a
// confirmed-scam session.
type ReasoningInput struct {
	ScamType          models.ScamType
	RiskLevel         models.RiskLevel
	Confidence        float64
	Tactics           []string
	IntelCounts       map[string]int
	PatternMatchCount int
	SimilarityScore   float64
	Recurring         bool
}

// BuildDetectionReasoning turns a session's verdict into a structured
// breakdown: fraud label, badge color, and human-readable reasons derived
// from the tactics, extracted intelligence, and cross-session recurrence.
func BuildDetectionReasoning(in ReasoningInput) models.DetectionReasoning {
	fraud := models.ClassifyFraudType(in.ScamType)

	var reasons []string
	if tacticsMatchAny(in.Tactics, "urgency", "urgent", "pressure") {
		reasons = append(reasons, "Urgency pattern detected")
	}
	if tacticsMatchAny(in.Tactics, "payment", "transfer", "upi") {
		reasons = append(reasons, "Payment redirection attempt")
	}
	if tacticsMatchAny(in.Tactics, "threat", "arrest", "legal") {
		reasons = append(reasons, "Threat/intimidation tactics used")
	}
	if tacticsMatchAny(in.Tactics, "kyc", "verify", "aadhaar") {
		reasons = append(reasons, "Identity verification scam pattern")
	}

	totalIntel := 0
	for _, n := range in.IntelCounts {
		totalIntel += n
	}
	if totalIntel > 0 {
		reasons = append(reasons, fmt.Sprintf("Identifier recurrence detected (%d items extracted)", totalIntel))
	}

	if in.Recurring {
		reasons = append(reasons, "Recurring indicator flag active")
	}
	if in.PatternMatchCount > 0 {
		reasons = append(reasons, fmt.Sprintf("Similar pattern used in %d previous sessions", in.PatternMatchCount))
	}

	switch {
	case in.Confidence >= 0.8:
		reasons = append(reasons, "Escalation speed above threshold")
	case in.Confidence >= 0.6:
		reasons = append(reasons, "Moderate escalation detected")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Multiple scam indicators triggered")
	}

	return models.DetectionReasoning{
		Verdict:           fmt.Sprintf("SCAM CONFIRMED — %s", fraud),
		FraudType:         fraud,
		FraudColor:        models.BadgeColor(fraud),
		RiskLevel:         in.RiskLevel,
		Confidence:        in.Confidence,
		SimilarityScore:   in.SimilarityScore,
		Recurring:         in.Recurring,
		PatternMatchCount: in.PatternMatchCount,
		Reasons:           reasons,
	}
}

func tacticsMatchAny(tactics []string, needles ...string) bool {
	for _, t := range tactics {
		lower := strings.ToLower(t)
		for _, n := range needles {
			if strings.Contains(lower, n) {
				return true
			}
		}
	}
	return false
}
