package models

// FraudType is the human-readable reporting label for a scam type
type FraudType string

const (
	FraudKYCPhishing   FraudType = "KYC PHISHING"
	FraudPayment       FraudType = "PAYMENT FRAUD"
	FraudLottery       FraudType = "LOTTERY SCAM"
	FraudImpersonation FraudType = "IMPERSONATION"
	FraudGeneric       FraudType = "GENERIC SCAM"
)

var fraudTypeMap = map[ScamType]FraudType{
	ScamTypeBankImpersonation:    FraudKYCPhishing,
	ScamTypeAccountThreat:        FraudKYCPhishing,
	ScamTypePhishing:             FraudKYCPhishing,
	ScamTypeCredentialPhishing:   FraudKYCPhishing,
	ScamTypeIdentityThreat:       FraudKYCPhishing,
	ScamTypeIdentityTheft:        FraudKYCPhishing,
	ScamTypePaymentScam:          FraudPayment,
	ScamTypeRefundScam:           FraudPayment,
	ScamTypeUrgentAction:         FraudPayment,
	ScamTypeInvestmentScam:       FraudPayment,
	ScamTypeCryptoScam:           FraudPayment,
	ScamTypeLoanScam:             FraudPayment,
	ScamTypeLotteryScam:          FraudLottery,
	ScamTypeJobScam:              FraudLottery,
	ScamTypeJobLoanScam:          FraudLottery,
	ScamTypeGovtImpersonation:    FraudImpersonation,
	ScamTypeGovtThreat:           FraudImpersonation,
	ScamTypeTelecomScam:          FraudImpersonation,
	ScamTypeTelecomImpersonation: FraudImpersonation,
	ScamTypeDigitalArrest:        FraudImpersonation,
	ScamTypeCourierScam:          FraudImpersonation,
	ScamTypeIntimidationScam:     FraudImpersonation,
	ScamTypeGenericScam:          FraudGeneric,
	ScamTypeUnknown:              FraudGeneric,
}

var fraudColorMap = map[FraudType]string{
	FraudPayment:       "red",
	FraudKYCPhishing:   "amber",
	FraudLottery:       "purple",
	FraudImpersonation: "blue",
	FraudGeneric:       "slate",
}

// ClassifyFraudType maps an internal scam type to its reporting label
func ClassifyFraudType(scamType ScamType) FraudType {
	if fraud, ok := fraudTypeMap[scamType]; ok {
		return fraud
	}
	return FraudGeneric
}

// BadgeColor returns the UI badge color for a fraud type
func BadgeColor(fraud FraudType) string {
	if color, ok := fraudColorMap[fraud]; ok {
		return color
	}
	return "slate"
}

// DetectionReasoning is the structured verdict for a confirmed scam
type DetectionReasoning struct {
	Verdict           string    `json:"verdict"`
	FraudType         FraudType `json:"fraud_type"`
	FraudColor        string    `json:"fraud_color"`
	RiskLevel         RiskLevel `json:"risk_level"`
	Confidence        float64   `json:"confidence"`
	SimilarityScore   float64   `json:"similarity_score"`
	Recurring         bool      `json:"recurring"`
	PatternMatchCount int       `json:"pattern_match_count"`
	Reasons           []string  `json:"reasons"`
}
