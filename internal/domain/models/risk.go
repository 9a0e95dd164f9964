package models

import "sort"

// RiskLevel is the discrete risk tier derived from score and confidence
type RiskLevel string

const (
	RiskMinimal  RiskLevel = "minimal"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// ScamType identifies the specific scam variant detected
type ScamType string

const (
	ScamTypeUnknown ScamType = "unknown"

	// Labels carried by compound pattern templates
	ScamTypeBankImpersonation    ScamType = "bank_impersonation"
	ScamTypeAccountThreat        ScamType = "account_threat"
	ScamTypeGovtThreat           ScamType = "govt_threat"
	ScamTypeIdentityThreat       ScamType = "identity_threat"
	ScamTypeTelecomScam          ScamType = "telecom_scam"
	ScamTypeTelecomImpersonation ScamType = "telecom_impersonation"
	ScamTypeCourierScam          ScamType = "courier_scam"
	ScamTypeLotteryScam          ScamType = "lottery_scam"
	ScamTypeRefundScam           ScamType = "refund_scam"
	ScamTypeJobScam              ScamType = "job_scam"
	ScamTypeLoanScam             ScamType = "loan_scam"
	ScamTypeCredentialPhishing   ScamType = "credential_phishing"
	ScamTypeUrgentAction         ScamType = "urgent_action"
	ScamTypeDigitalArrest        ScamType = "digital_arrest"
	ScamTypeInvestmentScam       ScamType = "investment_scam"
	ScamTypeCryptoScam           ScamType = "crypto_scam"

	// Labels inferred from triggered categories when no template matched
	ScamTypeGovtImpersonation ScamType = "government_impersonation"
	ScamTypeIdentityTheft     ScamType = "identity_theft"
	ScamTypeJobLoanScam       ScamType = "job_loan_scam"
	ScamTypeIntimidationScam  ScamType = "intimidation_scam"
	ScamTypePaymentScam       ScamType = "payment_scam"
	ScamTypePhishing          ScamType = "phishing"
	ScamTypeGenericScam       ScamType = "generic_scam"
)

// Category tags one lexical grouping of scam-indicative vocabulary
type Category string

const (
	CategoryUrgency           Category = "urgency"
	CategoryVerification      Category = "verification"
	CategoryPayment           Category = "payment"
	CategoryThreat            Category = "threat"
	CategoryGovtImpersonation Category = "govt_impersonation"
	CategoryIdentityScam      Category = "identity_scam"
	CategoryTelecomScam       Category = "telecom_scam"
	CategoryCourierScam       Category = "courier_scam"
	CategoryJobLoanScam       Category = "job_loan_scam"
)

// RiskState is the per-session cumulative scoring state. The cumulative
// score is append-only; confidence and risk level are never stored here,
// they are recomputed from this state on every call.
type RiskState struct {
	SessionID       string     `json:"session_id"`
	CumulativeScore int        `json:"cumulative_score"`
	Categories      []Category `json:"categories"`
	MessageCount    int        `json:"message_count"`

	// First non-unknown scam type inferred for the session; once set it
	// never changes for the session's lifetime.
	LockedScamType ScamType `json:"locked_scam_type,omitempty"`

	// Template labels matched by the most recent message
	LastPatterns []string `json:"last_patterns,omitempty"`
}

// HasCategory reports whether the session has already triggered c
func (s *RiskState) HasCategory(c Category) bool {
	for _, existing := range s.Categories {
		if existing == c {
			return true
		}
	}
	return false
}

// AddCategory records c as triggered, keeping the slice sorted and unique
func (s *RiskState) AddCategory(c Category) {
	if s.HasCategory(c) {
		return
	}
	s.Categories = append(s.Categories, c)
	sort.Slice(s.Categories, func(i, j int) bool { return s.Categories[i] < s.Categories[j] })
}

// DetectionResult is the full verdict for a session as of the most
// recent scored message
type DetectionResult struct {
	SessionID           string     `json:"session_id"`
	Score               int        `json:"score"`
	IsScam              bool       `json:"is_scam"`
	Confidence          float64    `json:"confidence"`
	RiskLevel           RiskLevel  `json:"risk_level"`
	ScamType            ScamType   `json:"scam_type"`
	MatchedPatterns     []string   `json:"matched_patterns,omitempty"`
	TriggeredCategories []Category `json:"triggered_categories,omitempty"`
	MessageCount        int        `json:"message_count"`
}
