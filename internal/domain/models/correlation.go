package models

import (
	"time"

	"github.com/google/uuid"
)

// IdentifierType classifies a raw identifier value for the registry and
// the pattern fingerprint
type IdentifierType string

const (
	IdentifierUPI   IdentifierType = "UPI"
	IdentifierEmail IdentifierType = "Email"
	IdentifierLink  IdentifierType = "Link"
	IdentifierBank  IdentifierType = "Bank"
	IdentifierPhone IdentifierType = "Phone"
	IdentifierOther IdentifierType = "Other"
)

// PatternRecord is one session's registered scam signature
type PatternRecord struct {
	SessionID       string    `json:"session_id"`
	Fingerprint     string    `json:"fingerprint"`
	ScamType        ScamType  `json:"scam_type"`
	Tactics         []string  `json:"tactics"`
	IdentifierTypes []string  `json:"identifier_types"`
	RiskLevel       RiskLevel `json:"risk_level"`
	Confidence      float64   `json:"confidence"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CorrelationResult reports cross-session recurrence for a fingerprint
type CorrelationResult struct {
	Fingerprint     string   `json:"pattern_hash"`
	MatchCount      int      `json:"match_count"`
	SimilarSessions []string `json:"similar_sessions"`
	Recurring       bool     `json:"recurring"`
	SimilarityScore float64  `json:"similarity_score"`
}

// PatternFrequency is one fingerprint's occurrence count
type PatternFrequency struct {
	Fingerprint string   `json:"hash"`
	Count       int      `json:"count"`
	ScamType    ScamType `json:"scam_type"`
	Tactics     []string `json:"tactics"`
}

// PatternStats is the aggregate view of the pattern registry
type PatternStats struct {
	TotalPatterns  int                `json:"total_patterns"`
	TopPatterns    []PatternFrequency `json:"top_patterns"`
	RecurringCount int                `json:"recurring_count"`
}

// IdentifierRecord is one entry in the cross-session identifier registry
type IdentifierRecord struct {
	ID          uuid.UUID      `json:"id"`
	Value       string         `json:"value"`
	Masked      string         `json:"masked"`
	Type        IdentifierType `json:"type"`
	RiskLevel   RiskLevel      `json:"risk_level"`
	Confidence  float64        `json:"confidence"`
	Occurrences int            `json:"occurrences"`
	Sessions    []string       `json:"sessions"`
	FirstSeen   time.Time      `json:"first_seen"`
	LastSeen    time.Time      `json:"last_seen"`
}

// RegistryFilter defines filtering options for listing registry entries
type RegistryFilter struct {
	Type      IdentifierType
	RiskLevel RiskLevel
	Limit     int
}

// RegistryStats holds aggregate registry statistics
type RegistryStats struct {
	Total  int64            `json:"total"`
	ByType map[string]int64 `json:"by_type"`
	ByRisk map[string]int64 `json:"by_risk"`
}
