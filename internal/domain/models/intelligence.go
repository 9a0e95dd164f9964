package models

import "sort"

// IntelligenceClass names one identifier class tracked per session
type IntelligenceClass string

const (
	ClassUPIIDs             IntelligenceClass = "upiIds"
	ClassBankAccounts       IntelligenceClass = "bankAccounts"
	ClassIFSCCodes          IntelligenceClass = "ifscCodes"
	ClassPhoneNumbers       IntelligenceClass = "phoneNumbers"
	ClassEmails             IntelligenceClass = "emails"
	ClassAadhaarNumbers     IntelligenceClass = "aadhaarNumbers"
	ClassPANNumbers         IntelligenceClass = "panNumbers"
	ClassCryptoWallets      IntelligenceClass = "cryptoWallets"
	ClassPhishingLinks      IntelligenceClass = "phishingLinks"
	ClassMessagingIDs       IntelligenceClass = "messagingIds"
	ClassSuspiciousKeywords IntelligenceClass = "suspiciousKeywords"
)

// PrimaryClasses are the classes that count as actionable intelligence.
// Suspicious keywords are corroborating signal, not identifiers, so they
// are deliberately absent.
var PrimaryClasses = []IntelligenceClass{
	ClassUPIIDs,
	ClassBankAccounts,
	ClassIFSCCodes,
	ClassPhoneNumbers,
	ClassEmails,
	ClassAadhaarNumbers,
	ClassPANNumbers,
	ClassCryptoWallets,
	ClassPhishingLinks,
	ClassMessagingIDs,
}

// AllClasses lists every identifier class including suspicious keywords
var AllClasses = append(append([]IntelligenceClass{}, PrimaryClasses...), ClassSuspiciousKeywords)

// IntelState is the per-session accumulated identifier storage. Values
// only grow; sensitive classes hold masked values only.
type IntelState struct {
	SessionID string                         `json:"session_id"`
	Classes   map[IntelligenceClass][]string `json:"classes"`
}

// NewIntelState creates empty storage for a session
func NewIntelState(sessionID string) *IntelState {
	return &IntelState{
		SessionID: sessionID,
		Classes:   make(map[IntelligenceClass][]string),
	}
}

// Add inserts value into class if not already present
func (s *IntelState) Add(class IntelligenceClass, value string) {
	for _, existing := range s.Classes[class] {
		if existing == value {
			return
		}
	}
	s.Classes[class] = append(s.Classes[class], value)
}

// Values returns a copy of the values stored for class
func (s *IntelState) Values(class IntelligenceClass) []string {
	src := s.Classes[class]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// HasPrimary reports whether any actionable class is non-empty
func (s *IntelState) HasPrimary() bool {
	for _, class := range PrimaryClasses {
		if len(s.Classes[class]) > 0 {
			return true
		}
	}
	return false
}

// Summary returns counts of non-empty classes
func (s *IntelState) Summary() map[string]int {
	out := make(map[string]int)
	for class, values := range s.Classes {
		if len(values) > 0 {
			out[string(class)] = len(values)
		}
	}
	return out
}

// Snapshot flattens the state into the caller-facing form. Order within
// each list is not part of the contract.
func (s *IntelState) Snapshot() Intelligence {
	return Intelligence{
		BankAccounts:       s.Values(ClassBankAccounts),
		UPIIDs:             s.Values(ClassUPIIDs),
		PhishingLinks:      s.Values(ClassPhishingLinks),
		PhoneNumbers:       s.Values(ClassPhoneNumbers),
		SuspiciousKeywords: s.Values(ClassSuspiciousKeywords),
		Emails:             s.Values(ClassEmails),
		AadhaarNumbers:     s.Values(ClassAadhaarNumbers),
		PANNumbers:         s.Values(ClassPANNumbers),
		IFSCCodes:          s.Values(ClassIFSCCodes),
		CryptoWallets:      s.Values(ClassCryptoWallets),
		MessagingIDs:       s.Values(ClassMessagingIDs),
	}
}

// AllValues returns every stored identifier across the primary classes,
// sorted, for fingerprinting and reporting
func (s *IntelState) AllValues() []string {
	var out []string
	for _, class := range PrimaryClasses {
		out = append(out, s.Classes[class]...)
	}
	sort.Strings(out)
	return out
}

// Intelligence is the snapshot of a session's extracted identifiers
// returned to callers
type Intelligence struct {
	BankAccounts       []string `json:"bankAccounts"`
	UPIIDs             []string `json:"upiIds"`
	PhishingLinks      []string `json:"phishingLinks"`
	PhoneNumbers       []string `json:"phoneNumbers"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
	Emails             []string `json:"emails"`
	AadhaarNumbers     []string `json:"aadhaarNumbers"`
	PANNumbers         []string `json:"panNumbers"`
	IFSCCodes          []string `json:"ifscCodes"`
	CryptoWallets      []string `json:"cryptoWallets"`
	MessagingIDs       []string `json:"messagingIds"`
}
