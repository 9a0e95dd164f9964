package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"scamguard-lab/internal/domain/models"
	"scamguard-lab/internal/infrastructure/store"
	"scamguard-lab/pkg/logger"
)

// upiHandles lists the known Indian payment-app and bank UPI suffixes.
// A value after the @ that matches one of these is a UPI ID, never an
// email domain.
var upiHandles = []string{
	"paytm", "ybl", "okaxis", "oksbi", "okhdfcbank", "okicici",
	"axl", "ibl", "upi", "apl", "rapl", "waaxis", "wahdfcbank",
	"waicici", "wasbi", "ikwik", "freecharge", "airtel", "jio",
	"pingpay", "slice", "amazonpay", "axisb", "sbi", "hdfc",
	"icici", "kotak", "indus", "federal", "idbi", "pnb", "bob",
	"union", "canara", "boi", "cbi", "iob", "jupiter", "fi",
	"groww", "cred", "bharatpe", "navi", "mobikwik", "postpe",
}

var upiHandleSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(upiHandles))
	for _, h := range upiHandles {
		m[h] = struct{}{}
	}
	return m
}()

var (
	upiKnownPattern   = regexp.MustCompile(`(?i)\b[\w.\-]+@(` + strings.Join(upiHandles, "|") + `)\b`)
	upiGenericPattern = regexp.MustCompile(`(?i)\b[\w.\-]{3,}@[a-z]{2,15}\b`)

	bankAccountPattern = regexp.MustCompile(`\b[0-9]{9,18}\b`)
	ifscPattern        = regexp.MustCompile(`\b[A-Z]{4}0[A-Z0-9]{6}\b`)

	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\+91[\s\-]?[6-9]\d{9}\b`),
		regexp.MustCompile(`\b91[\s\-]?[6-9]\d{9}\b`),
		regexp.MustCompile(`\b[6-9]\d{9}\b`),
		regexp.MustCompile(`\b[6-9]\d{4}[\s\-]?\d{5}\b`),
		regexp.MustCompile(`\(\+91\)[\s\-]?[6-9]\d{9}`),
	}
	phoneCleaner = regexp.MustCompile(`[\s\-+()]`)

	emailPattern = regexp.MustCompile(`\b[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}\b`)

	aadhaarPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b[2-9]\d{3}[\s\-]?\d{4}[\s\-]?\d{4}\b`),
		regexp.MustCompile(`\b[2-9]\d{11}\b`),
	}
	separatorCleaner = regexp.MustCompile(`[\s\-]`)

	// PAN: three letters, a holder-type letter, one letter, four digits, a
	// check letter
	panPattern = regexp.MustCompile(`\b[A-Z]{3}[ABCFGHLJPTK][A-Z][0-9]{4}[A-Z]\b`)

	cryptoPatterns = []struct {
		family  string
		pattern *regexp.Regexp
	}{
		{"bitcoin", regexp.MustCompile(`\b(?:1|3|bc1)[a-zA-HJ-NP-Z0-9]{25,62}\b`)},
		{"ethereum", regexp.MustCompile(`\b0x[a-fA-F0-9]{40}\b`)},
		{"usdt_trc20", regexp.MustCompile(`\bT[a-zA-Z0-9]{33}\b`)},
	}

	urlPatterns = []*regexp.Regexp{
		regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`),
		regexp.MustCompile(`bit\.ly/[a-zA-Z0-9]+`),
		regexp.MustCompile(`tinyurl\.com/[a-zA-Z0-9]+`),
		regexp.MustCompile(`goo\.gl/[a-zA-Z0-9]+`),
		regexp.MustCompile(`t\.co/[a-zA-Z0-9]+`),
		regexp.MustCompile(`rb\.gy/[a-zA-Z0-9]+`),
		regexp.MustCompile(`wa\.me/[0-9]+`),
		regexp.MustCompile(`t\.me/[a-zA-Z0-9_]+`),
	}

	whatsappPattern = regexp.MustCompile(`(?i)(?:whatsapp|wa)[\s:]*(\+?[0-9]{10,13})`)
	telegramPattern = regexp.MustCompile(`(?i)(?:telegram|tg)[\s:@]*([a-zA-Z0-9_]{5,32})`)
)

// suspiciousKeywords are tactic markers extracted alongside hard
// identifiers. Longer phrases are used where single words are too common.
var suspiciousKeywords = []string{
	"urgent", "immediately", "asap", "hurry up", "act now", "right now",
	"verify your", "blocked account", "suspended", "kyc update", "account deactivated",
	"prize money", "refund pending", "cashback offer", "lottery winner",
	"money transfer", "upi payment",
	"aadhaar card", "aadhar number", "pan card", "share otp", "enter otp",
	"legal action", "police case", "arrest warrant", "court notice", "case filed",
	"rbi notice", "trai notice", "income tax", "customs department", "cbi officer",
	"work from home job", "instant loan", "investment opportunity",
	"click here", "click this link", "send money", "share details",
}

var suspiciousKeywordPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(suspiciousKeywords))
	for _, kw := range suspiciousKeywords {
		out = append(out, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
	}
	return out
}()

// IntelligenceExtractor pulls actionable identifiers out of scammer
// messages and accumulates them per session. It only records what the
// counterparty volunteers; Aadhaar and PAN values are masked before they
// ever reach storage.
type IntelligenceExtractor struct {
	states store.IntelStore
	logger *logger.Logger
}

// NewIntelligenceExtractor creates a new intelligence extractor
func NewIntelligenceExtractor(states store.IntelStore, log *logger.Logger) *IntelligenceExtractor {
	return &IntelligenceExtractor{
		states: states,
		logger: log.WithComponent("intel-extractor"),
	}
}

// Extract runs every recognizer over text, merges the findings into the
// session's accumulated state, and returns a snapshot of everything
// collected so far.
func (e *IntelligenceExtractor) Extract(ctx context.Context, text, sessionID string) (models.Intelligence, error) {
	state, found, err := e.states.Get(ctx, sessionID)
	if err != nil {
		return models.Intelligence{}, err
	}
	if !found {
		state = models.NewIntelState(sessionID)
	}

	e.extractUPI(state, text)
	e.extractBankAccounts(state, text)
	e.extractIFSC(state, text)
	e.extractPhones(state, text)
	e.extractEmails(state, text)
	e.extractAadhaar(state, text)
	e.extractPAN(state, text)
	e.extractCrypto(state, text)
	e.extractLinks(state, text)
	e.extractMessagingIDs(state, text)
	e.extractKeywords(state, text)

	if err := e.states.Put(ctx, state); err != nil {
		return models.Intelligence{}, err
	}

	if summary := state.Summary(); len(summary) > 0 {
		e.logger.Debug().
			Str("session_id", sessionID).
			Interface("classes", summary).
			Msg("intelligence extracted")
	}

	return state.Snapshot(), nil
}

// HasIntelligence reports whether the session yielded any actionable
// identifier. Suspicious keywords alone do not count.
func (e *IntelligenceExtractor) HasIntelligence(ctx context.Context, sessionID string) (bool, error) {
	state, found, err := e.states.Get(ctx, sessionID)
	if err != nil || !found {
		return false, err
	}
	return state.HasPrimary(), nil
}

// Summary returns per-class counts of extracted intelligence
func (e *IntelligenceExtractor) Summary(ctx context.Context, sessionID string) (map[string]int, error) {
	state, found, err := e.states.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !found {
		return map[string]int{}, nil
	}
	return state.Summary(), nil
}

// Snapshot returns the session's accumulated intelligence without
// processing a new message
func (e *IntelligenceExtractor) Snapshot(ctx context.Context, sessionID string) (models.Intelligence, error) {
	state, found, err := e.states.Get(ctx, sessionID)
	if err != nil {
		return models.Intelligence{}, err
	}
	if !found {
		return models.NewIntelState(sessionID).Snapshot(), nil
	}
	return state.Snapshot(), nil
}

// AllIdentifiers returns every extracted identifier as labeled lines for
// reporting
func (e *IntelligenceExtractor) AllIdentifiers(ctx context.Context, sessionID string) ([]string, error) {
	state, found, err := e.states.Get(ctx, sessionID)
	if err != nil || !found {
		return nil, err
	}

	labels := []struct {
		class models.IntelligenceClass
		label string
	}{
		{models.ClassUPIIDs, "UPI"},
		{models.ClassPhoneNumbers, "Phone"},
		{models.ClassEmails, "Email"},
		{models.ClassBankAccounts, "Bank Acc"},
		{models.ClassIFSCCodes, "IFSC"},
		{models.ClassAadhaarNumbers, "Aadhaar"},
		{models.ClassPANNumbers, "PAN"},
		{models.ClassPhishingLinks, "Link"},
		{models.ClassCryptoWallets, "Crypto"},
		{models.ClassMessagingIDs, "Messaging"},
	}

	var out []string
	for _, l := range labels {
		for _, v := range state.Values(l.class) {
			out = append(out, fmt.Sprintf("%s: %s", l.label, v))
		}
	}
	return out, nil
}

// Reset discards a session's accumulated intelligence
func (e *IntelligenceExtractor) Reset(ctx context.Context, sessionID string) error {
	return e.states.Delete(ctx, sessionID)
}

func (e *IntelligenceExtractor) extractUPI(state *models.IntelState, text string) {
	for _, upi := range upiKnownPattern.FindAllString(text, -1) {
		if len(upi) > 5 {
			state.Add(models.ClassUPIIDs, strings.ToLower(upi))
		}
	}

	// Generic handles like name@bank, skipping anything that is really
	// the local half of an email address
	for _, loc := range upiGenericPattern.FindAllStringIndex(text, -1) {
		candidate := text[loc[0]:loc[1]]
		if len(candidate) <= 5 || e.looksLikeEmailPrefix(text, loc[1]) {
			continue
		}
		state.Add(models.ClassUPIIDs, strings.ToLower(candidate))
	}
}

// looksLikeEmailPrefix reports whether the text continues with ".tld"
// right after the matched span, meaning the span is an email cut short
func (e *IntelligenceExtractor) looksLikeEmailPrefix(text string, end int) bool {
	rest := text[end:]
	if len(rest) < 3 || rest[0] != '.' {
		return false
	}
	letters := 0
	for _, r := range rest[1:] {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			letters++
			continue
		}
		break
	}
	return letters >= 2
}

func (e *IntelligenceExtractor) extractBankAccounts(state *models.IntelState, text string) {
	for _, acc := range bankAccountPattern.FindAllString(text, -1) {
		// 10-digit runs starting 6-9 are phones; exactly 12 digits is
		// probably an Aadhaar number
		if len(acc) == 10 && acc[0] >= '6' && acc[0] <= '9' {
			continue
		}
		if len(acc) == 12 {
			continue
		}
		state.Add(models.ClassBankAccounts, acc)
	}
}

func (e *IntelligenceExtractor) extractIFSC(state *models.IntelState, text string) {
	for _, ifsc := range ifscPattern.FindAllString(strings.ToUpper(text), -1) {
		state.Add(models.ClassIFSCCodes, ifsc)
	}
}

func (e *IntelligenceExtractor) extractPhones(state *models.IntelState, text string) {
	for _, pattern := range phonePatterns {
		for _, phone := range pattern.FindAllString(text, -1) {
			cleaned := phoneCleaner.ReplaceAllString(phone, "")
			if strings.HasPrefix(cleaned, "91") && len(cleaned) == 12 {
				cleaned = cleaned[2:]
			}
			if len(cleaned) == 10 && cleaned[0] >= '6' && cleaned[0] <= '9' {
				state.Add(models.ClassPhoneNumbers, cleaned)
			}
		}
	}
}

func (e *IntelligenceExtractor) extractEmails(state *models.IntelState, text string) {
	for _, email := range emailPattern.FindAllString(text, -1) {
		domain := strings.ToLower(email[strings.LastIndex(email, "@")+1:])
		if _, isUPI := upiHandleSet[domain]; isUPI || !strings.Contains(domain, ".") {
			continue
		}
		state.Add(models.ClassEmails, strings.ToLower(email))
	}
}

func (e *IntelligenceExtractor) extractAadhaar(state *models.IntelState, text string) {
	for _, pattern := range aadhaarPatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			clean := separatorCleaner.ReplaceAllString(match, "")
			// Aadhaar never starts with 0 or 1
			if len(clean) == 12 && clean[0] >= '2' && clean[0] <= '9' {
				state.Add(models.ClassAadhaarNumbers, maskAadhaar(clean))
			}
		}
	}
}

func (e *IntelligenceExtractor) extractPAN(state *models.IntelState, text string) {
	for _, pan := range panPattern.FindAllString(strings.ToUpper(text), -1) {
		state.Add(models.ClassPANNumbers, maskPAN(pan))
	}
}

func (e *IntelligenceExtractor) extractCrypto(state *models.IntelState, text string) {
	for _, cp := range cryptoPatterns {
		for _, wallet := range cp.pattern.FindAllString(text, -1) {
			state.Add(models.ClassCryptoWallets,
				fmt.Sprintf("%s:%s...%s", cp.family, wallet[:8], wallet[len(wallet)-6:]))
		}
	}
}

func (e *IntelligenceExtractor) extractLinks(state *models.IntelState, text string) {
	for _, pattern := range urlPatterns {
		for _, url := range pattern.FindAllString(text, -1) {
			state.Add(models.ClassPhishingLinks, url)
		}
	}
}

func (e *IntelligenceExtractor) extractMessagingIDs(state *models.IntelState, text string) {
	for _, m := range whatsappPattern.FindAllStringSubmatch(text, -1) {
		state.Add(models.ClassMessagingIDs, "whatsapp:"+m[1])
	}
	for _, m := range telegramPattern.FindAllStringSubmatch(text, -1) {
		state.Add(models.ClassMessagingIDs, "telegram:"+m[1])
	}
}

func (e *IntelligenceExtractor) extractKeywords(state *models.IntelState, text string) {
	lower := strings.ToLower(text)
	for i, pattern := range suspiciousKeywordPatterns {
		if pattern.MatchString(lower) {
			state.Add(models.ClassSuspiciousKeywords, suspiciousKeywords[i])
		}
	}
}

// maskAadhaar keeps only the last four digits: XXXX-XXXX-1234
func maskAadhaar(clean string) string {
	if len(clean) != 12 {
		return clean
	}
	return "XXXX-XXXX-" + clean[8:]
}

// maskPAN keeps only the four digits: XXXXX1234X
func maskPAN(pan string) string {
	if len(pan) != 10 {
		return pan
	}
	return "XXXXX" + pan[5:9] + "X"
}
