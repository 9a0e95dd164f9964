package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"scamguard-lab/internal/config"
	"scamguard-lab/internal/domain/models"
	"scamguard-lab/internal/infrastructure/store"
	"scamguard-lab/pkg/logger"
)

var (
	emailShapePattern = regexp.MustCompile(`^.+@.+\..{2,}`)
	atDotPattern      = regexp.MustCompile(`^.+@.+\..+`)
	linkShapePattern  = regexp.MustCompile(`^(https?://|bit\.ly|tinyurl|goo\.gl|t\.co|wa\.me|t\.me)`)
	bankShapePattern  = regexp.MustCompile(`^\d{9,18}$`)
	phoneShapePattern = regexp.MustCompile(`^\d{10}$`)
)

// DetectIdentifierType classifies a raw identifier value by shape. The
// checks run in a fixed order: a 10-digit value starting 6-9 matches the
// bank shape first and stays Bank, matching how the registry has always
// bucketed bare digit runs.
func DetectIdentifierType(value string) models.IdentifierType {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case strings.Contains(v, "@") && !atDotPattern.MatchString(v):
		return models.IdentifierUPI
	case emailShapePattern.MatchString(v):
		return models.IdentifierEmail
	case linkShapePattern.MatchString(v):
		return models.IdentifierLink
	case bankShapePattern.MatchString(v):
		return models.IdentifierBank
	case phoneShapePattern.MatchString(v) && v[0] >= '6' && v[0] <= '9':
		return models.IdentifierPhone
	default:
		return models.IdentifierOther
	}
}

// MaskIdentifier hides the middle of sensitive numeric identifiers for
// display. UPI keeps its handle, phones keep two leading and four
// trailing digits, bank accounts keep two on each end.
func MaskIdentifier(value string, idType models.IdentifierType) string {
	if idType == "" {
		idType = DetectIdentifierType(value)
	}
	switch idType {
	case models.IdentifierPhone:
		if len(value) >= 10 {
			return value[:2] + "****" + value[len(value)-4:]
		}
	case models.IdentifierBank:
		if len(value) >= 9 {
			return value[:2] + strings.Repeat("*", len(value)-4) + value[len(value)-2:]
		}
	case models.IdentifierUPI:
		parts := strings.SplitN(value, "@", 2)
		if len(parts) == 2 && len(parts[0]) > 2 {
			return parts[0][:2] + "***@" + parts[1]
		}
	}
	return value
}

// Fingerprint derives the 16-hex-character pattern hash from a session's
// scam type, tactic set, and identifier type set. Tactics and identifier
// types are deduplicated and sorted so the hash is order-independent.
func Fingerprint(scamType models.ScamType, tactics []string, identifiers []string) string {
	st := string(scamType)
	if st == "" {
		st = string(models.ScamTypeUnknown)
	}
	components := []string{
		st,
		strings.Join(sortedUnique(tactics), "|"),
		strings.Join(identifierTypeSet(identifiers), "|"),
	}
	raw := strings.ToLower(strings.Join(components, "::"))
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])[:16]
}

// SimilarityScore compares two sessions. An exact fingerprint match is
// 1.0; otherwise scam-type equality contributes 0.4 and the Jaccard
// overlap of tactic sets contributes up to 0.6. Rounded to two decimals.
func SimilarityScore(hashA, hashB string, typeA, typeB models.ScamType, tacticsA, tacticsB []string) float64 {
	if hashA == hashB {
		return 1.0
	}
	score := 0.0
	if typeA != "" && typeB != "" && typeA == typeB {
		score += 0.4
	}
	setA := sortedUnique(tacticsA)
	setB := sortedUnique(tacticsB)
	if len(setA) > 0 && len(setB) > 0 {
		score += 0.6 * jaccard(setA, setB)
	}
	if score > 1.0 {
		score = 1.0
	}
	return math.Round(score*100) / 100
}

func sortedUnique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func identifierTypeSet(identifiers []string) []string {
	types := make([]string, 0, len(identifiers))
	for _, id := range identifiers {
		types = append(types, string(DetectIdentifierType(id)))
	}
	return sortedUnique(types)
}

func jaccard(a, b []string) float64 {
	setB := make(map[string]struct{}, len(b))
	for _, v := range b {
		setB[v] = struct{}{}
	}
	intersection := 0
	for _, v := range a {
		if _, ok := setB[v]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// PatternCorrelation registers per-session scam signatures and surfaces
// cross-session recurrence of the same fingerprint.
type PatternCorrelation struct {
	cfg      config.RegistryConfig
	patterns store.PatternRegistry
	logger   *logger.Logger
	now      func() time.Time
}

// NewPatternCorrelation creates a new pattern correlation engine
func NewPatternCorrelation(cfg config.RegistryConfig, patterns store.PatternRegistry, log *logger.Logger) *PatternCorrelation {
	return &PatternCorrelation{
		cfg:      cfg,
		patterns: patterns,
		logger:   log.WithComponent("pattern-correlation"),
		now:      time.Now,
	}
}

// RegisterPattern fingerprints the session's signature, looks up other
// sessions with the same fingerprint, upserts this session's record, and
// reports the correlation. Registering the same session again replaces
// its record rather than inflating the match count.
func (p *PatternCorrelation) RegisterPattern(
	ctx context.Context,
	sessionID string,
	scamType models.ScamType,
	tactics []string,
	identifiers []string,
	riskLevel models.RiskLevel,
	confidence float64,
) (models.CorrelationResult, error) {
	fingerprint := Fingerprint(scamType, tactics, identifiers)

	result := models.CorrelationResult{
		Fingerprint:     fingerprint,
		SimilarSessions: []string{},
	}

	matches, err := p.patterns.FindByFingerprint(ctx, fingerprint, sessionID)
	if err != nil {
		return result, err
	}

	limit := p.cfg.MaxSimilarSessions
	for i, m := range matches {
		if i >= limit {
			break
		}
		result.SimilarSessions = append(result.SimilarSessions, m.SessionID)
	}
	result.MatchCount = len(matches)
	result.Recurring = len(matches) > 0
	if len(matches) > 0 {
		recent := matches[0]
		result.SimilarityScore = SimilarityScore(
			fingerprint, recent.Fingerprint,
			scamType, recent.ScamType,
			tactics, recent.Tactics,
		)
	}

	rec := models.PatternRecord{
		SessionID:       sessionID,
		Fingerprint:     fingerprint,
		ScamType:        scamType,
		Tactics:         append([]string(nil), tactics...),
		IdentifierTypes: identifierTypeSet(identifiers),
		RiskLevel:       riskLevel,
		Confidence:      confidence,
		UpdatedAt:       p.now().UTC(),
	}
	if err := p.patterns.Upsert(ctx, rec); err != nil {
		return result, err
	}

	p.logger.Debug().
		Str("session_id", sessionID).
		Str("fingerprint", fingerprint).
		Int("match_count", result.MatchCount).
		Bool("recurring", result.Recurring).
		Msg("pattern registered")

	return result, nil
}

// Stats aggregates the pattern registry: total records, the most frequent
// fingerprints, and how many of those recur across sessions.
func (p *PatternCorrelation) Stats(ctx context.Context) (models.PatternStats, error) {
	records, err := p.patterns.All(ctx)
	if err != nil {
		return models.PatternStats{}, err
	}

	type group struct {
		count    int
		scamType models.ScamType
		tactics  []string
		first    time.Time
	}
	groups := make(map[string]*group)
	for _, rec := range records {
		g, ok := groups[rec.Fingerprint]
		if !ok {
			groups[rec.Fingerprint] = &group{
				count:    1,
				scamType: rec.ScamType,
				tactics:  rec.Tactics,
				first:    rec.UpdatedAt,
			}
			continue
		}
		g.count++
	}

	frequencies := make([]models.PatternFrequency, 0, len(groups))
	for fp, g := range groups {
		tactics := g.tactics
		if len(tactics) > 5 {
			tactics = tactics[:5]
		}
		frequencies = append(frequencies, models.PatternFrequency{
			Fingerprint: fp,
			Count:       g.count,
			ScamType:    g.scamType,
			Tactics:     append([]string(nil), tactics...),
		})
	}
	sort.Slice(frequencies, func(i, j int) bool {
		if frequencies[i].Count != frequencies[j].Count {
			return frequencies[i].Count > frequencies[j].Count
		}
		return frequencies[i].Fingerprint < frequencies[j].Fingerprint
	})
	if len(frequencies) > p.cfg.TopPatternLimit {
		frequencies = frequencies[:p.cfg.TopPatternLimit]
	}

	recurring := 0
	for _, f := range frequencies {
		if f.Count > 1 {
			recurring++
		}
	}

	return models.PatternStats{
		TotalPatterns:  len(records),
		TopPatterns:    frequencies,
		RecurringCount: recurring,
	}, nil
}
