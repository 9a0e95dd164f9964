package services

import (
	"context"
	"strings"

	"scamguard-lab/internal/config"
	"scamguard-lab/internal/domain/models"
	"scamguard-lab/internal/domain/signals"
	"scamguard-lab/internal/infrastructure/store"
	"scamguard-lab/pkg/logger"
)

// RiskScorer is the multi-signal, session-cumulative scam scorer. It runs
// five layers over each message: weighted keywords, compound templates,
// link bonus, escalation bonus, and a session-cumulative multi-category
// bonus, then derives confidence and a risk tier from the accumulated
// score. It never fails on message content; only store errors propagate.
type RiskScorer struct {
	cfg    config.DetectionConfig
	lib    *signals.Library
	states store.RiskStateStore
	logger *logger.Logger
}

// NewRiskScorer creates a new risk scorer
func NewRiskScorer(cfg config.DetectionConfig, lib *signals.Library, states store.RiskStateStore, log *logger.Logger) *RiskScorer {
	return &RiskScorer{
		cfg:    cfg,
		lib:    lib,
		states: states,
		logger: log.WithComponent("risk-scorer"),
	}
}

// Score analyzes one message, folds it into the session's cumulative
// state, and returns the cumulative score and the scam verdict
func (s *RiskScorer) Score(ctx context.Context, text, sessionID string) (int, bool, error) {
	result, err := s.ScoreDetailed(ctx, text, sessionID)
	if err != nil {
		return 0, false, err
	}
	return result.Score, result.IsScam, nil
}

// ScoreDetailed analyzes one message and returns the full verdict
func (s *RiskScorer) ScoreDetailed(ctx context.Context, text, sessionID string) (models.DetectionResult, error) {
	return s.ScoreWithIncrement(ctx, text, sessionID, 0)
}

// ScoreWithIncrement scores one message with an extra flat increment
// folded into the message score. The intent classifier feeds its risk
// increment through here.
func (s *RiskScorer) ScoreWithIncrement(ctx context.Context, text, sessionID string, increment int) (models.DetectionResult, error) {
	state, found, err := s.states.Get(ctx, sessionID)
	if err != nil {
		return models.DetectionResult{}, err
	}
	if !found {
		state = &models.RiskState{SessionID: sessionID}
	}
	state.MessageCount++

	lower := strings.ToLower(text)
	messageScore := increment

	// Layer 1: whole-word keyword hits; category membership is
	// session-cumulative, weight accumulation is per message
	for _, hit := range s.lib.MatchKeywords(lower) {
		messageScore += hit.Weight
		state.AddCategory(hit.Category)
	}

	// Layer 2: compound templates; the first match's label becomes the
	// message's candidate scam type
	candidate := models.ScamTypeUnknown
	var matchedPatterns []string
	for _, hit := range s.lib.MatchTemplates(lower) {
		messageScore += hit.Weight
		matchedPatterns = append(matchedPatterns, string(hit.Label))
		if candidate == models.ScamTypeUnknown {
			candidate = hit.Label
		}
	}

	// Layer 3: suspicious link bonus, once per message
	if s.lib.HasLink(lower) {
		messageScore += s.cfg.LinkBonus
	}

	// Layer 4: escalation phrases, per distinct phrase
	messageScore += len(s.lib.MatchEscalation(lower)) * s.cfg.EscalationBonus

	// Layer 5: corroboration across tactic categories is a stronger
	// signal than any single category's raw weight
	messageScore += s.multiCategoryBonus(len(state.Categories))

	state.CumulativeScore += messageScore
	state.LastPatterns = matchedPatterns

	// The first non-unknown scam type sticks for the session's lifetime:
	// stability over volatility
	if state.LockedScamType == "" || state.LockedScamType == models.ScamTypeUnknown {
		resolved := candidate
		if resolved == models.ScamTypeUnknown && len(state.Categories) > 0 {
			resolved = signals.InferScamType(state.Categories)
		}
		if resolved != models.ScamTypeUnknown {
			state.LockedScamType = resolved
		}
	}

	if err := s.states.Put(ctx, state); err != nil {
		return models.DetectionResult{}, err
	}

	result := s.resultFromState(state)

	s.logger.Debug().
		Str("session_id", sessionID).
		Int("message_score", messageScore).
		Int("cumulative_score", result.Score).
		Bool("is_scam", result.IsScam).
		Str("risk_level", string(result.RiskLevel)).
		Str("scam_type", string(result.ScamType)).
		Msg("message scored")

	return result, nil
}

// Details returns the current verdict for a session without scoring a
// new message. Sessions that were never scored return a zero result.
func (s *RiskScorer) Details(ctx context.Context, sessionID string) (models.DetectionResult, error) {
	state, found, err := s.states.Get(ctx, sessionID)
	if err != nil {
		return models.DetectionResult{}, err
	}
	if !found {
		return models.DetectionResult{
			SessionID: sessionID,
			RiskLevel: models.RiskMinimal,
			ScamType:  models.ScamTypeUnknown,
		}, nil
	}
	return s.resultFromState(state), nil
}

// SessionScore returns the cumulative score for a session
func (s *RiskScorer) SessionScore(ctx context.Context, sessionID string) (int, error) {
	state, found, err := s.states.Get(ctx, sessionID)
	if err != nil || !found {
		return 0, err
	}
	return state.CumulativeScore, nil
}

// Reset discards a session's scoring state. Only the owning session
// lifecycle should call this.
func (s *RiskScorer) Reset(ctx context.Context, sessionID string) error {
	return s.states.Delete(ctx, sessionID)
}

// resultFromState derives the verdict from stored state. Confidence and
// risk level are pure functions of the state and are recomputed on every
// call rather than persisted.
func (s *RiskScorer) resultFromState(state *models.RiskState) models.DetectionResult {
	confidence := s.calculateConfidence(state.CumulativeScore, len(state.Categories), len(state.LastPatterns))
	scamType := state.LockedScamType
	if scamType == "" {
		scamType = models.ScamTypeUnknown
	}
	return models.DetectionResult{
		SessionID:           state.SessionID,
		Score:               state.CumulativeScore,
		IsScam:              state.CumulativeScore >= s.cfg.ScamThreshold,
		Confidence:          confidence,
		RiskLevel:           s.riskLevel(state.CumulativeScore, confidence),
		ScamType:            scamType,
		MatchedPatterns:     append([]string(nil), state.LastPatterns...),
		TriggeredCategories: append([]models.Category(nil), state.Categories...),
		MessageCount:        state.MessageCount,
	}
}

func (s *RiskScorer) multiCategoryBonus(categories int) int {
	b := s.cfg.MultiCategoryBonus
	switch {
	case categories >= 5:
		return b.FivePlus
	case categories == 4:
		return b.Four
	case categories == 3:
		return b.Three
	case categories == 2:
		return b.Two
	default:
		return 0
	}
}

// calculateConfidence maps the cumulative score to [0.0, 1.0]. Below the
// scam threshold confidence scales linearly to 0.5; above it the score
// band sets the base and category/pattern corroboration adds small
// bounded boosts, capped at 0.99.
func (s *RiskScorer) calculateConfidence(score, categoriesHit, patternMatches int) float64 {
	if score < s.cfg.ScamThreshold {
		c := float64(score) / float64(s.cfg.ScamThreshold) * 0.5
		if c > 0.5 {
			c = 0.5
		}
		return c
	}

	var base float64
	switch {
	case score >= s.cfg.CriticalThreshold:
		base = 0.95
	case score >= s.cfg.HighConfidenceThreshold:
		base = 0.85
	default:
		base = 0.7
	}

	categoryBoost := float64(categoriesHit) * 0.03
	if categoryBoost > 0.15 {
		categoryBoost = 0.15
	}
	patternBoost := float64(patternMatches) * 0.05
	if patternBoost > 0.1 {
		patternBoost = 0.1
	}

	confidence := base + categoryBoost + patternBoost
	if confidence > 0.99 {
		confidence = 0.99
	}
	return confidence
}

func (s *RiskScorer) riskLevel(score int, confidence float64) models.RiskLevel {
	switch {
	case score >= s.cfg.CriticalThreshold || confidence >= 0.9:
		return models.RiskCritical
	case score >= s.cfg.HighConfidenceThreshold || confidence >= 0.75:
		return models.RiskHigh
	case score >= s.cfg.ScamThreshold:
		return models.RiskMedium
	case score >= s.cfg.LowTierFloor:
		return models.RiskLow
	default:
		return models.RiskMinimal
	}
}
