package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamguard-lab/internal/config"
	"scamguard-lab/internal/domain/models"
	"scamguard-lab/internal/domain/signals"
	"scamguard-lab/internal/infrastructure/store"
	"scamguard-lab/pkg/logger"
)

func newTestScorer(t *testing.T) *RiskScorer {
	t.Helper()
	lib, err := signals.NewLibrary()
	require.NoError(t, err)
	return NewRiskScorer(config.DefaultDetection(), lib, store.NewMemoryRiskStateStore(), logger.Nop())
}

func TestScoreBenignMessage(t *testing.T) {
	scorer := newTestScorer(t)
	ctx := context.Background()

	score, isScam, err := scorer.Score(ctx, "hello, lovely weather today", "s1")
	require.NoError(t, err)
	assert.Zero(t, score)
	assert.False(t, isScam)

	details, err := scorer.Details(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.RiskMinimal, details.RiskLevel)
	assert.Equal(t, models.ScamTypeUnknown, details.ScamType)
	assert.Equal(t, 1, details.MessageCount)
}

func TestScoreEmptyMessage(t *testing.T) {
	scorer := newTestScorer(t)

	score, isScam, err := scorer.Score(context.Background(), "", "s1")
	require.NoError(t, err)
	assert.Zero(t, score)
	assert.False(t, isScam)
}

func TestScoreWholeWordBoundaries(t *testing.T) {
	scorer := newTestScorer(t)
	ctx := context.Background()

	// "know" must not trigger the "now" family of urgency keywords
	score, _, err := scorer.Score(ctx, "I don't know the answer", "s1")
	require.NoError(t, err)
	assert.Zero(t, score)

	score, _, err = scorer.Score(ctx, "act now please", "s1")
	require.NoError(t, err)
	assert.Equal(t, 18, score)
}

func TestScoreAccumulatesAcrossSession(t *testing.T) {
	scorer := newTestScorer(t)
	ctx := context.Background()

	messages := []string{
		"hello sir",
		"urgent, verify your account",
		"share your otp to unblock",
		"last warning, act now",
	}

	prev := 0
	for _, msg := range messages {
		score, _, err := scorer.Score(ctx, msg, "s1")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, score, prev, "cumulative score must never decrease")
		prev = score
	}

	details, err := scorer.Details(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, prev, details.Score)
	assert.Equal(t, len(messages), details.MessageCount)
}

func TestScoreUrgencyPlusVerification(t *testing.T) {
	scorer := newTestScorer(t)
	ctx := context.Background()

	result, err := scorer.ScoreDetailed(ctx, "urgent: verify your account now", "s1")
	require.NoError(t, err)

	// urgent (15) + verify (12) + two-category bonus (10)
	assert.Equal(t, 37, result.Score)
	assert.True(t, result.IsScam)
	assert.Equal(t, []models.Category{models.CategoryUrgency, models.CategoryVerification},
		result.TriggeredCategories)
	// No template matched; type is inferred from categories
	assert.Equal(t, models.ScamTypePhishing, result.ScamType)
}

func TestScamTypeLocksOnFirstInference(t *testing.T) {
	scorer := newTestScorer(t)
	ctx := context.Background()

	first, err := scorer.ScoreDetailed(ctx, "please share your otp", "s1")
	require.NoError(t, err)
	assert.Equal(t, models.ScamTypeCredentialPhishing, first.ScamType)

	// A later, stronger bank-impersonation signal must not change the type
	second, err := scorer.ScoreDetailed(ctx, "rbi kyc verify immediately", "s1")
	require.NoError(t, err)
	assert.Equal(t, models.ScamTypeCredentialPhishing, second.ScamType)
	assert.Greater(t, second.Score, first.Score)
}

func TestScamTypeStaysUnknownWithoutSignal(t *testing.T) {
	scorer := newTestScorer(t)
	ctx := context.Background()

	result, err := scorer.ScoreDetailed(ctx, "good morning ji", "s1")
	require.NoError(t, err)
	assert.Equal(t, models.ScamTypeUnknown, result.ScamType)

	// The first real signal still gets to set the type
	result, err = scorer.ScoreDetailed(ctx, "your parcel contains drugs, customs case", "s1")
	require.NoError(t, err)
	assert.Equal(t, models.ScamTypeCourierScam, result.ScamType)
}

func TestTemplateLabelBecomesScamType(t *testing.T) {
	scorer := newTestScorer(t)

	result, err := scorer.ScoreDetailed(context.Background(), "you are under digital arrest", "s1")
	require.NoError(t, err)
	assert.Equal(t, models.ScamTypeDigitalArrest, result.ScamType)
	assert.Contains(t, result.MatchedPatterns, string(models.ScamTypeDigitalArrest))
}

func TestLinkBonusOncePerMessage(t *testing.T) {
	scorer := newTestScorer(t)
	ctx := context.Background()

	one, _, err := scorer.Score(ctx, "open http://a.example", "s1")
	require.NoError(t, err)
	two, _, err := scorer.Score(ctx, "open http://a.example and http://b.example", "s2")
	require.NoError(t, err)
	assert.Equal(t, one, two, "link bonus applies once per message")
	assert.Equal(t, 15, one)
}

func TestEscalationBonusPerPhrase(t *testing.T) {
	scorer := newTestScorer(t)

	score, _, err := scorer.Score(context.Background(),
		"last warning, if you don't respond action will be taken", "s1")
	require.NoError(t, err)
	// three escalation phrases at 12 each plus the "last chance" family
	// keywords do not appear in this text
	assert.GreaterOrEqual(t, score, 36)
}

func TestConfidenceCalibration(t *testing.T) {
	scorer := newTestScorer(t)

	t.Run("below threshold scales linearly", func(t *testing.T) {
		assert.InDelta(t, 0.25, scorer.calculateConfidence(15, 1, 0), 0.001)
		assert.InDelta(t, 0.0, scorer.calculateConfidence(0, 0, 0), 0.001)
	})

	t.Run("band bases", func(t *testing.T) {
		assert.InDelta(t, 0.7, scorer.calculateConfidence(30, 0, 0), 0.001)
		assert.InDelta(t, 0.85, scorer.calculateConfidence(60, 0, 0), 0.001)
		assert.InDelta(t, 0.95, scorer.calculateConfidence(100, 0, 0), 0.001)
	})

	t.Run("boosts are capped", func(t *testing.T) {
		// 10 categories would add 0.30 uncapped; cap is 0.15
		assert.InDelta(t, 0.85, scorer.calculateConfidence(30, 10, 0), 0.001)
		// 5 patterns would add 0.25 uncapped; cap is 0.10
		assert.InDelta(t, 0.80, scorer.calculateConfidence(30, 0, 5), 0.001)
	})

	t.Run("ceiling", func(t *testing.T) {
		assert.InDelta(t, 0.99, scorer.calculateConfidence(500, 10, 10), 0.001)
	})
}

func TestRiskLevels(t *testing.T) {
	scorer := newTestScorer(t)

	tests := []struct {
		score      int
		confidence float64
		want       models.RiskLevel
	}{
		{0, 0.0, models.RiskMinimal},
		{15, 0.25, models.RiskLow},
		{30, 0.7, models.RiskMedium},
		{60, 0.85, models.RiskHigh},
		{45, 0.8, models.RiskHigh},
		{100, 0.95, models.RiskCritical},
		{70, 0.92, models.RiskCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, scorer.riskLevel(tt.score, tt.confidence),
			"score=%d confidence=%.2f", tt.score, tt.confidence)
	}
}

func TestScoreWithIncrement(t *testing.T) {
	scorer := newTestScorer(t)

	result, err := scorer.ScoreWithIncrement(context.Background(), "hello there my friend", "s1", 30)
	require.NoError(t, err)
	assert.Equal(t, 30, result.Score)
}

func TestReset(t *testing.T) {
	scorer := newTestScorer(t)
	ctx := context.Background()

	_, _, err := scorer.Score(ctx, "urgent kyc verify", "s1")
	require.NoError(t, err)
	require.NoError(t, scorer.Reset(ctx, "s1"))

	details, err := scorer.Details(ctx, "s1")
	require.NoError(t, err)
	assert.Zero(t, details.Score)
	assert.Zero(t, details.MessageCount)
}

func TestSessionsAreIsolated(t *testing.T) {
	scorer := newTestScorer(t)
	ctx := context.Background()

	_, _, err := scorer.Score(ctx, "urgent kyc verify immediately", "hot")
	require.NoError(t, err)

	score, isScam, err := scorer.Score(ctx, "see you tomorrow", "cold")
	require.NoError(t, err)
	assert.Zero(t, score)
	assert.False(t, isScam)
}
