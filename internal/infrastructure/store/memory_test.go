package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamguard-lab/internal/domain/models"
)

func TestMemoryRiskStateStore(t *testing.T) {
	s := NewMemoryRiskStateStore()
	ctx := context.Background()

	_, found, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	state := &models.RiskState{
		SessionID:       "s1",
		CumulativeScore: 42,
		Categories:      []models.Category{models.CategoryUrgency},
		MessageCount:    3,
		LockedScamType:  models.ScamTypePhishing,
	}
	require.NoError(t, s.Put(ctx, state))

	got, found, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 42, got.CumulativeScore)
	assert.Equal(t, models.ScamTypePhishing, got.LockedScamType)

	// The store hands out copies, not aliases
	got.Categories = append(got.Categories, models.CategoryThreat)
	reread, _, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, reread.Categories, 1)

	require.NoError(t, s.Delete(ctx, "s1"))
	_, found, err = s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryIntelStore(t *testing.T) {
	s := NewMemoryIntelStore()
	ctx := context.Background()

	state := models.NewIntelState("s1")
	state.Add(models.ClassUPIIDs, "rahul123@ybl")
	require.NoError(t, s.Put(ctx, state))

	got, found, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"rahul123@ybl"}, got.Values(models.ClassUPIIDs))

	// Mutating the returned state does not touch the stored copy
	got.Add(models.ClassPhoneNumbers, "9876543210")
	reread, _, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, reread.Values(models.ClassPhoneNumbers))
}

func TestMemoryPatternRegistry(t *testing.T) {
	r := NewMemoryPatternRegistry()
	ctx := context.Background()

	recs := []models.PatternRecord{
		{SessionID: "s1", Fingerprint: "aaaa", ScamType: models.ScamTypePhishing},
		{SessionID: "s2", Fingerprint: "aaaa", ScamType: models.ScamTypePhishing},
		{SessionID: "s3", Fingerprint: "bbbb", ScamType: models.ScamTypeLotteryScam},
	}
	for _, rec := range recs {
		require.NoError(t, r.Upsert(ctx, rec))
	}

	matches, err := r.FindByFingerprint(ctx, "aaaa", "s1")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "s2", matches[0].SessionID)

	all, err := r.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Upsert replaces, never duplicates
	require.NoError(t, r.Upsert(ctx, models.PatternRecord{SessionID: "s1", Fingerprint: "bbbb"}))
	all, err = r.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	matches, err = r.FindByFingerprint(ctx, "aaaa", "none")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestMemoryIdentifierRegistry(t *testing.T) {
	r := NewMemoryIdentifierRegistry()
	ctx := context.Background()

	rec := models.IdentifierRecord{
		Value:      "rahul123@ybl",
		Masked:     "ra***@ybl",
		Type:       models.IdentifierUPI,
		RiskLevel:  models.RiskMedium,
		Confidence: 0.7,
		Sessions:   []string{"s1"},
	}
	require.NoError(t, r.Record(ctx, rec))

	got, found, err := r.Get(ctx, "rahul123@ybl")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, got.Occurrences)
	assert.NotZero(t, got.ID)

	// Second observation merges: occurrences up, sessions union,
	// confidence keeps its maximum
	rec.Sessions = []string{"s2"}
	rec.Confidence = 0.6
	rec.RiskLevel = models.RiskHigh
	require.NoError(t, r.Record(ctx, rec))

	got, _, err = r.Get(ctx, "rahul123@ybl")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Occurrences)
	assert.ElementsMatch(t, []string{"s1", "s2"}, got.Sessions)
	assert.Equal(t, 0.7, got.Confidence)
	assert.Equal(t, models.RiskHigh, got.RiskLevel)

	// Same session again does not duplicate the link
	require.NoError(t, r.Record(ctx, rec))
	got, _, err = r.Get(ctx, "rahul123@ybl")
	require.NoError(t, err)
	assert.Len(t, got.Sessions, 2)
}

func TestMemoryIdentifierRegistryListAndStats(t *testing.T) {
	r := NewMemoryIdentifierRegistry()
	ctx := context.Background()

	records := []models.IdentifierRecord{
		{Value: "a@ybl", Type: models.IdentifierUPI, RiskLevel: models.RiskHigh},
		{Value: "b@ybl", Type: models.IdentifierUPI, RiskLevel: models.RiskMedium},
		{Value: "9876543210", Type: models.IdentifierPhone, RiskLevel: models.RiskHigh},
	}
	for _, rec := range records {
		require.NoError(t, r.Record(ctx, rec))
	}

	upis, err := r.List(ctx, models.RegistryFilter{Type: models.IdentifierUPI})
	require.NoError(t, err)
	assert.Len(t, upis, 2)

	high, err := r.List(ctx, models.RegistryFilter{RiskLevel: models.RiskHigh})
	require.NoError(t, err)
	assert.Len(t, high, 2)

	limited, err := r.List(ctx, models.RegistryFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	stats, err := r.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.ByType[string(models.IdentifierUPI)])
	assert.Equal(t, int64(2), stats.ByRisk[string(models.RiskHigh)])
}
