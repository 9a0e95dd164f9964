package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"scamguard-lab/internal/domain/models"
)

// MemoryRiskStateStore is a mutex-guarded in-memory RiskStateStore. It is
// the default backing store and the test fake.
type MemoryRiskStateStore struct {
	mu     sync.RWMutex
	states map[string]models.RiskState
}

// NewMemoryRiskStateStore creates an empty in-memory risk state store
func NewMemoryRiskStateStore() *MemoryRiskStateStore {
	return &MemoryRiskStateStore{states: make(map[string]models.RiskState)}
}

func (s *MemoryRiskStateStore) Get(_ context.Context, sessionID string) (*models.RiskState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[sessionID]
	if !ok {
		return nil, false, nil
	}
	copied := state
	copied.Categories = append([]models.Category(nil), state.Categories...)
	copied.LastPatterns = append([]string(nil), state.LastPatterns...)
	return &copied, true, nil
}

func (s *MemoryRiskStateStore) Put(_ context.Context, state *models.RiskState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *state
	copied.Categories = append([]models.Category(nil), state.Categories...)
	copied.LastPatterns = append([]string(nil), state.LastPatterns...)
	s.states[state.SessionID] = copied
	return nil
}

func (s *MemoryRiskStateStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sessionID)
	return nil
}

// MemoryIntelStore is a mutex-guarded in-memory IntelStore
type MemoryIntelStore struct {
	mu     sync.RWMutex
	states map[string]*models.IntelState
}

// NewMemoryIntelStore creates an empty in-memory intelligence store
func NewMemoryIntelStore() *MemoryIntelStore {
	return &MemoryIntelStore{states: make(map[string]*models.IntelState)}
}

func (s *MemoryIntelStore) Get(_ context.Context, sessionID string) (*models.IntelState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[sessionID]
	if !ok {
		return nil, false, nil
	}
	return copyIntelState(state), true, nil
}

func (s *MemoryIntelStore) Put(_ context.Context, state *models.IntelState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.SessionID] = copyIntelState(state)
	return nil
}

func (s *MemoryIntelStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sessionID)
	return nil
}

func copyIntelState(state *models.IntelState) *models.IntelState {
	copied := models.NewIntelState(state.SessionID)
	for class, values := range state.Classes {
		copied.Classes[class] = append([]string(nil), values...)
	}
	return copied
}

// MemoryPatternRegistry is a mutex-guarded in-memory PatternRegistry
type MemoryPatternRegistry struct {
	mu      sync.RWMutex
	records map[string]models.PatternRecord // keyed by session ID
}

// NewMemoryPatternRegistry creates an empty in-memory pattern registry
func NewMemoryPatternRegistry() *MemoryPatternRegistry {
	return &MemoryPatternRegistry{records: make(map[string]models.PatternRecord)}
}

func (r *MemoryPatternRegistry) FindByFingerprint(_ context.Context, fingerprint, excludeSession string) ([]models.PatternRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.PatternRecord
	for _, rec := range r.records {
		if rec.Fingerprint == fingerprint && rec.SessionID != excludeSession {
			out = append(out, copyPatternRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *MemoryPatternRegistry) Upsert(_ context.Context, rec models.PatternRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.SessionID] = copyPatternRecord(rec)
	return nil
}

func (r *MemoryPatternRegistry) All(_ context.Context) ([]models.PatternRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.PatternRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, copyPatternRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func copyPatternRecord(rec models.PatternRecord) models.PatternRecord {
	copied := rec
	copied.Tactics = append([]string(nil), rec.Tactics...)
	copied.IdentifierTypes = append([]string(nil), rec.IdentifierTypes...)
	return copied
}

// MemoryIdentifierRegistry is a mutex-guarded in-memory IdentifierRegistry
type MemoryIdentifierRegistry struct {
	mu      sync.RWMutex
	records map[string]models.IdentifierRecord // keyed by raw value
}

// NewMemoryIdentifierRegistry creates an empty in-memory identifier registry
func NewMemoryIdentifierRegistry() *MemoryIdentifierRegistry {
	return &MemoryIdentifierRegistry{records: make(map[string]models.IdentifierRecord)}
}

func (r *MemoryIdentifierRegistry) Record(_ context.Context, rec models.IdentifierRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	existing, ok := r.records[rec.Value]
	if !ok {
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		rec.Occurrences = 1
		rec.FirstSeen = now
		rec.LastSeen = now
		r.records[rec.Value] = copyIdentifierRecord(rec)
		return nil
	}

	existing.Occurrences++
	existing.LastSeen = now
	existing.RiskLevel = rec.RiskLevel
	existing.Masked = rec.Masked
	if rec.Confidence > existing.Confidence {
		existing.Confidence = rec.Confidence
	}
	if len(rec.Sessions) > 0 {
		existing.Sessions = unionSessions(existing.Sessions, rec.Sessions)
	}
	r.records[rec.Value] = existing
	return nil
}

func (r *MemoryIdentifierRegistry) Get(_ context.Context, value string) (*models.IdentifierRecord, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[value]
	if !ok {
		return nil, false, nil
	}
	copied := copyIdentifierRecord(rec)
	return &copied, true, nil
}

func (r *MemoryIdentifierRegistry) List(_ context.Context, filter models.RegistryFilter) ([]models.IdentifierRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.IdentifierRecord
	for _, rec := range r.records {
		if filter.Type != "" && rec.Type != filter.Type {
			continue
		}
		if filter.RiskLevel != "" && rec.RiskLevel != filter.RiskLevel {
			continue
		}
		out = append(out, copyIdentifierRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastSeen.After(out[j].LastSeen) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *MemoryIdentifierRegistry) Stats(_ context.Context) (models.RegistryStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := models.RegistryStats{
		ByType: make(map[string]int64),
		ByRisk: make(map[string]int64),
	}
	for _, rec := range r.records {
		stats.Total++
		stats.ByType[string(rec.Type)]++
		stats.ByRisk[string(rec.RiskLevel)]++
	}
	return stats, nil
}

func copyIdentifierRecord(rec models.IdentifierRecord) models.IdentifierRecord {
	copied := rec
	copied.Sessions = append([]string(nil), rec.Sessions...)
	return copied
}

func unionSessions(existing, added []string) []string {
	seen := make(map[string]bool, len(existing))
	out := append([]string(nil), existing...)
	for _, s := range existing {
		seen[s] = true
	}
	for _, s := range added {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
