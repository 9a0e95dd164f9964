package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"scamguard-lab/internal/config"
	"scamguard-lab/internal/domain/models"
	"scamguard-lab/pkg/logger"
)

// Redis wraps the Redis client shared by the Redis-backed stores.
// Records are stored as JSON under a namespace prefix. No TTLs are set:
// session expiry belongs to the session-memory collaborator, not the
// engine.
type Redis struct {
	client    *redis.Client
	keyPrefix string
	logger    *logger.Logger
}

// NewRedis creates a new Redis connection for the stores
func NewRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*Redis, error) {
	log = log.WithComponent("redis-store")
	log.Info().Str("host", cfg.Host).Int("port", cfg.Port).Msg("connecting to Redis")

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	log.Info().Msg("connected to Redis successfully")

	return &Redis{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		logger:    log,
	}, nil
}

// NewRedisFromClient wraps an existing client, for tests
func NewRedisFromClient(client *redis.Client, keyPrefix string, log *logger.Logger) *Redis {
	return &Redis{client: client, keyPrefix: keyPrefix, logger: log.WithComponent("redis-store")}
}

// Close closes the Redis connection
func (r *Redis) Close() error {
	r.logger.Info().Msg("closing Redis connection")
	return r.client.Close()
}

func (r *Redis) key(k string) string {
	return r.keyPrefix + k
}

func (r *Redis) getJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (r *Redis) setJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return r.client.Set(ctx, r.key(key), data, 0).Err()
}

// Key layouts
const (
	keyRiskPrefix      = "risk:"
	keyIntelPrefix     = "intel:"
	keyPatternPrefix   = "pattern:session:"
	keyPatternFPPrefix = "pattern:fp:"
	keyPatternIndex    = "pattern:sessions"
)

// RedisRiskStateStore is a Redis-backed RiskStateStore
type RedisRiskStateStore struct {
	r *Redis
}

// NewRedisRiskStateStore creates a risk state store on the given connection
func NewRedisRiskStateStore(r *Redis) *RedisRiskStateStore {
	return &RedisRiskStateStore{r: r}
}

func (s *RedisRiskStateStore) Get(ctx context.Context, sessionID string) (*models.RiskState, bool, error) {
	var state models.RiskState
	found, err := s.r.getJSON(ctx, keyRiskPrefix+sessionID, &state)
	if err != nil || !found {
		return nil, false, err
	}
	return &state, true, nil
}

func (s *RedisRiskStateStore) Put(ctx context.Context, state *models.RiskState) error {
	return s.r.setJSON(ctx, keyRiskPrefix+state.SessionID, state)
}

func (s *RedisRiskStateStore) Delete(ctx context.Context, sessionID string) error {
	return s.r.client.Del(ctx, s.r.key(keyRiskPrefix+sessionID)).Err()
}

// RedisIntelStore is a Redis-backed IntelStore
type RedisIntelStore struct {
	r *Redis
}

// NewRedisIntelStore creates an intelligence store on the given connection
func NewRedisIntelStore(r *Redis) *RedisIntelStore {
	return &RedisIntelStore{r: r}
}

func (s *RedisIntelStore) Get(ctx context.Context, sessionID string) (*models.IntelState, bool, error) {
	var state models.IntelState
	found, err := s.r.getJSON(ctx, keyIntelPrefix+sessionID, &state)
	if err != nil || !found {
		return nil, false, err
	}
	if state.Classes == nil {
		state.Classes = make(map[models.IntelligenceClass][]string)
	}
	return &state, true, nil
}

func (s *RedisIntelStore) Put(ctx context.Context, state *models.IntelState) error {
	return s.r.setJSON(ctx, keyIntelPrefix+state.SessionID, state)
}

func (s *RedisIntelStore) Delete(ctx context.Context, sessionID string) error {
	return s.r.client.Del(ctx, s.r.key(keyIntelPrefix+sessionID)).Err()
}

// RedisPatternRegistry is a Redis-backed PatternRegistry. Each session's
// record lives under its own key; a set per fingerprint indexes sessions
// for O(1) recurrence lookup.
type RedisPatternRegistry struct {
	r *Redis
}

// NewRedisPatternRegistry creates a pattern registry on the given connection
func NewRedisPatternRegistry(r *Redis) *RedisPatternRegistry {
	return &RedisPatternRegistry{r: r}
}

func (reg *RedisPatternRegistry) FindByFingerprint(ctx context.Context, fingerprint, excludeSession string) ([]models.PatternRecord, error) {
	sessionIDs, err := reg.r.client.SMembers(ctx, reg.r.key(keyPatternFPPrefix+fingerprint)).Result()
	if err != nil {
		return nil, err
	}

	var out []models.PatternRecord
	for _, sessionID := range sessionIDs {
		if sessionID == excludeSession {
			continue
		}
		var rec models.PatternRecord
		found, err := reg.r.getJSON(ctx, keyPatternPrefix+sessionID, &rec)
		if err != nil {
			return nil, err
		}
		if found && rec.Fingerprint == fingerprint {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (reg *RedisPatternRegistry) Upsert(ctx context.Context, rec models.PatternRecord) error {
	// Drop the session from a previous fingerprint index if its
	// signature changed
	var old models.PatternRecord
	found, err := reg.r.getJSON(ctx, keyPatternPrefix+rec.SessionID, &old)
	if err != nil {
		return err
	}
	if found && old.Fingerprint != rec.Fingerprint {
		if err := reg.r.client.SRem(ctx, reg.r.key(keyPatternFPPrefix+old.Fingerprint), rec.SessionID).Err(); err != nil {
			return err
		}
	}

	if err := reg.r.setJSON(ctx, keyPatternPrefix+rec.SessionID, rec); err != nil {
		return err
	}
	if err := reg.r.client.SAdd(ctx, reg.r.key(keyPatternFPPrefix+rec.Fingerprint), rec.SessionID).Err(); err != nil {
		return err
	}
	return reg.r.client.SAdd(ctx, reg.r.key(keyPatternIndex), rec.SessionID).Err()
}

func (reg *RedisPatternRegistry) All(ctx context.Context) ([]models.PatternRecord, error) {
	sessionIDs, err := reg.r.client.SMembers(ctx, reg.r.key(keyPatternIndex)).Result()
	if err != nil {
		return nil, err
	}

	var out []models.PatternRecord
	for _, sessionID := range sessionIDs {
		var rec models.PatternRecord
		found, err := reg.r.getJSON(ctx, keyPatternPrefix+sessionID, &rec)
		if err != nil {
			return nil, err
		}
		if found {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}
