package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"scamguard-lab/internal/domain/models"
	"scamguard-lab/internal/infrastructure/store"
)

// PatternRepository persists per-session scam signatures in PostgreSQL
type PatternRepository struct {
	pool *pgxpool.Pool
}

var _ store.PatternRegistry = (*PatternRepository)(nil)

// NewPatternRepository creates a new pattern repository
func NewPatternRepository(pool *pgxpool.Pool) *PatternRepository {
	return &PatternRepository{pool: pool}
}

const patternColumns = `session_id, fingerprint, scam_type, tactics, identifier_types, risk_level, confidence, updated_at`

// FindByFingerprint returns records sharing the fingerprint, excluding
// excludeSession, most recently updated first
func (r *PatternRepository) FindByFingerprint(ctx context.Context, fingerprint, excludeSession string) ([]models.PatternRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM pattern_registry
		WHERE fingerprint = $1 AND session_id <> $2
		ORDER BY updated_at DESC`, patternColumns)

	rows, err := r.pool.Query(ctx, query, fingerprint, excludeSession)
	if err != nil {
		return nil, fmt.Errorf("failed to query patterns: %w", err)
	}
	defer rows.Close()

	return scanPatterns(rows)
}

// Upsert stores or replaces the session's pattern record
func (r *PatternRepository) Upsert(ctx context.Context, rec models.PatternRecord) error {
	query := `
		INSERT INTO pattern_registry (session_id, fingerprint, scam_type, tactics, identifier_types, risk_level, confidence, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (session_id) DO UPDATE SET
			fingerprint      = EXCLUDED.fingerprint,
			scam_type        = EXCLUDED.scam_type,
			tactics          = EXCLUDED.tactics,
			identifier_types = EXCLUDED.identifier_types,
			risk_level       = EXCLUDED.risk_level,
			confidence       = EXCLUDED.confidence,
			updated_at       = EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, query,
		rec.SessionID, rec.Fingerprint, string(rec.ScamType),
		rec.Tactics, rec.IdentifierTypes,
		string(rec.RiskLevel), rec.Confidence, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert pattern: %w", err)
	}
	return nil
}

// All returns every registered pattern record
func (r *PatternRepository) All(ctx context.Context) ([]models.PatternRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM pattern_registry ORDER BY updated_at DESC`, patternColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query patterns: %w", err)
	}
	defer rows.Close()

	return scanPatterns(rows)
}

func scanPatterns(rows pgx.Rows) ([]models.PatternRecord, error) {
	var out []models.PatternRecord
	for rows.Next() {
		var rec models.PatternRecord
		var scamType, riskLevel string
		if err := rows.Scan(
			&rec.SessionID, &rec.Fingerprint, &scamType,
			&rec.Tactics, &rec.IdentifierTypes,
			&riskLevel, &rec.Confidence, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pattern: %w", err)
		}
		rec.ScamType = models.ScamType(scamType)
		rec.RiskLevel = models.RiskLevel(riskLevel)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate patterns: %w", err)
	}
	return out, nil
}
