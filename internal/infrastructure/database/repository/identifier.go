package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"scamguard-lab/internal/domain/models"
	"scamguard-lab/internal/infrastructure/store"
)

// IdentifierRepository persists the cross-session identifier registry in
// PostgreSQL
type IdentifierRepository struct {
	pool *pgxpool.Pool
}

var _ store.IdentifierRegistry = (*IdentifierRepository)(nil)

// NewIdentifierRepository creates a new identifier repository
func NewIdentifierRepository(pool *pgxpool.Pool) *IdentifierRepository {
	return &IdentifierRepository{pool: pool}
}

const identifierColumns = `id, value, masked, type, risk_level, confidence, occurrences, sessions, first_seen, last_seen`

// Record inserts the observation or merges it into the existing entry.
// The merge happens in one statement so concurrent observers cannot lose
// occurrence counts.
func (r *IdentifierRepository) Record(ctx context.Context, rec models.IdentifierRecord) error {
	query := `
		INSERT INTO identifier_registry (id, value, masked, type, risk_level, confidence, occurrences, sessions, first_seen, last_seen)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (value) DO UPDATE SET
			masked      = EXCLUDED.masked,
			risk_level  = EXCLUDED.risk_level,
			confidence  = GREATEST(identifier_registry.confidence, EXCLUDED.confidence),
			occurrences = identifier_registry.occurrences + 1,
			sessions    = (
				SELECT array_agg(DISTINCT s)
				FROM unnest(identifier_registry.sessions || EXCLUDED.sessions) AS s
			),
			last_seen   = EXCLUDED.last_seen`

	_, err := r.pool.Exec(ctx, query,
		rec.ID, rec.Value, rec.Masked, string(rec.Type),
		string(rec.RiskLevel), rec.Confidence,
		rec.Occurrences, rec.Sessions, rec.FirstSeen, rec.LastSeen,
	)
	if err != nil {
		return fmt.Errorf("failed to record identifier: %w", err)
	}
	return nil
}

// Get fetches a single registry entry by raw value
func (r *IdentifierRepository) Get(ctx context.Context, value string) (*models.IdentifierRecord, bool, error) {
	query := fmt.Sprintf(`SELECT %s FROM identifier_registry WHERE value = $1`, identifierColumns)

	rec, err := scanIdentifier(r.pool.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get identifier: %w", err)
	}
	return rec, true, nil
}

// List fetches registry entries matching the filter, most recently seen
// first
func (r *IdentifierRepository) List(ctx context.Context, filter models.RegistryFilter) ([]models.IdentifierRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM identifier_registry WHERE 1=1`, identifierColumns)
	args := []any{}
	argPos := 1

	if filter.Type != "" {
		query += fmt.Sprintf(` AND type = $%d`, argPos)
		args = append(args, string(filter.Type))
		argPos++
	}
	if filter.RiskLevel != "" {
		query += fmt.Sprintf(` AND risk_level = $%d`, argPos)
		args = append(args, string(filter.RiskLevel))
		argPos++
	}
	query += ` ORDER BY last_seen DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, argPos)
		args = append(args, filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list identifiers: %w", err)
	}
	defer rows.Close()

	var out []models.IdentifierRecord
	for rows.Next() {
		rec, err := scanIdentifier(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan identifier: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate identifiers: %w", err)
	}
	return out, nil
}

// Stats aggregates the registry by type and risk level
func (r *IdentifierRepository) Stats(ctx context.Context) (models.RegistryStats, error) {
	stats := models.RegistryStats{
		ByType: make(map[string]int64),
		ByRisk: make(map[string]int64),
	}

	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM identifier_registry`).Scan(&stats.Total); err != nil {
		return stats, fmt.Errorf("failed to count identifiers: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT type, COUNT(*) FROM identifier_registry GROUP BY type`)
	if err != nil {
		return stats, fmt.Errorf("failed to aggregate by type: %w", err)
	}
	if err := scanCounts(rows, stats.ByType); err != nil {
		return stats, err
	}

	rows, err = r.pool.Query(ctx, `SELECT risk_level, COUNT(*) FROM identifier_registry GROUP BY risk_level`)
	if err != nil {
		return stats, fmt.Errorf("failed to aggregate by risk: %w", err)
	}
	if err := scanCounts(rows, stats.ByRisk); err != nil {
		return stats, err
	}

	return stats, nil
}

func scanIdentifier(row pgx.Row) (*models.IdentifierRecord, error) {
	var rec models.IdentifierRecord
	var idType, riskLevel string
	if err := row.Scan(
		&rec.ID, &rec.Value, &rec.Masked, &idType,
		&riskLevel, &rec.Confidence, &rec.Occurrences,
		&rec.Sessions, &rec.FirstSeen, &rec.LastSeen,
	); err != nil {
		return nil, err
	}
	rec.Type = models.IdentifierType(idType)
	rec.RiskLevel = models.RiskLevel(riskLevel)
	return &rec, nil
}

func scanCounts(rows pgx.Rows, dest map[string]int64) error {
	defer rows.Close()
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("failed to scan count: %w", err)
		}
		dest[key] = count
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate counts: %w", err)
	}
	return nil
}
