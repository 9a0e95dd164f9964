package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"scamguard-lab/internal/domain/models"
	"scamguard-lab/internal/infrastructure/store"
	"scamguard-lab/pkg/logger"
)

// registryClasses maps the extracted intelligence classes that feed the
// cross-session registry to their identifier type. Masked classes like
// Aadhaar and PAN stay out; the registry stores raw values and applies
// its own display masking.
var registryClasses = []struct {
	class  models.IntelligenceClass
	idType models.IdentifierType
}{
	{models.ClassUPIIDs, models.IdentifierUPI},
	{models.ClassPhoneNumbers, models.IdentifierPhone},
	{models.ClassEmails, models.IdentifierEmail},
	{models.ClassBankAccounts, models.IdentifierBank},
	{models.ClassPhishingLinks, models.IdentifierLink},
}

// IntelligenceRegistry tracks unique identifier values across sessions
// with occurrence counts, session links, and confidence high-water marks.
type IntelligenceRegistry struct {
	identifiers store.IdentifierRegistry
	logger      *logger.Logger
	now         func() time.Time
}

// NewIntelligenceRegistry creates a new intelligence registry service
func NewIntelligenceRegistry(identifiers store.IdentifierRegistry, log *logger.Logger) *IntelligenceRegistry {
	return &IntelligenceRegistry{
		identifiers: identifiers,
		logger:      log.WithComponent("intel-registry"),
		now:         time.Now,
	}
}

// RegisterSession records every registry-eligible identifier a session
// produced. Repeat observations merge into the existing entries.
func (r *IntelligenceRegistry) RegisterSession(
	ctx context.Context,
	sessionID string,
	intel models.Intelligence,
	riskLevel models.RiskLevel,
	confidence float64,
) error {
	values := map[models.IntelligenceClass][]string{
		models.ClassUPIIDs:        intel.UPIIDs,
		models.ClassPhoneNumbers:  intel.PhoneNumbers,
		models.ClassEmails:        intel.Emails,
		models.ClassBankAccounts:  intel.BankAccounts,
		models.ClassPhishingLinks: intel.PhishingLinks,
	}

	registered := 0
	for _, rc := range registryClasses {
		for _, value := range values[rc.class] {
			if value == "" {
				continue
			}
			if err := r.Record(ctx, value, rc.idType, riskLevel, confidence, sessionID); err != nil {
				return err
			}
			registered++
		}
	}

	if registered > 0 {
		r.logger.Debug().
			Str("session_id", sessionID).
			Int("identifiers", registered).
			Msg("session intelligence registered")
	}
	return nil
}

// Record inserts or merges one identifier observation
func (r *IntelligenceRegistry) Record(
	ctx context.Context,
	value string,
	idType models.IdentifierType,
	riskLevel models.RiskLevel,
	confidence float64,
	sessionID string,
) error {
	now := r.now().UTC()
	return r.identifiers.Record(ctx, models.IdentifierRecord{
		ID:          uuid.New(),
		Value:       value,
		Masked:      MaskIdentifier(value, idType),
		Type:        idType,
		RiskLevel:   riskLevel,
		Confidence:  confidence,
		Occurrences: 1,
		Sessions:    []string{sessionID},
		FirstSeen:   now,
		LastSeen:    now,
	})
}

// Detail returns the registry entry for one identifier value
func (r *IntelligenceRegistry) Detail(ctx context.Context, value string) (*models.IdentifierRecord, bool, error) {
	return r.identifiers.Get(ctx, value)
}

// List fetches registry entries matching the filter, most recently seen
// first
func (r *IntelligenceRegistry) List(ctx context.Context, filter models.RegistryFilter) ([]models.IdentifierRecord, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	return r.identifiers.List(ctx, filter)
}

// Stats returns registry totals broken down by type and risk level
func (r *IntelligenceRegistry) Stats(ctx context.Context) (models.RegistryStats, error) {
	return r.identifiers.Stats(ctx)
}
