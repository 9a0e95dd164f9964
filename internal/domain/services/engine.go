package services

import (
	"context"

	"scamguard-lab/internal/config"
	"scamguard-lab/internal/domain/models"
	"scamguard-lab/internal/domain/signals"
	"scamguard-lab/internal/infrastructure/store"
	"scamguard-lab/pkg/logger"
)

// Stores bundles the four storage backends the engine depends on. Any
// mix of implementations works; the in-memory versions are the default
// for embedding and tests.
type Stores struct {
	RiskStates  store.RiskStateStore
	IntelStates store.IntelStore
	Patterns    store.PatternRegistry
	Identifiers store.IdentifierRegistry
}

// MemoryStores returns a Stores backed entirely by in-process maps
func MemoryStores() Stores {
	return Stores{
		RiskStates:  store.NewMemoryRiskStateStore(),
		IntelStates: store.NewMemoryIntelStore(),
		Patterns:    store.NewMemoryPatternRegistry(),
		Identifiers: store.NewMemoryIdentifierRegistry(),
	}
}

// AnalysisResult is the combined outcome of processing one message
type AnalysisResult struct {
	Detection    models.DetectionResult     `json:"detection"`
	Intelligence models.Intelligence        `json:"intelligence"`
	Intent       IntentResult               `json:"intent"`
	Correlation  models.CorrelationResult   `json:"correlation"`
	Reasoning    *models.DetectionReasoning `json:"reasoning,omitempty"`
}

// Engine ties the scorer, extractor, correlation engine, identifier
// registry, and intent classifier together behind one entry point.
type Engine struct {
	cfg         *config.Config
	Scorer      *RiskScorer
	Extractor   *IntelligenceExtractor
	Correlation *PatternCorrelation
	Registry    *IntelligenceRegistry
	Intents     *IntentClassifier
	logger      *logger.Logger
}

// NewEngine builds the full analysis pipeline. It fails only when the
// signal library fails validation.
func NewEngine(cfg *config.Config, stores Stores, log *logger.Logger) (*Engine, error) {
	lib, err := signals.NewLibrary()
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:         cfg,
		Scorer:      NewRiskScorer(cfg.Detection, lib, stores.RiskStates, log),
		Extractor:   NewIntelligenceExtractor(stores.IntelStates, log),
		Correlation: NewPatternCorrelation(cfg.Registry, stores.Patterns, log),
		Registry:    NewIntelligenceRegistry(stores.Identifiers, log),
		Intents:     NewIntentClassifier(log),
		logger:      log.WithComponent("engine"),
	}, nil
}

// AnalyzeMessage runs the whole pipeline over one message: intent
// classification, risk scoring, intelligence extraction, pattern
// correlation, and, once the session crosses the scam threshold,
// identifier registration and reasoning. Oversized input is truncated
// before scoring rather than rejected.
func (e *Engine) AnalyzeMessage(ctx context.Context, text, sessionID string) (*AnalysisResult, error) {
	text = truncate(text, e.cfg.Detection.MaxMessageLength)

	intent := e.Intents.Classify(text)

	detection, err := e.Scorer.ScoreWithIncrement(ctx, text, sessionID, intent.RiskIncrement)
	if err != nil {
		return nil, err
	}

	intel, err := e.Extractor.Extract(ctx, text, sessionID)
	if err != nil {
		return nil, err
	}

	tactics := make([]string, 0, len(detection.TriggeredCategories))
	for _, c := range detection.TriggeredCategories {
		tactics = append(tactics, string(c))
	}
	identifiers := primaryValues(intel)

	correlation, err := e.Correlation.RegisterPattern(
		ctx, sessionID,
		detection.ScamType, tactics, identifiers,
		detection.RiskLevel, detection.Confidence,
	)
	if err != nil {
		return nil, err
	}

	result := &AnalysisResult{
		Detection:    detection,
		Intelligence: intel,
		Intent:       intent,
		Correlation:  correlation,
	}

	if detection.IsScam {
		if err := e.Registry.RegisterSession(ctx, sessionID, intel, detection.RiskLevel, detection.Confidence); err != nil {
			return nil, err
		}
		counts, err := e.Extractor.Summary(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		reasoning := BuildDetectionReasoning(ReasoningInput{
			ScamType:          detection.ScamType,
			RiskLevel:         detection.RiskLevel,
			Confidence:        detection.Confidence,
			Tactics:           tactics,
			IntelCounts:       counts,
			PatternMatchCount: correlation.MatchCount,
			SimilarityScore:   correlation.SimilarityScore,
			Recurring:         correlation.Recurring,
		})
		result.Reasoning = &reasoning
	}

	return result, nil
}

// Session returns the current verdict and accumulated intelligence for a
// session without scoring a new message
func (e *Engine) Session(ctx context.Context, sessionID string) (models.DetectionResult, models.Intelligence, error) {
	detection, err := e.Scorer.Details(ctx, sessionID)
	if err != nil {
		return models.DetectionResult{}, models.Intelligence{}, err
	}
	intel, err := e.Extractor.Snapshot(ctx, sessionID)
	if err != nil {
		return models.DetectionResult{}, models.Intelligence{}, err
	}
	return detection, intel, nil
}

// EndSession discards the session's scoring and extraction state. The
// pattern and identifier registries keep their cross-session records.
func (e *Engine) EndSession(ctx context.Context, sessionID string) error {
	if err := e.Scorer.Reset(ctx, sessionID); err != nil {
		return err
	}
	if err := e.Extractor.Reset(ctx, sessionID); err != nil {
		return err
	}
	e.logger.Debug().Str("session_id", sessionID).Msg("session state cleared")
	return nil
}

// PatternStats exposes the correlation registry aggregate view
func (e *Engine) PatternStats(ctx context.Context) (models.PatternStats, error) {
	return e.Correlation.Stats(ctx)
}

// RegistryStats exposes the identifier registry aggregate view
func (e *Engine) RegistryStats(ctx context.Context) (models.RegistryStats, error) {
	return e.Registry.Stats(ctx)
}

func primaryValues(intel models.Intelligence) []string {
	var out []string
	out = append(out, intel.UPIIDs...)
	out = append(out, intel.BankAccounts...)
	out = append(out, intel.IFSCCodes...)
	out = append(out, intel.PhoneNumbers...)
	out = append(out, intel.Emails...)
	out = append(out, intel.AadhaarNumbers...)
	out = append(out, intel.PANNumbers...)
	out = append(out, intel.CryptoWallets...)
	out = append(out, intel.PhishingLinks...)
	out = append(out, intel.MessagingIDs...)
	return out
}

// truncate cuts text to at most max bytes without splitting a UTF-8
// sequence. max <= 0 disables truncation.
func truncate(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && text[cut]&0xC0 == 0x80 {
		cut--
	}
	return text[:cut]
}
