package signals

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"scamguard-lab/internal/domain/models"
)

// ErrBadSignalTable marks a malformed keyword or template table. A corrupt
// signal library silently produces wrong security-relevant scores, so
// construction fails fast instead of limping along.
var ErrBadSignalTable = errors.New("malformed signal table")

// KeywordHit is one whole-word keyword match within a message
type KeywordHit struct {
	Category models.Category
	Term     string
	Weight   int
}

// TemplateHit is one compound template match within a message
type TemplateHit struct {
	Label  models.ScamType
	Expr   string
	Weight int
}

type compiledKeyword struct {
	term   string
	weight int
	re     *regexp.Regexp
}

type compiledCategory struct {
	category models.Category
	keywords []compiledKeyword
}

type compiledTemplate struct {
	expr   string
	weight int
	label  models.ScamType
	re     *regexp.Regexp
}

// Library holds every signal table in compiled form. It is immutable
// after construction and safe for concurrent use.
type Library struct {
	categories []compiledCategory
	templates  []compiledTemplate
	links      []*regexp.Regexp
	escalation []string
}

// NewLibrary compiles and validates all signal tables. Any defect in the
// static tables is a configuration error and aborts construction.
func NewLibrary() (*Library, error) {
	lib := &Library{}

	for _, table := range categoryTables {
		if len(table.keywords) == 0 {
			return nil, fmt.Errorf("%w: category %q has no keywords", ErrBadSignalTable, table.category)
		}
		compiled := compiledCategory{category: table.category}
		for term, weight := range table.keywords {
			if strings.TrimSpace(term) == "" {
				return nil, fmt.Errorf("%w: empty keyword in category %q", ErrBadSignalTable, table.category)
			}
			if weight <= 0 {
				return nil, fmt.Errorf("%w: keyword %q in category %q has weight %d", ErrBadSignalTable, term, table.category, weight)
			}
			// Whole-word boundary matching only; substring matching
			// produces false positives ("now" inside "know").
			re, err := regexp.Compile(`\b` + regexp.QuoteMeta(term) + `\b`)
			if err != nil {
				return nil, fmt.Errorf("%w: keyword %q: %v", ErrBadSignalTable, term, err)
			}
			compiled.keywords = append(compiled.keywords, compiledKeyword{term: term, weight: weight, re: re})
		}
		lib.categories = append(lib.categories, compiled)
	}

	for _, tmpl := range scamTemplates {
		if tmpl.Weight <= 0 {
			return nil, fmt.Errorf("%w: template %q has weight %d", ErrBadSignalTable, tmpl.Expr, tmpl.Weight)
		}
		if tmpl.Label == "" || tmpl.Label == models.ScamTypeUnknown {
			return nil, fmt.Errorf("%w: template %q has no scam-type label", ErrBadSignalTable, tmpl.Expr)
		}
		re, err := regexp.Compile(tmpl.Expr)
		if err != nil {
			return nil, fmt.Errorf("%w: template %q: %v", ErrBadSignalTable, tmpl.Expr, err)
		}
		lib.templates = append(lib.templates, compiledTemplate{
			expr:   tmpl.Expr,
			weight: tmpl.Weight,
			label:  tmpl.Label,
			re:     re,
		})
	}

	for _, pattern := range linkPatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: link pattern %q: %v", ErrBadSignalTable, pattern, err)
		}
		lib.links = append(lib.links, re)
	}

	for _, phrase := range escalationPhrases {
		if strings.TrimSpace(phrase) == "" {
			return nil, fmt.Errorf("%w: empty escalation phrase", ErrBadSignalTable)
		}
	}
	lib.escalation = escalationPhrases

	return lib, nil
}

// MatchKeywords scans lowercased text against every category table and
// returns all whole-word hits
func (l *Library) MatchKeywords(lower string) []KeywordHit {
	var hits []KeywordHit
	for _, cat := range l.categories {
		for _, kw := range cat.keywords {
			if kw.re.MatchString(lower) {
				hits = append(hits, KeywordHit{Category: cat.category, Term: kw.term, Weight: kw.weight})
			}
		}
	}
	return hits
}

// MatchTemplates evaluates every compound template against lowercased
// text, in table order
func (l *Library) MatchTemplates(lower string) []TemplateHit {
	var hits []TemplateHit
	for _, tmpl := range l.templates {
		if tmpl.re.MatchString(lower) {
			hits = append(hits, TemplateHit{Label: tmpl.label, Expr: tmpl.expr, Weight: tmpl.weight})
		}
	}
	return hits
}

// HasLink reports whether any suspicious link pattern matches
func (l *Library) HasLink(lower string) bool {
	for _, re := range l.links {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// MatchEscalation returns the distinct escalation phrases present
func (l *Library) MatchEscalation(lower string) []string {
	var matched []string
	for _, phrase := range l.escalation {
		if strings.Contains(lower, phrase) {
			matched = append(matched, phrase)
		}
	}
	return matched
}

// InferScamType resolves a scam type from triggered categories using the
// fixed priority order
func InferScamType(categories []models.Category) models.ScamType {
	triggered := make(map[models.Category]bool, len(categories))
	for _, c := range categories {
		triggered[c] = true
	}
	for _, entry := range CategoryPriority {
		if triggered[entry.Category] {
			return entry.ScamType
		}
	}
	return models.ScamTypeGenericScam
}
