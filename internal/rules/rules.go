// Package rules implements the business-rule validation engine that decides
// whether a candidate segment may be added to an itinerary. Rules are
// independent, named predicates registered on an Engine in fundamental-first
// order; the first failing error-severity rule wins, while warning and info
// outcomes accumulate on successful results.
package rules

import (
	"github.com/google/uuid"

	"github.com/tripweaver/backend/internal/domain"
)

// Severity classifies a rule outcome. Error blocks the mutation; warning and
// info never block and are surfaced to the caller alongside success.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Outcome is the result of evaluating one rule against one candidate.
// Message may be set on a passing outcome for advisory (info) rules.
type Outcome struct {
	Passed            bool
	Message           string
	Suggestion        string
	RelatedSegmentIDs []uuid.UUID
}

// Pass returns a passing outcome with no message.
func Pass() Outcome { return Outcome{Passed: true} }

// Rule is one independently testable business rule. Implementations must be
// pure: Evaluate takes the full itinerary and candidate as explicit
// parameters and keeps no mutable state.
type Rule interface {
	ID() string
	Name() string
	Severity() Severity
	Enabled() bool
	Evaluate(it domain.Itinerary, candidate domain.Segment) Outcome
}

// Note is one rule outcome attached to a validation result.
type Note struct {
	RuleID            string      `json:"rule_id"`
	Severity          Severity    `json:"severity"`
	Message           string      `json:"message"`
	Suggestion        string      `json:"suggestion,omitempty"`
	RelatedSegmentIDs []uuid.UUID `json:"related_segment_ids,omitempty"`
}

// Result aggregates rule outcomes for one validation run. When Valid is
// false, Violation holds the first error encountered in registration order.
// Warnings and Infos never affect Valid.
type Result struct {
	Valid     bool   `json:"valid"`
	Violation *Note  `json:"violation,omitempty"`
	Warnings  []Note `json:"warnings,omitempty"`
	Infos     []Note `json:"infos,omitempty"`
}

// Config controls which non-blocking severities the engine evaluates.
type Config struct {
	EnableWarnings bool
	EnableInfo     bool
}

// DefaultConfig enables all severities.
func DefaultConfig() Config {
	return Config{EnableWarnings: true, EnableInfo: true}
}

// registration pairs a rule with its engine-level enabled flag, so callers
// can toggle individual rules without touching the rule value itself.
type registration struct {
	rule    Rule
	enabled bool
}

// Engine runs every enabled rule against an itinerary and a candidate
// segment. Rules evaluate in registration order; evaluation short-circuits
// on the first error-severity failure so the most fundamental constraint is
// reported first.
type Engine struct {
	cfg   Config
	rules []*registration
}

// NewEngine returns an engine with the built-in rule set registered in
// fundamental-first order.
func NewEngine(cfg Config) *Engine {
	e := &Engine{cfg: cfg}
	for _, r := range builtinRules() {
		e.Register(r)
	}
	return e
}

// Register appends a rule to the evaluation order. Custom rules conform to
// the same Rule interface as the built-ins.
func (e *Engine) Register(r Rule) {
	e.rules = append(e.rules, &registration{rule: r, enabled: r.Enabled()})
}

// SetEnabled toggles a registered rule by ID. Unknown IDs are ignored.
func (e *Engine) SetEnabled(ruleID string, enabled bool) {
	for _, reg := range e.rules {
		if reg.rule.ID() == ruleID {
			reg.enabled = enabled
		}
	}
}

// ValidateAdd checks a candidate segment against the itinerary's current
// segments.
func (e *Engine) ValidateAdd(it domain.Itinerary, candidate domain.Segment) Result {
	return e.validate(it, candidate)
}

// ValidateUpdate checks an updated segment against the itinerary with the
// segment being updated excluded, so a segment is never compared against
// itself.
func (e *Engine) ValidateUpdate(it domain.Itinerary, segmentID uuid.UUID, updated domain.Segment) Result {
	return e.validate(it.WithSegmentRemoved(segmentID), updated)
}

func (e *Engine) validate(it domain.Itinerary, candidate domain.Segment) Result {
	res := Result{Valid: true}
	for _, reg := range e.rules {
		if !reg.enabled {
			continue
		}
		sev := reg.rule.Severity()
		if sev == SeverityWarning && !e.cfg.EnableWarnings {
			continue
		}
		if sev == SeverityInfo && !e.cfg.EnableInfo {
			continue
		}

		out := reg.rule.Evaluate(it, candidate)

		if sev == SeverityError {
			if !out.Passed {
				res.Valid = false
				res.Violation = noteFrom(reg.rule, out)
				return res
			}
			continue
		}

		// Non-blocking severities record a note on failure, or on a passing
		// outcome that carries an advisory message.
		if !out.Passed || out.Message != "" {
			n := *noteFrom(reg.rule, out)
			if sev == SeverityWarning {
				res.Warnings = append(res.Warnings, n)
			} else {
				res.Infos = append(res.Infos, n)
			}
		}
	}
	return res
}

func noteFrom(r Rule, out Outcome) *Note {
	return &Note{
		RuleID:            r.ID(),
		Severity:          r.Severity(),
		Message:           out.Message,
		Suggestion:        out.Suggestion,
		RelatedSegmentIDs: out.RelatedSegmentIDs,
	}
}
