package criterion

import (
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
)

// Engine evaluates decisions. It carries no per-run state, so a single
// Engine can be shared across goroutines as long as the Decision and
// Registry handed to Run are not mutated mid-call.
type Engine struct {
	validator Validator
	logger    zerolog.Logger
	metrics   *Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a logger for per-run diagnostics. The default logger
// discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics attaches prometheus instrumentation, see NewMetrics.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New creates an Engine that checks inputs, profiles and outputs through v.
// A nil validator disables schema checking entirely: every validation stage
// passes values through unchanged.
func New(v Validator, opts ...Option) *Engine {
	e := &Engine{
		validator: v,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// defaultEngine backs the package-level Run: no validator, no logging, no
// metrics. Hosts that want any of those construct their own Engine.
var defaultEngine = New(nil)

// Run evaluates d using a plain, unconfigured engine.
func Run(d Decision, input any, profile ProfileRef, registry Registry) Result {
	return defaultEngine.Run(d, input, profile, registry)
}

// Run evaluates a single decision: resolve the profile reference, validate
// input and profile, then walk the rules in order until one matches. The
// winning rule's output is validated and returned as Data.
//
// Run is a total function. It never panics and never returns an error;
// whatever the rule code does, the caller gets a Result whose Status says
// how the run ended and whose Meta says why. Failures inside user-supplied
// rule functions are caught and folded into the result.
func (e *Engine) Run(d Decision, input any, profile ProfileRef, registry Registry) (res Result) {
	start := time.Now()
	logger := e.logger.With().
		Str("run_id", xid.New().String()).
		Str("decision", d.ID).
		Logger()

	meta := Meta{
		DecisionID:      d.ID,
		DecisionVersion: d.Version,
		EvaluatedAt:     start,
	}

	if e.metrics != nil {
		defer func() {
			e.metrics.observeRun(d.ID, res, time.Since(start))
		}()
	}

	fail := func(status Status, explanation string) Result {
		logger.Debug().Str("status", string(status)).Msg(explanation)
		meta.Explanation = explanation
		return Result{Status: status, Meta: meta}
	}

	prof, profileID, err := profile.resolve(registry)
	if err != nil {
		return fail(StatusInvalidInput, err.Error())
	}
	meta.ProfileID = profileID

	in, msg := e.check("Input", d.InputSchema, input)
	if msg != "" {
		return fail(StatusInvalidInput, msg)
	}
	prof, msg = e.check("Profile", d.ProfileSchema, prof)
	if msg != "" {
		return fail(StatusInvalidInput, msg)
	}

	for _, rule := range d.Rules {
		matched, condErr := safeCondition(rule, in, prof)
		if condErr != nil {
			logger.Warn().Err(condErr).Msgf("rule '%s' condition panicked", rule.ID)
			meta.EvaluatedRules = append(meta.EvaluatedRules, TraceEntry{RuleID: rule.ID})
			return fail(StatusInvalidInput, fmt.Sprintf("Rule evaluation error in %s: %v", rule.ID, condErr))
		}
		if !matched {
			meta.EvaluatedRules = append(meta.EvaluatedRules, TraceEntry{RuleID: rule.ID})
			continue
		}

		// The explanation is pinned down before emit runs so that a broken
		// emit still leaves a trace of which rule matched and why.
		explanation := safeExplain(rule, in, prof)
		meta.EvaluatedRules = append(meta.EvaluatedRules, TraceEntry{
			RuleID:      rule.ID,
			Matched:     true,
			Explanation: explanation,
		})

		output, emitErr := safeEmit(rule, in, prof)
		if emitErr != nil {
			logger.Warn().Err(emitErr).Msgf("rule '%s' emit panicked", rule.ID)
			return fail(StatusInvalidOutput, fmt.Sprintf("Rule emit error in %s: %v", rule.ID, emitErr))
		}

		output, msg = e.check("Output", d.OutputSchema, output)
		if msg != "" {
			return fail(StatusInvalidOutput, msg)
		}

		logger.Debug().Str("rule", rule.ID).Msg("rule matched")
		meta.MatchedRule = rule.ID
		meta.Explanation = explanation
		return Result{Status: StatusOK, Data: output, Meta: meta}
	}

	return fail(StatusNoMatch, "No rule matched the given context")
}

// check runs one validation stage and, on violation, renders the failure
// explanation. An empty message means the value passed (or no validator is
// configured) and the returned value is the normalized one to keep using.
func (e *Engine) check(subject string, schema Schema, value any) (any, string) {
	if e.validator == nil {
		return value, ""
	}
	normalized, violations := e.validator.Validate(schema, value)
	if len(violations) > 0 {
		return nil, formatViolations(subject, violations)
	}
	return normalized, ""
}

// safeCondition evaluates the rule condition behind a recover boundary so a
// panicking rule cannot take down the run. A nil Condition counts as a
// panic, not a match.
func safeCondition(rule Rule, input, profile any) (matched bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			matched = false
			err = fmt.Errorf("%v", r)
		}
	}()
	return rule.Condition(input, profile), nil
}

// safeEmit builds the winning rule's output behind a recover boundary.
func safeEmit(rule Rule, input, profile any) (output any, err error) {
	defer func() {
		if r := recover(); r != nil {
			output = nil
			err = fmt.Errorf("%v", r)
		}
	}()
	return rule.Emit(input, profile), nil
}

// safeExplain runs the rule's explain function, swallowing panics entirely.
// An explanation is decoration; a broken one must not fail an otherwise
// valid evaluation.
func safeExplain(rule Rule, input, profile any) (explanation string) {
	defer func() {
		if r := recover(); r != nil {
			explanation = ""
		}
	}()
	if rule.Explain == nil {
		return ""
	}
	return rule.Explain(input, profile)
}
