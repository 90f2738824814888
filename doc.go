// Package criterion evaluates parameterized business decisions and explains
// the outcome.
//
// A Decision bundles an ordered rule list with optional schemas for its
// input, profile and output. Engine.Run resolves the profile reference,
// validates input and profile, walks the rules in order and returns the
// first match's validated output together with a per-rule trace. Run is a
// total function: whatever the rule code does (including panicking), the
// caller always gets back a Result with one of four terminal statuses.
//
// Schema validation is an injected capability (see Validator); the cueschema
// subpackage provides a CUE-backed implementation. Rule conditions can be
// plain Go functions or compiled from expression languages via the exprrule
// and celrule subpackages.
package criterion
