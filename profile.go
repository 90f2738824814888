package criterion

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRegistry signals a profile referenced by id with no registry
	// passed to Run.
	ErrNoRegistry = errors.New("no registry supplied")

	// ErrProfileNotFound signals a profile id the registry does not know.
	ErrProfileNotFound = errors.New("profile not found in registry")
)

// ProfileRef names the profile an evaluation should run with: either an
// inline value carried by the reference itself, or an identifier resolved
// against a Registry at evaluation time. The zero value is an inline nil
// profile, i.e. "no parameters".
type ProfileRef struct {
	id    string
	value any
	byID  bool
}

// ProfileID references a profile by identifier. Run resolves it against the
// supplied registry before anything else happens.
func ProfileID(id string) ProfileRef {
	return ProfileRef{id: id, byID: true}
}

// ProfileValue wraps an inline profile value. No registry lookup takes
// place, and the result's meta carries no profile id.
func ProfileValue(value any) ProfileRef {
	return ProfileRef{value: value}
}

// resolve turns the reference into a concrete profile value. The returned id
// is non-empty only for registry lookups.
func (ref ProfileRef) resolve(registry Registry) (any, string, error) {
	if !ref.byID {
		return ref.value, "", nil
	}
	if registry == nil {
		return nil, "", fmt.Errorf("profile %q requested: %w", ref.id, ErrNoRegistry)
	}
	profile, ok := registry.Get(ref.id)
	if !ok {
		return nil, "", fmt.Errorf("profile %q: %w", ref.id, ErrProfileNotFound)
	}
	return profile, ref.id, nil
}
