package catalog

import (
	"fmt"

	mm "github.com/Masterminds/semver/v3"
)

// CheckVersion verifies that version satisfies constraint.
// An empty constraint accepts any valid version.
//
// Examples of constraints:
// - ">=1.0.0 <2.0.0"
// - "^1.2"
func CheckVersion(version, constraint string) error {
	v, err := mm.NewVersion(version)
	if err != nil {
		return fmt.Errorf("catalog version %q: %w", version, err)
	}
	if constraint == "" {
		return nil
	}
	c, err := mm.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("catalog version constraint %q: %w", constraint, err)
	}
	if ok, errs := c.Validate(v); !ok {
		return fmt.Errorf("catalog version %s does not satisfy %q: %v", version, constraint, errs)
	}
	return nil
}
