package semver

import "fmt"

// Bump is the release decision derived from commit history.
type Bump string

const (
	BumpNone  Bump = "none"
	BumpPatch Bump = "patch"
	BumpMinor Bump = "minor"
	BumpMajor Bump = "major"
)

// String returns the label of the bump.
func (b Bump) String() string {
	return string(b)
}

// rank orders bumps so the strongest decision wins.
func (b Bump) rank() int {
	switch b {
	case BumpMajor:
		return 3
	case BumpMinor:
		return 2
	case BumpPatch:
		return 1
	default:
		return 0
	}
}

// Max returns the stronger of two bumps.
func (b Bump) Max(other Bump) Bump {
	if other.rank() > b.rank() {
		return other
	}
	if b == "" {
		return BumpNone
	}
	return b
}

// Apply returns v bumped by b. BumpNone returns v unchanged.
func (b Bump) Apply(v SemVersion) (SemVersion, error) {
	switch b {
	case BumpNone, "":
		return v, nil
	case BumpPatch:
		return SemVersion{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}, nil
	case BumpMinor:
		return SemVersion{Major: v.Major, Minor: v.Minor + 1}, nil
	case BumpMajor:
		return SemVersion{Major: v.Major + 1}, nil
	default:
		return SemVersion{}, fmt.Errorf("unknown bump decision: %s", b)
	}
}

// Resolve computes the next version for a package.
//
// When baseline is non-empty it replaces current before bumping, so siblings
// released together converge on the same minimum version even when their own
// stored versions drifted apart. current must still be a valid version.
func Resolve(current string, bump Bump, baseline string) (SemVersion, error) {
	v, err := ParseVersion(current)
	if err != nil {
		return SemVersion{}, err
	}
	if baseline != "" {
		if v, err = ParseVersion(baseline); err != nil {
			return SemVersion{}, err
		}
	}
	return bump.Apply(v)
}

// Greatest returns the greater of a and b; a wins on equality.
func Greatest(a, b SemVersion) SemVersion {
	if b.Compare(a) > 0 {
		return b
	}
	return a
}
