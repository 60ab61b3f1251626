// Package semver parses, compares and bumps MAJOR.MINOR.PATCH versions and
// resolves the next release version from a bump decision.
package semver

import (
	"cmp"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// SemVersion is a parsed package version. PreRelease and Build are kept
// verbatim and dropped by any bump.
type SemVersion struct {
	Major      int
	Minor      int
	Patch      int
	PreRelease string
	Build      string
}

// maxVersionLength bounds the input handed to the regexp.
const maxVersionLength = 128

// versionRegex accepts an optional "v", three numeric cores and the optional
// "-pre" and "+build" suffixes.
var versionRegex = regexp.MustCompile(
	`^v?(\d+)\.(\d+)\.(\d+)` +
		`(?:-([0-9A-Za-z.-]+))?` +
		`(?:\+([0-9A-Za-z.-]+))?$`,
)

// ParseVersion parses the version stored in a manifest. Surrounding
// whitespace is ignored. Anything that is not MAJOR.MINOR.PATCH yields an
// *InvalidVersionError.
func ParseVersion(s string) (SemVersion, error) {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) > maxVersionLength {
		return SemVersion{}, &InvalidVersionError{
			Input:  s,
			Reason: fmt.Sprintf("longer than %d characters", maxVersionLength),
		}
	}

	m := versionRegex.FindStringSubmatch(trimmed)
	if m == nil {
		return SemVersion{}, &InvalidVersionError{Input: s, Reason: "expected MAJOR.MINOR.PATCH"}
	}

	var core [3]int
	for i, name := range []string{"major", "minor", "patch"} {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return SemVersion{}, &InvalidVersionError{Input: s, Reason: "invalid " + name + " component", Err: err}
		}
		core[i] = n
	}

	return SemVersion{
		Major:      core[0],
		Minor:      core[1],
		Patch:      core[2],
		PreRelease: m[4],
		Build:      m[5],
	}, nil
}

// String renders v without a "v" prefix, the form written back to manifests.
func (v SemVersion) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.PreRelease != "" {
		s += "-" + v.PreRelease
	}
	if v.Build != "" {
		s += "+" + v.Build
	}
	return s
}

// Compare orders versions by precedence and returns -1, 0 or +1.
// A pre-release sorts before its release and build metadata is ignored.
func (v SemVersion) Compare(other SemVersion) int {
	if c := cmp.Compare(v.Major, other.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Patch, other.Patch); c != 0 {
		return c
	}

	switch {
	case v.PreRelease == other.PreRelease:
		return 0
	case v.PreRelease == "":
		return 1
	case other.PreRelease == "":
		return -1
	}
	return comparePreRelease(v.PreRelease, other.PreRelease)
}

func comparePreRelease(a, b string) int {
	left := strings.Split(a, ".")
	right := strings.Split(b, ".")

	for i := range min(len(left), len(right)) {
		if c := compareIdentifier(left[i], right[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(left), len(right))
}

// compareIdentifier ranks numeric identifiers below alphanumeric ones and
// compares each kind within itself.
func compareIdentifier(a, b string) int {
	an, aNum := numericIdentifier(a)
	bn, bNum := numericIdentifier(b)

	switch {
	case aNum && bNum:
		return cmp.Compare(an, bn)
	case aNum:
		return -1
	case bNum:
		return 1
	}
	return strings.Compare(a, b)
}

// numericIdentifier reports whether s is all digits without a leading zero.
func numericIdentifier(s string) (int, bool) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}
	if strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}
