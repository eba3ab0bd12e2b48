package resolver

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	versionLiteral = regexp.MustCompile(`v?\d+(\.(\d+|[xX*]))?(\.(\d+|[xX*]))?(-[0-9A-Za-z.-]+)?`)
	wildcardPart   = regexp.MustCompile(`\.[xX*]`)
	zeroVersion    = semver.MustParse("0.0.0")
)

// RangesIntersect reports whether some release version satisfies both ranges.
//
// Ranges are unions of intervals, so a non-empty intersection always contains
// its own lower bound: 0.0.0, a version literal from either range, or the
// next patch, minor or major release after an exclusive bound. Probing those candidates is exact for
// release versions. Ranges that fail to parse only match themselves.
func RangesIntersect(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if isAnyRange(a) || isAnyRange(b) || a == b {
		return true
	}

	ca, err := semver.NewConstraint(a)
	if err != nil {
		return false
	}
	cb, err := semver.NewConstraint(b)
	if err != nil {
		return false
	}

	for _, v := range candidates(a, b) {
		if ca.Check(v) && cb.Check(v) {
			return true
		}
	}
	return false
}

func isAnyRange(r string) bool {
	switch r {
	case "", "*", "x", "X", "latest":
		return true
	}
	return false
}

func candidates(ranges ...string) []*semver.Version {
	out := []*semver.Version{zeroVersion}
	for _, r := range ranges {
		for _, lit := range versionLiteral.FindAllString(r, -1) {
			v, err := semver.NewVersion(wildcardPart.ReplaceAllString(lit, ".0"))
			if err != nil {
				continue
			}
			// A partial exclusive bound such as >1.4 or >1 starts at the
			// next minor or major release, not the next patch.
			patch, minor, major := v.IncPatch(), v.IncMinor(), v.IncMajor()
			out = append(out, v, &patch, &minor, &major)
		}
	}
	return out
}
