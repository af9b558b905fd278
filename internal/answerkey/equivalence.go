package answerkey

import (
	"regexp"
	"sort"
)

var (
	expCallRe  = regexp.MustCompile(`^exp\((.+)\)$`)
	expPowerRe = regexp.MustCompile(`^e\^(.+)$`)
)

// TokenSet is a set of canonical strings considered interchangeable when
// grading.
type TokenSet map[string]struct{}

// Has reports whether s is a member of the set.
func (t TokenSet) Has(s string) bool {
	_, ok := t[s]
	return ok
}

// Intersects reports whether t and other share at least one member.
func (t TokenSet) Intersects(other TokenSet) bool {
	small, large := t, other
	if len(small) > len(large) {
		small, large = large, small
	}
	for s := range small {
		if large.Has(s) {
			return true
		}
	}
	return false
}

// Slice returns the members in sorted order.
func (t TokenSet) Slice() []string {
	out := make([]string, 0, len(t))
	for s := range t {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (t TokenSet) add(s string) { t[s] = struct{}{} }

// ComparableTokens returns the canonical form of value together with its
// declared notational variants. exp(x) and e^x are cross-mapped so either
// spelling matches the other. An empty canonical form yields an empty set.
func ComparableTokens(value string) TokenSet {
	tokens := TokenSet{}
	c := Canonicalize(value)
	if c == "" {
		return tokens
	}
	tokens.add(c)

	if m := expCallRe.FindStringSubmatch(c); m != nil {
		tokens.add("e^" + unwrapOuterParens(m[1]))
	}
	if m := expPowerRe.FindStringSubmatch(c); m != nil {
		tokens.add("exp(" + unwrapOuterParens(m[1]) + ")")
	}
	return tokens
}

// Equivalent reports whether two answer alternatives share a comparable
// token.
func Equivalent(a, b string) bool {
	return ComparableTokens(a).Intersects(ComparableTokens(b))
}
