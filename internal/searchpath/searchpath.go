// SPDX-License-Identifier: MPL-2.0

// Package searchpath orders library groups for the launch environment.
package searchpath

import (
	"slices"
	"strings"
)

// Order returns groups re-ranked by tokens. A group containing an earlier token sorts
// earlier; groups containing no token keep rank 0 and sort after all matched groups.
// Equal ranks keep their input order. With no tokens the input order is returned
// unchanged. groups itself is never modified.
func Order(groups, tokens []string) []string {
	out := slices.Clone(groups)
	if len(tokens) == 0 {
		return out
	}

	slices.SortStableFunc(out, func(a, b string) int {
		return Rank(a, tokens) - Rank(b, tokens)
	})
	return out
}

// Rank is -(len(tokens)-i)-1 for the first token i that group contains as a
// substring, or 0 when none does.
func Rank(group string, tokens []string) int {
	for i, token := range tokens {
		if strings.Contains(group, token) {
			return -(len(tokens) - i) - 1
		}
	}
	return 0
}

// ParseTokens splits a comma-separated override into trimmed tokens. Empty tokens are
// dropped, since an empty substring would match every group.
func ParseTokens(value string) []string {
	var tokens []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}
