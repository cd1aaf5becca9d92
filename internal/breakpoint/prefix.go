// Package breakpoint classifies utility-class tokens by responsive-breakpoint prefix.
package breakpoint

import "strings"

// Prefixes is the ordered table of recognized breakpoint prefixes.
// Matching is case-sensitive and the first matching entry wins.
var Prefixes = []string{
	"mobile:",
	"tablet:",
	"desktop:",
	"sm:",
	"md:",
	"lg:",
	"xl:",
	"2xl:",
}

// Match returns the first prefix in the table that token starts with.
func Match(token string) (string, bool) {
	for _, p := range Prefixes {
		if strings.HasPrefix(token, p) {
			return p, true
		}
	}
	return "", false
}

// Tokens splits a class string on runs of whitespace.
// Leading and trailing whitespace never produce empty tokens.
func Tokens(s string) []string {
	return strings.Fields(s)
}
