package graph

import "strings"

// familySynonyms are the role fragments treated as family relations for
// cluster inference and edge orientation. Matching is case-insensitive
// substring, so "Stepmother" and "Godfather" qualify.
var familySynonyms = []string{
	"parent", "mother", "father", "mom", "dad",
	"kid", "child", "son", "daughter",
	"sibling", "brother", "sister",
	"spouse", "wife", "husband", "partner",
}

// IsFamilyRole reports whether the role label names a family relation.
// extra carries caller-supplied localized synonyms.
func IsFamilyRole(role string, extra []string) bool {
	folded := strings.ToLower(role)
	for _, syn := range familySynonyms {
		if strings.Contains(folded, syn) {
			return true
		}
	}
	for _, syn := range extra {
		if syn != "" && strings.Contains(folded, strings.ToLower(syn)) {
			return true
		}
	}
	return false
}
