package graph

import (
	"sort"
	"strings"

	"github.com/inkforge/castline/internal/util"
	"github.com/inkforge/castline/pkg/common"
	"github.com/inkforge/castline/pkg/inverse"
)

// DefaultSuggestionCap limits how many project role labels are offered
// beyond the dictionary-seeded ones.
const DefaultSuggestionCap = 5

// SuggestInverses builds the suggestion list for an inverse-role prompt:
// known inverses of role first, then other role labels used across the
// project, filtered case-insensitively by the user's partial input,
// sorted, de-duplicated, and capped at cap beyond the seeded set.
func SuggestInverses(
	dict *inverse.Dictionary,
	records []common.CharacterRecord,
	role, query string,
	cap int,
) []string {
	if cap <= 0 {
		cap = DefaultSuggestionCap
	}

	display := make(map[string]string)
	var projectRoles []string
	for _, record := range records {
		for _, field := range record.Relationships {
			key := strings.ToLower(field.Role)
			if key == "" {
				continue
			}
			if _, ok := display[key]; !ok {
				display[key] = field.Role
				projectRoles = append(projectRoles, key)
			}
		}
	}

	suggestions := make([]string, 0, cap)
	seen := make(map[string]struct{})

	for _, key := range dict.Lookup(role) {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		suggestions = append(suggestions, displayLabel(display, key))
	}

	queryFold := strings.ToLower(strings.TrimSpace(query))
	sort.Strings(projectRoles)

	added := 0
	for _, key := range projectRoles {
		if added >= cap {
			break
		}
		if _, ok := seen[key]; ok {
			continue
		}
		if key == strings.ToLower(role) {
			continue
		}
		if queryFold != "" && !strings.Contains(key, queryFold) {
			continue
		}
		seen[key] = struct{}{}
		suggestions = append(suggestions, displayLabel(display, key))
		added++
	}

	return suggestions
}

func displayLabel(display map[string]string, key string) string {
	if label, ok := display[key]; ok {
		return label
	}
	return util.TitleCase(key)
}
