package vault

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/inkforge/castline/internal/util"
	"github.com/inkforge/castline/pkg/common"
)

// legacyRelationshipRole is the old single-valued free-text field; only
// embedded wiki links count as targets there.
const legacyRelationshipRole = "relationship"

type frontMatter struct {
	Name    string `yaml:"name"`
	Surname string `yaml:"surname"`
	Role    string `yaml:"role"`
}

// ParseCharacter turns one note's content into a CharacterRecord snapshot.
// The id is the note's file identifier (basename without extension).
//
// Relationship fields keep their order of appearance; a role that appears
// twice (case-insensitively) merges into its first occurrence. Fields
// without any target are ignored.
func ParseCharacter(id string, content []byte) (common.CharacterRecord, error) {
	fm, body, err := splitFrontMatter(string(content))
	if err != nil {
		return common.CharacterRecord{}, err
	}

	record := common.CharacterRecord{
		ID:          id,
		DisplayName: fm.Name,
		Surname:     fm.Surname,
		Role:        fm.Role,
	}
	if record.DisplayName == "" {
		record.DisplayName = id
	}
	if record.Surname == "" {
		if idx := strings.LastIndex(record.DisplayName, " "); idx != -1 {
			record.Surname = record.DisplayName[idx+1:]
		}
	}

	fieldIndex := make(map[string]int)
	for _, line := range relationshipLines(body) {
		role, value, ok := splitField(line)
		if !ok {
			continue
		}

		var targets []string
		if strings.EqualFold(role, legacyRelationshipRole) {
			targets = util.ExtractRefs(util.NormalizeRefs(value))
		} else {
			targets = util.SplitTargets(value)
		}
		if len(targets) == 0 {
			continue
		}

		key := strings.ToLower(role)
		if i, ok := fieldIndex[key]; ok {
			record.Relationships[i].Targets = append(record.Relationships[i].Targets, targets...)
			continue
		}
		fieldIndex[key] = len(record.Relationships)
		record.Relationships = append(record.Relationships, common.RelationshipField{
			Role:    role,
			Targets: targets,
		})
	}

	return record, nil
}

func splitFrontMatter(content string) (frontMatter, string, error) {
	var fm frontMatter

	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, "---\n") {
		return fm, normalized, nil
	}

	rest := normalized[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end == -1 {
		return fm, normalized, nil
	}

	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return fm, "", fmt.Errorf("invalid front matter: %w", err)
	}

	body := rest[end+len("\n---"):]
	if idx := strings.Index(body, "\n"); idx != -1 {
		body = body[idx+1:]
	} else {
		body = ""
	}
	return fm, body, nil
}

// relationshipLines returns the non-empty lines of the relationships
// section, or nil when the note has none.
func relationshipLines(body string) []string {
	var lines []string
	inSection := false
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if heading, ok := headingText(trimmed); ok {
			if inSection {
				break
			}
			inSection = strings.EqualFold(heading, "relationships") ||
				strings.EqualFold(heading, "relationship")
			continue
		}
		if inSection && trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func headingText(line string) (string, bool) {
	if !strings.HasPrefix(line, "#") {
		return "", false
	}
	text := strings.TrimLeft(line, "#")
	if text == line || (text != "" && !strings.HasPrefix(text, " ")) {
		return "", false
	}
	return strings.TrimSpace(text), true
}

// splitField parses one "Role: value" line, tolerating list bullets and
// bold markers around the role.
func splitField(line string) (role, value string, ok bool) {
	line = strings.TrimPrefix(line, "- ")
	line = strings.TrimPrefix(line, "* ")

	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}

	role = strings.TrimSpace(strings.Trim(strings.TrimSpace(line[:idx]), "*_"))
	value = strings.TrimSpace(line[idx+1:])
	if role == "" || value == "" {
		return "", "", false
	}
	return role, value, true
}
