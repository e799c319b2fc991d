package vault

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/inkforge/castline/internal/util"
	"github.com/inkforge/castline/pkg/logger"
)

// AppendRelationship records role -> sourceName in the target's note.
//
// If the relationships section already carries the role, the source is
// appended to that line (unless it is already listed). A missing role
// gets a fresh line at the end of the section; a missing section is
// created at the end of the note.
func (v *Vault) AppendRelationship(ctx context.Context, targetID, role, sourceName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, ok := v.Path(targetID)
	if !ok {
		return fmt.Errorf("append relationship to %q: %w", targetID, ErrNotFound)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read note %q: %w", targetID, err)
	}

	updated, changed := appendToContent(string(content), role, sourceName)
	if !changed {
		logger.Debug("[Vault] Relationship already present", "id", targetID, "role", role, "source", sourceName)
		return nil
	}

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("write note %q: %w", targetID, err)
	}
	logger.Debug("[Vault] Appended relationship", "id", targetID, "role", role, "source", sourceName)
	return nil
}

func appendToContent(content, role, sourceName string) (string, bool) {
	ref := "[[" + sourceName + "]]"
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	sectionStart := -1
	sectionEnd := len(lines)
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		heading, ok := headingText(trimmed)
		if !ok {
			continue
		}
		if sectionStart != -1 {
			sectionEnd = i
			break
		}
		if strings.EqualFold(heading, "relationships") || strings.EqualFold(heading, "relationship") {
			sectionStart = i
		}
	}

	if sectionStart == -1 {
		out := strings.TrimRight(content, "\n")
		if out != "" {
			out += "\n"
		}
		out += "\n## Relationships\n" + role + ": " + ref + "\n"
		return out, true
	}

	for i := sectionStart + 1; i < sectionEnd; i++ {
		fieldRole, value, ok := splitField(strings.TrimSpace(lines[i]))
		if !ok || !strings.EqualFold(fieldRole, role) {
			continue
		}
		for _, existing := range util.SplitTargets(value) {
			if strings.EqualFold(util.CleanRef(existing), sourceName) {
				return content, false
			}
		}
		lines[i] = strings.TrimRight(lines[i], " \t") + ", " + ref
		return strings.Join(lines, "\n"), true
	}

	// Insert after the last non-empty line of the section so trailing
	// blank lines stay where they were.
	insert := sectionStart + 1
	for i := sectionStart + 1; i < sectionEnd; i++ {
		if strings.TrimSpace(lines[i]) != "" {
			insert = i + 1
		}
	}
	lines = append(lines[:insert], append([]string{role + ": " + ref}, lines[insert:]...)...)
	return strings.Join(lines, "\n"), true
}
