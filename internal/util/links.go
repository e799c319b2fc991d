package util

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reBoldWiki  = regexp.MustCompile(`\*\*\s*\[\[([^][]+)\]\]\s*\*\*`)
	reBoldPlain = regexp.MustCompile(`\*\*\s*\[([^][]+)\]\s*\*\*`)
	reWikiRef   = regexp.MustCompile(`\[\[([^][]+)\]\]`)
	reRefSep    = regexp.MustCompile(`\]\][\t ]+\[\[`)
)

// NormalizeRefs cleans up the wiki-link syntax of a relationship value:
// bold-wrapped links are unwrapped, loose single brackets are upgraded to
// wiki links (markdown links are left alone), and immediately repeated
// references to the same target are collapsed to one.
func NormalizeRefs(s string) string {
	s = reBoldWiki.ReplaceAllString(s, "[[$1]]")
	s = reBoldPlain.ReplaceAllString(s, "[$1]")

	s = upgradeLooseBrackets(s)
	s = collapseRepeatedRefs(s)

	return reRefSep.ReplaceAllString(s, "]] [[")
}

// ExtractRefs returns the cleaned target of every wiki link in s, in order.
func ExtractRefs(s string) []string {
	var refs []string
	for _, m := range reWikiRef.FindAllStringSubmatch(s, -1) {
		if ref := CleanRef(m[1]); ref != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}

// CleanRef reduces a raw target reference to the name the resolver matches
// on: surrounding brackets and whitespace dropped, a "|alias" suffix
// removed, and a folder path reduced to its basename.
func CleanRef(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[[")
	s = strings.TrimSuffix(s, "]]")
	if idx := strings.Index(s, "|"); idx != -1 {
		s = s[:idx]
	}
	if idx := strings.LastIndex(s, "/"); idx != -1 {
		s = s[idx+1:]
	}
	return strings.TrimSpace(s)
}

// SplitTargets parses the value of one relationship field into raw target
// references. Values with wiki links yield the link targets; plain values
// are comma-separated names.
func SplitTargets(value string) []string {
	value = NormalizeRefs(value)
	if strings.Contains(value, "[[") {
		return ExtractRefs(value)
	}

	var targets []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			targets = append(targets, part)
		}
	}
	return targets
}

// upgradeLooseBrackets rewrites [Name] to [[Name]] while skipping markdown
// links ([text](url)) and anything containing nested brackets.
func upgradeLooseBrackets(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '[' {
			b.WriteByte(s[i])
			i++
			continue
		}
		if i+1 < len(s) && s[i+1] == '[' {
			b.WriteString("[[")
			i += 2
			continue
		}
		j := i + 1
		nested := false
		for j < len(s) && s[j] != ']' {
			if s[j] == '[' {
				nested = true
			}
			j++
		}
		if j >= len(s) {
			b.WriteByte(s[i])
			i++
			continue
		}
		if j+1 < len(s) && s[j+1] == '(' {
			b.WriteString(s[i : j+1])
			i = j + 1
			continue
		}
		if nested {
			b.WriteString(s[i : j+1])
			i = j + 1
			continue
		}
		b.WriteString("[[")
		b.WriteString(s[i+1 : j])
		b.WriteString("]]")
		i = j + 1
	}
	return b.String()
}

// collapseRepeatedRefs drops consecutive duplicate wiki links separated only
// by whitespace. A line break between duplicates is respected unless the
// first reference already starts its line.
func collapseRepeatedRefs(s string) string {
	matches := reWikiRef.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	cursor := 0

	for mi := 0; mi < len(matches); mi++ {
		m := matches[mi]
		start, end := m[0], m[1]
		ref := s[m[2]:m[3]]

		b.WriteString(s[cursor:start])

		dupEnd := end
		next := mi + 1
		atLineStart := start == 0 || s[start-1] == '\n' || s[start-1] == '\r'

		for next < len(matches) {
			sep := s[dupEnd:matches[next][0]]
			if !onlyWhitespace(sep) {
				break
			}
			if strings.ContainsAny(sep, "\n\r") && !atLineStart {
				break
			}
			if s[matches[next][2]:matches[next][3]] != ref {
				break
			}
			dupEnd = matches[next][1]
			next++
		}

		b.WriteString(s[start:end])
		cursor = dupEnd
		mi = next - 1
	}

	if cursor < len(s) {
		b.WriteString(s[cursor:])
	}
	return b.String()
}

func onlyWhitespace(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
