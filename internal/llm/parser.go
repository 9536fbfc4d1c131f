package llm

import (
	"regexp"
	"strings"
)

// mrTypes are the labels the review template offers under "MR Type".
var mrTypes = []string{
	"Feature", "Bugfix", "Chore", "Housekeeping", "Enhancement",
	"Documentation", "Refactoring", "Style", "Performance Improvement",
}

var (
	// Matches a numbered, emoji-prefixed heading such as "6. 🤔 **Decision**".
	sectionHeaderRegex = regexp.MustCompile(`^\s*#*\s*\d+\.\s+\S+\s+\*\*(.+?)\*\*`)
	decisionRegex      = regexp.MustCompile(`(✅ Approved|🚧 Needs Work|❌ Rejected)`)
)

// Verdict is a best-effort summary of a review response. It is used for
// logging only; the approval decision does not depend on it.
type Verdict struct {
	MRType   string
	Decision string
}

// ParseVerdict extracts the MR type and the decision line from a review
// written in the template's format. Missing sections leave fields empty.
func ParseVerdict(markdown string) Verdict {
	markdown = stripMarkdownFence(markdown)

	var v Verdict
	sections := splitSections(markdown)
	if body, ok := sections["mr type"]; ok {
		v.MRType = findMRType(body)
	}
	if body, ok := sections["decision"]; ok {
		if m := decisionRegex.FindString(body); m != "" {
			v.Decision = m
		}
	}
	if v.Decision == "" {
		// Some models drop the heading and only write the verdict.
		v.Decision = decisionRegex.FindString(markdown)
	}
	return v
}

func splitSections(markdown string) map[string]string {
	sections := make(map[string]string)
	var current string
	var body strings.Builder

	flush := func() {
		if current != "" {
			sections[current] = body.String()
		}
		body.Reset()
	}

	for _, line := range strings.Split(markdown, "\n") {
		if m := sectionHeaderRegex.FindStringSubmatch(line); m != nil {
			flush()
			current = strings.ToLower(strings.TrimSpace(m[1]))
			continue
		}
		body.WriteString(line)
		body.WriteString("\n")
	}
	flush()
	return sections
}

func findMRType(body string) string {
	for _, t := range mrTypes {
		if strings.Contains(body, t) {
			return t
		}
	}
	return ""
}

// stripMarkdownFence removes a wrapping ```markdown ... ``` fence if present.
func stripMarkdownFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.Index(s, "\n"); idx != -1 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
