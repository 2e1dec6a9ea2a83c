package render

import (
	"html"
	"regexp"
	"strings"
)

// htmlRules is applied in order. Nested or malformed markup is not parsed;
// anything that looks like a tag is removed.
var htmlRules = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)<br\s*/?>`), "\n"},
	{regexp.MustCompile(`(?i)</p\s*>`), "\n"},
	{regexp.MustCompile(`(?i)</div\s*>`), "\n"},
	{regexp.MustCompile(`<[^>]*>`), ""},
}

// HTMLToParagraphs converts rich-text editor output to plain paragraphs.
// Line breaks and closing paragraph or div tags end a paragraph, every other
// tag is stripped, entities are decoded and blank lines are dropped.
func HTMLToParagraphs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	text := strings.ReplaceAll(s, "\r\n", "\n")
	for _, rule := range htmlRules {
		text = rule.pattern.ReplaceAllString(text, rule.replacement)
	}
	text = html.UnescapeString(text)

	var paragraphs []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	return paragraphs
}
