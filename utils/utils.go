// Package utils holds the small text formatting helpers shared by skills
// and handlers when rendering Slack markdown.
package utils

import "fmt"

// Monospace renders text as a Slack code block.
func Monospace(text string) string {
	return fmt.Sprintf("```\n%s\n```", text)
}

// Bold renders text with Slack bold markdown.
func Bold(text string) string {
	return fmt.Sprintf("*%s*", text)
}

// Italic renders text with Slack italic markdown.
func Italic(text string) string {
	return fmt.Sprintf("_%s_", text)
}

// Trim cuts text at limit runes, appending a dot when it had to cut.
func Trim(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "."
}
