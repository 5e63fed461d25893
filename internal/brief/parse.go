// Package brief parses generated creative-brief text into structured
// sections and extracts reference entries from trailing sources blocks.
// Upstream content is not trusted: malformed input degrades to fewer
// sections or references, never an error.
package brief

import (
	"strings"
)

// sectionMarker starts a new section when it appears at the beginning of a line.
const sectionMarker = "## "

// Section is a titled chunk of a generated brief. Order matches source
// order and titles are not required to be unique.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ParseSections splits text into sections on line-start "## " markers.
// The first line of each chunk (trimmed) is the title; the remaining lines
// (trimmed) are the content. Text before the first marker is discarded.
//
// When text contains no marker at all, the whole trimmed blob is returned
// as a single section with an empty title, so marker-less generations
// still render and export instead of vanishing. Empty input returns nil.
func ParseSections(text string) []Section {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if !hasMarker(text) {
		return []Section{{Title: "", Content: strings.TrimSpace(text)}}
	}

	// One section per marker, even when a marker carries no title or
	// content, so section count always matches marker count.
	var sections []Section
	for _, part := range splitOnMarkers(text) {
		lines := strings.Split(strings.TrimSpace(part), "\n")
		title := strings.TrimSpace(lines[0])
		content := strings.TrimSpace(strings.Join(lines[1:], "\n"))
		sections = append(sections, Section{Title: title, Content: content})
	}
	return sections
}

func hasMarker(text string) bool {
	if strings.HasPrefix(text, sectionMarker) {
		return true
	}
	return strings.Contains(text, "\n"+sectionMarker)
}

// splitOnMarkers splits text at every line-start marker, dropping the
// marker itself. The leading chunk before the first marker is dropped.
func splitOnMarkers(text string) []string {
	var parts []string
	lines := strings.Split(text, "\n")
	var current []string
	started := false
	for _, line := range lines {
		if strings.HasPrefix(line, sectionMarker) {
			if started {
				parts = append(parts, strings.Join(current, "\n"))
			}
			current = []string{strings.TrimPrefix(line, sectionMarker)}
			started = true
			continue
		}
		if started {
			current = append(current, line)
		}
	}
	if started {
		parts = append(parts, strings.Join(current, "\n"))
	}
	return parts
}
