package brief

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxDescriptionLen = 150

// Source is a structured reference extracted from a trailing sources block
// of generated text.
type Source struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	AddedAt     time.Time `json:"addedAt"`
}

var (
	// Matches the heading that opens a sources block, anywhere in the text.
	sourcesHeading = regexp.MustCompile(`(?i)##\s*SOURCES`)

	// Bracket-tag form: - [Tag] "Name" — description. No URL.
	bracketLine = regexp.MustCompile(`^-\s+\[([^\]]+)\]\s+"([^"]+)"\s*[\x{2014}\x{2013}-]+\s*(.+)`)

	// Markdown-link form: [name](https://url), optionally followed by — description.
	linkRef  = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)]+)\)`)
	linkDesc = regexp.MustCompile(`[\x{2014}\x{2013}-]\s*(.+)`)
)

// ExtractSources scans text for a sources block and returns the clean body
// (everything strictly before the heading, trimmed) plus the extracted
// entries. Without a heading the text is returned unchanged with no
// entries. Lines matching neither accepted shape are silently dropped.
//
// Entry ids and timestamps are fresh on every call; titles, urls and
// descriptions are stable for identical input.
func ExtractSources(text string) (string, []Source) {
	loc := sourcesHeading.FindStringIndex(text)
	if loc == nil {
		return strings.TrimSpace(text), nil
	}

	clean := strings.TrimSpace(text[:loc[0]])
	block := text[loc[0]:]

	var sources []Source
	for _, line := range strings.Split(block, "\n") {
		if m := bracketLine.FindStringSubmatch(line); m != nil {
			sources = append(sources, Source{
				ID:          uuid.New().String(),
				Title:       m[1] + " — " + m[2],
				URL:         "",
				Description: truncate(strings.TrimSpace(m[3]), maxDescriptionLen),
				AddedAt:     time.Now().UTC(),
			})
			continue
		}
		if m := linkRef.FindStringSubmatch(line); m != nil {
			after := line[strings.Index(line, m[0])+len(m[0]):]
			desc := ""
			if d := linkDesc.FindStringSubmatch(after); d != nil {
				desc = truncate(strings.TrimSpace(d[1]), maxDescriptionLen)
			}
			sources = append(sources, Source{
				ID:          uuid.New().String(),
				Title:       m[1],
				URL:         m[2],
				Description: desc,
				AddedAt:     time.Now().UTC(),
			})
		}
	}
	return clean, sources
}

// truncate cuts s to at most n runes. Cutting on bytes could split a
// UTF-8 sequence and mutate the value on a JSON round-trip.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
