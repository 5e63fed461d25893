// Package annotation holds the user-created markup for a brief session:
// highlights, comments, and saved sources, in creation order.
package annotation

import (
	"time"

	"github.com/google/uuid"

	"github.com/MitreaRazvan/wisebrief/internal/brief"
)

// Kind discriminates the three annotation shapes.
type Kind string

const (
	KindHighlight Kind = "highlight"
	KindComment   Kind = "comment"
	KindSource    Kind = "source"
)

// Annotation is an immutable record created by an explicit user action and
// destroyed only by an explicit delete. Edits are delete + recreate.
//
// Invariants by kind: a highlight has non-empty Text and no Comment; a
// comment has non-empty Text and Comment; a source has SourceTitle, with
// Text mirroring it for display uniformity.
type Annotation struct {
	ID           string    `json:"id"`
	Type         Kind      `json:"type"`
	Text         string    `json:"text"`
	Comment      string    `json:"comment,omitempty"`
	SectionTitle string    `json:"sectionTitle"`
	CreatedAt    time.Time `json:"createdAt"`

	// Source-specific fields.
	SourceTitle       string `json:"sourceTitle,omitempty"`
	SourceURL         string `json:"sourceUrl,omitempty"`
	SourceDescription string `json:"sourceDescription,omitempty"`
}

// NewHighlight builds a highlight annotation for text captured in the
// section with the given title.
func NewHighlight(text, sectionTitle string) Annotation {
	return Annotation{
		ID:           uuid.New().String(),
		Type:         KindHighlight,
		Text:         text,
		SectionTitle: sectionTitle,
		CreatedAt:    time.Now().UTC(),
	}
}

// NewComment builds a comment annotation on the captured text.
func NewComment(text, sectionTitle, comment string) Annotation {
	return Annotation{
		ID:           uuid.New().String(),
		Type:         KindComment,
		Text:         text,
		Comment:      comment,
		SectionTitle: sectionTitle,
		CreatedAt:    time.Now().UTC(),
	}
}

// NewSource converts an extracted reference into a saved source annotation.
// Text is set to the source title so panels and exports can treat all
// annotations uniformly.
func NewSource(src brief.Source) Annotation {
	return Annotation{
		ID:                uuid.New().String(),
		Type:              KindSource,
		Text:              src.Title,
		SectionTitle:      "Source",
		CreatedAt:         time.Now().UTC(),
		SourceTitle:       src.Title,
		SourceURL:         src.URL,
		SourceDescription: src.Description,
	}
}
