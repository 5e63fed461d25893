package storage

import (
	"errors"
	"time"

	"github.com/MitreaRazvan/wisebrief/internal/annotation"
	"github.com/MitreaRazvan/wisebrief/internal/wise"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Session is the durable snapshot of one brief session: the generated
// brief, the conversation so far, and every annotation, in order.
type Session struct {
	ID               string                  `json:"id"`
	BrandDescription string                  `json:"brand_description"`
	CreativeBrief    string                  `json:"creative_brief"`
	Messages         []wise.Message          `json:"messages"`
	Annotations      []annotation.Annotation `json:"annotations"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// SessionSummary is the lightweight listing row for the history sidebar.
type SessionSummary struct {
	ID               string    `json:"id"`
	BrandDescription string    `json:"brand_description"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
