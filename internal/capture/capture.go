// Package capture turns pointer-driven text selections inside one
// annotatable region into committed annotations. The ambient DOM event
// flow is modeled as an explicit two-state machine (toolbar /
// comment-editor) driven by discrete input events, with the geometry kept
// as a pure function, so the whole thing is testable without a rendering
// surface.
package capture

import (
	"strings"

	"github.com/MitreaRazvan/wisebrief/internal/annotation"
)

// minSelectionLen is the shortest trimmed selection worth capturing.
const minSelectionLen = 2

// Mode is the visible surface the capture is currently presenting.
type Mode string

const (
	ModeToolbar Mode = "toolbar"
	ModeComment Mode = "comment-editor"
)

// State is the ephemeral, observable toolbar state. It is never persisted.
type State struct {
	AnchorX      float64
	AnchorY      float64
	SelectedText string
	Visible      bool
	Mode         Mode
}

// Recorder consumes committed annotations. *annotation.Store satisfies it.
type Recorder interface {
	Add(annotation.Annotation)
}

// Capture observes selections within a single region bound to one section
// title. Regions never share an instance; selections spanning regions are
// not supported.
type Capture struct {
	sectionTitle string
	rec          Recorder

	state State

	// savedText is the side-channel copy of the captured selection. It
	// survives the live selection being cleared when the comment editor
	// opens.
	savedText    string
	commentDraft string
}

// New creates a capture for the region rendering the titled section.
// Committed annotations are appended to rec.
func New(sectionTitle string, rec Recorder) *Capture {
	return &Capture{sectionTitle: sectionTitle, rec: rec, state: State{Mode: ModeToolbar}}
}

// State returns the current observable state.
func (c *Capture) State() State {
	return c.state
}

// SectionTitle returns the title of the region this capture is bound to.
func (c *Capture) SectionTitle() string {
	return c.sectionTitle
}

// PointerRelease handles a mouse-up inside the region. Selections shorter
// than two characters after trimming are ignored, as are events carrying
// no selection at all. A valid selection opens the toolbar anchored above
// the selection, resetting any comment draft in progress.
func (c *Capture) PointerRelease(selected string, sel, container Rect) {
	text := strings.TrimSpace(selected)
	if len([]rune(text)) < minSelectionLen {
		return
	}
	anchor := Anchor(sel, container)
	c.savedText = text
	c.commentDraft = ""
	c.state = State{
		AnchorX:      anchor.X,
		AnchorY:      anchor.Y,
		SelectedText: text,
		Visible:      true,
		Mode:         ModeToolbar,
	}
}

// OutsideClick handles a pointer-down outside the toolbar. The capture is
// dismissed only when no live selection remains; clicking elsewhere while
// text is still selected keeps the toolbar up.
func (c *Capture) OutsideClick(liveSelection string) {
	if strings.TrimSpace(liveSelection) != "" {
		return
	}
	c.reset()
}

// BeginComment switches the toolbar into the comment editor. It reports
// whether the transition happened; on success the caller should clear the
// live browser selection, since the captured text is already held in the
// side-channel.
func (c *Capture) BeginComment() bool {
	if !c.state.Visible || c.state.Mode != ModeToolbar {
		return false
	}
	c.state.Mode = ModeComment
	return true
}

// SetCommentDraft replaces the comment editor's draft text.
func (c *Capture) SetCommentDraft(draft string) {
	c.commentDraft = draft
}

// CanSaveComment reports whether CommitComment would succeed. The save
// control stays disabled while this is false.
func (c *Capture) CanSaveComment() bool {
	return c.state.Visible && c.state.Mode == ModeComment && strings.TrimSpace(c.commentDraft) != ""
}

// CommitHighlight records a highlight for the captured text and clears the
// capture. It is a no-op outside visible toolbar mode.
func (c *Capture) CommitHighlight() (annotation.Annotation, bool) {
	if !c.state.Visible || c.state.Mode != ModeToolbar {
		return annotation.Annotation{}, false
	}
	a := annotation.NewHighlight(c.savedText, c.sectionTitle)
	c.rec.Add(a)
	c.reset()
	return a, true
}

// CommitComment records a comment on the captured text and clears the
// capture. Saving with an empty draft is a no-op.
func (c *Capture) CommitComment() (annotation.Annotation, bool) {
	if !c.CanSaveComment() {
		return annotation.Annotation{}, false
	}
	a := annotation.NewComment(c.savedText, c.sectionTitle, strings.TrimSpace(c.commentDraft))
	c.rec.Add(a)
	c.reset()
	return a, true
}

// Cancel leaves the comment editor and returns the capture to the hidden
// state. Outside the editor it is a no-op.
func (c *Capture) Cancel() {
	if !c.state.Visible || c.state.Mode != ModeComment {
		return
	}
	c.reset()
}

// Dismiss hides the capture regardless of mode.
func (c *Capture) Dismiss() {
	c.reset()
}

func (c *Capture) reset() {
	c.savedText = ""
	c.commentDraft = ""
	c.state = State{Mode: ModeToolbar}
}
