package flow

import (
	"context"
	"sync"
)

// EditMode is the profile editor's position.
type EditMode int

const (
	EditViewing EditMode = iota
	EditEditing
	EditSaving
)

// ProfileEditor runs the view/edit/save cycle for the profile's full name.
//
// Transitions: Viewing→Editing (seeds the draft from the committed value),
// Editing→Viewing on cancel (draft discarded, nothing saved),
// Editing→Saving→Viewing on successful save, Saving→Editing on failure with
// the draft preserved so the user can retry without retyping.
type ProfileEditor struct {
	mu      sync.Mutex
	mode    EditMode
	draft   string
	session Session
	notify  Notifier
	closed  bool
}

func NewProfileEditor(sess Session, notifier Notifier) *ProfileEditor {
	return &ProfileEditor{session: sess, notify: notifier}
}

func (e *ProfileEditor) Mode() EditMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Draft returns the uncommitted edit. Meaningful only while editing or
// saving.
func (e *ProfileEditor) Draft() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// Edit enters editing, seeding the draft from the committed profile value
// and discarding any previous unsaved draft.
func (e *ProfileEditor) Edit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != EditViewing {
		return
	}
	e.draft = ""
	if p := e.session.State().Profile; p != nil {
		e.draft = p.FullName
	}
	e.mode = EditEditing
}

// SetDraft updates the uncommitted value while editing.
func (e *ProfileEditor) SetDraft(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != EditEditing {
		return
	}
	e.draft = s
}

// Cancel discards the draft and returns to viewing without saving.
func (e *ProfileEditor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != EditEditing {
		return
	}
	e.draft = ""
	e.mode = EditViewing
}

// Save commits the draft through the session store. While saving, further
// saves are rejected. On success the editor returns to viewing and the
// committed value is whatever the store now holds; on failure it returns to
// editing with the draft intact.
func (e *ProfileEditor) Save(ctx context.Context) {
	e.mu.Lock()
	if e.closed || e.mode != EditEditing {
		e.mu.Unlock()
		return
	}
	e.mode = EditSaving
	draft := e.draft
	e.mu.Unlock()

	err := e.session.UpdateFullName(ctx, draft)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	if err != nil {
		e.mode = EditEditing
		e.notify.Notify(Notification{
			Title:       "Error",
			Description: "Failed to update profile",
			Variant:     VariantDestructive,
		})
		return
	}

	e.mode = EditViewing
	e.draft = ""
	e.notify.Notify(Notification{Title: "Success", Description: "Profile updated successfully", Variant: VariantDefault})
}

// Close marks the hosting screen as unmounted; in-flight save results are
// discarded.
func (e *ProfileEditor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
}
