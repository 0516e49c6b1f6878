// Package models defines client-side views of account data.
package models

// User is an authenticated identity handle. It is immutable for the
// lifetime of a session and discarded on sign-out.
type User struct {
	ID    string
	Email string
}

// Profile holds user-editable account data. One profile exists per user.
type Profile struct {
	FullName  string
	AvatarURL string
}
