// Package validate implements credential form validation.
//
// All checks are pure and deterministic; aggregate validation never
// short-circuits, so every failing field is reported at once.
package validate

import (
	"net/mail"
	"strings"
)

// Field identifies a credential form field in validation results.
type Field string

const (
	FieldEmail    Field = "email"
	FieldPassword Field = "password"
	FieldFullName Field = "fullName"
)

// User-facing validation messages.
const (
	MsgInvalidEmail     = "Please enter a valid email"
	MsgPasswordTooShort = "Password must be at least 6 characters"
	MsgNameRequired     = "Please enter your name"
)

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 6

// Email checks that s is a syntactically valid bare email address with a
// dotted domain. Addresses with display names ("A <a@b.c>") are rejected.
func Email(s string) error {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return errMsg(MsgInvalidEmail)
	}
	at := strings.LastIndex(s, "@")
	domain := s[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return errMsg(MsgInvalidEmail)
	}
	return nil
}

// Password checks the minimum length rule. Character content is not
// restricted.
func Password(s string) error {
	if len(s) < MinPasswordLen {
		return errMsg(MsgPasswordTooShort)
	}
	return nil
}

// FullName fails only when required is true and the trimmed value is empty.
func FullName(s string, required bool) error {
	if required && strings.TrimSpace(s) == "" {
		return errMsg(MsgNameRequired)
	}
	return nil
}

// Form runs every applicable check (the full-name check only when signUp is
// true) and collects failing fields. The form is valid iff the returned map
// is empty. All fields are always validated so the caller can surface every
// error simultaneously.
func Form(email, password, fullName string, signUp bool) map[Field]string {
	errs := make(map[Field]string)
	if err := Email(email); err != nil {
		errs[FieldEmail] = err.Error()
	}
	if err := Password(password); err != nil {
		errs[FieldPassword] = err.Error()
	}
	if err := FullName(fullName, signUp); err != nil {
		errs[FieldFullName] = err.Error()
	}
	return errs
}

// errMsg keeps validation errors as plain message strings; the message is
// the user-facing contract.
type validationError string

func (e validationError) Error() string { return string(e) }

func errMsg(msg string) error { return validationError(msg) }
