package models

// User is an account identity. PasswordHash is a bcrypt hash and never
// leaves the server.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
}
