package models

import "time"

// RefreshToken is a server-stored opaque token. The token string itself is
// the lookup key and is not part of the model.
type RefreshToken struct {
	UserID  string
	Expires time.Time
}
