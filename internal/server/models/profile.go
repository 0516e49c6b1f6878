package models

// Profile holds the user-editable account data. AvatarKey is the object
// storage key; presigned URLs are derived from it on the way out.
type Profile struct {
	UserID    string
	FullName  string
	AvatarKey string
}
