package common

// Wire-level contract shared by the account service and the client.
// The client matches ErrorMsg* values against backend responses, so they
// must stay byte-for-byte stable.
const (
	// AuthorizationHeaderName carries the bearer access token.
	AuthorizationHeaderName = "Authorization"

	// ErrorMsgInvalidCredentials is returned on a failed sign-in.
	ErrorMsgInvalidCredentials = "Invalid login credentials"

	// ErrorMsgAlreadyRegistered is returned when signing up with an email
	// that already has an account. Clients match the "already registered"
	// substring, not the whole string.
	ErrorMsgAlreadyRegistered = "User already registered"

	// ErrorMsgInternal hides any unexpected server-side failure.
	ErrorMsgInternal = "Internal server error"
)
