package constants

// Session / context keys
const (
	SessionCookieName  = "ctf_session"
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"
	ContextKeyGame     = "game"
)

// Validation limits
const (
	MinPasswordLength = 8
	MinUsernameLength = 3
	MaxUsernameLength = 20
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// InviteTokenBytes is the number of random bytes in an invite link token.
const InviteTokenBytes = 16
