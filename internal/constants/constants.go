package constants

// Context and session keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyPrincipal = "principal"
	SessionCookieName   = "attendance_session"
)

// Auth
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Assignment listing
const (
	DefaultUpcomingLimit = 10
	MaxUpcomingLimit     = 100
)
