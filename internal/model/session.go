package model

// Session is the authenticated identity attached to a request after the
// auth middleware has verified the token and re-read the user record.
// The quota counters here are always fresh from the store; the ones
// embedded in the token itself are a display hint only and are never
// consulted for authorization decisions.
type Session struct {
	UserID         string
	Email          string
	Name           string
	BasicRemaining int
	ProRemaining   int
}
