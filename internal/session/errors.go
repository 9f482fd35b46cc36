package session

import (
	"errors"
)

var (
	// ErrUserNotFound means Login was called with an email absent from the
	// user directory.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists means Register was called with an email already in the
	// user directory.
	ErrUserExists = errors.New("user already exists")
)

// AuthenticationError is returned by Login and Register when the request is
// rejected. Callers surface it to the user; nothing retries it.
type AuthenticationError struct {
	Email string
	Err   error
}

func (e *AuthenticationError) Error() string {
	return "authentication failed: " + e.Err.Error()
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// IsAuthenticationError reports whether err is, or wraps, an
// AuthenticationError.
func IsAuthenticationError(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}
