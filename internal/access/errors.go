package access

import "errors"

// Code is the closed set of failure kinds the access layer surfaces.
// User-facing text comes only from Message; internal error detail stays in logs.
type Code string

const (
	CodeInvalidPassword Code = "INVALID_PASSWORD"
	CodeProjectNotFound Code = "PROJECT_NOT_FOUND"
	CodeTokenExpired    Code = "TOKEN_EXPIRED"
	CodeTokenInvalid    Code = "TOKEN_INVALID"
	CodeRateLimited     Code = "RATE_LIMITED"
	CodeInternal        Code = "INTERNAL_ERROR"
)

// Sentinel errors for token verification outcomes.
var (
	ErrTokenInvalid = errors.New("access token invalid")
	ErrTokenExpired = errors.New("access token expired")
)

// Message maps a code to its fixed user-facing string.
// PROJECT_NOT_FOUND deliberately reads the same as INVALID_PASSWORD so a
// caller cannot enumerate which project names exist.
func Message(c Code) string {
	switch c {
	case CodeInvalidPassword, CodeProjectNotFound:
		return "Incorrect password"
	case CodeTokenExpired:
		return "Project access has expired"
	case CodeTokenInvalid:
		return "Project access is not valid"
	case CodeRateLimited:
		return "Too many failed attempts. Try again later"
	default:
		return "Something went wrong"
	}
}
