package security

import (
	"errors"
	"net/http"
)

type ErrorKind string

const (
	KindMalformed        ErrorKind = "malformed_credential"
	KindInvalid          ErrorKind = "invalid_credential"
	KindRevoked          ErrorKind = "revoked_credential"
	KindStale            ErrorKind = "stale_credential"
	KindIdentityNotFound ErrorKind = "identity_not_found"
	KindForbidden        ErrorKind = "forbidden"
	KindFrozen           ErrorKind = "frozen_identity"
)

var kindStatus = map[ErrorKind]int{
	KindMalformed:        http.StatusBadRequest,
	KindInvalid:          http.StatusBadRequest,
	KindRevoked:          http.StatusForbidden,
	KindStale:            http.StatusForbidden,
	KindIdentityNotFound: http.StatusBadRequest,
	KindForbidden:        http.StatusForbidden,
	KindFrozen:           http.StatusForbidden,
}

// AuthError : ошибка аутентификации или авторизации
type AuthError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *AuthError) Unwrap() error { return e.Err }

func (e *AuthError) StatusCode() int {
	return kindStatus[e.Kind]
}

func (e *AuthError) PublicMessage() string { return e.Message }

func newAuthError(kind ErrorKind, message string, err error) *AuthError {
	return &AuthError{Kind: kind, Message: message, Err: err}
}

// IsKind : проверяет, что в цепочке ошибок есть AuthError нужного вида
func IsKind(err error, kind ErrorKind) bool {
	var authErr *AuthError
	return errors.As(err, &authErr) && authErr.Kind == kind
}
