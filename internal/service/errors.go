package service

import (
	"errors"
	"fmt"
)

var (
	ErrCodeInvalid     = errors.New("invite code invalid")
	ErrCodeExpired     = errors.New("invite code expired")
	ErrCodeDomain      = errors.New("email domain not allowed for invite code")
	ErrCodeMaxed       = errors.New("invite code usage exhausted")
	ErrCuratorInactive = errors.New("curator inactive")
	ErrUnauthorized    = errors.New("authenticated user required")
	ErrCuratorNotFound = errors.New("curator not found")
	ErrInvalidMaxUses  = errors.New("max uses must not be negative")
	ErrCodeExists      = errors.New("invite code already exists")
	ErrNotFound        = errors.New("not found")
	ErrStore           = errors.New("store failure")
)

// Reason is the client-facing rejection vocabulary.
type Reason string

const (
	ReasonInvalid       Reason = "invalid"
	ReasonExpired       Reason = "expired"
	ReasonDomain        Reason = "domain"
	ReasonMaxed         Reason = "maxed"
	ReasonInactive      Reason = "inactive"
	ReasonUnauthorized  Reason = "unauthorized"
	ReasonDatabaseError Reason = "database_error"
	ReasonServerError   Reason = "server_error"
)

// ReasonOf maps an error returned by this package to its Reason.
func ReasonOf(err error) Reason {
	switch {
	case errors.Is(err, ErrCodeInvalid):
		return ReasonInvalid
	case errors.Is(err, ErrCodeExpired):
		return ReasonExpired
	case errors.Is(err, ErrCodeDomain):
		return ReasonDomain
	case errors.Is(err, ErrCodeMaxed):
		return ReasonMaxed
	case errors.Is(err, ErrCuratorInactive):
		return ReasonInactive
	case errors.Is(err, ErrUnauthorized):
		return ReasonUnauthorized
	case errors.Is(err, ErrStore):
		return ReasonDatabaseError
	}
	return ReasonServerError
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}
