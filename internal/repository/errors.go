package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateCode = errors.New("invite code already exists")
	// ErrCodeExhausted is returned by Redeem when the conditional usage
	// increment matched no row: the code filled up or was deactivated
	// between verification and redemption.
	ErrCodeExhausted = errors.New("invite code usage exhausted")
)

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
