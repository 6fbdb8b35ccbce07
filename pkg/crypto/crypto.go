package crypto

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
)

// inviteAlphabet drops 0/O and 1/I so codes survive being read aloud.
const inviteAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var inviteEncoding = base32.NewEncoding(inviteAlphabet).WithPadding(base32.NoPadding)

// GenerateInviteCode generates an uppercase invite code (10 bytes = 16 chars).
func GenerateInviteCode() (string, error) {
	b := make([]byte, 10)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return inviteEncoding.EncodeToString(b), nil
}
