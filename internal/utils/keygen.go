package utils

import (
	"crypto/rand"
	"strings"
)

const keyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewLicenseKeyString returns a random key in XXXX-XXXX-XXXX-XXXX form.
func NewLicenseKeyString() string {
	buf := make([]byte, 16)
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(buf)

	var b strings.Builder
	b.Grow(19)
	for i, c := range buf {
		if i > 0 && i%4 == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(keyAlphabet[int(c)%len(keyAlphabet)])
	}
	return b.String()
}
