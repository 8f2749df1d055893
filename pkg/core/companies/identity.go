package companies

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// IDFunc maps a company name to its identifier.
type IDFunc func(name string) string

// DeriveID returns the SHA-256 hex digest of the NFC-normalized company name.
// The same name always yields the same identifier.
func DeriveID(name string) string {
	sum := sha256.Sum256([]byte(norm.NFC.String(name)))
	return hex.EncodeToString(sum[:])
}
