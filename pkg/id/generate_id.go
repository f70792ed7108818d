package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
)

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// IsID32 reports whether s is a public identifier produced by NewID32.
func IsID32(s string) bool { return reHex32.MatchString(s) }

// MembershipNo formats the account number shown to members, e.g. COOP-000042.
func MembershipNo(seq uint64) string { return fmt.Sprintf("COOP-%06d", seq) }
