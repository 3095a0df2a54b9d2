package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// RefreshToken hashes a refresh token for at-rest storage. Sessions are
// looked up by this hash, so it must be deterministic (unlike bcrypt).
func RefreshToken(token string) string {
	return SHA256Hex(token)
}

// ShortHash returns the first n hex characters of SHA256(input).
// Used for log correlation of IPs without storing raw PII.
func ShortHash(input string, n int) string {
	full := SHA256Hex(input)
	if n > len(full) {
		return full
	}
	return full[:n]
}
