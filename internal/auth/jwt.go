package auth

import (
	"encoding/base64"
	"strings"
)

// base64URLDecode accepts both padded and unpadded base64url input.
func base64URLDecode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}
