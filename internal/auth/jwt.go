package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// extractXUID reads the xuid claim out of a Minecraft access token, which
// is an unsigned-inspection JWT: base64url-decode the second dot-separated
// segment, padding with '=' to a multiple of 4, and read the xuid field.
func extractXUID(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return "", fmt.Errorf("token does not look like a jwt")
	}
	payload := parts[1]
	if rem := len(payload) % 4; rem != 0 {
		payload += strings.Repeat("=", 4-rem)
	}
	decoded, err := base64.URLEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("decoding jwt payload: %w", err)
	}

	var claims struct {
		XUID string `json:"xuid"`
	}
	if err := json.Unmarshal(decoded, &claims); err != nil {
		return "", fmt.Errorf("parsing jwt claims: %w", err)
	}
	return claims.XUID, nil
}
