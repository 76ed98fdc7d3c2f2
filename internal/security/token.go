package security

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/example/scriptbar/internal/config"
)

// serviceTokenPrefix scopes derived tokens to the control endpoint.
const serviceTokenPrefix = "scriptbar-service|"

// ResolveServiceToken picks the token that "scriptbar run" expects on its
// control endpoint and that push, refresh and activate --handle send. A
// compiled secret wins, then service.token from the config file, then a
// token derived from SCRIPTBAR_SECRET.
func ResolveServiceToken(configured, secret string) string {
	if compiled := strings.TrimSpace(config.CompiledSecret); compiled != "" {
		return DeriveServiceToken(compiled)
	}
	if token := strings.TrimSpace(configured); token != "" {
		return token
	}
	return DeriveServiceToken(secret)
}

// DeriveServiceToken lets the tray process and the CLI agree on a token from
// a shared secret without writing it to the config file. It returns "" for
// an empty secret, which leaves the control endpoint disabled.
func DeriveServiceToken(secret string) string {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(serviceTokenPrefix + secret))
	return hex.EncodeToString(sum[:])
}
