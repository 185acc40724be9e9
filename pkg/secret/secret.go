// Package secret generates the opaque credentials used in share links and
// backup tokens.
package secret

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// Token returns a url-safe random token from n bytes of entropy.
func Token(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("secret: rand.Read: %s", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// AccessToken returns a token sized for folder and file share links.
func AccessToken() string {
	return Token(16)
}

// Backup token shape: "<chatID>:<random>". The embedded chat id lets the
// restore flow cross-check the presenting token against the owner recorded
// in storage, rejecting forged prefixes.

// NewBackupToken returns a backup token bound to the given owner.
func NewBackupToken(ownerID int64) string {
	return fmt.Sprintf("%d:%s", ownerID, Token(24))
}

// JoinBackupToken rebuilds a token from its stored parts.
func JoinBackupToken(ownerID int64, random string) string {
	return fmt.Sprintf("%d:%s", ownerID, random)
}

// ParseBackupToken splits a backup token into its owner id and random part.
func ParseBackupToken(token string) (ownerID int64, random string, err error) {
	idStr, random, ok := strings.Cut(token, ":")
	if !ok || random == "" {
		return 0, "", fmt.Errorf("secret: malformed backup token")
	}
	ownerID, err = strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("secret: malformed backup token owner: %w", err)
	}
	return ownerID, random, nil
}
