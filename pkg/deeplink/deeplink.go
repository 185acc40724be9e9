// Package deeplink implements the share-link payload codec. Every link the
// bot hands out is a t.me deep link whose start parameter is either a bare
// prefixed token or a base64url-encoded payload string; the payload itself
// carries everything needed to resolve the target, so no session state is
// kept server-side.
package deeplink

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeError reports a start parameter that could not be decoded or did not
// match any known payload shape.
type DecodeError struct {
	Input string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("deeplink: decode %q: %s", e.Input, e.Err)
	}
	return fmt.Sprintf("deeplink: decode %q: unrecognized payload", e.Input)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Encode encodes a payload string as unpadded url-safe base64. Telegram strips
// '=' from start parameters, so padding is never emitted.
func Encode(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

// Decode reverses Encode. Padding is reconstructed from the input length, so
// both padded and stripped forms decode identically.
func Decode(s string) (string, error) {
	s = strings.TrimRight(s, "=")
	if m := len(s) % 4; m != 0 {
		s += strings.Repeat("=", 4-m)
	}
	b, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return "", &DecodeError{Input: s, Err: err}
	}
	return string(b), nil
}
