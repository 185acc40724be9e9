package secret

import (
	"strings"
	"testing"
)

func TestTokenUniqueAndURLSafe(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		tok := AccessToken()
		if strings.ContainsAny(tok, "+/=") {
			t.Fatalf("token %q is not url-safe", tok)
		}
		if _, dup := seen[tok]; dup {
			t.Fatalf("duplicate token %q", tok)
		}
		seen[tok] = struct{}{}
	}
}

func TestBackupTokenRoundTrip(t *testing.T) {
	tok := NewBackupToken(123456789)
	owner, random, err := ParseBackupToken(tok)
	if err != nil {
		t.Fatal(err)
	}
	if owner != 123456789 {
		t.Errorf("owner = %d, want 123456789", owner)
	}
	if random == "" {
		t.Error("empty random part")
	}
}

func TestParseBackupTokenRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "justtext", "123:", "abc:def", ":token"} {
		if _, _, err := ParseBackupToken(in); err == nil {
			t.Errorf("ParseBackupToken(%q) succeeded, want error", in)
		}
	}
}
