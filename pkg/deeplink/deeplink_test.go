package deeplink

import (
	"errors"
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payloads := []string{
		"file_1",
		"file_42",
		"ft_x7Kd9q2LmPz0aB3c",
		"sharedfile_123456789_7",
		"folder_100_TW92aWVz",
		"a",
		"ab",
		"abc",
		"abcd",
		"Parent/Child with spaces",
	}
	for _, p := range payloads {
		enc := Encode(p)
		if strings.Contains(enc, "=") {
			t.Errorf("Encode(%q) = %q contains padding", p, enc)
		}
		dec, err := Decode(enc)
		if err != nil {
			t.Fatalf("Decode(Encode(%q)) failed: %s", p, err)
		}
		if dec != p {
			t.Errorf("round trip mismatch: got %q want %q", dec, p)
		}
	}
}

func TestDecodeToleratesPadding(t *testing.T) {
	enc := Encode("file_42")
	for _, in := range []string{enc, enc + "=", enc + "=="} {
		dec, err := Decode(in)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %s", in, err)
		}
		if dec != "file_42" {
			t.Errorf("Decode(%q) = %q, want file_42", in, dec)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode("not*base64!")
	if err == nil {
		t.Fatal("expected error for malformed input")
	}
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Errorf("expected DecodeError, got %T", err)
	}
}

func TestParseVerify(t *testing.T) {
	p, err := Parse("verify-123456-sometoken")
	if err != nil {
		t.Fatal(err)
	}
	v, ok := p.(VerifyPayload)
	if !ok {
		t.Fatalf("expected VerifyPayload, got %T", p)
	}
	if v.UserID != 123456 || v.Token != "sometoken" {
		t.Errorf("unexpected payload: %+v", v)
	}
}

func TestParseRestore(t *testing.T) {
	p, err := Parse("restore_" + Encode("100:abcdef"))
	if err != nil {
		t.Fatal(err)
	}
	r, ok := p.(RestorePayload)
	if !ok {
		t.Fatalf("expected RestorePayload, got %T", p)
	}
	if r.Token != "100:abcdef" {
		t.Errorf("unexpected token: %q", r.Token)
	}
}

func TestParseFolderTokenTakesPrecedenceOverBase64(t *testing.T) {
	// A bare folder token is never base64-decoded, even if it happens to be
	// valid base64.
	p, err := Parse("folder_YWJjZA")
	if err != nil {
		t.Fatal(err)
	}
	ft, ok := p.(FolderTokenPayload)
	if !ok {
		t.Fatalf("expected FolderTokenPayload, got %T", p)
	}
	if ft.Token != "YWJjZA" {
		t.Errorf("unexpected token: %q", ft.Token)
	}
}

func TestParseSharedFolder(t *testing.T) {
	p, err := Parse(Encode("folder_100_" + Encode("Movies/Action")))
	if err != nil {
		t.Fatal(err)
	}
	sf, ok := p.(SharedFolderPayload)
	if !ok {
		t.Fatalf("expected SharedFolderPayload, got %T", p)
	}
	if sf.OwnerID != 100 || sf.Path != "Movies/Action" {
		t.Errorf("unexpected payload: %+v", sf)
	}
}

func TestParseFileVariants(t *testing.T) {
	p, err := Parse(Encode("file_7"))
	if err != nil {
		t.Fatal(err)
	}
	if f, ok := p.(FilePayload); !ok || f.FileID != 7 {
		t.Errorf("expected FilePayload{7}, got %#v", p)
	}

	p, err = Parse(Encode("ft_secrettoken"))
	if err != nil {
		t.Fatal(err)
	}
	if f, ok := p.(FileTokenPayload); !ok || f.Token != "secrettoken" {
		t.Errorf("expected FileTokenPayload, got %#v", p)
	}

	p, err = Parse(Encode("sharedfile_200_9"))
	if err != nil {
		t.Fatal(err)
	}
	if f, ok := p.(SharedFilePayload); !ok || f.OwnerID != 200 || f.FileID != 9 {
		t.Errorf("expected SharedFilePayload{200, 9}, got %#v", p)
	}
}

func TestParseLegacyFile(t *testing.T) {
	p, err := Parse(Encode("oldbot_5512"))
	if err != nil {
		t.Fatal(err)
	}
	lf, ok := p.(LegacyFilePayload)
	if !ok {
		t.Fatalf("expected LegacyFilePayload, got %T", p)
	}
	if lf.Prefix != "oldbot" || lf.MessageID != 5512 {
		t.Errorf("unexpected payload: %+v", lf)
	}
}

func TestParseBatch(t *testing.T) {
	p, err := Parse("BATCH-" + Encode("file_991"))
	if err != nil {
		t.Fatal(err)
	}
	b, ok := p.(BatchPayload)
	if !ok {
		t.Fatalf("expected BatchPayload, got %T", p)
	}
	if b.ManifestMessageID != 991 {
		t.Errorf("unexpected manifest id: %d", b.ManifestMessageID)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "!!!", Encode("no known prefix here"), "verify-notanumber-tok"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", in)
		}
	}
}

func TestLinkBuilders(t *testing.T) {
	link := FileLink("stash_bot", 42)
	param := strings.TrimPrefix(link, "https://t.me/stash_bot?start=")
	if param == link {
		t.Fatalf("unexpected link shape: %s", link)
	}
	p, err := Parse(param)
	if err != nil {
		t.Fatal(err)
	}
	if f, ok := p.(FilePayload); !ok || f.FileID != 42 {
		t.Errorf("FileLink did not round trip: %#v", p)
	}

	link = FolderShareLink("stash_bot", 100, "Movies")
	param = strings.TrimPrefix(link, "https://t.me/stash_bot?start=")
	p, err = Parse(param)
	if err != nil {
		t.Fatal(err)
	}
	if sf, ok := p.(SharedFolderPayload); !ok || sf.OwnerID != 100 || sf.Path != "Movies" {
		t.Errorf("FolderShareLink did not round trip: %#v", p)
	}

	link = BatchLink("stash_bot", 17)
	param = strings.TrimPrefix(link, "https://t.me/stash_bot?start=")
	p, err = Parse(param)
	if err != nil {
		t.Fatal(err)
	}
	if b, ok := p.(BatchPayload); !ok || b.ManifestMessageID != 17 {
		t.Errorf("BatchLink did not round trip: %#v", p)
	}
}
