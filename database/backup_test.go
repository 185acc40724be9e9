package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestBackupTokenLifecycle(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	u := mustUser(t, 3001)

	if _, err := CurrentBackupToken(u); !errors.Is(err, ErrNoBackupToken) {
		t.Fatalf("expected ErrNoBackupToken, got %v", err)
	}
	tok, err := GenerateBackupToken(ctx, u)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(tok, "3001:") {
		t.Errorf("token %q does not embed owner id", tok)
	}
	fresh, _ := GetUserByChatID(ctx, u.ChatID)
	cur, err := CurrentBackupToken(fresh)
	if err != nil {
		t.Fatal(err)
	}
	if cur != tok {
		t.Errorf("CurrentBackupToken = %q, want %q", cur, tok)
	}
	if err := RevokeBackupToken(ctx, fresh); err != nil {
		t.Fatal(err)
	}
	fresh, _ = GetUserByChatID(ctx, u.ChatID)
	if _, err := CurrentBackupToken(fresh); !errors.Is(err, ErrNoBackupToken) {
		t.Error("token survived revocation")
	}
}

func TestRestoreFromToken(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, 3002)
	receiver := mustUser(t, 3003)

	mustFolder(t, owner.ID, "Movies", "")
	mustFile(t, owner.ID, "clip.mp4", strPtr("Movies"))
	mustFile(t, owner.ID, "loose.bin", nil)
	// Receiver already has a folder with the same path; it must merge.
	mustFolder(t, receiver.ID, "Movies", "")

	tok, err := GenerateBackupToken(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}

	moved, err := RestoreFromToken(ctx, tok, receiver)
	if err != nil {
		t.Fatal(err)
	}
	if moved != 2 {
		t.Errorf("moved = %d, want 2", moved)
	}

	files, err := GetFilesInFolderRecursive(ctx, receiver.ID, "Movies")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Errorf("expected 1 file under receiver's Movies, got %d", len(files))
	}
	if n, _ := CountUserFiles(ctx, owner.ID); n != 0 {
		t.Errorf("owner still has %d files", n)
	}
	folders, _ := GetRootFolders(ctx, receiver.ID)
	if len(folders) != 1 {
		t.Errorf("expected 1 merged folder, got %d", len(folders))
	}

	// The token is one-shot.
	if _, err := RestoreFromToken(ctx, tok, receiver); !errors.Is(err, ErrBadBackupToken) {
		t.Errorf("used token accepted again: %v", err)
	}
}

func TestRestoreRejectsForgedPrefix(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, 3004)
	victim := mustUser(t, 3005)
	attacker := mustUser(t, 3006)

	tok, err := GenerateBackupToken(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}
	_, random, _ := splitToken(tok)

	// Re-prefix the random part with another user's id.
	forged := fmt.Sprintf("%d:%s", victim.ChatID, random)
	if _, err := RestoreFromToken(ctx, forged, attacker); !errors.Is(err, ErrBadBackupToken) {
		t.Errorf("forged prefix accepted: %v", err)
	}
}

func TestRestoreRejectsSameAccount(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, 3007)
	tok, err := GenerateBackupToken(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := RestoreFromToken(ctx, tok, owner); !errors.Is(err, ErrSameAccount) {
		t.Errorf("expected ErrSameAccount, got %v", err)
	}
}

func splitToken(tok string) (string, string, bool) {
	i := strings.Index(tok, ":")
	if i < 0 {
		return "", "", false
	}
	return tok[:i], tok[i+1:], true
}
