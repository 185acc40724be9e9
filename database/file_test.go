package database

import (
	"context"
	"errors"
	"testing"
)

func TestFilePasswordBounds(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	u := mustUser(t, 2001)
	f := mustFile(t, u.ID, "a.bin", nil)

	if err := SetFilePassword(ctx, f, "x"); !errors.Is(err, ErrBadFilePassword) {
		t.Errorf("1-char password accepted: %v", err)
	}
	if err := SetFilePassword(ctx, f, "123456789"); !errors.Is(err, ErrBadFilePassword) {
		t.Errorf("9-char password accepted: %v", err)
	}
	if err := SetFilePassword(ctx, f, "ab"); err != nil {
		t.Fatalf("2-char password rejected: %v", err)
	}
	got, _ := GetFileByID(ctx, f.ID)
	if err := VerifyFilePassword(got, "ab"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := VerifyFilePassword(got, "cd"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("wrong password accepted: %v", err)
	}
	if err := RemoveFilePassword(ctx, got); err != nil {
		t.Fatal(err)
	}
	got, _ = GetFileByID(ctx, f.ID)
	if got.Password != nil {
		t.Error("password survived removal")
	}
}

func TestFileTokenRegeneration(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	u := mustUser(t, 2002)
	f := mustFile(t, u.ID, "a.bin", nil)

	t1, err := EnsureFileToken(ctx, f)
	if err != nil {
		t.Fatal(err)
	}
	t2, err := RegenerateFileToken(ctx, f)
	if err != nil {
		t.Fatal(err)
	}
	if t1 == t2 {
		t.Fatal("regenerated token equals old token")
	}
	if _, err := GetFileByToken(ctx, t1); err == nil {
		t.Error("old token still resolves")
	}
	if got, err := GetFileByToken(ctx, t2); err != nil || got.ID != f.ID {
		t.Errorf("new token does not resolve: %v", err)
	}
}

func TestMoveAndDeleteFile(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	u := mustUser(t, 2003)
	folder := mustFolder(t, u.ID, "Docs", "")
	f := mustFile(t, u.ID, "a.bin", nil)

	if err := MoveFile(ctx, f, folder.Path); err != nil {
		t.Fatal(err)
	}
	got, _ := GetFileByID(ctx, f.ID)
	if got.FolderPath == nil || *got.FolderPath != "Docs" {
		t.Errorf("file not moved: %v", got.FolderPath)
	}

	unf, err := GetUnorganizedFiles(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(unf) != 0 {
		t.Errorf("expected no unorganized files, got %d", len(unf))
	}

	if err := MoveFile(ctx, got, ""); err != nil {
		t.Fatal(err)
	}
	unf, _ = GetUnorganizedFiles(ctx, u.ID)
	if len(unf) != 1 {
		t.Errorf("expected 1 unorganized file, got %d", len(unf))
	}

	if err := DeleteFile(ctx, got); err != nil {
		t.Fatal(err)
	}
	if _, err := GetFileByID(ctx, f.ID); err == nil {
		t.Error("file still present after delete")
	}
}

func TestOwnerScopedLookup(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	a := mustUser(t, 2004)
	b := mustUser(t, 2005)
	f := mustFile(t, a.ID, "a.bin", nil)

	if _, err := GetUserFileByID(ctx, b.ID, f.ID); err == nil {
		t.Error("user b resolved user a's file through the scoped lookup")
	}
	if _, err := GetUserFileByID(ctx, a.ID, f.ID); err != nil {
		t.Errorf("owner lookup failed: %v", err)
	}
}
