package database

import (
	"context"
	"errors"
	"testing"
)

func TestCreateFolderDuplicate(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	u := mustUser(t, 1001)

	mustFolder(t, u.ID, "A", "")
	if _, err := CreateFolder(ctx, u.ID, "A", ""); !errors.Is(err, ErrDuplicateFolder) {
		t.Fatalf("expected ErrDuplicateFolder, got %v", err)
	}
	roots, err := GetRootFolders(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 1 {
		t.Errorf("expected 1 root folder, got %d", len(roots))
	}
}

func TestCreateFolderValidation(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	u := mustUser(t, 1002)

	if _, err := CreateFolder(ctx, u.ID, "a/b", ""); !errors.Is(err, ErrInvalidName) {
		t.Errorf("embedded slash accepted: %v", err)
	}
	if _, err := CreateFolder(ctx, u.ID, "  ", ""); !errors.Is(err, ErrInvalidName) {
		t.Errorf("blank name accepted: %v", err)
	}

	mustFolder(t, u.ID, "A", "")
	sub := mustFolder(t, u.ID, "B", "A")
	if sub.Path != "A/B" {
		t.Errorf("subfolder path = %q, want A/B", sub.Path)
	}
	// A subfolder of a subfolder is rejected.
	if _, err := CreateFolder(ctx, u.ID, "C", "A/B"); !errors.Is(err, ErrNestingTooDeep) {
		t.Errorf("expected ErrNestingTooDeep, got %v", err)
	}
	// A missing parent is rejected.
	if _, err := CreateFolder(ctx, u.ID, "X", "Nope"); err == nil {
		t.Error("missing parent accepted")
	}
}

func TestSubfolderListing(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	u := mustUser(t, 1003)

	mustFolder(t, u.ID, "A", "")
	mustFolder(t, u.ID, "B", "A")
	mustFolder(t, u.ID, "C", "A")
	mustFolder(t, u.ID, "Z", "")

	roots, err := GetRootFolders(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 2 {
		t.Errorf("expected 2 roots, got %d", len(roots))
	}
	subs, err := GetSubfolders(ctx, u.ID, "A")
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 subfolders of A, got %d", len(subs))
	}
	if subs[0].Path != "A/B" || subs[1].Path != "A/C" {
		t.Errorf("unexpected subfolders: %q, %q", subs[0].Path, subs[1].Path)
	}
}

func TestDeleteFolderCascade(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	u := mustUser(t, 1004)

	a := mustFolder(t, u.ID, "A", "")
	ab := mustFolder(t, u.ID, "B", "A")
	mustFolder(t, u.ID, "Other", "")
	f := mustFile(t, u.ID, "clip.mp4", strPtr(ab.Path))
	if err := SetSelectedFolder(ctx, u, ab.ID); err != nil {
		t.Fatal(err)
	}

	if err := DeleteFolderCascade(ctx, u.ID, a.Path); err != nil {
		t.Fatal(err)
	}

	if _, err := GetFolder(ctx, u.ID, "A"); err == nil {
		t.Error("folder A survived delete")
	}
	if _, err := GetFolder(ctx, u.ID, "A/B"); err == nil {
		t.Error("subfolder A/B survived delete")
	}
	if _, err := GetFolder(ctx, u.ID, "Other"); err != nil {
		t.Error("unrelated folder was deleted")
	}

	got, err := GetFileByID(ctx, f.ID)
	if err != nil {
		t.Fatal("file was deleted along with folder")
	}
	if got.FolderPath != nil {
		t.Errorf("file folder = %q, want nil", *got.FolderPath)
	}

	invalidateUser(u.ChatID)
	fresh, err := GetUserByChatID(ctx, u.ChatID)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.SelectedFolderID != nil {
		t.Error("selected folder not cleared by cascade delete")
	}
}

func TestRenameFolderCascade(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	u := mustUser(t, 1005)

	mustFolder(t, u.ID, "A", "")
	ab := mustFolder(t, u.ID, "B", "A")
	f := mustFile(t, u.ID, "clip.mp4", strPtr(ab.Path))

	newPath, err := RenameFolderCascade(ctx, u.ID, "A", "Z")
	if err != nil {
		t.Fatal(err)
	}
	if newPath != "Z" {
		t.Fatalf("newPath = %q, want Z", newPath)
	}

	if _, err := GetFolder(ctx, u.ID, "Z"); err != nil {
		t.Error("renamed folder Z missing")
	}
	if _, err := GetFolder(ctx, u.ID, "Z/B"); err != nil {
		t.Error("descendant Z/B missing")
	}
	if _, err := GetFolder(ctx, u.ID, "A"); err == nil {
		t.Error("old folder A still present")
	}

	got, err := GetFileByID(ctx, f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.FolderPath == nil || *got.FolderPath != "Z/B" {
		t.Errorf("file folder not rewritten: %v", got.FolderPath)
	}
}

func TestRenameFolderCascadeMultibyte(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	u := mustUser(t, 1013)

	// Prefix stripping must count characters, not bytes, or descendants of a
	// non-ASCII folder lose part of their suffix.
	kino := mustFolder(t, u.ID, "Кино", "")
	sub := mustFolder(t, u.ID, "B", kino.Path)
	f := mustFile(t, u.ID, "clip.mp4", strPtr(sub.Path))

	newPath, err := RenameFolderCascade(ctx, u.ID, "Кино", "Films")
	if err != nil {
		t.Fatal(err)
	}
	if newPath != "Films" {
		t.Fatalf("newPath = %q, want Films", newPath)
	}
	if _, err := GetFolder(ctx, u.ID, "Films/B"); err != nil {
		t.Error("descendant Films/B missing")
	}
	got, err := GetFileByID(ctx, f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.FolderPath == nil || *got.FolderPath != "Films/B" {
		t.Errorf("file folder not rewritten: %v", got.FolderPath)
	}
}

func TestRenameFolderDuplicateTarget(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	u := mustUser(t, 1006)

	mustFolder(t, u.ID, "A", "")
	mustFolder(t, u.ID, "Z", "")
	if _, err := RenameFolderCascade(ctx, u.ID, "A", "Z"); !errors.Is(err, ErrDuplicateFolder) {
		t.Fatalf("expected ErrDuplicateFolder, got %v", err)
	}
}

func TestRenameSubfolderKeepsParent(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	u := mustUser(t, 1007)

	mustFolder(t, u.ID, "A", "")
	mustFolder(t, u.ID, "B", "A")
	newPath, err := RenameFolderCascade(ctx, u.ID, "A/B", "C")
	if err != nil {
		t.Fatal(err)
	}
	if newPath != "A/C" {
		t.Fatalf("newPath = %q, want A/C", newPath)
	}
}

func TestRecursiveListingPrefixSemantics(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	u := mustUser(t, 1008)

	mustFolder(t, u.ID, "A", "")
	mustFile(t, u.ID, "top.txt", strPtr("A"))
	mustFile(t, u.ID, "mid.txt", strPtr("A/B"))
	// Deeper than the creation-time cap; still matched by the prefix read.
	mustFile(t, u.ID, "deep.txt", strPtr("A/B/C"))
	// Prefix match must not swallow sibling folders sharing a name prefix.
	mustFile(t, u.ID, "other.txt", strPtr("AB"))

	files, err := GetFilesInFolderRecursive(ctx, u.ID, "A")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(files))
	}
	exact, err := GetFilesInFolder(ctx, u.ID, "A")
	if err != nil {
		t.Fatal(err)
	}
	if len(exact) != 1 {
		t.Errorf("expected 1 exact file, got %d", len(exact))
	}
}

func TestFolderPassword(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	u := mustUser(t, 1009)
	folder := mustFolder(t, u.ID, "Secret", "")

	if err := VerifyFolderPassword(folder, "anything"); err != nil {
		t.Error("unprotected folder rejected a password")
	}
	if err := SetFolderPassword(ctx, folder, "hunter2"); err != nil {
		t.Fatal(err)
	}
	folder, err := GetFolder(ctx, u.ID, "Secret")
	if err != nil {
		t.Fatal(err)
	}
	if !folder.Protected() {
		t.Fatal("folder not protected after SetFolderPassword")
	}
	if folder.PasswordPlain == nil || *folder.PasswordPlain != "hunter2" {
		t.Error("owner reveal copy not stored")
	}
	if err := VerifyFolderPassword(folder, "wrong"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("wrong password accepted: %v", err)
	}
	if err := VerifyFolderPassword(folder, "hunter2"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := RemoveFolderPassword(ctx, folder); err != nil {
		t.Fatal(err)
	}
	folder, _ = GetFolder(ctx, u.ID, "Secret")
	if folder.Protected() {
		t.Error("folder still protected after RemoveFolderPassword")
	}
}

func TestFolderTokenRegeneration(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	u := mustUser(t, 1010)
	folder := mustFolder(t, u.ID, "Shared", "")

	t1, err := EnsureFolderToken(ctx, folder)
	if err != nil {
		t.Fatal(err)
	}
	if again, _ := EnsureFolderToken(ctx, folder); again != t1 {
		t.Error("EnsureFolderToken regenerated an existing token")
	}
	if got, err := GetFolderByToken(ctx, t1); err != nil || got.ID != folder.ID {
		t.Fatalf("token lookup failed: %v", err)
	}

	t2, err := RegenerateFolderToken(ctx, folder)
	if err != nil {
		t.Fatal(err)
	}
	if t2 == t1 {
		t.Fatal("regenerated token equals old token")
	}
	if _, err := GetFolderByToken(ctx, t1); err == nil {
		t.Error("old token still resolves")
	}
	if got, err := GetFolderByToken(ctx, t2); err != nil || got.ID != folder.ID {
		t.Errorf("new token does not resolve: %v", err)
	}
}

func TestAncestry(t *testing.T) {
	got := Ancestry("A/B")
	if len(got) != 2 || got[0] != "A" || got[1] != "A/B" {
		t.Errorf("Ancestry(A/B) = %v", got)
	}
	got = Ancestry("A")
	if len(got) != 1 || got[0] != "A" {
		t.Errorf("Ancestry(A) = %v", got)
	}
}
