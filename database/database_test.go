package database

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// setupTestDB points the package at a fresh in-memory database.
func setupTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBSeq.Add(1))
	var err error
	db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %s", err)
	}
	if err := migrate(); err != nil {
		t.Fatalf("migrate test database: %s", err)
	}
}

func mustUser(t *testing.T, chatID int64) *User {
	t.Helper()
	u, err := EnsureUser(context.Background(), chatID, "tester")
	if err != nil {
		t.Fatalf("create user: %s", err)
	}
	return u
}

func mustFolder(t *testing.T, userID uint, name, parent string) *Folder {
	t.Helper()
	f, err := CreateFolder(context.Background(), userID, name, parent)
	if err != nil {
		t.Fatalf("create folder %q (parent %q): %s", name, parent, err)
	}
	return f
}

func mustFile(t *testing.T, userID uint, name string, folder *string) *StoredFile {
	t.Helper()
	f := &StoredFile{
		UserID:       userID,
		LogMessageID: int(testDBSeq.Add(1)),
		FolderPath:   folder,
		FileName:     name,
		FileType:     "document",
	}
	if err := CreateStoredFile(context.Background(), f); err != nil {
		t.Fatalf("create file: %s", err)
	}
	return f
}

func strPtr(s string) *string { return &s }
