package database

import (
	"strings"

	"gorm.io/gorm"
)

// Delivery modes.
const (
	DeliverPM      = "pm"
	DeliverChannel = "channel"
	DeliverBoth    = "both"
)

type User struct {
	gorm.Model
	ChatID            int64 `gorm:"uniqueIndex;not null"`
	FirstName         string
	DeliveryMode      string `gorm:"default:pm"`
	Caption           *string
	SelectedFolderID  *uint
	BackupTokenRandom *string
	Folders           []Folder
	StoredFiles       []StoredFile
	Destinations      []Destination
	FilenameFilters   []FilenameFilter
}

// Folder is one virtual folder. Paths are flat strings; a subfolder's path
// is "Parent/Child" and nesting is capped at one level at creation time.
type Folder struct {
	gorm.Model
	UserID uint   `gorm:"uniqueIndex:idx_folders_user_path"`
	Path   string `gorm:"uniqueIndex:idx_folders_user_path"`
	// PasswordPlain keeps an owner-readable copy alongside the bcrypt hash
	// to serve the "view password" button. Scoped exception, not an
	// accident: file passwords use a separate plaintext-only mechanism.
	PasswordHash  *string
	PasswordPlain *string
	AccessToken   *string `gorm:"uniqueIndex"`
}

// DisplayName is the last path segment.
func (f *Folder) DisplayName() string {
	if i := strings.LastIndex(f.Path, "/"); i >= 0 {
		return f.Path[i+1:]
	}
	return f.Path
}

// IsRoot reports whether the folder is a top-level folder.
func (f *Folder) IsRoot() bool {
	return !strings.Contains(f.Path, "/")
}

// Protected reports whether the folder has a password set.
func (f *Folder) Protected() bool {
	return f.PasswordHash != nil
}

// StoredFile references one message in the log channel. The content itself
// is never duplicated; every delivery re-copies from that single message.
type StoredFile struct {
	gorm.Model
	UserID       uint `gorm:"index"`
	LogMessageID int  `gorm:"index"`
	FolderPath   *string
	FileName     string
	FileType     string
	Protected    bool
	Password     *string
	AccessToken  *string `gorm:"uniqueIndex"`
}

// Destination is a channel, group, or forum topic the user delivers to.
type Destination struct {
	gorm.Model
	UserID     uint `gorm:"index"`
	ChannelID  int64
	Type       string // channel | group
	TopicID    *int
	TopicName  string
	Enabled    bool `gorm:"default:true"`
	CachedName string
}

// FilenameFilter is either a literal substring to strip or an "old|new"
// replacement pair, applied to filenames on delivery.
type FilenameFilter struct {
	gorm.Model
	UserID  uint `gorm:"index"`
	Pattern string
}

type CloneBot struct {
	gorm.Model
	OwnerID  int64
	BotID    int64 `gorm:"uniqueIndex"`
	Username string
	Token    string
}
