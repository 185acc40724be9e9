// Package cbdata defines the typed payloads behind inline-keyboard buttons.
// Telegram limits callback data to 64 bytes, so payloads are cached under a
// short random id and the button carries "<type> <id>".
package cbdata

// Callback data type prefixes, used for dispatcher routing.
const (
	TypeFolderBrowse = "fldbrowse"
	TypeFolderAction = "fldact"
	TypeFileAction   = "fileact"
	TypeFileMove     = "filemove"
	TypeDest         = "dest"
	TypeBatch        = "batch"
	TypeShared       = "shared"
	TypeSharedFile   = "shfile"
)

// FolderBrowse pages through the owner's folder browser. FolderID 0 is the
// root listing.
type FolderBrowse struct {
	FolderID uint
	Page     int
}

// FolderAction is one button in a folder edit menu.
// Actions: share, newlink, rename, delete, pwset, pwview, pwdel, getall, sub.
type FolderAction struct {
	Action   string
	FolderID uint
}

// FileAction is one button in a file menu.
// Actions: share, newlink, pwset, pwdel, protect, move, delete, send.
type FileAction struct {
	Action string
	FileID uint
}

// FileMove assigns a file to a folder. FolderID 0 clears the assignment.
type FileMove struct {
	FileID   uint
	FolderID uint
}

// Dest is one button in the destination management menu.
// Actions: detail, toggle, remove, topic, back.
type Dest struct {
	Action string
	DestID uint
}

// Item references one copyable message in a channel.
type Item struct {
	ChatID    int64 `json:"channel_id"`
	MessageID int   `json:"msg_id"`
}

// Batch starts a sequential multi-file send. Only the requester may press
// the button.
type Batch struct {
	RequesterID int64
	Items       []Item
	Label       string
}

// Shared drives a visitor's view of someone else's folder.
// Actions: open, page, getall.
type Shared struct {
	Action  string
	OwnerID int64
	Path    string
	Page    int
}

// SharedFile fetches one file from someone else's store.
type SharedFile struct {
	OwnerID int64
	FileID  uint
}
