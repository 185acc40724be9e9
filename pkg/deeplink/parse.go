package deeplink

import (
	"strconv"
	"strings"
)

// Start-parameter framings, checked in order by Parse.
const (
	prefixVerify      = "verify-"
	prefixRestore     = "restore_"
	prefixFolderToken = "folder_"
	prefixBatch       = "BATCH-"
)

// Decoded payload prefixes.
const (
	prefixSharedFolder = "folder_"
	prefixFileToken    = "ft_"
	prefixSharedFile   = "sharedfile_"
	prefixFile         = "file_"
)

// Payload is one parsed start-parameter variant.
type Payload interface{ payload() }

// VerifyPayload is an identity-verification callback for a user.
type VerifyPayload struct {
	UserID int64
	Token  string
}

// RestorePayload carries a backup token presented for cross-account transfer.
type RestorePayload struct {
	Token string
}

// FolderTokenPayload addresses a folder by its secret access token.
type FolderTokenPayload struct {
	Token string
}

// SharedFolderPayload addresses a folder by owner id and path.
type SharedFolderPayload struct {
	OwnerID int64
	Path    string
}

// FileTokenPayload addresses a file by its secret access token.
type FileTokenPayload struct {
	Token string
}

// SharedFilePayload addresses another user's file by owner id and file id.
type SharedFilePayload struct {
	OwnerID int64
	FileID  uint
}

// FilePayload addresses one of the requester's own files by id.
type FilePayload struct {
	FileID uint
}

// LegacyFilePayload is the old single-file framing: an arbitrary prefix
// followed by the log-channel message id.
type LegacyFilePayload struct {
	Prefix    string
	MessageID int
}

// BatchPayload references a JSON manifest stored as a log-channel message.
type BatchPayload struct {
	ManifestMessageID int
}

func (VerifyPayload) payload()       {}
func (RestorePayload) payload()      {}
func (FolderTokenPayload) payload()  {}
func (SharedFolderPayload) payload() {}
func (FileTokenPayload) payload()    {}
func (SharedFilePayload) payload()   {}
func (FilePayload) payload()         {}
func (LegacyFilePayload) payload()   {}
func (BatchPayload) payload()        {}

// Parse dispatches a raw start parameter to its payload variant.
//
// Bare framings (verify-, restore_, folder_, BATCH-) are matched on the raw
// string first; anything else must be a base64 payload. A parameter that
// decodes but matches no known shape is a DecodeError, not a legacy file
// reference: legacy references require a numeric id after the last underscore.
func Parse(param string) (Payload, error) {
	switch {
	case strings.HasPrefix(param, prefixVerify):
		rest := strings.TrimPrefix(param, prefixVerify)
		uidStr, token, ok := strings.Cut(rest, "-")
		if !ok {
			return nil, &DecodeError{Input: param}
		}
		uid, err := strconv.ParseInt(uidStr, 10, 64)
		if err != nil {
			return nil, &DecodeError{Input: param, Err: err}
		}
		return VerifyPayload{UserID: uid, Token: token}, nil

	case strings.HasPrefix(param, prefixRestore):
		token, err := Decode(strings.TrimPrefix(param, prefixRestore))
		if err != nil {
			return nil, err
		}
		return RestorePayload{Token: token}, nil

	case strings.HasPrefix(param, prefixBatch):
		decoded, err := Decode(strings.TrimPrefix(param, prefixBatch))
		if err != nil {
			return nil, err
		}
		msgIDStr, ok := strings.CutPrefix(decoded, prefixFile)
		if !ok {
			return nil, &DecodeError{Input: param}
		}
		msgID, err := strconv.Atoi(msgIDStr)
		if err != nil {
			return nil, &DecodeError{Input: param, Err: err}
		}
		return BatchPayload{ManifestMessageID: msgID}, nil

	case strings.HasPrefix(param, prefixFolderToken):
		return FolderTokenPayload{Token: strings.TrimPrefix(param, prefixFolderToken)}, nil
	}

	decoded, err := Decode(param)
	if err != nil {
		return nil, err
	}
	return parseDecoded(param, decoded)
}

func parseDecoded(param, decoded string) (Payload, error) {
	switch {
	case strings.HasPrefix(decoded, prefixSharedFolder):
		rest := strings.TrimPrefix(decoded, prefixSharedFolder)
		ownerStr, encodedPath, ok := strings.Cut(rest, "_")
		if !ok {
			return nil, &DecodeError{Input: param}
		}
		owner, err := strconv.ParseInt(ownerStr, 10, 64)
		if err != nil {
			return nil, &DecodeError{Input: param, Err: err}
		}
		path, err := Decode(encodedPath)
		if err != nil {
			return nil, err
		}
		return SharedFolderPayload{OwnerID: owner, Path: path}, nil

	case strings.HasPrefix(decoded, prefixFileToken):
		return FileTokenPayload{Token: strings.TrimPrefix(decoded, prefixFileToken)}, nil

	case strings.HasPrefix(decoded, prefixSharedFile):
		rest := strings.TrimPrefix(decoded, prefixSharedFile)
		ownerStr, idStr, ok := strings.Cut(rest, "_")
		if !ok {
			return nil, &DecodeError{Input: param}
		}
		owner, err := strconv.ParseInt(ownerStr, 10, 64)
		if err != nil {
			return nil, &DecodeError{Input: param, Err: err}
		}
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			return nil, &DecodeError{Input: param, Err: err}
		}
		return SharedFilePayload{OwnerID: owner, FileID: uint(id)}, nil

	case strings.HasPrefix(decoded, prefixFile):
		idStr := strings.TrimPrefix(decoded, prefixFile)
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			return nil, &DecodeError{Input: param, Err: err}
		}
		return FilePayload{FileID: uint(id)}, nil
	}

	// Legacy framing: <prefix>_<logChannelMessageID>.
	if i := strings.LastIndex(decoded, "_"); i > 0 {
		msgID, err := strconv.Atoi(decoded[i+1:])
		if err == nil {
			return LegacyFilePayload{Prefix: decoded[:i], MessageID: msgID}, nil
		}
	}
	return nil, &DecodeError{Input: param}
}
