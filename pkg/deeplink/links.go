package deeplink

import "fmt"

func startLink(botUsername, param string) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", botUsername, param)
}

// FileLink builds an owner link for one of the user's own files.
func FileLink(botUsername string, fileID uint) string {
	return startLink(botUsername, Encode(fmt.Sprintf("%s%d", prefixFile, fileID)))
}

// SharedFileLink builds a link that resolves a file across owners.
func SharedFileLink(botUsername string, ownerID int64, fileID uint) string {
	return startLink(botUsername, Encode(fmt.Sprintf("%s%d_%d", prefixSharedFile, ownerID, fileID)))
}

// FileTokenLink builds a link addressing a file by its secret token.
func FileTokenLink(botUsername, token string) string {
	return startLink(botUsername, Encode(prefixFileToken+token))
}

// FolderShareLink builds a link addressing a folder by owner and path. The
// path is base64-framed inside the payload so it may contain underscores.
func FolderShareLink(botUsername string, ownerID int64, path string) string {
	return startLink(botUsername, Encode(fmt.Sprintf("%s%d_%s", prefixSharedFolder, ownerID, Encode(path))))
}

// FolderTokenLink builds a link addressing a folder by its secret token.
// This framing is deliberately not base64: the token is opaque already.
func FolderTokenLink(botUsername, token string) string {
	return startLink(botUsername, prefixFolderToken+token)
}

// BatchLink builds a link referencing a batch manifest message.
func BatchLink(botUsername string, manifestMessageID int) string {
	return startLink(botUsername, prefixBatch+Encode(fmt.Sprintf("%s%d", prefixFile, manifestMessageID)))
}

// RestoreLink builds a link carrying a backup token for account transfer.
func RestoreLink(botUsername, token string) string {
	return startLink(botUsername, prefixRestore+Encode(token))
}
