package database

import (
	"context"
	"errors"

	"github.com/hikarime/stashbot/pkg/secret"
)

var ErrBadFilePassword = errors.New("file password must be 2 to 8 characters")

func CreateStoredFile(ctx context.Context, file *StoredFile) error {
	return db.WithContext(ctx).Create(file).Error
}

func GetFileByID(ctx context.Context, fileID uint) (*StoredFile, error) {
	var file StoredFile
	err := db.WithContext(ctx).First(&file, fileID).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// GetUserFileByID resolves a file only if it belongs to the user.
func GetUserFileByID(ctx context.Context, userID, fileID uint) (*StoredFile, error) {
	var file StoredFile
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&file, fileID).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// GetFileByLogMessageID resolves a file by its log-channel message id. Legacy
// links carry this id instead of the record id.
func GetFileByLogMessageID(ctx context.Context, logMessageID int) (*StoredFile, error) {
	var file StoredFile
	err := db.WithContext(ctx).Where("log_message_id = ?", logMessageID).First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// GetUserFiles lists the user's files, newest first, paginated.
func GetUserFiles(ctx context.Context, userID uint, offset, limit int) ([]StoredFile, error) {
	var files []StoredFile
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&files).Error
	return files, err
}

// GetRecentFiles returns the user's n most recent files.
func GetRecentFiles(ctx context.Context, userID uint, n int) ([]StoredFile, error) {
	return GetUserFiles(ctx, userID, 0, n)
}

// GetFilesInFolder lists files filed exactly under a path.
func GetFilesInFolder(ctx context.Context, userID uint, path string) ([]StoredFile, error) {
	var files []StoredFile
	err := db.WithContext(ctx).
		Where("user_id = ? AND folder_path = ?", userID, path).
		Order("id").
		Find(&files).Error
	return files, err
}

// GetFilesInFolderRecursive lists files filed under a path or any deeper
// path sharing its prefix. The prefix match is deliberately not depth-capped:
// data deeper than the creation-time nesting limit still resolves.
func GetFilesInFolderRecursive(ctx context.Context, userID uint, path string) ([]StoredFile, error) {
	var files []StoredFile
	err := db.WithContext(ctx).
		Where(`user_id = ? AND (folder_path = ? OR folder_path LIKE ? ESCAPE '\')`,
			userID, path, likePrefix(path)+"/%").
		Order("id").
		Find(&files).Error
	return files, err
}

// GetUnorganizedFiles lists files with no folder assignment.
func GetUnorganizedFiles(ctx context.Context, userID uint) ([]StoredFile, error) {
	var files []StoredFile
	err := db.WithContext(ctx).
		Where("user_id = ? AND folder_path IS NULL", userID).
		Order("id").
		Find(&files).Error
	return files, err
}

func CountUserFiles(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&StoredFile{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func CountStoredFiles(ctx context.Context) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&StoredFile{}).Count(&n).Error
	return n, err
}

// MoveFile reassigns a file to a folder path; empty path unfiles it.
func MoveFile(ctx context.Context, file *StoredFile, path string) error {
	if path == "" {
		return db.WithContext(ctx).Model(file).Update("folder_path", nil).Error
	}
	return db.WithContext(ctx).Model(file).Update("folder_path", path).Error
}

// DeleteFile removes the database record. The log-channel copy stays; links
// already handed out simply stop resolving.
func DeleteFile(ctx context.Context, file *StoredFile) error {
	return db.WithContext(ctx).Unscoped().Delete(file).Error
}

func SetFileProtected(ctx context.Context, file *StoredFile, protected bool) error {
	return db.WithContext(ctx).Model(file).Update("protected", protected).Error
}

// SetFilePassword stores a short plaintext password on the file.
func SetFilePassword(ctx context.Context, file *StoredFile, password string) error {
	if len(password) < 2 || len(password) > 8 {
		return ErrBadFilePassword
	}
	return db.WithContext(ctx).Model(file).Update("password", password).Error
}

func RemoveFilePassword(ctx context.Context, file *StoredFile) error {
	return db.WithContext(ctx).Model(file).Update("password", nil).Error
}

// VerifyFilePassword checks a password attempt. Unprotected files accept
// anything.
func VerifyFilePassword(file *StoredFile, attempt string) error {
	if file.Password == nil {
		return nil
	}
	if *file.Password != attempt {
		return ErrWrongPassword
	}
	return nil
}

func EnsureFileToken(ctx context.Context, file *StoredFile) (string, error) {
	if file.AccessToken != nil {
		return *file.AccessToken, nil
	}
	return RegenerateFileToken(ctx, file)
}

// RegenerateFileToken replaces the file's access token, invalidating the old
// one immediately.
func RegenerateFileToken(ctx context.Context, file *StoredFile) (string, error) {
	token := secret.AccessToken()
	if err := db.WithContext(ctx).Model(file).Update("access_token", token).Error; err != nil {
		return "", err
	}
	file.AccessToken = &token
	return token, nil
}

func GetFileByToken(ctx context.Context, token string) (*StoredFile, error) {
	var file StoredFile
	err := db.WithContext(ctx).Where("access_token = ?", token).First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}
