package database

import (
	"context"
	"errors"
	"strings"

	"github.com/hikarime/stashbot/pkg/secret"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrDuplicateFolder = errors.New("folder already exists")
	ErrInvalidName     = errors.New("invalid folder name")
	ErrNestingTooDeep  = errors.New("subfolders cannot have subfolders")
	ErrWrongPassword   = errors.New("wrong password")
)

// CreateFolder creates a folder for the user. A non-empty parent creates a
// subfolder; the parent must be a root folder, capping nesting at one level.
// Embedded slashes are rejected so a plain name can never nest accidentally.
func CreateFolder(ctx context.Context, userID uint, name, parent string) (*Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, "/") {
		return nil, ErrInvalidName
	}
	path := name
	if parent != "" {
		if strings.Contains(parent, "/") {
			return nil, ErrNestingTooDeep
		}
		if _, err := GetFolder(ctx, userID, parent); err != nil {
			return nil, err
		}
		path = parent + "/" + name
	}
	if _, err := GetFolder(ctx, userID, path); err == nil {
		return nil, ErrDuplicateFolder
	}
	folder := &Folder{UserID: userID, Path: path}
	if err := db.WithContext(ctx).Create(folder).Error; err != nil {
		return nil, err
	}
	return folder, nil
}

func GetFolder(ctx context.Context, userID uint, path string) (*Folder, error) {
	var folder Folder
	err := db.WithContext(ctx).Where("user_id = ? AND path = ?", userID, path).First(&folder).Error
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func GetFolderByID(ctx context.Context, userID, folderID uint) (*Folder, error) {
	var folder Folder
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&folder, folderID).Error
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// GetUserFolders lists every folder the user has, ordered by path.
func GetUserFolders(ctx context.Context, userID uint) ([]Folder, error) {
	var folders []Folder
	err := db.WithContext(ctx).Where("user_id = ?", userID).Order("path").Find(&folders).Error
	return folders, err
}

// GetRootFolders lists the user's top-level folders.
func GetRootFolders(ctx context.Context, userID uint) ([]Folder, error) {
	var folders []Folder
	err := db.WithContext(ctx).
		Where("user_id = ? AND path NOT LIKE ?", userID, "%/%").
		Order("path").
		Find(&folders).Error
	return folders, err
}

// GetSubfolders lists direct children of a folder.
func GetSubfolders(ctx context.Context, userID uint, parent string) ([]Folder, error) {
	var folders []Folder
	err := db.WithContext(ctx).
		Where(`user_id = ? AND path LIKE ? ESCAPE '\' AND path NOT LIKE ? ESCAPE '\'`,
			userID, likePrefix(parent)+"/%", likePrefix(parent)+"/%/%").
		Order("path").
		Find(&folders).Error
	return folders, err
}

// likePrefix escapes LIKE metacharacters in a literal path prefix.
func likePrefix(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}

// DeleteFolderCascade removes a folder and its whole subtree. Files under any
// removed path are kept but unfiled, and a selected folder pointing into the
// subtree is cleared. All of it runs in one transaction.
func DeleteFolderCascade(ctx context.Context, userID uint, path string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&Folder{}).
			Where(`user_id = ? AND (path = ? OR path LIKE ? ESCAPE '\')`, userID, path, likePrefix(path)+"/%").
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Model(&StoredFile{}).
			Where(`user_id = ? AND (folder_path = ? OR folder_path LIKE ? ESCAPE '\')`, userID, path, likePrefix(path)+"/%").
			Update("folder_path", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&User{}).
			Where("id = ? AND selected_folder_id IN ?", userID, ids).
			Update("selected_folder_id", nil).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&Folder{}, ids).Error
	})
}

// RenameFolderCascade rewrites a folder's path and the path prefix of every
// descendant folder and file. Folder ids are stable, so a selected folder
// inside the subtree keeps pointing at the right record.
func RenameFolderCascade(ctx context.Context, userID uint, oldPath, newName string) (string, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" || strings.Contains(newName, "/") {
		return "", ErrInvalidName
	}
	newPath := newName
	if i := strings.LastIndex(oldPath, "/"); i >= 0 {
		newPath = oldPath[:i+1] + newName
	}
	if newPath == oldPath {
		return newPath, nil
	}
	if _, err := GetFolder(ctx, userID, newPath); err == nil {
		return "", ErrDuplicateFolder
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Folder{}).
			Where("user_id = ? AND path = ?", userID, oldPath).
			Update("path", newPath)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Model(&Folder{}).
			Where(`user_id = ? AND path LIKE ? ESCAPE '\'`, userID, likePrefix(oldPath)+"/%").
			Update("path", gorm.Expr("? || substr(path, length(?) + 1)", newPath, oldPath)).Error; err != nil {
			return err
		}
		if err := tx.Model(&StoredFile{}).
			Where("user_id = ? AND folder_path = ?", userID, oldPath).
			Update("folder_path", newPath).Error; err != nil {
			return err
		}
		return tx.Model(&StoredFile{}).
			Where(`user_id = ? AND folder_path LIKE ? ESCAPE '\'`, userID, likePrefix(oldPath)+"/%").
			Update("folder_path", gorm.Expr("? || substr(folder_path, length(?) + 1)", newPath, oldPath)).Error
	})
	if err != nil {
		return "", err
	}
	return newPath, nil
}

// SetFolderPassword hashes and stores the password, keeping a plaintext copy
// for the owner-only reveal.
func SetFolderPassword(ctx context.Context, folder *Folder, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hashStr := string(hash)
	return db.WithContext(ctx).Model(folder).Updates(map[string]any{
		"password_hash":  hashStr,
		"password_plain": password,
	}).Error
}

func RemoveFolderPassword(ctx context.Context, folder *Folder) error {
	return db.WithContext(ctx).Model(folder).Updates(map[string]any{
		"password_hash":  nil,
		"password_plain": nil,
	}).Error
}

// VerifyFolderPassword checks a password attempt against the stored hash.
// An unprotected folder accepts anything.
func VerifyFolderPassword(folder *Folder, attempt string) error {
	if folder.PasswordHash == nil {
		return nil
	}
	if bcrypt.CompareHashAndPassword([]byte(*folder.PasswordHash), []byte(attempt)) != nil {
		return ErrWrongPassword
	}
	return nil
}

// EnsureFolderToken returns the folder's access token, generating one on
// first use.
func EnsureFolderToken(ctx context.Context, folder *Folder) (string, error) {
	if folder.AccessToken != nil {
		return *folder.AccessToken, nil
	}
	return RegenerateFolderToken(ctx, folder)
}

// RegenerateFolderToken replaces the folder's access token. The old token
// stops resolving immediately.
func RegenerateFolderToken(ctx context.Context, folder *Folder) (string, error) {
	token := secret.AccessToken()
	if err := db.WithContext(ctx).Model(folder).Update("access_token", token).Error; err != nil {
		return "", err
	}
	folder.AccessToken = &token
	return token, nil
}

func GetFolderByToken(ctx context.Context, token string) (*Folder, error) {
	var folder Folder
	err := db.WithContext(ctx).Where("access_token = ?", token).First(&folder).Error
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// Ancestry returns every ancestor path of a folder path, outermost first,
// the path itself included. Protection is checked per exact path, so a deep
// link visitor is gated on each protected level separately.
func Ancestry(path string) []string {
	parts := strings.Split(path, "/")
	out := make([]string, 0, len(parts))
	for i := range parts {
		out = append(out, strings.Join(parts[:i+1], "/"))
	}
	return out
}
