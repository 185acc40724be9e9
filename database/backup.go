package database

import (
	"context"
	"errors"

	"github.com/hikarime/stashbot/pkg/secret"
	"gorm.io/gorm"
)

var (
	ErrNoBackupToken  = errors.New("no backup token")
	ErrBadBackupToken = errors.New("invalid backup token")
	ErrSameAccount    = errors.New("token belongs to this account")
)

// GenerateBackupToken issues a fresh one-shot transfer token for the user,
// replacing any previous one.
func GenerateBackupToken(ctx context.Context, user *User) (string, error) {
	token := secret.NewBackupToken(user.ChatID)
	_, random, _ := secret.ParseBackupToken(token)
	if err := db.WithContext(ctx).Model(user).Update("backup_token_random", random).Error; err != nil {
		return "", err
	}
	invalidateUser(user.ChatID)
	return token, nil
}

// CurrentBackupToken reconstructs the user's active token, if any.
func CurrentBackupToken(user *User) (string, error) {
	if user.BackupTokenRandom == nil {
		return "", ErrNoBackupToken
	}
	return secret.JoinBackupToken(user.ChatID, *user.BackupTokenRandom), nil
}

func RevokeBackupToken(ctx context.Context, user *User) error {
	defer invalidateUser(user.ChatID)
	return db.WithContext(ctx).Model(user).Update("backup_token_random", nil).Error
}

// RestoreFromToken transfers every folder and stored file from the token's
// owner to the presenting user and invalidates the token, all in one
// transaction. The owner embedded in the token must match the owner holding
// the random part, so a forged prefix cannot redirect someone else's store.
//
// Folders colliding with an existing path on the receiving side are merged:
// the incoming row is dropped and its files keep the shared path.
func RestoreFromToken(ctx context.Context, token string, to *User) (moved int64, err error) {
	ownerChatID, random, err := secret.ParseBackupToken(token)
	if err != nil {
		return 0, ErrBadBackupToken
	}
	if ownerChatID == to.ChatID {
		return 0, ErrSameAccount
	}
	owner, err := GetUserByChatID(ctx, ownerChatID)
	if err != nil {
		return 0, ErrBadBackupToken
	}
	if owner.BackupTokenRandom == nil || *owner.BackupTokenRandom != random {
		return 0, ErrBadBackupToken
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var theirPaths []string
		if err := tx.Model(&Folder{}).Where("user_id = ?", to.ID).Pluck("path", &theirPaths).Error; err != nil {
			return err
		}
		existing := make(map[string]struct{}, len(theirPaths))
		for _, p := range theirPaths {
			existing[p] = struct{}{}
		}

		var folders []Folder
		if err := tx.Where("user_id = ?", owner.ID).Find(&folders).Error; err != nil {
			return err
		}
		for _, f := range folders {
			if _, dup := existing[f.Path]; dup {
				if err := tx.Unscoped().Delete(&Folder{}, f.ID).Error; err != nil {
					return err
				}
				continue
			}
			if err := tx.Model(&Folder{}).Where("id = ?", f.ID).Update("user_id", to.ID).Error; err != nil {
				return err
			}
		}

		res := tx.Model(&StoredFile{}).Where("user_id = ?", owner.ID).Update("user_id", to.ID)
		if res.Error != nil {
			return res.Error
		}
		moved = res.RowsAffected

		return tx.Model(&User{}).Where("id = ?", owner.ID).Updates(map[string]any{
			"backup_token_random": nil,
			"selected_folder_id":  nil,
		}).Error
	})
	if err != nil {
		return 0, err
	}
	invalidateUser(owner.ChatID)
	invalidateUser(to.ChatID)
	return moved, nil
}
