package database

import (
	"context"
	"fmt"
	"time"

	"github.com/hikarime/stashbot/common/cache"
)

const userCacheTTL = 300 * time.Second

func userCacheKey(chatID int64) string {
	return fmt.Sprintf("user:%d", chatID)
}

func invalidateUser(chatID int64) {
	cache.Del(userCacheKey(chatID))
}

// EnsureUser creates the user record on first contact and refreshes the
// stored first name on later ones.
func EnsureUser(ctx context.Context, chatID int64, firstName string) (*User, error) {
	user, err := GetUserByChatID(ctx, chatID)
	if err == nil {
		if firstName != "" && user.FirstName != firstName {
			user.FirstName = firstName
			if err := db.WithContext(ctx).Model(user).Update("first_name", firstName).Error; err != nil {
				return nil, err
			}
			invalidateUser(chatID)
		}
		return user, nil
	}
	user = &User{ChatID: chatID, FirstName: firstName, DeliveryMode: DeliverPM}
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func GetUserByChatID(ctx context.Context, chatID int64) (*User, error) {
	if u, ok := cache.Get[*User](userCacheKey(chatID)); ok {
		return u, nil
	}
	var user User
	err := db.WithContext(ctx).Where("chat_id = ?", chatID).First(&user).Error
	if err != nil {
		return nil, err
	}
	cache.SetWithTTL(userCacheKey(chatID), &user, userCacheTTL)
	return &user, nil
}

// GetUserByID resolves a user by record id. Shared-file access checks need
// the owner's chat id given only the file's UserID.
func GetUserByID(ctx context.Context, id uint) (*User, error) {
	var user User
	err := db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func GetAllUsers(ctx context.Context) ([]User, error) {
	var users []User
	err := db.WithContext(ctx).Find(&users).Error
	return users, err
}

func CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&User{}).Count(&n).Error
	return n, err
}

func SetDeliveryMode(ctx context.Context, user *User, mode string) error {
	if mode != DeliverPM && mode != DeliverChannel && mode != DeliverBoth {
		return fmt.Errorf("unknown delivery mode: %s", mode)
	}
	defer invalidateUser(user.ChatID)
	return db.WithContext(ctx).Model(user).Update("delivery_mode", mode).Error
}

func SetCaption(ctx context.Context, user *User, caption string) error {
	defer invalidateUser(user.ChatID)
	return db.WithContext(ctx).Model(user).Update("caption", caption).Error
}

func ClearCaption(ctx context.Context, user *User) error {
	defer invalidateUser(user.ChatID)
	return db.WithContext(ctx).Model(user).Update("caption", nil).Error
}

func SetSelectedFolder(ctx context.Context, user *User, folderID uint) error {
	defer invalidateUser(user.ChatID)
	return db.WithContext(ctx).Model(user).Update("selected_folder_id", folderID).Error
}

func ClearSelectedFolder(ctx context.Context, user *User) error {
	defer invalidateUser(user.ChatID)
	return db.WithContext(ctx).Model(user).Update("selected_folder_id", nil).Error
}

// SelectedFolder resolves the user's active folder, or nil when none is set
// or the folder no longer exists.
func SelectedFolder(ctx context.Context, user *User) (*Folder, error) {
	if user.SelectedFolderID == nil {
		return nil, nil
	}
	var folder Folder
	err := db.WithContext(ctx).Where("user_id = ?", user.ID).First(&folder, *user.SelectedFolderID).Error
	if err != nil {
		return nil, nil
	}
	return &folder, nil
}
