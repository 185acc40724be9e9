package database

import "context"

func CreateCloneBot(ctx context.Context, clone *CloneBot) error {
	return db.WithContext(ctx).Create(clone).Error
}

func GetAllCloneBots(ctx context.Context) ([]CloneBot, error) {
	var clones []CloneBot
	err := db.WithContext(ctx).Find(&clones).Error
	return clones, err
}

func GetCloneBotByOwner(ctx context.Context, ownerID int64) (*CloneBot, error) {
	var clone CloneBot
	err := db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&clone).Error
	if err != nil {
		return nil, err
	}
	return &clone, nil
}

func GetCloneBotByBotID(ctx context.Context, botID int64) (*CloneBot, error) {
	var clone CloneBot
	err := db.WithContext(ctx).Where("bot_id = ?", botID).First(&clone).Error
	if err != nil {
		return nil, err
	}
	return &clone, nil
}

func DeleteCloneBot(ctx context.Context, clone *CloneBot) error {
	return db.WithContext(ctx).Unscoped().Delete(clone).Error
}

func CountCloneBots(ctx context.Context) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&CloneBot{}).Count(&n).Error
	return n, err
}
