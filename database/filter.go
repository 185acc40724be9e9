package database

import "context"

func AddFilenameFilter(ctx context.Context, userID uint, pattern string) error {
	return db.WithContext(ctx).Create(&FilenameFilter{UserID: userID, Pattern: pattern}).Error
}

func GetUserFilters(ctx context.Context, userID uint) ([]FilenameFilter, error) {
	var filters []FilenameFilter
	err := db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&filters).Error
	return filters, err
}

func DeleteFilter(ctx context.Context, userID, filterID uint) error {
	return db.WithContext(ctx).Unscoped().
		Where("user_id = ?", userID).
		Delete(&FilenameFilter{}, filterID).Error
}

func ClearFilters(ctx context.Context, userID uint) error {
	return db.WithContext(ctx).Unscoped().
		Where("user_id = ?", userID).
		Delete(&FilenameFilter{}).Error
}
