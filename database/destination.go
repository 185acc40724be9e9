package database

import "context"

func CreateDestination(ctx context.Context, dest *Destination) error {
	return db.WithContext(ctx).Create(dest).Error
}

func GetUserDestinations(ctx context.Context, userID uint) ([]Destination, error) {
	var dests []Destination
	err := db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&dests).Error
	return dests, err
}

// GetEnabledDestinations lists the destinations the delivery router fans out
// to for channel and both modes.
func GetEnabledDestinations(ctx context.Context, userID uint) ([]Destination, error) {
	var dests []Destination
	err := db.WithContext(ctx).
		Where("user_id = ? AND enabled = ?", userID, true).
		Order("id").
		Find(&dests).Error
	return dests, err
}

func GetDestinationByID(ctx context.Context, userID, destID uint) (*Destination, error) {
	var dest Destination
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&dest, destID).Error
	if err != nil {
		return nil, err
	}
	return &dest, nil
}

func ToggleDestination(ctx context.Context, dest *Destination) error {
	dest.Enabled = !dest.Enabled
	return db.WithContext(ctx).Model(dest).Update("enabled", dest.Enabled).Error
}

func DeleteDestination(ctx context.Context, dest *Destination) error {
	return db.WithContext(ctx).Unscoped().Delete(dest).Error
}

func SetDestinationTopic(ctx context.Context, dest *Destination, topicID int, topicName string) error {
	return db.WithContext(ctx).Model(dest).Updates(map[string]any{
		"topic_id":   topicID,
		"topic_name": topicName,
	}).Error
}

func SetDestinationCachedName(ctx context.Context, dest *Destination, name string) error {
	return db.WithContext(ctx).Model(dest).Update("cached_name", name).Error
}
