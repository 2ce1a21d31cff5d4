package domain

import "time"

type ActionType string

const (
	ActionView     ActionType = "VIEW"
	ActionFavorite ActionType = "FAVORITE"
)

// UserInteraction keeps the latest time a user took an action on a policy.
// (user_id, policy_id, action_type) is unique; repeating the action moves ActionTime.
type UserInteraction struct {
	ID         uint64     `gorm:"primaryKey;autoIncrement"`
	UserID     uint       `gorm:"column:user_id;not null;uniqueIndex:idx_user_policy_action;index:idx_user_action_time,priority:1"`
	PolicyID   string     `gorm:"column:policy_id;type:varchar(64);not null;uniqueIndex:idx_user_policy_action"`
	ActionType ActionType `gorm:"column:action_type;type:varchar(16);not null;uniqueIndex:idx_user_policy_action"`
	ActionTime time.Time  `gorm:"column:action_time;not null;index:idx_user_action_time,priority:2"`
}

func (UserInteraction) TableName() string {
	return "user_interactions"
}

// FavoritePolicy outlives the policy it points at; Title is captured when the favorite is made.
type FavoritePolicy struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    uint      `gorm:"column:user_id;not null;uniqueIndex:idx_user_favorite_policy"`
	PolicyID  string    `gorm:"column:policy_id;type:varchar(64);not null;uniqueIndex:idx_user_favorite_policy;index"`
	Title     string    `gorm:"column:title;type:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (FavoritePolicy) TableName() string {
	return "favorite_policies"
}

type ViewPolicy struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	PolicyID  string `gorm:"column:policy_id;type:varchar(64);not null;uniqueIndex"`
	ViewCount int64  `gorm:"column:view_count;not null;default:0"`
}

func (ViewPolicy) TableName() string {
	return "view_policies"
}
