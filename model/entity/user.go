package entity

import "time"

// User is the identity collaborator's record. The engine treats usernames as
// opaque initiated-by references; warehouses point at a manager user.
type User struct {
	UserID    uint      `gorm:"column:user_id;primaryKey;autoIncrement"`
	Username  string    `gorm:"column:username;type:varchar(40);not null;uniqueIndex"`
	Email     *string   `gorm:"column:email;type:varchar(128)"`
	IsActive  int16     `gorm:"column:is_active;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "user"
}
