package entity

import "time"

// ApiToken backs the token auth mode. Tokens are opaque strings issued by the
// external identity layer; the engine only checks presence and revocation.
type ApiToken struct {
	EntityID  uint      `gorm:"column:entity_id;primaryKey;autoIncrement"`
	UserID    *uint     `gorm:"column:user_id"`
	Type      string    `gorm:"column:type;type:varchar(16);not null"`
	Token     string    `gorm:"column:token;type:varchar(64);not null;uniqueIndex"`
	Revoked   uint16    `gorm:"column:revoked;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ApiToken) TableName() string {
	return "api_token"
}
