package model

import (
	"time"
)

type User struct {
	ID       uint64 `gorm:"primaryKey"`
	Username string `gorm:"type:varchar(50);uniqueIndex:idx_username"`
	Password string `gorm:"type:varchar(255)"`
	Nickname string `gorm:"type:varchar(50)"`
	// PreferredLanguage 偏好语言（ISO-639-1 小写），发消息时实时读取，不做快照
	PreferredLanguage string `gorm:"type:varchar(8);not null;default:'en'"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (User) TableName() string {
	return "users"
}
