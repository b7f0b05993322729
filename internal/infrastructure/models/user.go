package models

import "time"

type User struct {
	ID        string `gorm:"type:varchar(255);primaryKey"`
	Email     string `gorm:"type:varchar(255);uniqueIndex:idx_users_email;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}
