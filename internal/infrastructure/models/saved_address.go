package models

import "time"

type SavedAddress struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    string    `gorm:"type:varchar(255);not null;index:idx_saved_addresses_user_id;uniqueIndex:idx_saved_addresses_triple,priority:1"`
	Address   string    `gorm:"type:varchar(255);not null;index:idx_saved_addresses_address;uniqueIndex:idx_saved_addresses_triple,priority:2"`
	Provider  string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_saved_addresses_triple,priority:3"`
	CreatedAt time.Time `gorm:"not null"`

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

func (SavedAddress) TableName() string {
	return "saved_addresses"
}
