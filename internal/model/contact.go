package model

import (
	"time"
)

// Contact is a single address-book entry. Every contact belongs to exactly
// one user; all queries must be scoped by UserID.
type Contact struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName      string    `gorm:"type:varchar(255);index" json:"first_name"`
	LastName       string    `gorm:"type:varchar(255);index" json:"last_name"`
	Email          string    `gorm:"type:varchar(250);index" json:"email"`
	PhoneNumber    string    `gorm:"type:varchar(50)" json:"phone_number"`
	Birthday       time.Time `gorm:"type:date" json:"birthday"`
	AdditionalInfo string    `gorm:"type:text" json:"additional_info,omitempty"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
