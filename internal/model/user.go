package model

import (
	"time"
)

// User represents a registered account. The email doubles as the JWT subject.
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"type:varchar(16);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(250);uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, never serialized
	Avatar       string    `gorm:"type:varchar(255)" json:"avatar,omitempty"`
	RefreshToken string    `gorm:"type:varchar(512)" json:"-"` // latest issued refresh token, empty when revoked
	IsVerified   bool      `gorm:"default:false" json:"is_verified"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	Contacts []Contact `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
