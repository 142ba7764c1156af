package models

import "time"

type User struct {
	BaseModel
	Username      string `gorm:"uniqueIndex;not null"`
	Email         string `gorm:"uniqueIndex;not null"`
	FirstName     string
	LastName      string
	PasswordHash  string `gorm:"not null"`
	ResetToken    string
	ResetTokenExp *time.Time

	// Relations
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}
