// user.go - Defines the User model for the database

package models

// User is an identity and credential holder.
type User struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Email          string `gorm:"uniqueIndex;not null" json:"email"`
	HashedPassword string `gorm:"not null" json:"-"` // bcrypt hash, never serialised
}
