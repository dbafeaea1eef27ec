// Package entity defines the domain entities for the auth feature.
package entity

// User is an admin account.
type User struct {
	// ID is an opaque 16 hex character identifier.
	ID string `gorm:"primaryKey;size:32"`

	// Email is stored trimmed and lower-cased. It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:254;not null"`

	// PasswordHash is the hex-encoded PBKDF2 key. Never a plaintext password.
	PasswordHash string `gorm:"size:128;not null"`

	// PasswordSalt is the hex-encoded random salt used for PasswordHash.
	PasswordSalt string `gorm:"size:64;not null"`

	// CreatedAt is the creation time in epoch seconds.
	CreatedAt int64 `gorm:"autoCreateTime:false;not null"`
}

// TableName pins the table name.
func (User) TableName() string { return "users" }
