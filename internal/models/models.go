// Package models defines the records held by the task board: users, their
// profiles, task categories and tasks.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account. PasswordHash is never serialized.
type User struct {
	// ID is the unique identifier for the user.
	ID int64 `json:"id"`
	// Username is the unique login name.
	Username string `json:"username"`
	// PasswordHash is the argon2id encoding of the user's password.
	PasswordHash string `json:"-"`
}

// Profile is the one-to-one extension of a User carrying the avatar.
type Profile struct {
	ID int64 `json:"id"`
	// UserID references the owning user and never changes after creation.
	UserID int64 `json:"user_profile"`
	// Img is the media-relative avatar path, e.g. "avatars/7.png".
	Img *string `json:"img"`
}

// Category is a shared, ownerless classification for tasks.
type Category struct {
	ID   int64  `json:"id"`
	Item string `json:"item"`
}

// Task is a unit of work. Owner is bound to the creating user;
// Responsible may be anyone.
type Task struct {
	ID            uuid.UUID
	Title         string
	Description   string
	Criteria      string
	Status        TaskStatus
	CategoryID    int64
	Estimate      int
	OwnerID       int64
	ResponsibleID int64
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Read-only values joined from related records.
	CategoryItem        string
	OwnerUsername       string
	ResponsibleUsername string
}
