// Package model defines domain entities for the application.
package model

import "time"

// User is a registered account. Username and ID never change after creation.
type User struct {
	ID           string    `json:"user_id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never serialize
	CreatedAt    time.Time `json:"created_at"`
}

// UserResponse is the public view of a user (no credential material).
type UserResponse struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	UserID   string `json:"user_id"`
}

// ToResponse converts a User to its public view.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		Email:    u.Email,
		Username: u.Username,
		UserID:   u.ID,
	}
}
