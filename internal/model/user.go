package model

import "time"

// Role values stored in users.role.  ADMIN accounts may manage any
// resource; USER accounts only their own.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User represents an application user record as stored in the `users`
// table.  The password hash never leaves the repository/service layers;
// handlers expose users through sanitized response types.
//
// Fields:
//  ID             – primary key identifier of the user.
//  Email          – unique, lowercased email address.
//  PasswordHash   – bcrypt hashed password.
//  FirstName      – given name shown on the profile.
//  LastName       – family name shown on the profile.
//  Role           – ADMIN or USER.
//  IsPrivate      – when true, following requires an accepted request.
//  ProfilePicture – URL of the uploaded avatar, empty when unset.
//  CreatedAt      – timestamp of creation.
//  UpdatedAt      – timestamp of last update.
type User struct {
	ID             uint64    // users.id
	Email          string    // users.email
	PasswordHash   string    // users.password_hash
	FirstName      string    // users.first_name
	LastName       string    // users.last_name
	Role           string    // users.role
	IsPrivate      bool      // users.is_private
	ProfilePicture string    // users.profile_picture
	CreatedAt      time.Time // users.created_at
	UpdatedAt      time.Time // users.updated_at
}
