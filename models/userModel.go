package models

import (
	"time"

	"gorm.io/datatypes"
)

type Role string

const (
	RoleUser   Role = "user"
	RoleVendor Role = "vendor"
	RoleAdmin  Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

type UserMetadata struct {
	FullName string `json:"full_name"`
}

// User is an authenticable identity. Its JSON form is also the persisted session blob.
type User struct {
	ID        string                           `json:"id" gorm:"primaryKey;size:64"`
	Email     string                           `json:"email" gorm:"uniqueIndex;size:255"`
	Password  string                           `json:"password"`
	Metadata  datatypes.JSONType[UserMetadata] `json:"user_metadata"`
	Role      Role                             `json:"role" gorm:"size:16"`
	CreatedAt time.Time                        `json:"-"`
}

func (u User) GetID() string { return u.ID }

func (u User) FullName() string { return u.Metadata.Data().FullName }

// PublicUser is the identity as shown to clients, without the password.
type PublicUser struct {
	ID       string       `json:"id"`
	Email    string       `json:"email"`
	Metadata UserMetadata `json:"user_metadata"`
	Role     Role         `json:"role"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Metadata: u.Metadata.Data(), Role: u.Role}
}

// Profile holds the display and contact attributes of a User, one-to-one by ID.
type Profile struct {
	ID         string `json:"id" gorm:"primaryKey;size:64"`
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Role       Role   `json:"role" gorm:"size:16"`
	PostalCode string `json:"postal_code,omitempty"`
	City       string `json:"city,omitempty"`
}

func (p Profile) GetID() string { return p.ID }

type LoginData struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	From     string `json:"from"`
}

type SignupData struct {
	FullName        string `json:"fullName" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	Role            Role   `json:"role" binding:"omitempty,oneof=user vendor"`
	PostalCode      string `json:"postalCode"`
	City            string `json:"city"`
}
