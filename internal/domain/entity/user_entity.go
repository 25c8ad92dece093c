package entity

import (
	"time"
)

// User is the aggregate root for user domain
// Passwords are stored as bcrypt hashes in Password field.
// A non-nil DeletedAt marks a soft-deleted row that normal lookups skip.
type User struct {
	ID        string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      Role
	TermsID   *string
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SafeUser is the outward representation of a user: no credential, no delete marker.
type SafeUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      Role      `json:"role"`
	TermsID   *string   `json:"termsId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Sanitize strips sensitive fields before the user leaves the service boundary.
func (u *User) Sanitize() SafeUser {
	var terms *string
	if u.TermsID != nil {
		id := *u.TermsID
		terms = &id
	}
	return SafeUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		TermsID:   terms,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Identity is the verified caller of a request, decoded from its bearer token.
type Identity struct {
	ID      string
	Email   string
	TermsID *string
	Role    Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanManage reports whether the caller may modify the user with the given id.
func (i Identity) CanManage(userID string) bool {
	return i.IsAdmin() || (i.ID != "" && i.ID == userID)
}
