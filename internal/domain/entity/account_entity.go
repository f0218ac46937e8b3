package entity

import (
	"time"
)

// DefaultRole is assigned to accounts created without an explicit role.
const DefaultRole = "user"

// Account is the aggregate root for the user directory.
// PasswordHash holds the bcrypt hash; Token is the last issued bearer token and is
// kept for reference only, verification never reads it.
//
// The JSON form is the raw record returned by the list endpoint.
type Account struct {
	ID           string    `json:"id"`
	FullName     *string   `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password"`
	Mobile       string    `json:"mobile"`
	Role         string    `json:"role"`
	Token        *string   `json:"token"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AccountPatch carries the profile fields an update may change. Nil means untouched.
type AccountPatch struct {
	FullName *string
	Email    *string
	Mobile   *string
}

// IsEmpty reports whether the patch changes nothing.
func (p AccountPatch) IsEmpty() bool {
	return p.FullName == nil && p.Email == nil && p.Mobile == nil
}

// Apply writes the non-nil patch fields onto a.
func (p AccountPatch) Apply(a *Account) {
	if p.FullName != nil {
		name := *p.FullName
		a.FullName = &name
	}
	if p.Email != nil {
		a.Email = *p.Email
	}
	if p.Mobile != nil {
		a.Mobile = *p.Mobile
	}
}

// ListFilter narrows List. A nil ID returns every account.
type ListFilter struct {
	ID *string
}
