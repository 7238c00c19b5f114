package domain

import "time"

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

type User struct {
	ID           string
	PhoneNumber  string
	Name         string
	Surname      string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// UserPatch enumerates the user fields a partial update may change.
// PasswordHash must already be hashed by the caller.
type UserPatch struct {
	Name         *string
	Surname      *string
	PasswordHash *string
}

func (p UserPatch) Apply(user *User) bool {
	changed := false
	if p.Name != nil && *p.Name != user.Name {
		user.Name = *p.Name
		changed = true
	}
	if p.Surname != nil && *p.Surname != user.Surname {
		user.Surname = *p.Surname
		changed = true
	}
	if p.PasswordHash != nil && *p.PasswordHash != user.PasswordHash {
		user.PasswordHash = *p.PasswordHash
		changed = true
	}
	return changed
}
