package users

import (
	"time"

	"tour-backoffice/internal/domain/access"
)

type User struct {
	ID       string      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email    string      `gorm:"not null;uniqueIndex:idx_users_email" json:"email"`
	Name     string      `gorm:"not null" json:"name"`
	Password string      `gorm:"not null" json:"-"`
	Role     access.Role `gorm:"type:varchar(16);not null;default:'STAFF';index" json:"role"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Ref is the public projection of a user embedded in other resources.
type Ref struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (u *User) Ref() *Ref {
	if u == nil || u.ID == "" {
		return nil
	}
	return &Ref{ID: u.ID, Email: u.Email, Name: u.Name}
}
