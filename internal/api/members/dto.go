package members

import (
	"time"

	"tour-backoffice/internal/domain/members"
	"tour-backoffice/internal/domain/users"
)

// MaxDocuments bounds the documents attached in one request.
const MaxDocuments = 10

// LoginRequest asks for a MEMBER login account created with the member.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type CreateRequest struct {
	Name      string             `json:"name" binding:"required,max=200"`
	MobileNo  string             `json:"mobileNo" binding:"max=32"`
	Address   string             `json:"address" binding:"max=1000"`
	Documents []members.Document `json:"documents" binding:"max=10,dive"`
	Extra     map[string]any     `json:"extra"`
	UserID    *string            `json:"userId" binding:"omitempty,uuid"`
	Login     *LoginRequest      `json:"login"`
}

// UpdateRequest uses pointers so absent fields stay unchanged. Documents
// are appended unless ReplaceDocuments is set.
type UpdateRequest struct {
	Name             *string            `json:"name" binding:"omitempty,min=1,max=200"`
	MobileNo         *string            `json:"mobileNo" binding:"omitempty,max=32"`
	Address          *string            `json:"address" binding:"omitempty,max=1000"`
	Documents        []members.Document `json:"documents" binding:"max=10,dive"`
	ReplaceDocuments bool               `json:"replaceDocuments"`
	Extra            map[string]any     `json:"extra"`
}

type ListQuery struct {
	Page        int
	Limit       int
	Name        string
	MobileNo    string
	UserID      string
	CreatedByID string
}

// EnrollmentRef is an enrollment as seen from the member.
type EnrollmentRef struct {
	ID          string    `json:"id"`
	PackageID   string    `json:"packageId"`
	PackageName string    `json:"packageName"`
	CreatedAt   time.Time `json:"createdAt"`
}

type View struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	MobileNo    string             `json:"mobileNo"`
	Address     string             `json:"address"`
	Documents   []members.Document `json:"documents"`
	Extra       map[string]any     `json:"extra"`
	UserID      *string            `json:"userId,omitempty"`
	User        *users.Ref         `json:"user,omitempty"`
	CreatedByID string             `json:"createdById"`
	CreatedBy   *users.Ref         `json:"createdBy,omitempty"`
	Enrollments []EnrollmentRef    `json:"enrollments"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func toView(m members.Member, enrollments []EnrollmentRef) View {
	v := View{
		ID:          m.ID,
		Name:        m.Name,
		MobileNo:    m.MobileNo,
		Address:     m.Address,
		Documents:   []members.Document(m.Documents),
		Extra:       map[string]any(m.Extra),
		UserID:      m.UserID,
		User:        m.User.Ref(),
		CreatedByID: m.CreatedByID,
		CreatedBy:   m.CreatedBy.Ref(),
		Enrollments: enrollments,
	}
	v.CreatedAt, v.UpdatedAt = m.CreatedAt, m.UpdatedAt
	if v.Documents == nil {
		v.Documents = []members.Document{}
	}
	if v.Extra == nil {
		v.Extra = map[string]any{}
	}
	if v.Enrollments == nil {
		v.Enrollments = []EnrollmentRef{}
	}
	return v
}
