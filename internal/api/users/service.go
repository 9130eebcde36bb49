package users

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"tour-backoffice/internal/app/http/params"
	"tour-backoffice/internal/domain/access"
	"tour-backoffice/internal/domain/apperr"
	"tour-backoffice/internal/domain/users"
)

type ListQuery struct {
	Page   int
	Limit  int
	Role   access.Role
	Search string
}

// AdminUser is a user as listed for administrators, with the number of
// members they created.
type AdminUser struct {
	ID             string      `json:"id"`
	Email          string      `json:"email"`
	Name           string      `json:"name"`
	Role           access.Role `json:"role"`
	MembersCreated int64       `json:"membersCreated"`
}

type Service interface {
	List(ctx context.Context, q ListQuery) ([]AdminUser, int64, error)
	Get(ctx context.Context, id string) (*AdminUser, error)
}

type service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) Service {
	return &service{db: db}
}

const adminUserColumns = `users.id, users.email, users.name, users.role,
	(SELECT COUNT(*) FROM members m WHERE m.created_by_id = users.id) AS members_created`

func (s *service) List(ctx context.Context, q ListQuery) ([]AdminUser, int64, error) {
	db := s.db.WithContext(ctx)
	filtered := func() *gorm.DB {
		tx := db.Model(&users.User{})
		if q.Role != "" {
			tx = tx.Where("users.role = ?", q.Role)
		}
		if q.Search != "" {
			pattern := params.Contains(q.Search)
			tx = tx.Where("(users.name ILIKE ? OR users.email ILIKE ?)", pattern, pattern)
		}
		return tx
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, apperr.FromDB(err, "users")
	}

	out := []AdminUser{}
	err := filtered().
		Select(adminUserColumns).
		Order("users.created_at DESC, users.id DESC").
		Limit(q.Limit).
		Offset((q.Page - 1) * q.Limit).
		Scan(&out).Error
	if err != nil {
		return nil, 0, apperr.FromDB(err, "users")
	}
	return out, total, nil
}

func (s *service) Get(ctx context.Context, id string) (*AdminUser, error) {
	var out []AdminUser
	err := s.db.WithContext(ctx).Model(&users.User{}).
		Select(adminUserColumns).
		Where("users.id = ?", id).
		Scan(&out).Error
	if err != nil {
		return nil, apperr.FromDB(err, "user")
	}
	if len(out) == 0 {
		return nil, apperr.NotFoundf("user not found")
	}
	return &out[0], nil
}

func parseRole(raw string) (access.Role, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	role, ok := access.ParseRole(raw)
	if !ok {
		return "", apperr.Validationf("role must be one of ADMIN, STAFF, MANAGER, MEMBER")
	}
	return role, nil
}
