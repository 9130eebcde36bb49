package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"tour-backoffice/internal/domain/access"
	"tour-backoffice/internal/domain/apperr"
	"tour-backoffice/internal/domain/users"
)

var errInvalidCredentials = apperr.New(apperr.Unauthorized, "Invalid credentials")

type service struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(db *gorm.DB, secret []byte, ttl time.Duration) Service {
	return &service{db: db, secret: secret, ttl: ttl, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	var user users.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(req.Email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, apperr.FromDB(err, "user")
	}
	if !users.CheckPassword(user.Password, req.Password) {
		return nil, errInvalidCredentials
	}

	now := s.now()
	token, err := access.IssueToken(s.secret, access.Principal{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, s.ttl, now)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "could not create token")
	}
	return &LoginResult{Token: token, ExpiresAt: now.Add(s.ttl), User: toUserView(user)}, nil
}

// Register creates a user. The role defaults to STAFF.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*UserView, error) {
	role := access.RoleStaff
	if req.Role != "" {
		r, ok := access.ParseRole(req.Role)
		if !ok {
			return nil, apperr.Validationf("unknown role %q", req.Role)
		}
		role = r
	}
	hashed, err := users.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := users.User{
		Email:    normalizeEmail(req.Email),
		Name:     strings.TrimSpace(req.Name),
		Password: hashed,
		Role:     role,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, apperr.FromDB(err, "user with this email")
	}
	v := toUserView(u)
	return &v, nil
}

func (s *service) Me(ctx context.Context, userID string) (*UserView, error) {
	var u users.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", userID).Error; err != nil {
		return nil, apperr.FromDB(err, "user")
	}
	v := toUserView(u)
	return &v, nil
}

func (s *service) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	var u users.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", userID).Error; err != nil {
		return apperr.FromDB(err, "user")
	}
	if !users.CheckPassword(u.Password, req.OldPassword) {
		return apperr.New(apperr.Unauthorized, "Old password is incorrect")
	}
	hashed, err := users.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Model(&users.User{}).Where("id = ?", userID).Update("password", hashed).Error
	return apperr.FromDB(err, "user")
}
