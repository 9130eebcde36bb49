package members

import (
	"context"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tour-backoffice/internal/app/http/params"
	"tour-backoffice/internal/domain/access"
	"tour-backoffice/internal/domain/apperr"
	"tour-backoffice/internal/domain/extra"
	"tour-backoffice/internal/domain/members"
	"tour-backoffice/internal/domain/tourmembers"
	"tour-backoffice/internal/domain/users"
)

type service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) Service {
	return &service{db: db}
}

func (s *service) Create(ctx context.Context, actor access.Principal, req CreateRequest) (*View, error) {
	if req.UserID != nil && req.Login != nil {
		return nil, apperr.Validationf("userId and login cannot both be set")
	}
	attrs, err := extra.New(req.Extra)
	if err != nil {
		return nil, err
	}

	m := members.Member{
		Name:        strings.TrimSpace(req.Name),
		MobileNo:    strings.TrimSpace(req.MobileNo),
		Address:     req.Address,
		Documents:   documents(req.Documents),
		Extra:       attrs,
		UserID:      req.UserID,
		CreatedByID: actor.UserID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.UserID != nil {
			if err := tx.Select("id").First(&users.User{}, "id = ?", *req.UserID).Error; err != nil {
				return apperr.FromDB(err, "user")
			}
		}
		if req.Login != nil {
			hashed, err := users.HashPassword(req.Login.Password)
			if err != nil {
				return err
			}
			u := users.User{
				Email:    strings.ToLower(strings.TrimSpace(req.Login.Email)),
				Name:     m.Name,
				Password: hashed,
				Role:     access.RoleMember,
			}
			if err := tx.Create(&u).Error; err != nil {
				return apperr.FromDB(err, "user with this email")
			}
			m.UserID = &u.ID
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		return nil, apperr.FromDB(err, "member")
	}
	return s.Get(ctx, actor, m.ID)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*View, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m members.Member
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			return apperr.FromDB(err, "member")
		}

		updates := map[string]any{}
		if req.Name != nil {
			updates["name"] = strings.TrimSpace(*req.Name)
		}
		if req.MobileNo != nil {
			updates["mobile_no"] = strings.TrimSpace(*req.MobileNo)
		}
		if req.Address != nil {
			updates["address"] = *req.Address
		}
		if req.ReplaceDocuments {
			updates["documents"] = documents(req.Documents)
		} else if len(req.Documents) > 0 {
			updates["documents"] = documents(append(append([]members.Document{}, m.Documents...), req.Documents...))
		}
		if req.Extra != nil {
			attrs, err := extra.Merge(m.Extra, req.Extra)
			if err != nil {
				return err
			}
			updates["extra"] = attrs
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&members.Member{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return nil, apperr.FromDB(err, "member")
	}
	return s.Get(ctx, access.Principal{Role: access.RoleAdmin}, id)
}

// Delete refuses members that still have enrollments (FK RESTRICT).
func (s *service) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&members.Member{})
	if res.Error != nil {
		return apperr.FromDB(res.Error, "member")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("member not found")
	}
	return nil
}

// Get hides members a MEMBER caller does not own behind NOT_FOUND.
func (s *service) Get(ctx context.Context, actor access.Principal, id string) (*View, error) {
	db := s.db.WithContext(ctx)

	q := db.Preload("User").Preload("CreatedBy").Where("id = ?", id)
	if !access.IsStaff(actor.Role) {
		q = q.Where("user_id = ?", actor.UserID)
	}
	var m members.Member
	if err := q.First(&m).Error; err != nil {
		return nil, apperr.FromDB(err, "member")
	}

	refs, err := enrollmentRefs(db, []string{m.ID})
	if err != nil {
		return nil, err
	}
	v := toView(m, refs[m.ID])
	return &v, nil
}

func (s *service) List(ctx context.Context, q ListQuery) ([]View, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := filtered(db, q).Count(&total).Error; err != nil {
		return nil, 0, apperr.FromDB(err, "members")
	}

	var rows []members.Member
	err := filtered(db, q).
		Preload("User").
		Preload("CreatedBy").
		Order("created_at DESC, id DESC").
		Limit(q.Limit).
		Offset((q.Page - 1) * q.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, apperr.FromDB(err, "members")
	}

	out, err := views(db, rows)
	return out, total, err
}

// ByUser lists the members owned by a login account. A MEMBER caller may
// only ask for their own account.
func (s *service) ByUser(ctx context.Context, actor access.Principal, userID string) ([]View, error) {
	if !access.IsStaff(actor.Role) && actor.UserID != userID {
		return nil, apperr.Forbiddenf("members of another user are not accessible")
	}
	db := s.db.WithContext(ctx)

	var rows []members.Member
	err := db.Preload("User").Preload("CreatedBy").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.FromDB(err, "members")
	}
	return views(db, rows)
}

// documents never returns nil so the column holds [] rather than null.
func documents(docs []members.Document) datatypes.JSONSlice[members.Document] {
	if docs == nil {
		docs = []members.Document{}
	}
	return datatypes.JSONSlice[members.Document](docs)
}

func filtered(db *gorm.DB, q ListQuery) *gorm.DB {
	tx := db.Model(&members.Member{})
	if q.Name != "" {
		tx = tx.Where("name ILIKE ?", params.Contains(q.Name))
	}
	if q.MobileNo != "" {
		tx = tx.Where("mobile_no LIKE ?", params.Contains(q.MobileNo))
	}
	if q.UserID != "" {
		tx = tx.Where("user_id = ?", q.UserID)
	}
	if q.CreatedByID != "" {
		tx = tx.Where("created_by_id = ?", q.CreatedByID)
	}
	return tx
}

func views(db *gorm.DB, rows []members.Member) ([]View, error) {
	ids := make([]string, len(rows))
	for i, m := range rows {
		ids[i] = m.ID
	}
	refs, err := enrollmentRefs(db, ids)
	if err != nil {
		return nil, err
	}

	out := make([]View, 0, len(rows))
	for _, m := range rows {
		out = append(out, toView(m, refs[m.ID]))
	}
	return out, nil
}

// enrollmentRefs returns the enrollments of each member, newest first.
func enrollmentRefs(db *gorm.DB, memberIDs []string) (map[string][]EnrollmentRef, error) {
	out := make(map[string][]EnrollmentRef, len(memberIDs))
	if len(memberIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		EnrollmentRef
		MemberID string
	}
	err := db.Model(&tourmembers.TourMember{}).
		Select(`tour_members.id, tour_members.package_id, tour_members.member_id,
			tour_members.created_at, tour_packages.package_name`).
		Joins("JOIN tour_packages ON tour_packages.id = tour_members.package_id").
		Where("tour_members.member_id IN ?", memberIDs).
		Order("tour_members.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.FromDB(err, "tour members")
	}
	for _, r := range rows {
		out[r.MemberID] = append(out[r.MemberID], r.EnrollmentRef)
	}
	return out, nil
}
