package tourmembers

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tour-backoffice/internal/domain/access"
	"tour-backoffice/internal/domain/apperr"
	"tour-backoffice/internal/domain/capacity"
	"tour-backoffice/internal/domain/extra"
	"tour-backoffice/internal/domain/ledger"
	"tour-backoffice/internal/domain/members"
	"tour-backoffice/internal/domain/tourmembers"
	"tour-backoffice/internal/domain/tours"
)

type service struct {
	db     *gorm.DB
	tracer trace.Tracer
	now    func() time.Time
}

func NewService(db *gorm.DB) Service {
	return &service{
		db:     db,
		tracer: otel.Tracer("tour-backoffice/tourmembers"),
		now:    time.Now,
	}
}

func (s *service) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "tourmembers."+name, trace.WithAttributes(attrs...))
}

// finish records err on the span and returns it classified.
func finish(span trace.Span, err error, what string) error {
	if err == nil {
		return nil
	}
	err = apperr.FromDB(err, what)
	span.SetAttributes(attribute.String("error.kind", string(apperr.KindOf(err))))
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (s *service) Create(ctx context.Context, actor access.Principal, req CreateRequest) (*View, error) {
	ctx, span := s.start(ctx, "create",
		attribute.String("member.id", req.MemberID),
		attribute.String("package.id", req.PackageID),
	)
	defer span.End()

	attrs, err := extra.New(req.Extra)
	if err != nil {
		return nil, finish(span, err, "tour member")
	}
	if req.Image != nil {
		if attrs, err = extra.Merge(attrs, map[string]any{"imageUrl": req.Image.URL}); err != nil {
			return nil, finish(span, err, "tour member")
		}
	}

	var id string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m members.Member
		if err := tx.Select("id").First(&m, "id = ?", req.MemberID).Error; err != nil {
			return apperr.FromDB(err, "member")
		}

		// Holds the package row lock until commit.
		if _, err := capacity.Reserve(tx, req.PackageID); err != nil {
			return err
		}

		tm := tourmembers.TourMember{
			MemberID:    req.MemberID,
			PackageID:   req.PackageID,
			Extra:       attrs,
			Version:     1,
			CreatedByID: actor.UserID,
		}
		if err := tx.Create(&tm).Error; err != nil {
			return err
		}
		id = tm.ID
		return nil
	})
	if err != nil {
		return nil, finish(span, err, "tour member")
	}

	span.SetAttributes(attribute.String("tour_member.id", id))
	return s.load(ctx, actor, id)
}

func (s *service) Update(ctx context.Context, actor access.Principal, id string, req UpdateRequest) (*View, error) {
	ctx, span := s.start(ctx, "update", attribute.String("tour_member.id", id))
	defer span.End()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tm, err := lockEnrollment(tx, id, req.ExpectedVersion)
		if err != nil {
			return err
		}

		patch := req.Extra
		if req.Image != nil {
			patch = make(map[string]any, len(req.Extra)+1)
			for k, v := range req.Extra {
				patch[k] = v
			}
			patch["imageUrl"] = req.Image.URL
		}
		attrs, err := extra.Merge(tm.Extra, patch)
		if err != nil {
			return err
		}

		updates := map[string]any{
			"extra":   attrs,
			"version": tm.Version + 1,
		}
		if req.MemberID != nil && *req.MemberID != tm.MemberID {
			var m members.Member
			if err := tx.Select("id").First(&m, "id = ?", *req.MemberID).Error; err != nil {
				return apperr.FromDB(err, "member")
			}
			updates["member_id"] = *req.MemberID
		}

		return tx.Model(&tourmembers.TourMember{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return nil, finish(span, err, "tour member")
	}
	return s.load(ctx, actor, id)
}

func (s *service) Delete(ctx context.Context, actor access.Principal, id string) error {
	ctx, span := s.start(ctx, "delete", attribute.String("tour_member.id", id))
	defer span.End()

	// Payments cascade; the seat frees up because usage is a row count.
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&tourmembers.TourMember{})
	if res.Error != nil {
		return finish(span, res.Error, "tour member")
	}
	if res.RowsAffected == 0 {
		return finish(span, apperr.NotFoundf("tour member not found"), "tour member")
	}
	return nil
}

func (s *service) AddPayment(ctx context.Context, actor access.Principal, id string, req PaymentRequest) (*View, error) {
	ctx, span := s.start(ctx, "add_payment", attribute.String("tour_member.id", id))
	defer span.End()

	if req.Amount == nil {
		return nil, finish(span, apperr.Validationf("amount is required"), "payment")
	}
	if err := ledger.ValidateAmount(*req.Amount); err != nil {
		return nil, finish(span, err, "payment")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tm, err := lockEnrollment(tx, id, req.ExpectedVersion)
		if err != nil {
			return err
		}

		seq := tm.PaymentSeq + 1
		p := tourmembers.Payment{
			TourMemberID: id,
			Seq:          seq,
			Amount:       *req.Amount,
			PaidAt:       s.now().UTC(),
			CreatedByID:  actor.UserID,
		}
		if req.PaidAt != nil {
			p.PaidAt = req.PaidAt.UTC()
		}
		if req.Method != nil {
			p.Method = *req.Method
		}
		if req.Note != nil {
			p.Note = *req.Note
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}

		span.SetAttributes(attribute.Int("payment.seq", seq))
		return bump(tx, tm, map[string]any{"payment_seq": seq})
	})
	if err != nil {
		return nil, finish(span, err, "tour member")
	}
	return s.load(ctx, actor, id)
}

func (s *service) UpdatePayment(ctx context.Context, actor access.Principal, id, paymentID string, req PaymentRequest) (*View, error) {
	ctx, span := s.start(ctx, "update_payment",
		attribute.String("tour_member.id", id),
		attribute.String("payment.id", paymentID),
	)
	defer span.End()

	if req.Amount != nil {
		if err := ledger.ValidateAmount(*req.Amount); err != nil {
			return nil, finish(span, err, "payment")
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tm, err := lockEnrollment(tx, id, req.ExpectedVersion)
		if err != nil {
			return err
		}

		var p tourmembers.Payment
		if err := tx.First(&p, "id = ? AND tour_member_id = ?", paymentID, id).Error; err != nil {
			return apperr.FromDB(err, "payment")
		}

		updates := map[string]any{}
		if req.Amount != nil {
			updates["amount"] = *req.Amount
		}
		if req.PaidAt != nil {
			updates["paid_at"] = req.PaidAt.UTC()
		}
		if req.Method != nil {
			updates["method"] = *req.Method
		}
		if req.Note != nil {
			updates["note"] = *req.Note
		}
		if len(updates) > 0 {
			if err := tx.Model(&p).Updates(updates).Error; err != nil {
				return err
			}
		}
		return bump(tx, tm, nil)
	})
	if err != nil {
		return nil, finish(span, err, "tour member")
	}
	return s.load(ctx, actor, id)
}

func (s *service) DeletePayment(ctx context.Context, actor access.Principal, id, paymentID string, expectedVersion *int) (*View, error) {
	ctx, span := s.start(ctx, "delete_payment",
		attribute.String("tour_member.id", id),
		attribute.String("payment.id", paymentID),
	)
	defer span.End()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tm, err := lockEnrollment(tx, id, expectedVersion)
		if err != nil {
			return err
		}

		res := tx.Where("id = ? AND tour_member_id = ?", paymentID, id).Delete(&tourmembers.Payment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFoundf("payment not found")
		}
		return bump(tx, tm, nil)
	})
	if err != nil {
		return nil, finish(span, err, "tour member")
	}
	return s.load(ctx, actor, id)
}

func (s *service) Get(ctx context.Context, actor access.Principal, id string) (*View, error) {
	ctx, span := s.start(ctx, "get", attribute.String("tour_member.id", id))
	defer span.End()

	v, err := s.load(ctx, actor, id)
	return v, finish(span, err, "tour member")
}

func (s *service) List(ctx context.Context, actor access.Principal, q ListQuery) ([]View, int64, error) {
	ctx, span := s.start(ctx, "list",
		attribute.Int("page", q.Page),
		attribute.Int("limit", q.Limit),
	)
	defer span.End()

	if q.PaymentStatus != "" && !q.PaymentStatus.Valid() {
		return nil, 0, finish(span, apperr.Validationf("paymentStatus must be one of UNPAID, PARTIAL, PAID"), "tour members")
	}

	db := s.db.WithContext(ctx)
	var total int64
	if err := filteredQuery(db, actor, q).Count(&total).Error; err != nil {
		return nil, 0, finish(span, err, "tour members")
	}

	var rows []tourmembers.TourMember
	err := withDetails(filteredQuery(db, actor, q)).
		Order("tour_members.created_at DESC").
		Limit(q.Limit).
		Offset((q.Page - 1) * q.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, finish(span, err, "tour members")
	}

	views, err := s.views(db, rows)
	if err != nil {
		return nil, 0, finish(span, err, "tour members")
	}
	span.SetAttributes(attribute.Int64("total", total))
	return views, total, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	ctx, span := s.start(ctx, "stats")
	defer span.End()

	rows, err := ledgerRows(s.db.WithContext(ctx), "")
	if err != nil {
		return nil, finish(span, err, "tour members")
	}
	t, err := tally(rows)
	if err != nil {
		return nil, finish(span, err, "tour members")
	}
	out := toStats(t)
	return &out, nil
}

func (s *service) StatsByTour(ctx context.Context, packageID string) (*TourStats, error) {
	ctx, span := s.start(ctx, "stats_by_tour", attribute.String("package.id", packageID))
	defer span.End()

	db := s.db.WithContext(ctx)
	var pkg tours.TourPackage
	if err := db.First(&pkg, "id = ?", packageID).Error; err != nil {
		return nil, finish(span, err, "tour package")
	}

	rows, err := ledgerRows(db, packageID)
	if err != nil {
		return nil, finish(span, err, "tour members")
	}
	t, err := tally(rows)
	if err != nil {
		return nil, finish(span, err, "tour members")
	}

	booked := int64(len(rows))
	ref := toPackageRef(pkg, booked)
	return &TourStats{
		Stats:          toStats(t),
		Package:        ref,
		TotalSeat:      pkg.TotalSeat,
		BookedSeats:    booked,
		AvailableSeats: ref.AvailableSeats,
	}, nil
}

// load reads one enrollment through the caller's scope.
func (s *service) load(ctx context.Context, actor access.Principal, id string) (*View, error) {
	db := s.db.WithContext(ctx)

	var tm tourmembers.TourMember
	err := withDetails(scopedQuery(db, actor)).
		Where("tour_members.id = ?", id).
		First(&tm).Error
	if err != nil {
		return nil, apperr.FromDB(err, "tour member")
	}

	views, err := s.views(db, []tourmembers.TourMember{tm})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *service) views(db *gorm.DB, rows []tourmembers.TourMember) ([]View, error) {
	ids := make([]string, 0, len(rows))
	seen := map[string]bool{}
	for _, tm := range rows {
		if !seen[tm.PackageID] {
			seen[tm.PackageID] = true
			ids = append(ids, tm.PackageID)
		}
	}
	booked, err := capacity.Counts(db, ids)
	if err != nil {
		return nil, err
	}

	out := make([]View, 0, len(rows))
	for _, tm := range rows {
		v, err := toView(tm, booked[tm.PackageID])
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// lockEnrollment loads the enrollment FOR UPDATE and checks the caller's
// expected version against it.
func lockEnrollment(tx *gorm.DB, id string, expectedVersion *int) (tourmembers.TourMember, error) {
	var tm tourmembers.TourMember
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&tm, "id = ?", id).Error; err != nil {
		return tm, apperr.FromDB(err, "tour member")
	}
	if expectedVersion != nil && *expectedVersion != tm.Version {
		return tm, apperr.Conflictf(
			"tour member was modified concurrently: expected version %d, current version %d",
			*expectedVersion, tm.Version)
	}
	return tm, nil
}

// bump advances the enrollment version together with any other column
// changes of the same mutation.
func bump(tx *gorm.DB, tm tourmembers.TourMember, updates map[string]any) error {
	if updates == nil {
		updates = map[string]any{}
	}
	updates["version"] = tm.Version + 1
	return tx.Model(&tourmembers.TourMember{}).Where("id = ?", tm.ID).Updates(updates).Error
}
