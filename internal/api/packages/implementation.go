package packages

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tour-backoffice/internal/app/http/params"
	"tour-backoffice/internal/domain/access"
	"tour-backoffice/internal/domain/apperr"
	"tour-backoffice/internal/domain/capacity"
	"tour-backoffice/internal/domain/extra"
	"tour-backoffice/internal/domain/ledger"
	"tour-backoffice/internal/domain/tours"
)

type service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) Service {
	return &service{db: db}
}

func (s *service) Create(ctx context.Context, actor access.Principal, req CreateRequest) (*View, error) {
	if req.TourPrice == nil {
		return nil, apperr.Validationf("tourPrice is required")
	}
	if err := ledger.ValidatePrice(*req.TourPrice); err != nil {
		return nil, err
	}
	attrs, err := extra.New(req.Extra)
	if err != nil {
		return nil, err
	}

	p := tours.TourPackage{
		PackageName: strings.TrimSpace(req.PackageName),
		TourPrice:   *req.TourPrice,
		TotalSeat:   req.TotalSeat,
		CoverPhoto:  req.CoverPhoto,
		Description: req.Description,
		Extra:       attrs,
		CreatedByID: actor.UserID,
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, apperr.FromDB(err, "tour package")
	}
	return s.Get(ctx, p.ID)
}

func (s *service) Update(ctx context.Context, actor access.Principal, id string, req UpdateRequest) (*View, error) {
	if req.TourPrice != nil {
		if err := ledger.ValidatePrice(*req.TourPrice); err != nil {
			return nil, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p tours.TourPackage
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			return apperr.FromDB(err, "tour package")
		}

		updates := map[string]any{}
		if req.PackageName != nil {
			updates["package_name"] = strings.TrimSpace(*req.PackageName)
		}
		if req.TourPrice != nil {
			updates["tour_price"] = *req.TourPrice
		}
		if req.TotalSeat != nil && *req.TotalSeat != p.TotalSeat {
			// Shrinking below current bookings is refused under the same
			// row lock enrollment takes.
			if err := capacity.Resize(tx, id, *req.TotalSeat); err != nil {
				return err
			}
			updates["total_seat"] = *req.TotalSeat
		}
		if req.CoverPhoto != nil {
			updates["cover_photo"] = *req.CoverPhoto
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Extra != nil {
			attrs, err := extra.Merge(p.Extra, req.Extra)
			if err != nil {
				return err
			}
			updates["extra"] = attrs
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&tours.TourPackage{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return nil, apperr.FromDB(err, "tour package")
	}
	return s.Get(ctx, id)
}

// Delete refuses packages that still have enrollments (FK RESTRICT).
func (s *service) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&tours.TourPackage{})
	if res.Error != nil {
		return apperr.FromDB(res.Error, "tour package")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("tour package not found")
	}
	return nil
}

// BulkDelete is all or nothing: one package with enrollments aborts it.
func (s *service) BulkDelete(ctx context.Context, ids []string) (*BulkDeleteResult, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id IN ?", ids).Delete(&tours.TourPackage{})
		deleted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return nil, apperr.FromDB(err, "tour package")
	}
	return &BulkDeleteResult{DeletedCount: deleted}, nil
}

func (s *service) Get(ctx context.Context, id string) (*View, error) {
	db := s.db.WithContext(ctx)

	var p tours.TourPackage
	if err := db.Preload("CreatedBy").First(&p, "id = ?", id).Error; err != nil {
		return nil, apperr.FromDB(err, "tour package")
	}
	booked, err := capacity.Count(db, id)
	if err != nil {
		return nil, err
	}
	v := toView(p, booked)
	return &v, nil
}

func (s *service) List(ctx context.Context, q ListQuery) ([]View, int64, error) {
	order, err := orderClause(q.SortBy, q.SortOrder)
	if err != nil {
		return nil, 0, err
	}
	db := s.db.WithContext(ctx)

	var total int64
	if err := filtered(db, q).Count(&total).Error; err != nil {
		return nil, 0, apperr.FromDB(err, "tour packages")
	}

	var rows []tours.TourPackage
	err = filtered(db, q).
		Preload("CreatedBy").
		Order(order).
		Limit(q.Limit).
		Offset((q.Page - 1) * q.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, apperr.FromDB(err, "tour packages")
	}

	ids := make([]string, len(rows))
	for i, p := range rows {
		ids[i] = p.ID
	}
	booked, err := capacity.Counts(db, ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]View, 0, len(rows))
	for _, p := range rows {
		out = append(out, toView(p, booked[p.ID]))
	}
	return out, total, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	var row struct {
		Total      int64
		AvgPrice   decimal.Decimal
		TotalSeats int64
		MinPrice   decimal.Decimal
		MaxPrice   decimal.Decimal
	}
	err := s.db.WithContext(ctx).Model(&tours.TourPackage{}).
		Select(`COUNT(*) AS total,
			COALESCE(AVG(tour_price), 0) AS avg_price,
			COALESCE(SUM(total_seat), 0) AS total_seats,
			COALESCE(MIN(tour_price), 0) AS min_price,
			COALESCE(MAX(tour_price), 0) AS max_price`).
		Scan(&row).Error
	if err != nil {
		return nil, apperr.FromDB(err, "tour packages")
	}

	return &Stats{
		TotalPackages: row.Total,
		AveragePrice:  row.AvgPrice.StringFixed(ledger.Scale),
		TotalSeats:    row.TotalSeats,
		PriceRange: PriceRange{
			Min: row.MinPrice.StringFixed(ledger.Scale),
			Max: row.MaxPrice.StringFixed(ledger.Scale),
		},
	}, nil
}

func filtered(db *gorm.DB, q ListQuery) *gorm.DB {
	tx := db.Model(&tours.TourPackage{})
	if q.PackageName != "" {
		tx = tx.Where("package_name ILIKE ?", params.Contains(q.PackageName))
	}
	if q.MinPrice != nil {
		tx = tx.Where("tour_price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("tour_price <= ?", *q.MaxPrice)
	}
	if q.MinSeats != nil {
		tx = tx.Where("total_seat >= ?", *q.MinSeats)
	}
	if q.MaxSeats != nil {
		tx = tx.Where("total_seat <= ?", *q.MaxSeats)
	}
	return tx
}

// orderClause maps the API sort field to a column from a fixed list, so
// user input never reaches the ORDER BY text.
func orderClause(sortBy, sortOrder string) (string, error) {
	if sortBy == "" {
		sortBy = "createdAt"
	}
	col, ok := tours.SortColumns[sortBy]
	if !ok {
		return "", apperr.Validationf("sortBy must be one of createdAt, packageName, tourPrice, totalSeat")
	}
	dir := "DESC"
	switch strings.ToLower(sortOrder) {
	case "", "desc":
	case "asc":
		dir = "ASC"
	default:
		return "", apperr.Validationf("sortOrder must be asc or desc")
	}
	return fmt.Sprintf("%s %s, id %s", col, dir, dir), nil
}
