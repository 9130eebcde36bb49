// Package capacity guards the seat limit of tour packages.
//
// Seat usage is never stored: it is the number of enrollment rows that
// reference a package. Reserve serializes writers on the package row so
// the count it reads cannot change before the caller's insert commits.
package capacity

import (
	"tour-backoffice/internal/domain/apperr"
	"tour-backoffice/internal/domain/tourmembers"
	"tour-backoffice/internal/domain/tours"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Check fails with CAPACITY_EXCEEDED when no seat is left.
func Check(enrolled int64, totalSeat int) error {
	if totalSeat < 0 {
		return apperr.Validationf("total seats must not be negative, got %d", totalSeat)
	}
	if enrolled >= int64(totalSeat) {
		return apperr.New(apperr.CapacityExceeded,
			"tour package is full: %d of %d seats booked", enrolled, totalSeat)
	}
	return nil
}

// Available is the number of free seats, never below zero.
func Available(totalSeat int, enrolled int64) int64 {
	free := int64(totalSeat) - enrolled
	if free < 0 {
		return 0
	}
	return free
}

// Lock loads the package with a row lock held until tx ends and returns
// its current enrollment count.
func Lock(tx *gorm.DB, packageID string) (tours.TourPackage, int64, error) {
	var pkg tours.TourPackage
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&pkg, "id = ?", packageID).Error; err != nil {
		return pkg, 0, apperr.FromDB(err, "tour package")
	}

	enrolled, err := Count(tx, packageID)
	if err != nil {
		return pkg, 0, err
	}
	return pkg, enrolled, nil
}

// Reserve locks the package and verifies a seat is free. The caller must
// insert the enrollment through the same tx.
func Reserve(tx *gorm.DB, packageID string) (tours.TourPackage, error) {
	pkg, enrolled, err := Lock(tx, packageID)
	if err != nil {
		return pkg, err
	}
	return pkg, Check(enrolled, pkg.TotalSeat)
}

// Resize validates a new seat total against current bookings under the
// same lock enrollment uses.
func Resize(tx *gorm.DB, packageID string, totalSeat int) error {
	_, enrolled, err := Lock(tx, packageID)
	if err != nil {
		return err
	}
	if totalSeat < 0 {
		return apperr.Validationf("total seats must not be negative, got %d", totalSeat)
	}
	if int64(totalSeat) < enrolled {
		return apperr.New(apperr.CapacityExceeded,
			"cannot reduce seats to %d: %d already booked", totalSeat, enrolled)
	}
	return nil
}

func Count(db *gorm.DB, packageID string) (int64, error) {
	var n int64
	err := db.Model(&tourmembers.TourMember{}).Where("package_id = ?", packageID).Count(&n).Error
	return n, apperr.FromDB(err, "tour members")
}

// Counts returns enrollment counts keyed by package id.
func Counts(db *gorm.DB, packageIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(packageIDs))
	if len(packageIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		PackageID string
		Count     int64
	}
	err := db.Model(&tourmembers.TourMember{}).
		Select("package_id, COUNT(*) AS count").
		Where("package_id IN ?", packageIDs).
		Group("package_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.FromDB(err, "tour members")
	}
	for _, r := range rows {
		out[r.PackageID] = r.Count
	}
	return out, nil
}
