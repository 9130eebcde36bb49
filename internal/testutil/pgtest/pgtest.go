// Package pgtest opens a migrated Postgres schema for package tests. Tests
// are skipped when TEST_DATABASE_URL is unset or the server is down.
package pgtest

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tour-backoffice/database"
	"tour-backoffice/internal/domain/access"
	"tour-backoffice/internal/domain/members"
	"tour-backoffice/internal/domain/tours"
	"tour-backoffice/internal/domain/users"
)

// Open returns a connection whose search_path is a fresh schema, so test
// packages running in parallel do not see each other's rows.
func Open(t testing.TB, schema string) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping Postgres tests")
	}

	admin, err := database.Open(dsn)
	if err != nil {
		t.Skipf("could not connect to postgres: %v", err)
	}
	require.NoError(t, admin.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error)
	require.NoError(t, admin.Exec(fmt.Sprintf(`DROP SCHEMA IF EXISTS %q CASCADE`, schema)).Error)
	require.NoError(t, admin.Exec(fmt.Sprintf(`CREATE SCHEMA %q`, schema)).Error)
	if sqlDB, err := admin.DB(); err == nil {
		sqlDB.Close()
	}

	db, err := database.Open(withSearchPath(dsn, schema+",public"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func withSearchPath(dsn, path string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err == nil {
			q := u.Query()
			q.Set("search_path", path)
			u.RawQuery = q.Encode()
			return u.String()
		}
	}
	return dsn + " search_path=" + path
}

// Reset empties every table.
func Reset(t testing.TB, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Exec(
		`TRUNCATE tour_member_payments, tour_members, tour_packages, members, users RESTART IDENTITY CASCADE`,
	).Error)
}

func User(t testing.TB, db *gorm.DB, email string, role access.Role) users.User {
	t.Helper()
	u := users.User{Email: email, Name: strings.Split(email, "@")[0], Password: "x", Role: role}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func Member(t testing.TB, db *gorm.DB, name string, createdBy users.User, owner *users.User) members.Member {
	t.Helper()
	m := members.Member{Name: name, MobileNo: "0100000000", CreatedByID: createdBy.ID}
	if owner != nil {
		m.UserID = &owner.ID
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func Package(t testing.TB, db *gorm.DB, name, price string, seats int, createdBy users.User) tours.TourPackage {
	t.Helper()
	p := tours.TourPackage{
		PackageName: name,
		TourPrice:   decimal.RequireFromString(price),
		TotalSeat:   seats,
		CreatedByID: createdBy.ID,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}
