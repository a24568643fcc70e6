package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// PostgreSQL error codes
const (
	uniqueViolationCode  = "23505"
	stringTruncationCode = "22001"
	notNullViolationCode = "23502"
	checkViolationCode   = "23514"
)

// IsUniqueViolation reports whether err is a unique constraint violation from
// either supported engine, translated by GORM or not.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}

// IsConstraintViolation reports whether err is any column constraint failure:
// uniqueness, a value too long for its column, NOT NULL or CHECK.
func IsConstraintViolation(err error) bool {
	if IsUniqueViolation(err) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case stringTruncationCode, notNullViolationCode, checkViolationCode:
			return true
		}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrConstraint
	}

	return false
}
