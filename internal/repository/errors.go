package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	constraintUserEmail  = "uq_users_email"
	constraintUserName   = "uq_users_name"
	constraintActivePair = "uq_swap_requests_active_pair"
)

const (
	mysqlDuplicateEntry    = 1062
	mysqlForeignKeyMissing = 1452
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
)

// violatesUnique reports whether err is a unique violation of the named
// constraint. MySQL only reports the key name inside the message text.
func violatesUnique(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraint
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry && strings.Contains(myErr.Message, constraint)
	}
	return false
}

// isForeignKeyViolation reports whether err is caused by a missing
// referenced row.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlForeignKeyMissing
	}
	return false
}
