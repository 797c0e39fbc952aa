package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// sqlStates maps the SQLSTATEs the dashboard reads and the seed writes run into
var sqlStates = map[string]ErrorCode{
	"23505": ErrorCodeDuplicateKey,    // unique_violation
	"23502": ErrorCodeValidation,      // not_null_violation
	"23514": ErrorCodeValidation,      // check_violation
	"22001": ErrorCodeInvalidArgument, // string_data_right_truncation
	"22P02": ErrorCodeInvalidArgument, // invalid_text_representation
	"42P01": ErrorCodeNotFound,        // undefined_table
	"42703": ErrorCodeNotFound,        // undefined_column
	"57P01": ErrorCodeUnavailable,     // admin_shutdown
	"57P03": ErrorCodeUnavailable,     // cannot_connect_now
}

// transientStates are worth a retry
var transientStates = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"55P03": true, // lock_not_available
	"57014": true, // query_canceled
	"57P01": true,
	"57P03": true,
}

// pgx reports some dead connections only as text
var transientText = []string{
	"commit unexpectedly resulted in rollback",
	"deadlock detected",
	"could not serialize access",
	"canceling statement due to statement timeout",
	"terminating connection due to administrator command",
	"connection reset by peer",
	"unexpected eof",
	"conn closed",
}

// connection_exception class
const connClass = "08"

// PgError finds a *pgconn.PgError anywhere in the chain
func PgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	ok := stderrs.As(err, &pe)
	return pe, ok
}

// SQLState is empty for non postgres errors
func SQLState(err error) string {
	if pe, ok := PgError(err); ok {
		return pe.Code
	}
	return ""
}

// IsUndefinedTable is true on a fresh database before the seed has run
func IsUndefinedTable(err error) bool { return SQLState(err) == "42P01" }

func IsDuplicateKey(err error) bool { return SQLState(err) == "23505" }

// DBErrorCode maps a postgres error; ok is false for anything else
func DBErrorCode(err error) (ErrorCode, bool) {
	state := SQLState(err)
	if state == "" {
		return ErrorCodeUnknown, false
	}
	if code, hit := sqlStates[state]; hit {
		return code, true
	}
	if strings.HasPrefix(state, connClass) {
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// FromPostgresf wraps err with the mapped code, nil stays nil
func FromPostgresf(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, fmt.Sprintf(format, a...))
}

// TransientDB reports whether a database failure may succeed on retry
func TransientDB(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if state := SQLState(err); state != "" {
		return transientStates[state] || strings.HasPrefix(state, connClass)
	}
	msg := strings.ToLower(Root(err).Error())
	for _, frag := range transientText {
		if strings.Contains(msg, frag) {
			return true
		}
	}
	return false
}
