// Package errs classifies application errors into HTTP statuses.
//
// Handlers return plain errors; the single error handler in pkg/ctx asks
// Classify for the status and client-facing message.
package errs

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// ErrNotFound marks a lookup that matched no row.
var ErrNotFound = errors.New("not found")

// HTTPError carries an explicit status for the client.
type HTTPError struct {
	Status  int
	Message string
	Fields  map[string]string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error { return e.Err }

// New returns an HTTPError with the given status and message.
func New(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

func BadRequest(message string, err error) *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Message: message, Err: err}
}

func NotFound(message string) *HTTPError {
	return &HTTPError{Status: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

func Unauthorized(message string) *HTTPError {
	return &HTTPError{Status: http.StatusUnauthorized, Message: message}
}

// Validation wraps field errors as a 422.
func Validation(fields map[string]string) *HTTPError {
	return &HTTPError{Status: http.StatusUnprocessableEntity, Message: "Validation failed", Fields: fields}
}

func Unavailable(message string, err error) *HTTPError {
	return &HTTPError{Status: http.StatusServiceUnavailable, Message: message, Err: err}
}

// Classification is the client-facing view of an error.
type Classification struct {
	Status   int
	Message  string
	Fields   map[string]string
	Internal bool // message must not be shown verbatim in production
}

// Classify maps err to a status. Constraint violations from any supported
// driver become 400 with the driver's message; unknown errors are 500.
func Classify(err error) Classification {
	var he *HTTPError
	if errors.As(err, &he) {
		return Classification{Status: he.Status, Message: he.Message, Fields: he.Fields}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound) {
		return Classification{Status: http.StatusNotFound, Message: "Not found"}
	}

	if msg, ok := constraintViolation(err); ok {
		return Classification{Status: http.StatusBadRequest, Message: msg}
	}

	return Classification{
		Status:   http.StatusInternalServerError,
		Message:  "Something went wrong",
		Internal: true,
	}
}

func constraintViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 23: integrity constraint violation
		if len(pgErr.Code) == 5 && pgErr.Code[:2] == "23" {
			return pgErr.Message, true
		}
		// 22P02 invalid_text_representation, 22003 numeric out of range
		if pgErr.Code == "22P02" || pgErr.Code == "22003" || pgErr.Code == "22001" {
			return pgErr.Message, true
		}
		return "", false
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.Code == sqlite3.ErrConstraint {
		return liteErr.Error(), true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1048, 1062, 1364, 1406, 3819:
			return myErr.Message, true
		}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return gorm.ErrDuplicatedKey.Error(), true
	}
	return "", false
}
