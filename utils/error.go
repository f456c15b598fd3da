package utils

import (
	"errors"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var ErrorRecordNotFound = errors.New("record not found")

var ErrorLockNotObtained = errors.New("resource is being modified by another request, try again")

type DuplicateValueError struct {
	Column string
}

func (e *DuplicateValueError) Error() string {
	return "duplicate " + e.Column
}

// IsDuplicateKeyError reports a unique index violation.
func IsDuplicateKeyError(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// NameConflict turns a unique index violation on a name column into a
// DuplicateValueError, for inserts that raced past ValidateUnique.
func NameConflict(err error) error {
	if IsDuplicateKeyError(err) {
		return &DuplicateValueError{Column: "name"}
	}
	return err
}
