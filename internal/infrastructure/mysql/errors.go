package mysql

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

const (
	errDuplicateEntry   = 1062
	errLockWaitTimeout  = 1205
	errDeadlockDetected = 1213
)

func IsDuplicateKey(err error) bool {
	return hasNumber(err, errDuplicateEntry)
}

// IsDeadlock reports errors after which the whole transaction may be retried.
func IsDeadlock(err error) bool {
	return hasNumber(err, errDeadlockDetected, errLockWaitTimeout)
}

func hasNumber(err error, numbers ...uint16) bool {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return false
	}
	for _, n := range numbers {
		if mysqlErr.Number == n {
			return true
		}
	}
	return false
}
