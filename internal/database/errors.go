package database

import (
	"errors"

	"github.com/lib/pq"
)

// uniqueViolationCode is the postgres error code for unique_violation
const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation, used to map duplicate slugs to a domain error
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode
	}
	return false
}
