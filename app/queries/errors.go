package queries

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrForbidden           = errors.New("not allowed to modify this record")
	ErrNoFieldsToUpdate    = errors.New("no fields to update")
	ErrAlreadyExists       = errors.New("record already exists")
	ErrInUse               = errors.New("record is still referenced by other records")
	ErrBelowStartingPrice  = errors.New("bid price is below the starting price")
	ErrAdvertisementClosed = errors.New("advertisement is closed")
	ErrDuplicateEvent      = errors.New("payment event already processed")
	ErrFeeNotConfigured    = errors.New("no transaction fee configured for account type")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pqCode(err) == pqUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pqCode(err) == pqForeignKeyViolation
}
