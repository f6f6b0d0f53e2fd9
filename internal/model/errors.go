package model

import (
	"errors"

	"github.com/lib/pq"
)

/* ErrUniqueViolation is returned by record stores that do not surface
 * *pq.Error, e.g. the hosted REST store. */
var ErrUniqueViolation = errors.New("unique violation")

const uniqueViolationCode = pq.ErrorCode("23505")

func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUniqueViolation) {
		return true
	}
	var pqerr *pq.Error
	return errors.As(err, &pqerr) && pqerr.Code == uniqueViolationCode
}
