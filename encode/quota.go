package encode

import (
	"errors"
	"fmt"
)

// QuotaCode is the machine-readable code of a QuotaError.
const QuotaCode = "ENCRYPT_QUOTA_SIZE"

// ErrQuotaExceeded matches every *QuotaError with errors.Is.
var ErrQuotaExceeded = errors.New("message exceeds the size quota")

// QuotaError is returned when the content of a message is larger than the
// quota of the Request.
type QuotaError struct {
	Limit int64 // the quota
	Size  int64 // the running total when the quota was exceeded
}

// Error returns the error message.
func (e *QuotaError) Error() string {
	return fmt.Sprintf("message of %d bytes exceeds a quota of %d", e.Size, e.Limit)
}

// Code returns QuotaCode.
func (e *QuotaError) Code() string { return QuotaCode }

// Is reports whether target is ErrQuotaExceeded.
func (e *QuotaError) Is(target error) bool { return target == ErrQuotaExceeded }

// Quota returns a pointer to n for use as Request.Quota.
func Quota(n int64) *int64 { return &n }

// quota is the running byte total of one build.
type quota struct {
	limit *int64
	total int64
}

// add counts n more bytes and fails once the total is over the limit.
func (q *quota) add(n int64) error {
	q.total += n
	if q.limit != nil && q.total > *q.limit {
		return &QuotaError{Limit: *q.limit, Size: q.total}
	}
	return nil
}
