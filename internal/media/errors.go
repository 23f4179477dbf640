package media

import (
	"errors"
	"net/http"
)

// Domain errors for media operations.
var (
	ErrNotFound      = errors.New("media record not found")
	ErrDuplicate     = errors.New("media record already exists")
	ErrNotOwner      = errors.New("record belongs to a different principal")
	ErrLicense       = errors.New("license not allowed")
	ErrInvalidUpload = errors.New("invalid upload")

	// ErrIndexRequired indicates the store rejected a query shape because
	// the supporting keyword search index does not exist. Callers must
	// classify it separately from generic query failures.
	ErrIndexRequired = errors.New("query requires the keyword search index")
)

// MapHTTPStatus maps media domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrNotOwner) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrLicense) || errors.Is(err, ErrInvalidUpload) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrIndexRequired) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
