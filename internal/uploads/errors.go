package uploads

import (
	"errors"
	"net/http"

	"github.com/copyfy/copyfy/internal/media"
	"github.com/copyfy/copyfy/pkg/identity"
)

// Precondition errors for batch submission. Each is rejected before any
// network effect.
var (
	ErrRightsUnconfirmed = errors.New("rights confirmation required")
	ErrEmptyQueue        = errors.New("no files queued")
)

// MapHTTPStatus maps upload errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, identity.ErrSignedOut) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrRightsUnconfirmed) || errors.Is(err, ErrEmptyQueue) {
		return http.StatusBadRequest
	}
	if errors.Is(err, media.ErrLicense) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
