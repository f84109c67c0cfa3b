// Package respond writes JSON bodies and maps core errors to HTTP status codes.
package respond

import (
	"net/http"

	"pinboard-server/core"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

// ErrResponse is the body of every error response.
type ErrResponse struct {
	Detail string `json:"detail"`
}

// StatusOf returns the HTTP status for err's core.Kind.
func StatusOf(err error) int {
	switch core.KindOf(err) {
	case core.KindValidation:
		return http.StatusBadRequest
	case core.KindUnprocessable:
		return http.StatusUnprocessableEntity
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindAuthRequired:
		return http.StatusUnauthorized
	case core.KindAuthForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error renders err as {"detail": ...}. Errors that are not *core.Error are logged
// and hidden behind a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	log := logrus.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": status,
		"kind":   core.KindOf(err).String(),
	})

	detail := err.Error()
	switch {
	case core.KindOf(err) == core.KindInternal:
		log.WithError(err).Error("Request failed")
		detail = "Internal server error"
	case status >= http.StatusInternalServerError:
		log.WithError(err).Error("Request failed")
	default:
		log.WithError(err).Debug("Request rejected")
	}

	render.Status(r, status)
	render.JSON(w, r, ErrResponse{Detail: detail})
}

// JSON renders v with the given status.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}
