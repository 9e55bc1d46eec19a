package handler

import (
	"net/http"
	"strconv"

	"clinical-data-api/internal/delivery/http/middleware"
	"clinical-data-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// parsePagination reads skip/limit query parameters, clamping limit to a
// sane range. Bad values fall back to the defaults.
func parsePagination(r *http.Request) (skip, limit int) {
	limit = defaultLimit
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			skip = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return skip, limit
}

// identity pulls the authenticated doctor's id and role out of the request
// context.
func identity(r *http.Request) (uuid.UUID, entity.DoctorType, bool) {
	doctorID, ok := middleware.GetDoctorIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, "", false
	}
	doctorType, ok := middleware.GetDoctorTypeFromContext(r.Context())
	if !ok {
		return uuid.Nil, "", false
	}
	return doctorID, doctorType, true
}

// parseUUIDVar extracts a UUID path variable.
func parseUUIDVar(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
