package middleware

import (
	"net/http"

	"clinical-data-api/internal/domain/entity"
	"clinical-data-api/pkg/response"
)

// RequireRole creates a middleware that checks if the doctor has any of the
// required roles. Role is read from context (set by AuthMiddleware from JWT
// claims).
func RequireRole(allowedTypes ...entity.DoctorType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			doctorType, ok := GetDoctorTypeFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			allowed := false
			for _, allowedType := range allowedTypes {
				if doctorType == allowedType {
					allowed = true
					break
				}
			}

			if !allowed {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireConsultant is a convenience middleware for consultant-only endpoints
func RequireConsultant(next http.Handler) http.Handler {
	return RequireRole(entity.DoctorTypeConsultant)(next)
}

// RequireResident is a convenience middleware for resident-only endpoints
func RequireResident(next http.Handler) http.Handler {
	return RequireRole(entity.DoctorTypeResident)(next)
}
