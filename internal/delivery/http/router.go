package http

import (
	"net/http"

	"clinical-data-api/internal/delivery/http/handler"
	"clinical-data-api/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router                *mux.Router
	authHandler           *handler.AuthHandler
	doctorHandler         *handler.DoctorHandler
	patientHandler        *handler.PatientHandler
	clinicalRecordHandler *handler.ClinicalRecordHandler
	auditLogHandler       *handler.AuditLogHandler
	authMiddleware        *middleware.AuthMiddleware
	corsMiddleware        *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	doctorHandler *handler.DoctorHandler,
	patientHandler *handler.PatientHandler,
	clinicalRecordHandler *handler.ClinicalRecordHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:                mux.NewRouter(),
		authHandler:           authHandler,
		doctorHandler:         doctorHandler,
		patientHandler:        patientHandler,
		clinicalRecordHandler: clinicalRecordHandler,
		auditLogHandler:       auditLogHandler,
		authMiddleware:        authMiddleware,
		corsMiddleware:        corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/token", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.Me).Methods(http.MethodGet)

	// Doctor routes (protected, any role)
	doctors := api.PathPrefix("/doctors").Subrouter()
	doctors.Use(r.authMiddleware.Authenticate)
	doctors.HandleFunc("/consultants", r.doctorHandler.ListConsultants).Methods(http.MethodGet)
	doctors.HandleFunc("/residents", r.doctorHandler.ListResidents).Methods(http.MethodGet)
	doctors.HandleFunc("/me", r.doctorHandler.UpdateMe).Methods(http.MethodPut)
	doctors.HandleFunc("/{id}", r.doctorHandler.Get).Methods(http.MethodGet)

	// Doctor management (consultant only)
	doctorAdmin := api.PathPrefix("/doctors").Subrouter()
	doctorAdmin.Use(r.authMiddleware.Authenticate)
	doctorAdmin.Use(middleware.RequireConsultant)
	doctorAdmin.HandleFunc("", r.doctorHandler.Create).Methods(http.MethodPost)
	doctorAdmin.HandleFunc("/{id}", r.doctorHandler.Update).Methods(http.MethodPut)
	doctorAdmin.HandleFunc("/{id}", r.doctorHandler.Delete).Methods(http.MethodDelete)

	// Patient routes (protected; fine-grained access enforced in usecases)
	patients := api.PathPrefix("/patients").Subrouter()
	patients.Use(r.authMiddleware.Authenticate)
	patients.HandleFunc("/my-patients", r.patientHandler.ListMine).Methods(http.MethodGet)
	patients.HandleFunc("/{id}", r.patientHandler.Get).Methods(http.MethodGet)
	patients.HandleFunc("/{id}", r.patientHandler.Update).Methods(http.MethodPut)
	patients.HandleFunc("/{id}/assignments", r.patientHandler.AssignmentHistory).Methods(http.MethodGet)
	patients.HandleFunc("/{id}/clinical-records", r.clinicalRecordHandler.Upload).Methods(http.MethodPost)
	patients.HandleFunc("/{id}/clinical-records", r.clinicalRecordHandler.ListByPatient).Methods(http.MethodGet)

	// Patient management (consultant only)
	patientAdmin := api.PathPrefix("/patients").Subrouter()
	patientAdmin.Use(r.authMiddleware.Authenticate)
	patientAdmin.Use(middleware.RequireConsultant)
	patientAdmin.HandleFunc("", r.patientHandler.Create).Methods(http.MethodPost)
	patientAdmin.HandleFunc("/{id}/assign", r.patientHandler.AssignResident).Methods(http.MethodPost)

	// Clinical record routes (protected)
	records := api.PathPrefix("/clinical-records").Subrouter()
	records.Use(r.authMiddleware.Authenticate)
	records.HandleFunc("/{id}", r.clinicalRecordHandler.Get).Methods(http.MethodGet)
	records.HandleFunc("/{id}/status", r.clinicalRecordHandler.UpdateStatus).Methods(http.MethodPatch)
	records.HandleFunc("/{id}/reprocess", r.clinicalRecordHandler.Reprocess).Methods(http.MethodPost)

	// Audit trail (consultant only)
	audit := api.PathPrefix("/audit-logs").Subrouter()
	audit.Use(r.authMiddleware.Authenticate)
	audit.Use(middleware.RequireConsultant)
	audit.HandleFunc("", r.auditLogHandler.List).Methods(http.MethodGet)
	audit.HandleFunc("/{id}", r.auditLogHandler.Get).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
