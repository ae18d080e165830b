package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"bmeams/handlers"
	"bmeams/middleware"
	"bmeams/models"
)

// HTTP method constants for better maintainability
var (
	MethodsGetOnly    = []string{"GET", "OPTIONS"}
	MethodsPostOnly   = []string{"POST", "OPTIONS"}
	MethodsPutOnly    = []string{"PUT", "OPTIONS"}
	MethodsDeleteOnly = []string{"DELETE", "OPTIONS"}
)

// Route grouping constants
const (
	PathAPI    = "/api"
	PathHealth = "/health"
)

func RegisterRoutes(r *mux.Router) {
	// ====================
	// HEALTH CHECK (Public)
	// ====================
	r.HandleFunc(PathHealth, handlers.HealthCheck).Methods(MethodsGetOnly...)

	// ====================
	// AUTHENTICATION ROUTES (Public - No auth required)
	// ====================
	r.HandleFunc("/api/auth/login", handlers.Login).Methods(MethodsPostOnly...)
	r.HandleFunc("/api/auth/validate", handlers.ValidateToken).Methods(MethodsGetOnly...)

	// ====================
	// PROTECTED API ROUTES (Require authentication)
	// ====================
	apiRouter := r.PathPrefix(PathAPI).Subrouter()
	apiRouter.Use(middleware.AuthMiddleware)

	// Roles allowed to mutate records; deletes stay admin-only
	canEdit := middleware.RequireRole(models.RoleAdmin, models.RoleEngineer, models.RoleTechnician)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// ====================
	// NOTIFICATIONS (WebSocket)
	// ====================
	apiRouter.HandleFunc("/ws", handlers.ServeNotifications)

	// ====================
	// CURRENT USER
	// ====================
	apiRouter.HandleFunc("/user/me", handlers.GetCurrentUser).Methods(MethodsGetOnly...)

	// ====================
	// USER MANAGEMENT (admin)
	// ====================
	apiRouter.Handle("/users", adminOnly(http.HandlerFunc(handlers.ListUsers))).Methods(MethodsGetOnly...)
	apiRouter.Handle("/users", adminOnly(http.HandlerFunc(handlers.CreateUser))).Methods(MethodsPostOnly...)
	apiRouter.Handle("/users/{id:[0-9]+}", adminOnly(http.HandlerFunc(handlers.GetUser))).Methods(MethodsGetOnly...)
	apiRouter.Handle("/users/{id:[0-9]+}", adminOnly(http.HandlerFunc(handlers.UpdateUser))).Methods(MethodsPutOnly...)
	apiRouter.Handle("/users/{id:[0-9]+}", adminOnly(http.HandlerFunc(handlers.DeleteUser))).Methods(MethodsDeleteOnly...)

	// ====================
	// DASHBOARD
	// ====================
	apiRouter.HandleFunc("/dashboard", handlers.GetDashboard).Methods(MethodsGetOnly...)

	// ====================
	// ASSETS
	// ====================
	apiRouter.HandleFunc("/assets", handlers.ListAssets).Methods(MethodsGetOnly...)
	apiRouter.Handle("/assets", canEdit(http.HandlerFunc(handlers.CreateAsset))).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/assets/export", handlers.ExportAssets).Methods(MethodsGetOnly...)

	// Replacement insights must register before the {id} routes
	apiRouter.HandleFunc("/assets/insights/replacement", handlers.GetReplacementInsights).Methods(MethodsGetOnly...)
	apiRouter.Handle("/assets/insights/replacement/apply",
		canEdit(http.HandlerFunc(handlers.ApplyReplacementRecommendations))).Methods(MethodsPostOnly...)

	apiRouter.HandleFunc("/assets/{id}", handlers.GetAsset).Methods(MethodsGetOnly...)
	apiRouter.Handle("/assets/{id}", canEdit(http.HandlerFunc(handlers.UpdateAsset))).Methods(MethodsPutOnly...)
	apiRouter.Handle("/assets/{id}", adminOnly(http.HandlerFunc(handlers.DeleteAsset))).Methods(MethodsDeleteOnly...)

	apiRouter.HandleFunc("/assets/{id}/history", handlers.GetAssetHistory).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/assets/{id}/qr", handlers.GetAssetQR).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/assets/{id}/lifecycle", handlers.GetAssetLifecycle).Methods(MethodsGetOnly...)
	apiRouter.Handle("/assets/{id}/lifecycle", canEdit(http.HandlerFunc(handlers.UpdateAssetLifecycle))).Methods(MethodsPutOnly...)

	// ====================
	// CONTRACTS
	// ====================
	apiRouter.HandleFunc("/contracts", handlers.ListContracts).Methods(MethodsGetOnly...)
	apiRouter.Handle("/contracts", canEdit(http.HandlerFunc(handlers.CreateContract))).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/contracts/expiring", handlers.GetExpiringContracts).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/contracts/{id}", handlers.GetContract).Methods(MethodsGetOnly...)
	apiRouter.Handle("/contracts/{id}", canEdit(http.HandlerFunc(handlers.UpdateContract))).Methods(MethodsPutOnly...)
	apiRouter.Handle("/contracts/{id}", adminOnly(http.HandlerFunc(handlers.DeleteContract))).Methods(MethodsDeleteOnly...)

	// ====================
	// COMPLAINTS
	// ====================
	apiRouter.HandleFunc("/complaints", handlers.ListComplaints).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/complaints", handlers.CreateComplaint).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/complaints/{id:[0-9]+}", handlers.GetComplaint).Methods(MethodsGetOnly...)
	apiRouter.Handle("/complaints/{id:[0-9]+}", canEdit(http.HandlerFunc(handlers.UpdateComplaint))).Methods(MethodsPutOnly...)
	apiRouter.Handle("/complaints/{id:[0-9]+}", adminOnly(http.HandlerFunc(handlers.DeleteComplaint))).Methods(MethodsDeleteOnly...)

	// ====================
	// WORK ORDERS
	// ====================
	apiRouter.HandleFunc("/workorders", handlers.ListWorkOrders).Methods(MethodsGetOnly...)
	apiRouter.Handle("/workorders", canEdit(http.HandlerFunc(handlers.CreateWorkOrder))).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/workorders/{id:[0-9]+}", handlers.GetWorkOrder).Methods(MethodsGetOnly...)
	apiRouter.Handle("/workorders/{id:[0-9]+}", canEdit(http.HandlerFunc(handlers.UpdateWorkOrder))).Methods(MethodsPutOnly...)
	apiRouter.Handle("/workorders/{id:[0-9]+}", adminOnly(http.HandlerFunc(handlers.DeleteWorkOrder))).Methods(MethodsDeleteOnly...)

	// ====================
	// PREVENTIVE MAINTENANCE
	// ====================
	apiRouter.HandleFunc("/maintenance", handlers.ListMaintenance).Methods(MethodsGetOnly...)
	apiRouter.Handle("/maintenance", canEdit(http.HandlerFunc(handlers.CreateMaintenance))).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/maintenance/{id:[0-9]+}", handlers.GetMaintenance).Methods(MethodsGetOnly...)
	apiRouter.Handle("/maintenance/{id:[0-9]+}", canEdit(http.HandlerFunc(handlers.UpdateMaintenance))).Methods(MethodsPutOnly...)
	apiRouter.Handle("/maintenance/{id:[0-9]+}", adminOnly(http.HandlerFunc(handlers.DeleteMaintenance))).Methods(MethodsDeleteOnly...)
}
