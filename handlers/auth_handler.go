// handlers/auth_handler.go
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"bmeams/models"
	"bmeams/repository"
	"bmeams/utils"
)

func normalizeRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))

	switch role {
	case models.RoleAdmin:
		return models.RoleAdmin
	case models.RoleEngineer:
		return models.RoleEngineer
	case models.RoleTechnician:
		return models.RoleTechnician
	case models.RoleViewer:
		return models.RoleViewer
	default:
		return models.RoleViewer // least privilege fallback
	}
}

// Login authenticates against the relational user store and issues a JWT.
func Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := utils.ParseJSON(r, &creds); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || !strings.Contains(creds.Email, "@") {
		utils.RespondWithError(w, http.StatusBadRequest, "Valid email required")
		return
	}
	if len(creds.Password) < 6 {
		utils.RespondWithError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := usersRepo.GetByEmail(ctx, creds.Email)
	if errors.Is(err, repository.ErrNotFound) {
		// constant-time-ish: burn a bcrypt compare even for unknown emails
		_ = utils.CheckPasswordHash("dummy_password", "$2a$10$dummyhashfordummycomparison")
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		log.Printf("Login lookup failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	if !user.Active {
		utils.RespondWithError(w, http.StatusForbidden, "User account is deactivated")
		return
	}
	if !utils.CheckPasswordHash(creds.Password, user.PasswordHash) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	role := normalizeRole(user.Role)
	token, err := utils.GenerateJWT(user.ID, user.Name, role, user.Department)
	if err != nil {
		log.Printf("Login token generation failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"role":       role,
			"department": user.Department,
		},
	})
}

// ValidateToken confirms a bearer token is still valid.
func ValidateToken(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
		return
	}

	claims, err := utils.ValidateJWT(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"userID":     claims.UserID,
		"name":       claims.Name,
		"role":       claims.Role,
		"department": claims.Department,
		"expiresAt":  claims.ExpiresAt,
	})
}

// GetCurrentUser returns the authenticated user's profile.
func GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := usersRepo.GetByID(ctx, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}
