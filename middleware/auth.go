package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"bmeams/database"
	"bmeams/repository"
	"bmeams/utils"
)

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip authentication for WebSocket upgrade requests
		if r.Header.Get("Upgrade") == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		users := repository.NewUsersRepository(database.SQL)
		user, err := users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			log.Printf("AuthMiddleware: user %d not found: %v", claims.UserID, err)
			utils.RespondWithError(w, http.StatusUnauthorized, "User not found")
			return
		}
		if !user.Active {
			utils.RespondWithError(w, http.StatusForbidden, "User account is deactivated")
			return
		}

		ctx := context.WithValue(r.Context(), "userID", user.ID)
		ctx = context.WithValue(ctx, "userName", user.Name)
		ctx = context.WithValue(ctx, "userRole", user.Role)
		ctx = context.WithValue(ctx, "userDepartment", user.Department)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole wraps a handler and rejects requests whose authenticated role
// is not in the allowed set.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := map[string]bool{}
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _ := r.Context().Value("userRole").(string)
			if !allowed[role] {
				utils.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
