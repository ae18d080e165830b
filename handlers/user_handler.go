// handlers/user_handler.go
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"bmeams/models"
	"bmeams/repository"
	"bmeams/utils"
)

// ListUsers returns all users (admin only, enforced in routes).
func ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	users, err := usersRepo.List(ctx)
	if err != nil {
		log.Printf("ListUsers failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, users)
}

// CreateUser registers a new user with a hashed password.
func CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Password   string `json:"password"`
		Role       string `json:"role"`
		Department string `json:"department"`
		Phone      string `json:"phone"`
	}
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" || !strings.Contains(req.Email, "@") {
		utils.RespondWithError(w, http.StatusBadRequest, "Name and valid email are required")
		return
	}
	if len(req.Password) < 8 {
		utils.RespondWithError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("CreateUser hash failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         normalizeRole(req.Role),
		Department:   req.Department,
		Phone:        req.Phone,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err = usersRepo.Create(ctx, &user)
	if errors.Is(err, repository.ErrDuplicate) {
		utils.RespondWithError(w, http.StatusConflict, "Email already registered")
		return
	}
	if err != nil {
		log.Printf("CreateUser insert failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, user)
}

// GetUser returns one user by id.
func GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := usersRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Printf("GetUser failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}

// UpdateUser changes profile fields and role.
func UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req struct {
		Name       *string `json:"name,omitempty"`
		Role       *string `json:"role,omitempty"`
		Department *string `json:"department,omitempty"`
		Phone      *string `json:"phone,omitempty"`
		Active     *bool   `json:"active,omitempty"`
	}
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := usersRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Printf("UpdateUser lookup failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = normalizeRole(*req.Role)
	}
	if req.Department != nil {
		user.Department = *req.Department
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Active != nil {
		user.Active = *req.Active
	}

	if err := usersRepo.Update(ctx, user); err != nil {
		log.Printf("UpdateUser write failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}

// DeleteUser deactivates a user instead of removing the row, so historical
// assignments keep resolving.
func DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err = usersRepo.Deactivate(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Printf("DeleteUser failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to deactivate user")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]int64{"id": id})
}
