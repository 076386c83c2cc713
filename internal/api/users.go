package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/trocatudo/trocatudo/internal/models"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

// Admin-only user management, mounted behind RequireRole(models.RoleAdmin).

// ListUsers retrieves all users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.DB.ListUsers(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// GetUser retrieves one user
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.DB.GetUserByID(r.Context(), userID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateUser applies partial changes to a user account
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
		Role     *string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.DB.GetUserByID(r.Context(), userID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	if req.Email != nil && *req.Email != user.Email {
		existing, err := h.DB.GetUserByEmail(r.Context(), *req.Email)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		if existing != nil {
			writeError(w, http.StatusConflict, "Email already in use")
			return
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		if *req.Role != models.RoleUser && *req.Role != models.RoleModerator && *req.Role != models.RoleAdmin {
			writeError(w, http.StatusBadRequest, "Invalid role")
			return
		}
		user.Role = *req.Role
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		user.PasswordHash = string(hashed)
	}

	if err := h.DB.UpdateUser(r.Context(), user); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// DeleteUser removes a user account. Admins may not delete themselves.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := actor(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.DB.GetUserByID(r.Context(), userID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if user.ID == actorID {
		writeError(w, http.StatusConflict, "You cannot delete your own account")
		return
	}

	if err := h.DB.DeleteUser(r.Context(), userID); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}
