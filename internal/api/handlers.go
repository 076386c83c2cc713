package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/trocatudo/trocatudo/internal/auth"
	"github.com/trocatudo/trocatudo/internal/db"
	"github.com/trocatudo/trocatudo/internal/models"
	"github.com/trocatudo/trocatudo/internal/trade"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	DB          *db.DB
	Engine      *trade.Engine
	AuthService *auth.AuthService
	UploadDir   string
}

// NewHandler creates a new handler
func NewHandler(db *db.DB, engine *trade.Engine, authService *auth.AuthService, uploadDir string) *Handler {
	return &Handler{DB: db, Engine: engine, AuthService: authService, UploadDir: uploadDir}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeEngineError maps engine failure categories to HTTP statuses
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, trade.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, trade.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, trade.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, trade.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// actor returns the authenticated caller's ID and role from the request
// context
func actor(r *http.Request) (int, string, bool) {
	id, ok := r.Context().Value("user_id").(int)
	role, ok2 := r.Context().Value("user_role").(string)
	return id, role, ok && ok2
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Name, email and password required")
		return
	}

	user, err := h.AuthService.Register(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login handles user login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, user, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Me returns the authenticated user's profile
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := actor(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
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

// JWTAuthMiddleware verifies JWT tokens and stores the caller's identity and
// role in the request context
func (h *Handler) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.Header.Get("Authorization")
		if tokenString == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		// Remove "Bearer " prefix if present
		if len(tokenString) > 7 && tokenString[:7] == "Bearer " {
			tokenString = tokenString[7:]
		}

		userID, role, err := h.AuthService.GetUserFromToken(tokenString)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), "user_id", userID)
		ctx = context.WithValue(ctx, "user_role", role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects callers whose role does not match
func (h *Handler) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, actorRole, ok := actor(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if actorRole != role {
				writeError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ListCategories retrieves all categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.DB.ListCategories(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// CreateCategory creates a new category (admin only)
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Slug == "" {
		writeError(w, http.StatusBadRequest, "Name and slug required")
		return
	}

	category, err := h.DB.CreateCategory(r.Context(), req.Name, req.Slug)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, category)
}
