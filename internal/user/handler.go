// internal/user/handler.go
package user

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/SolterraRealty/api-backoffice/internal/auth"
	"github.com/SolterraRealty/api-backoffice/internal/notification"
	"github.com/SolterraRealty/api-backoffice/internal/utils"
)

// Handler wires DB, repository and the mailer for password resets.
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Mailer     *notification.Mailer
	Log        *logrus.Logger
}

func NewHandler(db *gorm.DB, mailer *notification.Mailer, log *logrus.Logger) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Mailer:     mailer,
		Log:        log,
	}
}

// POST /register
// Self-service registration always creates a client account; staff and admin
// accounts are created through the admin update endpoint.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		http.Error(w, "failed to process password", http.StatusInternalServerError)
		return
	}

	u := User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         RoleClient,
		Active:       true,
	}

	if err := h.Repository.Save(h.DB, &u); err != nil {
		http.Error(w, "failed to save user", http.StatusInternalServerError)
		return
	}

	h.Log.Infof("User registered: %s", u.Email)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(u)
}

// POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	u, err := h.Repository.FindByEmail(h.DB, req.Email)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if !u.Active {
		http.Error(w, "account is deactivated", http.StatusUnauthorized)
		return
	}
	if !utils.CheckPassword(u.PasswordHash, req.Password) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateToken(u.ID, u.Role)
	if err != nil {
		http.Error(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"token":              token,
		"mustChangePassword": u.MustChangePassword,
	})
}

// GET /users
// Admin sees everyone; everyone else sees only themselves.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)

	if auth.Role(r) == RoleAdmin {
		users, err := h.Repository.ListAll(h.DB)
		if err != nil {
			http.Error(w, "failed to list users", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(users)
		return
	}

	u, err := h.Repository.FindByID(h.DB, userID)
	if err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode([]User{*u})
}

// GET /users/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid user ID", http.StatusBadRequest)
		return
	}
	if auth.Role(r) != RoleAdmin && auth.Role(r) != RoleStaff && uint(id) != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	u, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(u)
}

// PUT /users/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)
	isAdmin := auth.Role(r) == RoleAdmin

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid user ID", http.StatusBadRequest)
		return
	}
	if !isAdmin && uint(id) != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	u, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	// Partial update: omitted fields keep their stored value.
	if req.FirstName != "" {
		u.FirstName = req.FirstName
	}
	if req.LastName != "" {
		u.LastName = req.LastName
	}
	if req.Phone != "" {
		u.Phone = req.Phone
	}
	if isAdmin && req.Role != "" {
		if !ValidRole(req.Role) {
			http.Error(w, "invalid role", http.StatusBadRequest)
			return
		}
		u.Role = req.Role
	}

	if err := h.Repository.Save(h.DB, u); err != nil {
		http.Error(w, "failed to update user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(u)
}

// POST /users/{id}/change-password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r)

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || uint(id) != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	u, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	if !utils.CheckPassword(u.PasswordHash, req.CurrentPassword) {
		http.Error(w, "current password is incorrect", http.StatusUnauthorized)
		return
	}
	if len(req.NewPassword) < 8 {
		http.Error(w, "new password must have at least 8 characters", http.StatusBadRequest)
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		http.Error(w, "failed to process password", http.StatusInternalServerError)
		return
	}
	u.PasswordHash = hash
	u.MustChangePassword = false

	if err := h.Repository.Save(h.DB, u); err != nil {
		http.Error(w, "failed to update password", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// POST /users/{id}/reset-password (admin)
// Generates a temporary password and emails it to the user.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid user ID", http.StatusBadRequest)
		return
	}

	u, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	temp, err := utils.GenerateTemporaryPassword()
	if err != nil {
		http.Error(w, "failed to generate password", http.StatusInternalServerError)
		return
	}
	hash, err := utils.HashPassword(temp)
	if err != nil {
		http.Error(w, "failed to process password", http.StatusInternalServerError)
		return
	}

	u.PasswordHash = hash
	u.MustChangePassword = true
	if err := h.Repository.Save(h.DB, u); err != nil {
		http.Error(w, "failed to reset password", http.StatusInternalServerError)
		return
	}

	go func(email, name, pw string) {
		if err := h.Mailer.SendTemporaryPassword(email, name, pw); err != nil {
			h.Log.Warnf("Temporary password email to %s failed: %v", email, err)
		}
	}(u.Email, u.FirstName, temp)

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"message":"temporary password sent"}`))
}

// POST /users/{id}/deactivate (admin)
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid user ID", http.StatusBadRequest)
		return
	}

	if err := h.Repository.Deactivate(h.DB, uint(id)); err != nil {
		http.Error(w, "failed to deactivate user", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
