package web

import (
	"errors"
	"net/http"

	"github.com/mryoshq/Accounting-AI/internal/core"
)

type userRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	IsActive    *bool  `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
}

type userPatch struct {
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	FullName    *string `json:"full_name"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser *bool   `json:"is_superuser"`
}

type apiTokenRequest struct {
	APIToken string `json:"api_token"`
	Password string `json:"password"`
}

type profileRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// requireSuperuser gates user management to superuser sessions.
func requireSuperuser(w http.ResponseWriter, r *http.Request) bool {
	claims := authFromContext(r.Context())
	if claims == nil || !claims.IsSuperuser {
		writeError(w, r, "superuser privileges required", "FORBIDDEN", http.StatusForbidden)
		return false
	}
	return true
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	if !requireSuperuser(w, r) {
		return
	}
	var req userRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, r, "email and password are required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	user, err := h.svc.CreateUser(r.Context(), core.UserInput{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		IsActive:    active,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, user)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	if !requireSuperuser(w, r) {
		return
	}
	skip, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	users, total, err := h.svc.GetUsers(r.Context(), skip, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, collection(users, total))
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	if !requireSuperuser(w, r) {
		return
	}
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	user, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, user)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	if !requireSuperuser(w, r) {
		return
	}
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var req userPatch
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.svc.UpdateUser(r.Context(), id, core.UserUpdate{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		IsActive:    req.IsActive,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, user)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if !requireSuperuser(w, r) {
		return
	}
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	claims := authFromContext(r.Context())
	if claims != nil && claims.UserID == id {
		writeError(w, r, "cannot delete the current user", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"message": "User deleted successfully"})
}

// updateMe handles PATCH /api/users/me. Only the profile fields are
// editable; privilege flags stay superuser-only.
func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	if claims == nil {
		writeError(w, r, "not authenticated", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}
	var req profileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.svc.UpdateUser(r.Context(), claims.UserID, core.UserUpdate{
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, user)
}

// updateMyPassword handles PATCH /api/users/me/password. The current
// password must be confirmed and the new one must differ from it.
func (h *Handler) updateMyPassword(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	if claims == nil {
		writeError(w, r, "not authenticated", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}
	var req passwordChangeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.NewPassword == "" {
		writeError(w, r, "new_password is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if req.NewPassword == req.CurrentPassword {
		writeError(w, r, "new password cannot be the same as the current one", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if !h.confirmPassword(w, r, claims.UserID, req.CurrentPassword) {
		return
	}

	if _, err := h.svc.UpdateUser(r.Context(), claims.UserID, core.UserUpdate{
		Password: &req.NewPassword,
	}); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"message": "Password updated successfully"})
}

// putAPIToken handles PUT /api/users/me/api-token. Writing a key requires
// superuser privileges and the caller's current password; the raw key is
// encrypted before storage and an empty key clears it.
func (h *Handler) putAPIToken(w http.ResponseWriter, r *http.Request) {
	if !requireSuperuser(w, r) {
		return
	}
	claims := authFromContext(r.Context())
	var req apiTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.confirmPassword(w, r, claims.UserID, req.Password) {
		return
	}

	result, err := h.svc.StoreAPIToken(r.Context(), claims.UserID, req.APIToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// getAPITokenPreview handles GET /api/users/me/api-token.
func (h *Handler) getAPITokenPreview(w http.ResponseWriter, r *http.Request) {
	if !requireSuperuser(w, r) {
		return
	}
	claims := authFromContext(r.Context())

	result, err := h.svc.APITokenPreview(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// confirmPassword re-checks the caller's password before a sensitive write.
func (h *Handler) confirmPassword(w http.ResponseWriter, r *http.Request, userID int, password string) bool {
	if err := h.svc.CheckPassword(r.Context(), userID, password); err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			writeError(w, r, "incorrect password", "UNAUTHORIZED", http.StatusUnauthorized)
			return false
		}
		writeServiceError(w, r, err)
		return false
	}
	return true
}
