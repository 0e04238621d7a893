package auth

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/quizladder/backend/internal/config"
	"github.com/quizladder/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	username     string
	passwordHash []byte
	tokens       *Tokens
}

// NewHandler builds the admin auth handler from configuration. A plain
// password is hashed once at startup so every check goes through bcrypt.
func NewHandler(cfg *config.Config, tokens *Tokens) (*Handler, error) {
	hash := []byte(cfg.AdminPasswordHash)
	if len(hash) == 0 && cfg.AdminPassword != "" {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
	}
	if len(hash) == 0 {
		log.Println("[auth] no admin password configured, admin login disabled")
	}
	return &Handler{username: cfg.AdminUsername, passwordHash: hash, tokens: tokens}, nil
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Username and password are required"})
		return
	}

	if !h.checkCredentials(req.Username, req.Password) {
		log.Printf("[auth] failed admin login for %q", req.Username)
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid credentials"})
		return
	}

	token, expiresAt, err := h.tokens.Issue(h.username)
	if err != nil {
		log.Printf("[auth] issue token: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate token"})
		return
	}

	writeJSON(w, http.StatusOK, models.AdminLoginResponse{
		Success:   true,
		Token:     token,
		ExpiresAt: expiresAt,
		Message:   "Login successful",
		User:      models.AdminUser{Username: h.username, Role: models.RoleAdmin},
	})
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req models.AdminVerifyRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
			return
		}
	}

	token := strings.TrimSpace(req.Token)
	if token == "" {
		token = BearerToken(r)
	}
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Token is required"})
		return
	}

	claims, err := h.tokens.Parse(token)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid or expired token"})
		return
	}

	writeJSON(w, http.StatusOK, models.AdminVerifyResponse{
		Success: true,
		Valid:   true,
		User:    models.AdminUser{Username: claims.Subject, Role: claims.Role},
	})
}

// Logout is acknowledged only: tokens are stateless and expire on their own.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true, Message: "Logged out"})
}

func (h *Handler) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.username)) == 1
	if len(h.passwordHash) == 0 {
		return false
	}
	passOK := bcrypt.CompareHashAndPassword(h.passwordHash, []byte(password)) == nil
	return userOK && passOK
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
