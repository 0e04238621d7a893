package models

import "time"

const RoleAdmin = "admin"

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AdminUser struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type AdminLoginResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Message   string    `json:"message,omitempty"`
	User      AdminUser `json:"user"`
}

type AdminVerifyRequest struct {
	Token string `json:"token"`
}

type AdminVerifyResponse struct {
	Success bool      `json:"success"`
	Valid   bool      `json:"valid"`
	User    AdminUser `json:"user"`
}
