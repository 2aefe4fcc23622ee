// AngelaMos | 2026
// dto.go

package auth

type AdminLoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type ClientLoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Pin      string `json:"pin"      validate:"required,max=32"`
}

// LoginRequest is the unified form: identifier is an admin email or a
// client username, secret is the matching password or PIN.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=255"`
	Secret     string `json:"secret"     validate:"required,max=128"`
}

type RequestResetRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"       validate:"required,max=128"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=128"`
}

type TokenResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}
