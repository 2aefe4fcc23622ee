// AngelaMos | 2026
// dto.go

package admin

type UpdateProfileRequest struct {
	Email       *string `json:"email,omitempty"       validate:"omitempty,email,max=255"`
	NewPassword *string `json:"newPassword,omitempty" validate:"omitempty,min=8,max=128"`
}

type ProfileResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}
