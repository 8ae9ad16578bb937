// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

type SignupRequest struct {
	Name            string `json:"name"            validate:"required,min=4,max=20,alphaspace"`
	Email           string `json:"email"           validate:"required,email,max=255"`
	Password        string `json:"password"        validate:"required,min=8,max=128"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password"        validate:"required,min=8,max=128"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

type UpdatePasswordRequest struct {
	Password           string `json:"password"           validate:"required"`
	NewPassword        string `json:"newPassword"        validate:"required,min=8,max=128"`
	NewPasswordConfirm string `json:"newPasswordConfirm" validate:"required,eqfield=NewPassword"`
}

// UserView is the account shape returned by authentication endpoints:
// no password, no role, no active flag.
type UserView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Photo     string    `json:"photo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

func toUserView(u *UserInfo) UserView {
	return UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Photo:     u.Photo,
		CreatedAt: u.CreatedAt,
	}
}
