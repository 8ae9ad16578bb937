// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

// UpdateMeRequest carries the self-service profile fields. Password
// fields are declared only so the handler can reject them with a
// pointer at the password route.
type UpdateMeRequest struct {
	Name  *string `json:"name,omitempty"  validate:"omitempty,min=4,max=20,alphaspace"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Photo *string `json:"photo,omitempty" validate:"omitempty,max=255"`

	Password        *string `json:"password,omitempty"`
	PasswordConfirm *string `json:"passwordConfirm,omitempty"`
}

func (r *UpdateMeRequest) ContainsPassword() bool {
	return r.Password != nil || r.PasswordConfirm != nil
}

// AdminUpdateUserRequest additionally allows role and active changes.
type AdminUpdateUserRequest struct {
	Name   *string `json:"name,omitempty"   validate:"omitempty,min=4,max=20,alphaspace"`
	Email  *string `json:"email,omitempty"  validate:"omitempty,email,max=255"`
	Photo  *string `json:"photo,omitempty"  validate:"omitempty,max=255"`
	Role   *string `json:"role,omitempty"   validate:"omitempty,oneof=user guide admin"`
	Active *bool   `json:"active,omitempty"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Photo     string    `json:"photo,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID.Hex(),
		Name:      u.Name,
		Email:     u.Email,
		Photo:     u.Photo,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
