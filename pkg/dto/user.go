package dto

import "github.com/google/uuid"

type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Phone      *string   `json:"phone,omitempty"`
	GlobalRole string    `json:"global_role"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Phone *string `json:"phone" validate:"omitempty,e164"`
}

// PushTokenRequest registers a device. An empty token unregisters it.
type PushTokenRequest struct {
	Token string `json:"token" validate:"max=255"`
}
