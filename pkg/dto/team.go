package dto

import "github.com/google/uuid"

type CreateTeamRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type UpdateTeamRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type AddMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type TeamResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	OwnerID uuid.UUID `json:"owner_id"`
	Role    string    `json:"role"`
}

type TeamMemberResponse struct {
	ID     uuid.UUID    `json:"id"`
	UserID uuid.UUID    `json:"user_id"`
	Role   string       `json:"role"`
	User   UserResponse `json:"user"`
}
