package handlers

import (
	"context"
	"time"

	"github.com/dimitrije/wicket-api/internal/models"
	"github.com/dimitrije/wicket-api/internal/rollover"
	"github.com/dimitrije/wicket-api/internal/services"
	"github.com/dimitrije/wicket-api/internal/sse"
	"github.com/google/uuid"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, name, phone *string) (*models.User, error)
	SetPushToken(ctx context.Context, id uuid.UUID, token string) error
}

// TeamServiceInterface defines the methods used by handlers from TeamService
type TeamServiceInterface interface {
	Create(ctx context.Context, name string, ownerID uuid.UUID) (*models.Team, error)
	GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error)
	GetUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, []string, error)
	Update(ctx context.Context, teamID uuid.UUID, name string) (*models.Team, error)
	Delete(ctx context.Context, teamID uuid.UUID) error
	IsOwner(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	GetMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error)
	AddMember(ctx context.Context, teamID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RotateRefreshToken(ctx context.Context, userID uuid.UUID, oldHash, newHash string, expiresAt time.Time) error
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(user *models.User) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}

// GroundServiceInterface defines the methods used by handlers from GroundService
type GroundServiceInterface interface {
	Create(ctx context.Context, name, location string, teamID uuid.UUID, matchFee int64, createdBy uuid.UUID) (*models.Ground, error)
	GetByID(ctx context.Context, groundID uuid.UUID) (*models.Ground, error)
	List(ctx context.Context) ([]models.Ground, error)
	Update(ctx context.Context, groundID uuid.UUID, name, location *string, matchFee *int64) (*models.Ground, error)
	CanManage(ctx context.Context, groundID, userID uuid.UUID) (bool, error)
}

// ScheduleServiceInterface defines the methods used by handlers from ScheduleService
type ScheduleServiceInterface interface {
	Location() *time.Location
	GetOrCreate(ctx context.Context, groundID, ownerTeamID uuid.UUID, ref time.Time) (*models.WeeklySchedule, error)
	SetSlotMode(ctx context.Context, groundID uuid.UUID, weekOf time.Time, day models.Day, ts models.TimeSlot, mode models.SlotMode) (*services.SlotChange, error)
	CloneForward(ctx context.Context, groundID, ownerTeamID uuid.UUID, sourceWeek, targetWeek time.Time) (*models.WeeklySchedule, error)
}

// BookingServiceInterface defines the methods used by handlers from BookingService
type BookingServiceInterface interface {
	Admit(ctx context.Context, in services.AdmitInput) (*models.GroundBooking, error)
	GetByID(ctx context.Context, bookingID uuid.UUID) (*models.GroundBooking, error)
	Respond(ctx context.Context, bookingID uuid.UUID, decision models.BookingStatus, respondedBy uuid.UUID) (*models.GroundBooking, error)
	GroupPendingForOwner(ctx context.Context, groundID, userID uuid.UUID) ([]models.BookingGroup, error)
	RespondToGroup(ctx context.Context, groundID uuid.UUID, bookingIDs []uuid.UUID, decision models.BookingStatus, respondedBy uuid.UUID) ([]models.BookingResult, error)
	ListForTeam(ctx context.Context, teamID, userID uuid.UUID) ([]models.GroundBooking, error)
}

// GuestMatchServiceInterface defines the methods used by handlers from GuestMatchService
type GuestMatchServiceInterface interface {
	Create(ctx context.Context, in services.CreateGuestMatchInput) (*models.GuestMatchRequest, error)
	Get(ctx context.Context, requestID uuid.UUID) (*models.GuestMatchRequest, error)
	Respond(ctx context.Context, requestID uuid.UUID, decision models.GuestMatchStatus, respondedBy uuid.UUID) (*models.GuestMatchRequest, error)
	ListForGround(ctx context.Context, groundID, userID uuid.UUID) ([]models.GuestMatchRequest, error)
}

// RolloverRunner runs one weekly rollover pass on demand.
type RolloverRunner interface {
	RunOnce(ctx context.Context, now time.Time) (rollover.Report, error)
}

// EventHubInterface defines the methods used by handlers from sse.Hub
type EventHubInterface interface {
	Register(client *sse.Client)
	Unregister(client *sse.Client)
}
