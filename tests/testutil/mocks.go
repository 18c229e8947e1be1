package testutil

import (
	"context"
	"time"

	"github.com/dimitrije/wicket-api/internal/models"
	"github.com/dimitrije/wicket-api/internal/rollover"
	"github.com/dimitrije/wicket-api/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id uuid.UUID, name, phone *string) (*models.User, error) {
	args := m.Called(ctx, id, name, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) SetPushToken(ctx context.Context, id uuid.UUID, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

// MockTeamService mocks the TeamService
type MockTeamService struct {
	mock.Mock
}

func (m *MockTeamService) Create(ctx context.Context, name string, ownerID uuid.UUID) (*models.Team, error) {
	args := m.Called(ctx, name, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) GetUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, []string, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Team), args.Get(1).([]string), args.Error(2)
}

func (m *MockTeamService) Update(ctx context.Context, teamID uuid.UUID, name string) (*models.Team, error) {
	args := m.Called(ctx, teamID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) Delete(ctx context.Context, teamID uuid.UUID) error {
	args := m.Called(ctx, teamID)
	return args.Error(0)
}

func (m *MockTeamService) IsOwner(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, teamID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTeamService) IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, teamID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTeamService) GetMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).([]models.TeamMember), args.Error(1)
}

func (m *MockTeamService) AddMember(ctx context.Context, teamID, userID uuid.UUID) error {
	args := m.Called(ctx, teamID, userID)
	return args.Error(0)
}

func (m *MockTeamService) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	args := m.Called(ctx, teamID, userID)
	return args.Error(0)
}

// MockTokenService mocks the TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTokenService) RotateRefreshToken(ctx context.Context, userID uuid.UUID, oldHash, newHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, oldHash, newHash, expiresAt)
	return args.Error(0)
}

func (m *MockTokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockTokenService) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockGroundService mocks the GroundService
type MockGroundService struct {
	mock.Mock
}

func (m *MockGroundService) Create(ctx context.Context, name, location string, teamID uuid.UUID, matchFee int64, createdBy uuid.UUID) (*models.Ground, error) {
	args := m.Called(ctx, name, location, teamID, matchFee, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ground), args.Error(1)
}

func (m *MockGroundService) GetByID(ctx context.Context, groundID uuid.UUID) (*models.Ground, error) {
	args := m.Called(ctx, groundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ground), args.Error(1)
}

func (m *MockGroundService) List(ctx context.Context) ([]models.Ground, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Ground), args.Error(1)
}

func (m *MockGroundService) Update(ctx context.Context, groundID uuid.UUID, name, location *string, matchFee *int64) (*models.Ground, error) {
	args := m.Called(ctx, groundID, name, location, matchFee)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ground), args.Error(1)
}

func (m *MockGroundService) CanManage(ctx context.Context, groundID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, groundID, userID)
	return args.Bool(0), args.Error(1)
}

// MockScheduleService mocks the ScheduleService
type MockScheduleService struct {
	mock.Mock
	Loc *time.Location
}

func (m *MockScheduleService) Location() *time.Location {
	if m.Loc == nil {
		return time.UTC
	}
	return m.Loc
}

func (m *MockScheduleService) GetOrCreate(ctx context.Context, groundID, ownerTeamID uuid.UUID, ref time.Time) (*models.WeeklySchedule, error) {
	args := m.Called(ctx, groundID, ownerTeamID, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WeeklySchedule), args.Error(1)
}

func (m *MockScheduleService) SetSlotMode(ctx context.Context, groundID uuid.UUID, weekOf time.Time, day models.Day, ts models.TimeSlot, mode models.SlotMode) (*services.SlotChange, error) {
	args := m.Called(ctx, groundID, weekOf, day, ts, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SlotChange), args.Error(1)
}

func (m *MockScheduleService) CloneForward(ctx context.Context, groundID, ownerTeamID uuid.UUID, sourceWeek, targetWeek time.Time) (*models.WeeklySchedule, error) {
	args := m.Called(ctx, groundID, ownerTeamID, sourceWeek, targetWeek)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WeeklySchedule), args.Error(1)
}

// MockBookingService mocks the BookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Admit(ctx context.Context, in services.AdmitInput) (*models.GroundBooking, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GroundBooking), args.Error(1)
}

func (m *MockBookingService) GetByID(ctx context.Context, bookingID uuid.UUID) (*models.GroundBooking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GroundBooking), args.Error(1)
}

func (m *MockBookingService) Respond(ctx context.Context, bookingID uuid.UUID, decision models.BookingStatus, respondedBy uuid.UUID) (*models.GroundBooking, error) {
	args := m.Called(ctx, bookingID, decision, respondedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GroundBooking), args.Error(1)
}

func (m *MockBookingService) GroupPendingForOwner(ctx context.Context, groundID, userID uuid.UUID) ([]models.BookingGroup, error) {
	args := m.Called(ctx, groundID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookingGroup), args.Error(1)
}

func (m *MockBookingService) RespondToGroup(ctx context.Context, groundID uuid.UUID, bookingIDs []uuid.UUID, decision models.BookingStatus, respondedBy uuid.UUID) ([]models.BookingResult, error) {
	args := m.Called(ctx, groundID, bookingIDs, decision, respondedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookingResult), args.Error(1)
}

func (m *MockBookingService) ListForTeam(ctx context.Context, teamID, userID uuid.UUID) ([]models.GroundBooking, error) {
	args := m.Called(ctx, teamID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GroundBooking), args.Error(1)
}

// MockGuestMatchService mocks the GuestMatchService
type MockGuestMatchService struct {
	mock.Mock
}

func (m *MockGuestMatchService) Create(ctx context.Context, in services.CreateGuestMatchInput) (*models.GuestMatchRequest, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuestMatchRequest), args.Error(1)
}

func (m *MockGuestMatchService) Get(ctx context.Context, requestID uuid.UUID) (*models.GuestMatchRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuestMatchRequest), args.Error(1)
}

func (m *MockGuestMatchService) Respond(ctx context.Context, requestID uuid.UUID, decision models.GuestMatchStatus, respondedBy uuid.UUID) (*models.GuestMatchRequest, error) {
	args := m.Called(ctx, requestID, decision, respondedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuestMatchRequest), args.Error(1)
}

func (m *MockGuestMatchService) ListForGround(ctx context.Context, groundID, userID uuid.UUID) ([]models.GuestMatchRequest, error) {
	args := m.Called(ctx, groundID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GuestMatchRequest), args.Error(1)
}

// MockRollover mocks a rollover Job
type MockRollover struct {
	mock.Mock
}

func (m *MockRollover) RunOnce(ctx context.Context, now time.Time) (rollover.Report, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(rollover.Report), args.Error(1)
}
