package handlers

import (
	"context"

	"github.com/dimitrije/wicket-api/internal/models"
	"github.com/dimitrije/wicket-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type TeamHandler struct {
	teamService    TeamServiceInterface
	userService    UserServiceInterface
	bookingService BookingServiceInterface
}

func NewTeamHandler(teamService TeamServiceInterface, userService UserServiceInterface, bookingService BookingServiceInterface) *TeamHandler {
	return &TeamHandler{
		teamService:    teamService,
		userService:    userService,
		bookingService: bookingService,
	}
}

func toTeamResponse(team *models.Team, role string) dto.TeamResponse {
	return dto.TeamResponse{
		ID:      team.ID,
		Name:    team.Name,
		OwnerID: team.OwnerID,
		Role:    role,
	}
}

func (h *TeamHandler) Create(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.CreateTeamRequest
	if !bindRequest(c, &req) {
		return
	}

	team, err := h.teamService.Create(context.Background(), req.Name, userID)
	if err != nil {
		respondError(c, err, "failed to create team")
		return
	}

	_ = c.JSON(201, toTeamResponse(team, models.RoleOwner))
}

func (h *TeamHandler) List(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	teams, roles, err := h.teamService.GetUserTeams(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get teams")
		return
	}

	response := make([]dto.TeamResponse, len(teams))
	for i := range teams {
		response[i] = toTeamResponse(&teams[i], roles[i])
	}

	_ = c.JSON(200, response)
}

func (h *TeamHandler) Get(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	teamID, ok := paramUUID(c, "id", "team id")
	if !ok {
		return
	}

	ctx := context.Background()
	isMember, err := h.teamService.IsMember(ctx, teamID, userID)
	if err != nil || !isMember {
		c.NotFound("team not found")
		return
	}

	team, err := h.teamService.GetByID(ctx, teamID)
	if err != nil {
		c.NotFound("team not found")
		return
	}

	role := models.RoleMember
	if team.OwnerID == userID {
		role = models.RoleOwner
	}

	_ = c.JSON(200, toTeamResponse(team, role))
}

func (h *TeamHandler) Update(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	teamID, ok := paramUUID(c, "id", "team id")
	if !ok {
		return
	}

	ctx := context.Background()
	isOwner, err := h.teamService.IsOwner(ctx, teamID, userID)
	if err != nil || !isOwner {
		c.Forbidden("only the captain can update the team")
		return
	}

	var req dto.UpdateTeamRequest
	if !bindRequest(c, &req) {
		return
	}

	team, err := h.teamService.Update(ctx, teamID, req.Name)
	if err != nil {
		respondError(c, err, "failed to update team")
		return
	}

	_ = c.JSON(200, toTeamResponse(team, models.RoleOwner))
}

func (h *TeamHandler) Delete(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	teamID, ok := paramUUID(c, "id", "team id")
	if !ok {
		return
	}

	ctx := context.Background()
	isOwner, err := h.teamService.IsOwner(ctx, teamID, userID)
	if err != nil || !isOwner {
		c.Forbidden("only the captain can delete the team")
		return
	}

	if err := h.teamService.Delete(ctx, teamID); err != nil {
		c.InternalServerError("failed to delete team")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "team deleted"})
}

func (h *TeamHandler) GetMembers(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	teamID, ok := paramUUID(c, "id", "team id")
	if !ok {
		return
	}

	ctx := context.Background()
	isMember, err := h.teamService.IsMember(ctx, teamID, userID)
	if err != nil || !isMember {
		c.NotFound("team not found")
		return
	}

	members, err := h.teamService.GetMembers(ctx, teamID)
	if err != nil {
		c.InternalServerError("failed to get members")
		return
	}

	response := make([]dto.TeamMemberResponse, len(members))
	for i, m := range members {
		response[i] = dto.TeamMemberResponse{
			ID:     m.ID,
			UserID: m.UserID,
			Role:   m.Role,
		}
		if m.User != nil {
			response[i].User = toUserResponse(m.User)
		}
	}

	_ = c.JSON(200, response)
}

// AddMember adds an existing user to the squad by email.
func (h *TeamHandler) AddMember(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	teamID, ok := paramUUID(c, "id", "team id")
	if !ok {
		return
	}

	ctx := context.Background()
	isOwner, err := h.teamService.IsOwner(ctx, teamID, userID)
	if err != nil || !isOwner {
		c.Forbidden("only the captain can add members")
		return
	}

	var req dto.AddMemberRequest
	if !bindRequest(c, &req) {
		return
	}

	player, err := h.userService.GetByEmail(ctx, req.Email)
	if err != nil {
		c.NotFound("user with this email not found")
		return
	}

	if err := h.teamService.AddMember(ctx, teamID, player.ID); err != nil {
		c.InternalServerError("failed to add member")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "member added"})
}

func (h *TeamHandler) RemoveMember(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	teamID, ok := paramUUID(c, "id", "team id")
	if !ok {
		return
	}

	memberID, ok := paramUUID(c, "memberId", "member id")
	if !ok {
		return
	}

	ctx := context.Background()
	isOwner, err := h.teamService.IsOwner(ctx, teamID, userID)
	if err != nil || !isOwner {
		c.Forbidden("only the captain can remove members")
		return
	}

	if err := h.teamService.RemoveMember(ctx, teamID, memberID); err != nil {
		respondError(c, err, "failed to remove member")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "member removed"})
}

func (h *TeamHandler) LeaveTeam(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	teamID, ok := paramUUID(c, "id", "team id")
	if !ok {
		return
	}

	if err := h.teamService.RemoveMember(context.Background(), teamID, userID); err != nil {
		respondError(c, err, "failed to leave team")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "left team"})
}

// ListBookings returns every booking the team made or was named in.
func (h *TeamHandler) ListBookings(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	teamID, ok := paramUUID(c, "id", "team id")
	if !ok {
		return
	}

	bookings, err := h.bookingService.ListForTeam(context.Background(), teamID, userID)
	if err != nil {
		respondError(c, err, "failed to list bookings")
		return
	}
	if bookings == nil {
		bookings = []models.GroundBooking{}
	}

	_ = c.JSON(200, bookings)
}
