package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dimitrije/wicket-api/internal/middleware"
	"github.com/dimitrije/wicket-api/internal/models"
	"github.com/dimitrije/wicket-api/internal/services"
	"github.com/dimitrije/wicket-api/pkg/dto"
	"github.com/dimitrije/wicket-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupGroundTest(t *testing.T) (*testutil.MockGroundService, *services.JWTService, http.Handler) {
	t.Helper()
	mockGroundService := new(testutil.MockGroundService)
	jwtSvc := newTestJWTService()
	handler := NewGroundHandler(mockGroundService)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/grounds", handler.List)
	app.Post("/grounds", handler.Create)
	app.Get("/grounds/:groundId", handler.Get)
	app.Patch("/grounds/:groundId", handler.Update)

	return mockGroundService, jwtSvc, app
}

func TestGroundHandler_Create_Success(t *testing.T) {
	grounds, jwtSvc, app := setupGroundTest(t)
	userID, teamID := uuid.New(), uuid.New()
	ground := &models.Ground{ID: uuid.New(), Name: "Shivaji Park", Location: "Dadar", OwnedByTeam: teamID, MatchFee: 2500}

	grounds.On("Create", mock.Anything, "Shivaji Park", "Dadar", teamID, int64(2500), userID).Return(ground, nil)

	rec := doRequest(t, app, http.MethodPost, "/grounds", generateTestToken(t, jwtSvc, userID), dto.CreateGroundRequest{
		Name: "Shivaji Park", Location: "Dadar", TeamID: teamID, MatchFee: 2500,
	})

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response models.Ground
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, ground.ID, response.ID)
	grounds.AssertExpectations(t)
}

func TestGroundHandler_Create_NotCaptain(t *testing.T) {
	grounds, jwtSvc, app := setupGroundTest(t)
	userID, teamID := uuid.New(), uuid.New()

	grounds.On("Create", mock.Anything, "Oval", "Churchgate", teamID, int64(0), userID).
		Return(nil, &services.Error{Kind: services.ErrForbidden, Message: "only the team captain can register a ground"})

	rec := doRequest(t, app, http.MethodPost, "/grounds", generateTestToken(t, jwtSvc, userID), dto.CreateGroundRequest{
		Name: "Oval", Location: "Churchgate", TeamID: teamID,
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "only the team captain can register a ground")
}

func TestGroundHandler_Create_MissingTeam(t *testing.T) {
	_, jwtSvc, app := setupGroundTest(t)

	rec := doRequest(t, app, http.MethodPost, "/grounds", generateTestToken(t, jwtSvc, uuid.New()), dto.CreateGroundRequest{
		Name: "Oval", Location: "Churchgate",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "team_id is required")
}

func TestGroundHandler_Get_NotFound(t *testing.T) {
	grounds, jwtSvc, app := setupGroundTest(t)
	groundID := uuid.New()

	grounds.On("GetByID", mock.Anything, groundID).Return(nil, &services.Error{Kind: services.ErrNotFound, Message: "ground not found"})

	rec := doRequest(t, app, http.MethodGet, "/grounds/"+groundID.String(), generateTestToken(t, jwtSvc, uuid.New()), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ground not found")
}

func TestGroundHandler_List_Empty(t *testing.T) {
	grounds, jwtSvc, app := setupGroundTest(t)

	grounds.On("List", mock.Anything).Return([]models.Ground(nil), nil)

	rec := doRequest(t, app, http.MethodGet, "/grounds", generateTestToken(t, jwtSvc, uuid.New()), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGroundHandler_Update_NotManager(t *testing.T) {
	grounds, jwtSvc, app := setupGroundTest(t)
	userID, groundID := uuid.New(), uuid.New()
	fee := int64(3000)

	grounds.On("CanManage", mock.Anything, groundID, userID).Return(false, nil)

	rec := doRequest(t, app, http.MethodPatch, "/grounds/"+groundID.String(), generateTestToken(t, jwtSvc, userID), dto.UpdateGroundRequest{MatchFee: &fee})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	grounds.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGroundHandler_Update_Success(t *testing.T) {
	grounds, jwtSvc, app := setupGroundTest(t)
	userID, groundID := uuid.New(), uuid.New()
	fee := int64(3000)

	grounds.On("CanManage", mock.Anything, groundID, userID).Return(true, nil)
	grounds.On("Update", mock.Anything, groundID, (*string)(nil), (*string)(nil), &fee).
		Return(&models.Ground{ID: groundID, MatchFee: fee}, nil)

	rec := doRequest(t, app, http.MethodPatch, "/grounds/"+groundID.String(), generateTestToken(t, jwtSvc, userID), dto.UpdateGroundRequest{MatchFee: &fee})

	assert.Equal(t, http.StatusOK, rec.Code)
	grounds.AssertExpectations(t)
}
