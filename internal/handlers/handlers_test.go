package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ArowuTest/toolsau-entries-backend/internal/catalog"
	"github.com/ArowuTest/toolsau-entries-backend/internal/models"
	"github.com/ArowuTest/toolsau-entries-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAdminService struct {
	profile *models.AdminUserProfile
	err     error
	gotReq  *models.AdminUserUpdateRequest
}

func (s *stubAdminService) GetUserProfile(_ context.Context, id primitive.ObjectID) (*models.AdminUserProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.AdminUserProfile{User: &models.User{ID: id}}, nil
}

func (s *stubAdminService) UpdateUser(_ context.Context, id primitive.ObjectID, req *models.AdminUserUpdateRequest) (*models.AdminUserProfile, error) {
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.AdminUserProfile{User: &models.User{ID: id}}, nil
}

func adminUserRouter(svc AdminUserService) *gin.Engine {
	h := NewAdminUserHandler(svc)
	r := gin.New()
	r.GET("/users/:id", h.GetUser)
	r.PATCH("/users/:id", h.UpdateUser)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Error  string                `json:"error"`
	Issues []services.FieldIssue `json:"issues"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGetUser(t *testing.T) {
	id := primitive.NewObjectID()

	w := do(adminUserRouter(&stubAdminService{}), http.MethodGet, "/users/"+id.Hex(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id.Hex())

	w = do(adminUserRouter(&stubAdminService{}), http.MethodGet, "/users/nope", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(adminUserRouter(&stubAdminService{err: fmt.Errorf("user x: %w", services.ErrNotFound)}), http.MethodGet, "/users/"+id.Hex(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateUser_ErrorMapping(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:   "validation",
			err:    &services.ValidationError{Issues: []services.FieldIssue{{Path: "basicInfo.email", Message: "must be a valid email address"}}},
			status: http.StatusBadRequest,
		},
		{
			name:   "validation inside transaction",
			err:    &services.TransactionAbortedError{Err: &services.ValidationError{Issues: []services.FieldIssue{{Path: "basicInfo.email"}}}},
			status: http.StatusBadRequest,
		},
		{
			name:    "feature disabled",
			err:     &services.FeatureDisabledError{Feature: "rewards", Message: "Rewards are paused"},
			status:  http.StatusServiceUnavailable,
			message: "Rewards are paused",
		},
		{
			name:   "missing draw",
			err:    &services.TransactionAbortedError{Err: fmt.Errorf("major draw d: %w", services.ErrNotFound)},
			status: http.StatusNotFound,
		},
		{
			name:    "unexpected",
			err:     &services.TransactionAbortedError{Err: errors.New("connection reset by peer")},
			status:  http.StatusInternalServerError,
			message: "Internal server error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(adminUserRouter(&stubAdminService{err: tt.err}), http.MethodPatch, "/users/"+id, `{"basicInfo":{"firstName":"A"}}`)
			assert.Equal(t, tt.status, w.Code)
			body := decodeError(t, w)
			if tt.message != "" {
				assert.Equal(t, tt.message, body.Error)
			}
			if tt.status == http.StatusBadRequest {
				require.Len(t, body.Issues, 1)
				assert.Equal(t, "basicInfo.email", body.Issues[0].Path)
			}
			assert.NotContains(t, w.Body.String(), "connection reset")
		})
	}
}

func TestUpdateUser_DecodeErrors(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	svc := &stubAdminService{}

	w := do(adminUserRouter(svc), http.MethodPatch, "/users/"+id, `{"rewards":{"rewardsPoints":"lots"}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	require.Len(t, body.Issues, 1)
	assert.Equal(t, "rewards.rewardsPoints", body.Issues[0].Path)

	w = do(adminUserRouter(svc), http.MethodPatch, "/users/"+id, `{"basicInfo":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(adminUserRouter(svc), http.MethodPatch, "/users/"+id, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.gotReq)
}

func TestUpdateUser_PassesRequest(t *testing.T) {
	svc := &stubAdminService{}
	w := do(adminUserRouter(svc), http.MethodPatch, "/users/"+primitive.NewObjectID().Hex(), `{"subscription":null,"oneTimePackages":[]}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.gotReq)
	assert.True(t, svc.gotReq.Subscription.Set)
	assert.Nil(t, svc.gotReq.Subscription.Value)
	require.NotNil(t, svc.gotReq.OneTimePackages)
	assert.Empty(t, *svc.gotReq.OneTimePackages)
	assert.Nil(t, svc.gotReq.MiniDrawPackages)
}

type stubBenefits struct {
	err error
}

func (s stubBenefits) GrantOneTimePackage(_ context.Context, userID primitive.ObjectID, packageID, _ string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.User{ID: userID, OneTimePackages: []models.OneTimePackage{{PackageID: packageID}}}, nil
}

func (s stubBenefits) GrantMiniDrawPackage(_ context.Context, userID, _ primitive.ObjectID, _, _ string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.User{ID: userID}, nil
}

func (s stubBenefits) ConvertReferral(_ context.Context, id primitive.ObjectID) (*models.ReferralEvent, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.ReferralEvent{ID: id, Status: models.ReferralConverted}, nil
}

func benefitsRouter(svc BenefitsService) *gin.Engine {
	h := NewBenefitsHandler(svc)
	r := gin.New()
	r.POST("/users/:id/grants/one-time", h.GrantOneTimePackage)
	r.POST("/users/:id/grants/mini-draw", h.GrantMiniDrawPackage)
	r.POST("/referrals/:id/convert", h.ConvertReferral)
	return r
}

func TestBenefitsHandler(t *testing.T) {
	user := primitive.NewObjectID().Hex()

	w := do(benefitsRouter(stubBenefits{}), http.MethodPost, "/users/"+user+"/grants/one-time", `{"packageId":"boss-pack","paymentIntentId":"pi_1"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "boss-pack")

	w = do(benefitsRouter(stubBenefits{}), http.MethodPost, "/users/"+user+"/grants/one-time", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []services.FieldIssue{{Path: "packageId", Message: "is required"}}, decodeError(t, w).Issues)

	w = do(benefitsRouter(stubBenefits{}), http.MethodPost, "/users/"+user+"/grants/mini-draw", `{"miniDrawId":"bad","packageId":"mini-pack-1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []services.FieldIssue{{Path: "miniDrawId", Message: "must be a valid id"}}, decodeError(t, w).Issues)

	w = do(benefitsRouter(stubBenefits{}), http.MethodPost, "/users/"+user+"/grants/mini-draw", `{"miniDrawId":7}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "miniDrawId", decodeError(t, w).Issues[0].Path)

	closed := &services.TransactionAbortedError{Err: services.ErrDrawClosed}
	body := fmt.Sprintf(`{"miniDrawId":%q,"packageId":"mini-pack-1"}`, primitive.NewObjectID().Hex())
	w = do(benefitsRouter(stubBenefits{err: closed}), http.MethodPost, "/users/"+user+"/grants/mini-draw", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, services.ErrDrawClosed.Error(), decodeError(t, w).Error)

	w = do(benefitsRouter(stubBenefits{err: &services.TransactionAbortedError{Err: services.ErrAlreadyConverted}}), http.MethodPost, "/referrals/"+user+"/convert", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

type stubMiniDraws struct {
	gotRand bool
	err     error
}

func (s *stubMiniDraws) SelectWinner(_ context.Context, id primitive.ObjectID, rng *rand.Rand) (*models.MiniDraw, error) {
	s.gotRand = rng != nil
	if s.err != nil {
		return nil, s.err
	}
	return &models.MiniDraw{ID: id, Status: models.MiniDrawCompleted}, nil
}

func (s *stubMiniDraws) Cancel(_ context.Context, id primitive.ObjectID) (*models.MiniDraw, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.MiniDraw{ID: id, Status: models.MiniDrawCancelled}, nil
}

func TestMiniDrawHandler(t *testing.T) {
	svc := &stubMiniDraws{}
	h := NewMiniDrawHandler(svc)
	r := gin.New()
	r.POST("/mini-draws/:id/winner", h.SelectWinner)
	r.POST("/mini-draws/:id/cancel", h.Cancel)
	id := primitive.NewObjectID().Hex()

	w := do(r, http.MethodPost, "/mini-draws/"+id+"/winner", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.gotRand)

	w = do(r, http.MethodPost, "/mini-draws/"+id+"/cancel", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(models.MiniDrawCancelled))

	svc.err = fmt.Errorf("mini draw is completed: %w", services.ErrInvalidDrawState)
	w = do(r, http.MethodPost, "/mini-draws/"+id+"/winner", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

type stubSettings struct {
	settings  models.SystemSettings
	updatedBy string
}

func (s *stubSettings) GetSettings(context.Context) (*models.SystemSettings, error) {
	out := s.settings
	return &out, nil
}

func (s *stubSettings) UpdateSettings(_ context.Context, upd services.SettingsUpdate, updatedBy string) (*models.SystemSettings, error) {
	if upd.RewardsEnabled != nil {
		s.settings.RewardsEnabled = *upd.RewardsEnabled
	}
	s.updatedBy = updatedBy
	out := s.settings
	return &out, nil
}

func (s *stubSettings) MiniDrawPackagesForDisplay(context.Context) ([]catalog.MiniDrawPackage, error) {
	return catalog.ApplyPromoToMiniPackages(catalog.MiniDrawPackages(), catalog.PromoDouble)
}

func TestSystemSettingsHandler(t *testing.T) {
	svc := &stubSettings{settings: models.SystemSettings{RewardsEnabled: true}}
	h := NewSystemSettingsHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("userID", "admin-1") })
	r.GET("/settings", h.GetSettings)
	r.PUT("/settings", h.UpdateSettings)
	r.GET("/packages/mini-draw", h.GetMiniDrawPackages)

	w := do(r, http.MethodPut, "/settings", `{"rewardsEnabled":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin-1", svc.updatedBy)

	w = do(r, http.MethodGet, "/settings", "")
	require.Equal(t, http.StatusOK, w.Code)
	var settings models.SystemSettings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.False(t, settings.RewardsEnabled)

	w = do(r, http.MethodGet, "/packages/mini-draw", "")
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Packages []catalog.MiniDrawPackage `json:"packages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(t, out.Packages)
	assert.True(t, out.Packages[0].IsPromoActive)
	assert.Equal(t, 2, out.Packages[0].PromoMultiplier)
}
