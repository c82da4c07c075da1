package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ecotrip/internal/models"
	"ecotrip/internal/services"
	"ecotrip/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubEcoService struct{}

var _ services.EcoService = stubEcoService{}

func (stubEcoService) ProcessCompletedTrip(_ context.Context, _ *models.Trip) error { return nil }

func (stubEcoService) ReverseDeletedTrip(_ context.Context, _ *models.Trip) error { return nil }

func (stubEcoService) GetEcoStat(_ context.Context, userID primitive.ObjectID, periodType models.PeriodType, _ time.Time) (*models.EcoStat, error) {
	return &models.EcoStat{UserID: userID, PeriodType: periodType}, nil
}

func (stubEcoService) ListEcoStats(_ context.Context, _ primitive.ObjectID, _ models.PeriodType, _ int) ([]*models.EcoStat, error) {
	return []*models.EcoStat{}, nil
}

func (stubEcoService) GetSummary(_ context.Context, _ primitive.ObjectID) (*services.EcoSummary, error) {
	return &services.EcoSummary{}, nil
}

func (stubEcoService) GetGoals(_ context.Context, _ primitive.ObjectID) (*models.EcoGoals, error) {
	return &models.EcoGoals{}, nil
}

func (stubEcoService) UpdateGoals(_ context.Context, _ primitive.ObjectID, _ *models.EcoGoals) error {
	return nil
}

func newEcoTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewEcoHandler(stubEcoService{})

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", primitive.NewObjectID())
	})
	router.GET("/eco/stats", handler.GetStats)
	router.GET("/eco/stats/current", handler.GetStat)
	return router
}

func ecoGet(t *testing.T, router *gin.Engine, path string) (int, *utils.APIResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)

	var body utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, &body
}

func TestGetStatRejectsUnknownPeriod(t *testing.T) {
	router := newEcoTestRouter()

	code, body := ecoGet(t, router, "/eco/stats/current?period=year")
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "BAD_REQUEST", body.Error.Code)
}

func TestGetStatAcceptsKnownPeriods(t *testing.T) {
	router := newEcoTestRouter()

	for _, period := range []string{"day", "week", "month"} {
		code, body := ecoGet(t, router, "/eco/stats/current?period="+period)
		assert.Equal(t, http.StatusOK, code, "period %s", period)
		assert.Equal(t, utils.StatusSuccess, body.Status)
	}
}

func TestGetStatRejectsMalformedDate(t *testing.T) {
	router := newEcoTestRouter()

	code, _ := ecoGet(t, router, "/eco/stats/current?period=day&date=26-08-2026")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGetStatsRejectsUnknownPeriod(t *testing.T) {
	router := newEcoTestRouter()

	code, _ := ecoGet(t, router, "/eco/stats?period=lifetime")
	assert.Equal(t, http.StatusBadRequest, code)
}
