package eco

import (
	"testing"
	"time"

	"ecotrip/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func detectInput(state *models.AchievementState) *DetectInput {
	return &DetectInput{
		UserID: primitive.NewObjectID(),
		Policy: DefaultPolicy(),
		State:  state,
	}
}

func TestDetectMilestoneCrossing(t *testing.T) {
	state := &models.AchievementState{LastCO2MilestoneKg: 15}
	in := detectInput(state)
	in.NewTotalCO2Kg = 20.3

	requests := Detect(in)
	require.Len(t, requests, 1)
	assert.Equal(t, models.NotificationTypeAchievement, requests[0].Type)
	assert.Equal(t, 20.0, requests[0].Data["milestone_kg"])
	assert.Equal(t, 20.0, state.LastCO2MilestoneKg)
}

func TestDetectMilestoneFiresOnce(t *testing.T) {
	state := &models.AchievementState{LastCO2MilestoneKg: 15}
	in := detectInput(state)
	in.NewTotalCO2Kg = 20.3

	require.Len(t, Detect(in), 1)

	// The same totals again produce nothing.
	assert.Empty(t, Detect(in))
}

func TestDetectMultiStepJumpFiresHighestOnly(t *testing.T) {
	state := &models.AchievementState{LastCO2MilestoneKg: 5}
	in := detectInput(state)
	in.NewTotalCO2Kg = 23.2

	requests := Detect(in)
	require.Len(t, requests, 1)
	assert.Equal(t, 20.0, requests[0].Data["milestone_kg"])
	assert.Equal(t, 20.0, state.LastCO2MilestoneKg)
}

func TestDetectNoMilestoneBelowStep(t *testing.T) {
	state := &models.AchievementState{}
	in := detectInput(state)
	in.NewTotalCO2Kg = 4.9

	assert.Empty(t, Detect(in))
	assert.Zero(t, state.LastCO2MilestoneKg)
}

func TestDetectWeeklyWalkGoal(t *testing.T) {
	weekStart := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	state := &models.AchievementState{}

	in := detectInput(state)
	in.Goals = models.EcoGoals{WeeklyWalkDistanceKm: 5}
	in.WeekStat = &models.EcoStat{
		PeriodType:          models.PeriodTypeWeek,
		PeriodStart:         weekStart,
		TotalDistanceWalked: 5.2,
	}

	requests := Detect(in)
	require.Len(t, requests, 1)
	assert.Equal(t, models.NotificationTypeGoalCompleted, requests[0].Type)

	// Still over the goal later in the same week: no second notification.
	in.WeekStat.TotalDistanceWalked = 7.0
	assert.Empty(t, Detect(in))

	// A new week starts a fresh goal.
	in.WeekStat.PeriodStart = weekStart.AddDate(0, 0, 7)
	assert.Len(t, Detect(in), 1)
}

func TestDetectMonthlyTransitGoal(t *testing.T) {
	monthStart := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	state := &models.AchievementState{}

	in := detectInput(state)
	in.Goals = models.EcoGoals{MonthlyTransitTrips: 10}
	in.MonthStat = &models.EcoStat{
		PeriodType:                models.PeriodTypeMonth,
		PeriodStart:               monthStart,
		TotalPublicTransportTrips: 10,
	}

	requests := Detect(in)
	require.Len(t, requests, 1)
	assert.Equal(t, models.NotificationTypeGoalCompleted, requests[0].Type)
	assert.Empty(t, Detect(in))
}

func TestDetectDisabledGoalsNeverFire(t *testing.T) {
	state := &models.AchievementState{}
	in := detectInput(state)
	in.WeekStat = &models.EcoStat{TotalDistanceWalked: 100}
	in.MonthStat = &models.EcoStat{TotalPublicTransportTrips: 100}

	assert.Empty(t, Detect(in))
}

func TestDetectCompensatingFoldNeverRollsBack(t *testing.T) {
	state := &models.AchievementState{LastCO2MilestoneKg: 20}
	in := detectInput(state)
	in.NewTotalCO2Kg = 18.5

	assert.Empty(t, Detect(in))
	assert.Equal(t, 20.0, state.LastCO2MilestoneKg)
}
