package eco

import (
	"fmt"
	"math"

	"ecotrip/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DetectInput is everything the threshold detector looks at after one fold.
// The detector is deterministic: identical input always produces the same
// notification set.
type DetectInput struct {
	UserID primitive.ObjectID
	Policy *Policy

	// Cumulative CO2 saved after the fold. Milestone progress is tracked
	// against State.LastCO2MilestoneKg, so the pre-fold total is not needed.
	NewTotalCO2Kg float64

	// The post-fold week and month buckets, nil when the fold did not touch
	// them (compensating folds skip goal checks).
	WeekStat  *models.EcoStat
	MonthStat *models.EcoStat

	Goals models.EcoGoals

	// State is advanced in place; the caller persists it in the same
	// transaction as the fold.
	State *models.AchievementState
}

// Detect evaluates milestone crossings and goal completions, advancing the
// achievement state so each crossing fires exactly once. A large single fold
// that crosses several milestone steps emits one notification for the
// highest step reached.
func Detect(in *DetectInput) []*models.NotificationRequest {
	var requests []*models.NotificationRequest

	if req := detectMilestone(in); req != nil {
		requests = append(requests, req)
	}

	if in.WeekStat != nil && in.Goals.WeeklyWalkDistanceKm > 0 &&
		in.WeekStat.TotalDistanceWalked >= in.Goals.WeeklyWalkDistanceKm {
		key := models.GoalPeriodKey(models.GoalTypeWeeklyWalk, in.WeekStat.PeriodStart)
		if !in.State.GoalNotified(key) {
			in.State.MarkGoalNotified(key)
			requests = append(requests, &models.NotificationRequest{
				UserID:  in.UserID,
				Type:    models.NotificationTypeGoalCompleted,
				Title:   "Weekly walking goal reached",
				Message: fmt.Sprintf("You walked %.1f km this week and hit your %.1f km goal.", in.WeekStat.TotalDistanceWalked, in.Goals.WeeklyWalkDistanceKm),
				Data: map[string]interface{}{
					"goal_type":    string(models.GoalTypeWeeklyWalk),
					"period_start": in.WeekStat.PeriodStart,
					"walked_km":    in.WeekStat.TotalDistanceWalked,
				},
			})
		}
	}

	if in.MonthStat != nil && in.Goals.MonthlyTransitTrips > 0 &&
		in.MonthStat.TotalPublicTransportTrips >= in.Goals.MonthlyTransitTrips {
		key := models.GoalPeriodKey(models.GoalTypeMonthlyTransit, in.MonthStat.PeriodStart)
		if !in.State.GoalNotified(key) {
			in.State.MarkGoalNotified(key)
			requests = append(requests, &models.NotificationRequest{
				UserID:  in.UserID,
				Type:    models.NotificationTypeGoalCompleted,
				Title:   "Monthly transit goal reached",
				Message: fmt.Sprintf("You took public transport on %d trips this month and hit your goal of %d.", in.MonthStat.TotalPublicTransportTrips, in.Goals.MonthlyTransitTrips),
				Data: map[string]interface{}{
					"goal_type":     string(models.GoalTypeMonthlyTransit),
					"period_start":  in.MonthStat.PeriodStart,
					"transit_trips": in.MonthStat.TotalPublicTransportTrips,
				},
			})
		}
	}

	return requests
}

func detectMilestone(in *DetectInput) *models.NotificationRequest {
	step := in.Policy.MilestoneStepKg
	if step <= 0 {
		return nil
	}

	// Highest milestone at or below the new cumulative total.
	milestone := math.Floor(in.NewTotalCO2Kg/step) * step
	if milestone <= 0 || milestone <= in.State.LastCO2MilestoneKg {
		return nil
	}

	in.State.LastCO2MilestoneKg = milestone

	return &models.NotificationRequest{
		UserID:  in.UserID,
		Type:    models.NotificationTypeAchievement,
		Title:   fmt.Sprintf("%.0f kg CO2 saved", milestone),
		Message: fmt.Sprintf("You have saved %.1f kg of CO2 so far. Keep it up!", in.NewTotalCO2Kg),
		Data: map[string]interface{}{
			"milestone_kg": milestone,
			"total_co2_kg": in.NewTotalCO2Kg,
		},
	}
}
