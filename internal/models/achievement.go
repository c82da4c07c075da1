package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GoalType string

const (
	GoalTypeWeeklyWalk     GoalType = "weekly_walk"
	GoalTypeMonthlyTransit GoalType = "monthly_transit"
)

// AchievementState records, per user, the highest CO2 milestone already
// notified and the period+goal pairs that have already fired. It only ever
// advances; compensating folds never roll it back.
type AchievementState struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID             primitive.ObjectID `json:"user_id" bson:"user_id"`
	LastCO2MilestoneKg float64            `json:"last_co2_milestone_kg" bson:"last_co2_milestone_kg"`
	NotifiedGoals      []string           `json:"notified_goals" bson:"notified_goals"`
	CreatedAt          time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" bson:"updated_at"`
}

// GoalPeriodKey identifies one goal for one period, e.g.
// "weekly_walk:2026-08-31". Used to fire each goal at most once per period.
func GoalPeriodKey(goal GoalType, periodStart time.Time) string {
	return fmt.Sprintf("%s:%s", goal, periodStart.UTC().Format("2006-01-02"))
}

func (a *AchievementState) GoalNotified(key string) bool {
	for _, k := range a.NotifiedGoals {
		if k == key {
			return true
		}
	}
	return false
}

func (a *AchievementState) MarkGoalNotified(key string) {
	if !a.GoalNotified(key) {
		a.NotifiedGoals = append(a.NotifiedGoals, key)
	}
}

// EcoGoals holds a user's configured targets.
type EcoGoals struct {
	WeeklyWalkDistanceKm float64 `json:"weekly_walk_distance_km" bson:"weekly_walk_distance_km"`
	MonthlyTransitTrips  int64   `json:"monthly_transit_trips" bson:"monthly_transit_trips"`
}
