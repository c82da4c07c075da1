package eco

import (
	"time"

	"ecotrip/internal/models"
	"ecotrip/internal/utils"
)

// PeriodKey identifies one aggregate bucket a trip falls into.
type PeriodKey struct {
	Type  models.PeriodType
	Start time.Time
}

// Buckets returns the day, week and month buckets for a completion time.
// Buckets are computed in UTC with weeks starting on Monday, so a trip always
// lands in exactly one bucket of each type.
func Buckets(endTime time.Time) []PeriodKey {
	t := endTime.UTC()
	return []PeriodKey{
		{Type: models.PeriodTypeDay, Start: utils.StartOfDay(t)},
		{Type: models.PeriodTypeWeek, Start: utils.StartOfWeek(t)},
		{Type: models.PeriodTypeMonth, Start: utils.StartOfMonth(t)},
	}
}
