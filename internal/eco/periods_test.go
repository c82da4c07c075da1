package eco

import (
	"testing"
	"time"

	"ecotrip/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketsMidweek(t *testing.T) {
	// Tuesday afternoon
	end := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)

	buckets := Buckets(end)
	require.Len(t, buckets, 3)

	assert.Equal(t, models.PeriodTypeDay, buckets[0].Type)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), buckets[0].Start)

	assert.Equal(t, models.PeriodTypeWeek, buckets[1].Type)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), buckets[1].Start)

	assert.Equal(t, models.PeriodTypeMonth, buckets[2].Type)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), buckets[2].Start)
}

func TestBucketsSundayBelongsToMondayWeek(t *testing.T) {
	end := time.Date(2026, 9, 6, 23, 59, 0, 0, time.UTC)

	buckets := Buckets(end)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), buckets[1].Start)
}

func TestBucketsNormalizeToUTC(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 01:30 IST on Sep 2 is still Sep 1 in UTC.
	end := time.Date(2026, 9, 2, 1, 30, 0, 0, ist)

	buckets := Buckets(end)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), buckets[0].Start)
}
