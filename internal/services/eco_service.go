package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecotrip/internal/eco"
	"ecotrip/internal/models"
	"ecotrip/internal/repositories/interfaces"
	"ecotrip/internal/utils"
	"ecotrip/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrAggregationConflict means the fold could not be committed after the
	// configured number of attempts. The trip stays completed with its
	// aggregation error recorded; a later retry may still succeed.
	ErrAggregationConflict = errors.New("aggregation conflict")

	// ErrStorageUnavailable wraps infrastructure failures so handlers can
	// map them to a 503 instead of a generic 500.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// TransactionRunner executes fn atomically: either every write inside fn is
// committed or none is.
type TransactionRunner interface {
	RunTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// NotificationDispatcher delivers achievement and goal notifications.
// Delivery happens after the fold commits and is best-effort.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, req *models.NotificationRequest) error
}

// EcoSummary is the dashboard view: the current buckets plus all-time totals.
type EcoSummary struct {
	Today     *models.EcoStat  `json:"today"`
	ThisWeek  *models.EcoStat  `json:"this_week"`
	ThisMonth *models.EcoStat  `json:"this_month"`
	AllTime   *models.EcoTotal `json:"all_time"`
}

type EcoService interface {
	// ProcessCompletedTrip scores a completed trip and folds it into the
	// user's day, week, month and all-time aggregates exactly once.
	ProcessCompletedTrip(ctx context.Context, trip *models.Trip) error

	// ReverseDeletedTrip subtracts an aggregated trip's frozen contribution
	// from every bucket it touched. Achievements are never rolled back.
	ReverseDeletedTrip(ctx context.Context, trip *models.Trip) error

	// Query surface
	GetEcoStat(ctx context.Context, userID primitive.ObjectID, periodType models.PeriodType, at time.Time) (*models.EcoStat, error)
	ListEcoStats(ctx context.Context, userID primitive.ObjectID, periodType models.PeriodType, limit int) ([]*models.EcoStat, error)
	GetSummary(ctx context.Context, userID primitive.ObjectID) (*EcoSummary, error)

	GetGoals(ctx context.Context, userID primitive.ObjectID) (*models.EcoGoals, error)
	UpdateGoals(ctx context.Context, userID primitive.ObjectID, goals *models.EcoGoals) error
}

type ecoService struct {
	tripRepo        interfaces.TripRepository
	statRepo        interfaces.EcoStatRepository
	totalRepo       interfaces.EcoTotalRepository
	achievementRepo interfaces.AchievementRepository
	ledger          interfaces.ProcessedTripRepository
	userRepo        interfaces.UserRepository
	txRunner        TransactionRunner
	cache           CacheService
	notifier        NotificationDispatcher
	policy          *eco.Policy
	logger          *logger.Logger
}

func NewEcoService(
	tripRepo interfaces.TripRepository,
	statRepo interfaces.EcoStatRepository,
	totalRepo interfaces.EcoTotalRepository,
	achievementRepo interfaces.AchievementRepository,
	ledger interfaces.ProcessedTripRepository,
	userRepo interfaces.UserRepository,
	txRunner TransactionRunner,
	cache CacheService,
	notifier NotificationDispatcher,
	policy *eco.Policy,
	logger *logger.Logger,
) EcoService {
	return &ecoService{
		tripRepo:        tripRepo,
		statRepo:        statRepo,
		totalRepo:       totalRepo,
		achievementRepo: achievementRepo,
		ledger:          ledger,
		userRepo:        userRepo,
		txRunner:        txRunner,
		cache:           cache,
		notifier:        notifier,
		policy:          policy,
		logger:          logger,
	}
}

func (s *ecoService) ProcessCompletedTrip(ctx context.Context, trip *models.Trip) error {
	if trip.Status != models.TripStatusCompleted || trip.EndTime == nil {
		return fmt.Errorf("%w: trip %s is not completed", eco.ErrInvalidTripData, trip.ID.Hex())
	}

	result, err := eco.Score(trip, s.policy)
	if err != nil {
		// The trip stays completed; the reason is recorded so clients can
		// surface why it never showed up in the stats.
		if setErr := s.tripRepo.SetAggregationError(ctx, trip.ID, err.Error()); setErr != nil {
			s.logger.WithError(setErr).WithTripID(trip.ID).Error("Failed to record aggregation error")
		}
		return err
	}
	if result.EmissionsExceededBaseline {
		s.logger.WithTripID(trip.ID).Warn("Trip emissions exceeded car baseline, savings clamped to zero")
	}

	// Cheap pre-check; the transactional claim below is the real guard.
	if processed, err := s.ledger.IsProcessed(ctx, trip.ID); err == nil && processed {
		s.logger.LogTripEvent(trip.ID, "aggregation_skipped_duplicate", nil)
		return nil
	}

	goals, err := s.GetGoals(ctx, trip.UserID)
	if err != nil {
		return err
	}

	delta := buildDelta(trip, result.CO2SavedKg, result.EcoScore, 1)
	buckets := eco.Buckets(*trip.EndTime)

	var requests []*models.NotificationRequest

	fold := func(txCtx context.Context) error {
		requests = nil

		claimed, err := s.ledger.Claim(txCtx, trip.ID, trip.UserID)
		if err != nil {
			return fmt.Errorf("failed to claim trip: %w", err)
		}
		if !claimed {
			return nil
		}

		if err := s.tripRepo.SetDerivedMetrics(txCtx, trip.ID, result.CO2SavedKg, result.EcoScore); err != nil {
			return fmt.Errorf("failed to set derived metrics: %w", err)
		}

		var weekStat, monthStat *models.EcoStat
		for _, b := range buckets {
			stat, err := s.statRepo.ApplyDelta(txCtx, trip.UserID, b.Type, b.Start, delta)
			if err != nil {
				return fmt.Errorf("failed to fold %s bucket: %w", b.Type, err)
			}
			switch b.Type {
			case models.PeriodTypeWeek:
				weekStat = stat
			case models.PeriodTypeMonth:
				monthStat = stat
			}
		}

		newTotal, err := s.totalRepo.ApplyDelta(txCtx, trip.UserID, delta)
		if err != nil {
			return fmt.Errorf("failed to fold totals: %w", err)
		}

		state, err := s.achievementRepo.Get(txCtx, trip.UserID)
		if err != nil {
			return fmt.Errorf("failed to load achievement state: %w", err)
		}
		requests = eco.Detect(&eco.DetectInput{
			UserID:        trip.UserID,
			Policy:        s.policy,
			NewTotalCO2Kg: newTotal.TotalCO2Saved,
			WeekStat:      weekStat,
			MonthStat:     monthStat,
			Goals:         *goals,
			State:         state,
		})
		if err := s.achievementRepo.Save(txCtx, state); err != nil {
			return fmt.Errorf("failed to save achievement state: %w", err)
		}

		if err := s.tripRepo.MarkAggregated(txCtx, trip.ID, true); err != nil {
			return fmt.Errorf("failed to mark trip aggregated: %w", err)
		}
		return nil
	}

	if err := s.runSerializedFold(ctx, trip.UserID, fold); err != nil {
		if setErr := s.tripRepo.SetAggregationError(ctx, trip.ID, err.Error()); setErr != nil {
			s.logger.WithError(setErr).WithTripID(trip.ID).Error("Failed to record aggregation error")
		}
		return err
	}

	s.invalidateStatCaches(ctx, trip.UserID, buckets)
	s.logger.LogEcoEvent(trip.UserID, "trip_aggregated", map[string]interface{}{
		"trip_id":      trip.ID.Hex(),
		"co2_saved_kg": result.CO2SavedKg,
		"eco_score":    result.EcoScore,
	})

	// Notifications go out after the transaction: a failed push must not
	// undo a committed fold.
	for _, req := range requests {
		if err := s.notifier.Dispatch(ctx, req); err != nil {
			s.logger.WithError(err).WithUserID(trip.UserID).Error("Failed to dispatch eco notification")
		}
	}

	return nil
}

func (s *ecoService) ReverseDeletedTrip(ctx context.Context, trip *models.Trip) error {
	if !trip.Aggregated || trip.EndTime == nil {
		return nil
	}

	// The reversal uses the frozen metrics from aggregation time, not a
	// re-score: policy constants may have changed since.
	delta := buildDelta(trip, trip.CO2SavedKg, trip.EcoScore, -1)
	buckets := eco.Buckets(*trip.EndTime)

	unfold := func(txCtx context.Context) error {
		processed, err := s.ledger.IsProcessed(txCtx, trip.ID)
		if err != nil {
			return fmt.Errorf("failed to check ledger: %w", err)
		}
		if !processed {
			return nil
		}

		for _, b := range buckets {
			if _, err := s.statRepo.ApplyDelta(txCtx, trip.UserID, b.Type, b.Start, delta); err != nil {
				return fmt.Errorf("failed to reverse %s bucket: %w", b.Type, err)
			}
		}
		if _, err := s.totalRepo.ApplyDelta(txCtx, trip.UserID, delta); err != nil {
			return fmt.Errorf("failed to reverse totals: %w", err)
		}
		if err := s.ledger.Release(txCtx, trip.ID); err != nil {
			return fmt.Errorf("failed to release trip claim: %w", err)
		}
		return s.tripRepo.MarkAggregated(txCtx, trip.ID, false)
	}

	if err := s.runSerializedFold(ctx, trip.UserID, unfold); err != nil {
		return err
	}

	s.invalidateStatCaches(ctx, trip.UserID, buckets)
	s.logger.LogEcoEvent(trip.UserID, "trip_aggregation_reversed", map[string]interface{}{
		"trip_id": trip.ID.Hex(),
	})
	return nil
}

// runSerializedFold runs fn inside a transaction while holding the per-user
// fold lock, retrying transient failures a bounded number of times.
func (s *ecoService) runSerializedFold(ctx context.Context, userID primitive.ObjectID, fn func(ctx context.Context) error) error {
	lockKey := fmt.Sprintf(utils.CacheKeyUserFoldLock, userID.Hex())

	var lastErr error
	for attempt := 1; attempt <= utils.MaxFoldAttempts; attempt++ {
		lock, err := s.cache.Lock(ctx, lockKey, utils.FoldLockExpiry)
		if err != nil {
			if errors.Is(err, ErrLockNotAcquired) {
				lastErr = err
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(utils.FoldLockRetryDelay):
				}
				continue
			}
			return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}

		err = s.txRunner.RunTransaction(ctx, fn)
		if unlockErr := s.cache.Unlock(ctx, lock); unlockErr != nil {
			s.logger.WithError(unlockErr).Warn("Failed to release fold lock")
		}
		if err == nil {
			return nil
		}

		lastErr = err
		s.logger.WithError(err).WithUserID(userID).Warnf("Fold attempt %d/%d failed", attempt, utils.MaxFoldAttempts)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(utils.FoldRetryBackoff):
		}
	}

	return fmt.Errorf("%w: %v", ErrAggregationConflict, lastErr)
}

func buildDelta(trip *models.Trip, co2SavedKg float64, ecoScore int, sign int) *models.EcoStatDelta {
	var transit int64
	if trip.HasPublicTransport() {
		transit = 1
	}
	return &models.EcoStatDelta{
		Sign:                 sign,
		EcoScore:             ecoScore,
		CO2SavedKg:           co2SavedKg,
		DistanceWalkedKm:     trip.WalkDistanceKm(),
		PublicTransportTrips: transit,
		CostMinorUnits:       trip.TotalCostMinorUnits(),
	}
}

func (s *ecoService) invalidateStatCaches(ctx context.Context, userID primitive.ObjectID, buckets []eco.PeriodKey) {
	keys := make([]string, 0, len(buckets)+1)
	for _, b := range buckets {
		keys = append(keys, fmt.Sprintf(utils.CacheKeyEcoStat, userID.Hex(), b.Type, utils.FormatDate(b.Start)))
	}
	keys = append(keys, fmt.Sprintf(utils.CacheKeyEcoTotal, userID.Hex()))
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate eco stat cache")
	}
}

func (s *ecoService) GetEcoStat(ctx context.Context, userID primitive.ObjectID, periodType models.PeriodType, at time.Time) (*models.EcoStat, error) {
	start, err := periodStart(periodType, at)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf(utils.CacheKeyEcoStat, userID.Hex(), periodType, utils.FormatDate(start))
	var cached models.EcoStat
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	stat, err := s.statRepo.GetByPeriod(ctx, userID, periodType, start)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if stat == nil {
		// An untouched period reads as an explicit zero row.
		stat = &models.EcoStat{
			UserID:      userID,
			PeriodType:  periodType,
			PeriodStart: start,
		}
	}

	if err := s.cache.Set(ctx, cacheKey, stat, 5*time.Minute); err != nil {
		s.logger.WithError(err).Warn("Failed to cache eco stat")
	}
	return stat, nil
}

func (s *ecoService) ListEcoStats(ctx context.Context, userID primitive.ObjectID, periodType models.PeriodType, limit int) ([]*models.EcoStat, error) {
	if limit <= 0 || limit > utils.MaxPageSize {
		limit = utils.DefaultPageSize
	}
	stats, err := s.statRepo.ListByUser(ctx, userID, periodType, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return stats, nil
}

func (s *ecoService) GetSummary(ctx context.Context, userID primitive.ObjectID) (*EcoSummary, error) {
	now := time.Now().UTC()

	today, err := s.GetEcoStat(ctx, userID, models.PeriodTypeDay, now)
	if err != nil {
		return nil, err
	}
	week, err := s.GetEcoStat(ctx, userID, models.PeriodTypeWeek, now)
	if err != nil {
		return nil, err
	}
	month, err := s.GetEcoStat(ctx, userID, models.PeriodTypeMonth, now)
	if err != nil {
		return nil, err
	}

	total, err := s.totalRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if total == nil {
		total = &models.EcoTotal{UserID: userID}
	}

	return &EcoSummary{
		Today:     today,
		ThisWeek:  week,
		ThisMonth: month,
		AllTime:   total,
	}, nil
}

func (s *ecoService) GetGoals(ctx context.Context, userID primitive.ObjectID) (*models.EcoGoals, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, interfaces.ErrUserNotFound) {
			return &models.EcoGoals{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return &user.Goals, nil
}

func (s *ecoService) UpdateGoals(ctx context.Context, userID primitive.ObjectID, goals *models.EcoGoals) error {
	if goals.WeeklyWalkDistanceKm < 0 || goals.MonthlyTransitTrips < 0 {
		return fmt.Errorf("%w: goals must be non-negative", eco.ErrInvalidTripData)
	}
	if err := s.userRepo.UpdateGoals(ctx, userID, goals); err != nil {
		return fmt.Errorf("failed to update goals: %w", err)
	}
	return nil
}

func periodStart(periodType models.PeriodType, at time.Time) (time.Time, error) {
	t := at.UTC()
	switch periodType {
	case models.PeriodTypeDay:
		return utils.StartOfDay(t), nil
	case models.PeriodTypeWeek:
		return utils.StartOfWeek(t), nil
	case models.PeriodTypeMonth:
		return utils.StartOfMonth(t), nil
	default:
		return time.Time{}, fmt.Errorf("%w: invalid period type %q", eco.ErrInvalidTripData, periodType)
	}
}
