package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecotrip/internal/models"
	"ecotrip/internal/repositories/interfaces"
	"ecotrip/internal/utils"
	"ecotrip/pkg/logger"

	"github.com/looplab/fsm"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrTripNotOwned      = errors.New("trip does not belong to user")
	ErrInvalidTransition = errors.New("invalid trip state transition")
	ErrTripNotEditable   = errors.New("trip is no longer editable")
)

const (
	tripEventStart    = "start"
	tripEventComplete = "complete"
	tripEventCancel   = "cancel"
)

// newTripFSM builds the lifecycle machine seeded with the trip's current
// status. planned -> in_progress -> completed, with cancel allowed from any
// non-terminal state. completed and cancelled are terminal.
func newTripFSM(status models.TripStatus) *fsm.FSM {
	return fsm.NewFSM(
		string(status),
		fsm.Events{
			{Name: tripEventStart, Src: []string{string(models.TripStatusPlanned)}, Dst: string(models.TripStatusInProgress)},
			{Name: tripEventComplete, Src: []string{string(models.TripStatusInProgress)}, Dst: string(models.TripStatusCompleted)},
			{Name: tripEventCancel, Src: []string{string(models.TripStatusPlanned), string(models.TripStatusInProgress)}, Dst: string(models.TripStatusCancelled)},
		},
		fsm.Callbacks{},
	)
}

type TripService interface {
	// Lifecycle
	CreateTrip(ctx context.Context, userID primitive.ObjectID, request *models.CreateTripRequest) (*models.Trip, error)
	StartTrip(ctx context.Context, tripID, userID primitive.ObjectID) (*models.Trip, error)
	CompleteTrip(ctx context.Context, tripID, userID primitive.ObjectID, request *models.CompleteTripRequest) (*models.Trip, error)
	CancelTrip(ctx context.Context, tripID, userID primitive.ObjectID, reason string) (*models.Trip, error)

	// CRUD
	GetTrip(ctx context.Context, tripID, userID primitive.ObjectID) (*models.Trip, error)
	GetUserTrips(ctx context.Context, userID primitive.ObjectID, status models.TripStatus, params *utils.PaginationParams) ([]*models.Trip, int64, error)
	UpdateTrip(ctx context.Context, tripID, userID primitive.ObjectID, request *models.UpdateTripRequest) (*models.Trip, error)
	DeleteTrip(ctx context.Context, tripID, userID primitive.ObjectID) error
}

type tripService struct {
	tripRepo   interfaces.TripRepository
	ecoService EcoService
	notifier   NotificationDispatcher
	logger     *logger.Logger
}

func NewTripService(
	tripRepo interfaces.TripRepository,
	ecoService EcoService,
	notifier NotificationDispatcher,
	logger *logger.Logger,
) TripService {
	return &tripService{
		tripRepo:   tripRepo,
		ecoService: ecoService,
		notifier:   notifier,
		logger:     logger,
	}
}

func (s *tripService) CreateTrip(ctx context.Context, userID primitive.ObjectID, request *models.CreateTripRequest) (*models.Trip, error) {
	trip := &models.Trip{
		UserID:            userID,
		Label:             request.Label,
		Segments:          request.Segments,
		Status:            models.TripStatusPlanned,
		EstimatedDuration: request.EstimatedDuration,
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	s.logger.LogTripEvent(trip.ID, "trip_created", map[string]interface{}{
		"user_id":  userID.Hex(),
		"segments": len(trip.Segments),
	})
	return trip, nil
}

func (s *tripService) StartTrip(ctx context.Context, tripID, userID primitive.ObjectID) (*models.Trip, error) {
	trip, err := s.ownedTrip(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.transition(trip, tripEventStart); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	trip.StartTime = &now
	if err := s.tripRepo.UpdateStatus(ctx, tripID, trip.Status, map[string]interface{}{
		"start_time": now,
	}); err != nil {
		return nil, fmt.Errorf("failed to start trip: %w", err)
	}

	s.logger.LogTripEvent(tripID, "trip_started", nil)
	return trip, nil
}

func (s *tripService) CompleteTrip(ctx context.Context, tripID, userID primitive.ObjectID, request *models.CompleteTripRequest) (*models.Trip, error) {
	trip, err := s.ownedTrip(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.transition(trip, tripEventComplete); err != nil {
		return nil, err
	}

	if len(request.Segments) > 0 {
		trip.Segments = request.Segments
	}

	now := time.Now().UTC()
	trip.EndTime = &now
	if err := s.tripRepo.UpdateStatus(ctx, tripID, trip.Status, map[string]interface{}{
		"end_time": now,
		"segments": trip.Segments,
	}); err != nil {
		return nil, fmt.Errorf("failed to complete trip: %w", err)
	}

	s.logger.LogTripEvent(tripID, "trip_completed", map[string]interface{}{
		"segments": len(trip.Segments),
	})

	// Aggregation failure never takes the completion back: the trip stays
	// completed with its failure reason recorded for a later retry.
	if err := s.ecoService.ProcessCompletedTrip(ctx, trip); err != nil {
		s.logger.WithError(err).WithTripID(tripID).Error("Failed to aggregate completed trip")
		trip.AggregationError = err.Error()
		return trip, nil
	}

	fresh, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return trip, nil
	}

	if notifyErr := s.notifier.Dispatch(ctx, &models.NotificationRequest{
		UserID:  userID,
		Type:    models.NotificationTypeTripCompleted,
		Title:   "Trip completed",
		Message: fmt.Sprintf("You saved %.2f kg of CO2 on this trip.", fresh.CO2SavedKg),
		Data: map[string]interface{}{
			"trip_id":      fresh.ID.Hex(),
			"co2_saved_kg": fresh.CO2SavedKg,
			"eco_score":    fresh.EcoScore,
		},
	}); notifyErr != nil {
		s.logger.WithError(notifyErr).WithTripID(tripID).Warn("Failed to dispatch trip completion notification")
	}

	return fresh, nil
}

func (s *tripService) CancelTrip(ctx context.Context, tripID, userID primitive.ObjectID, reason string) (*models.Trip, error) {
	trip, err := s.ownedTrip(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.transition(trip, tripEventCancel); err != nil {
		return nil, err
	}

	trip.CancelReason = reason
	if err := s.tripRepo.UpdateStatus(ctx, tripID, trip.Status, map[string]interface{}{
		"cancel_reason": reason,
	}); err != nil {
		return nil, fmt.Errorf("failed to cancel trip: %w", err)
	}

	s.logger.LogTripEvent(tripID, "trip_cancelled", map[string]interface{}{
		"reason": reason,
	})
	return trip, nil
}

func (s *tripService) GetTrip(ctx context.Context, tripID, userID primitive.ObjectID) (*models.Trip, error) {
	return s.ownedTrip(ctx, tripID, userID)
}

func (s *tripService) GetUserTrips(ctx context.Context, userID primitive.ObjectID, status models.TripStatus, params *utils.PaginationParams) ([]*models.Trip, int64, error) {
	if status != "" {
		return s.tripRepo.GetByUserAndStatus(ctx, userID, status, params)
	}
	return s.tripRepo.GetByUserID(ctx, userID, params)
}

func (s *tripService) UpdateTrip(ctx context.Context, tripID, userID primitive.ObjectID, request *models.UpdateTripRequest) (*models.Trip, error) {
	trip, err := s.ownedTrip(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}
	if trip.Status.Terminal() {
		return nil, ErrTripNotEditable
	}

	updates := map[string]interface{}{}
	if request.Label != nil {
		trip.Label = *request.Label
		updates["label"] = *request.Label
	}
	if request.Segments != nil {
		trip.Segments = *request.Segments
		updates["segments"] = *request.Segments
	}
	if request.EstimatedDuration != nil {
		trip.EstimatedDuration = *request.EstimatedDuration
		updates["estimated_duration"] = *request.EstimatedDuration
	}
	if len(updates) == 0 {
		return trip, nil
	}

	if err := s.tripRepo.Update(ctx, tripID, updates); err != nil {
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}
	return trip, nil
}

func (s *tripService) DeleteTrip(ctx context.Context, tripID, userID primitive.ObjectID) error {
	trip, err := s.ownedTrip(ctx, tripID, userID)
	if err != nil {
		return err
	}

	// An aggregated trip is backed out of the stats before the row goes
	// away; if the reversal fails the trip stays put.
	if trip.Aggregated {
		if err := s.ecoService.ReverseDeletedTrip(ctx, trip); err != nil {
			return fmt.Errorf("failed to reverse trip aggregation: %w", err)
		}
	}

	if err := s.tripRepo.Delete(ctx, tripID); err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	s.logger.LogTripEvent(tripID, "trip_deleted", nil)
	return nil
}

func (s *tripService) ownedTrip(ctx context.Context, tripID, userID primitive.ObjectID) (*models.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.UserID != userID {
		return nil, ErrTripNotOwned
	}
	return trip, nil
}

// transition drives the lifecycle machine and writes the resulting status
// back onto the trip.
func (s *tripService) transition(trip *models.Trip, event string) error {
	machine := newTripFSM(trip.Status)
	if err := machine.Event(context.Background(), event); err != nil {
		return fmt.Errorf("%w: cannot %s a %s trip", ErrInvalidTransition, event, trip.Status)
	}
	trip.Status = models.TripStatus(machine.Current())
	return nil
}
