// Package services defines the business logic for daily records, their
// entries and the analytics computed over them.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import (
	"errors"

	"github.com/tbourn/go-day-tracker/internal/analytics"
)

// Record-related errors.
var (
	// ErrRecordNotFound indicates that the requested daily record does not
	// exist or is not accessible to the current user.
	ErrRecordNotFound = errors.New("daily record not found")

	// ErrDuplicateRecord is returned when the user already has a record for
	// the requested date.
	ErrDuplicateRecord = errors.New("a record already exists for this date")

	// ErrInvalidRating is returned when a rating falls outside 1..10.
	ErrInvalidRating = errors.New("ratings must be between 1 and 10")

	// ErrInvalidTimeRange is returned when an end time precedes its start
	// time, or a duration is negative.
	ErrInvalidTimeRange = errors.New("end time must not be before start time")

	// ErrInvalidMealType is returned for meal types outside the known set.
	ErrInvalidMealType = errors.New("meal_type must be one of breakfast, lunch, dinner, snack")

	// ErrInvalidPortionSize is returned for portion sizes outside the known set.
	ErrInvalidPortionSize = errors.New("portion_size must be one of small, medium, large")

	// ErrMissingField is returned when a required field is absent.
	ErrMissingField = errors.New("required field missing")

	// ErrInvalidRange is returned when a query's from date is after its to date.
	ErrInvalidRange = errors.New("from must not be after to")
)

// Analytics errors.
var (
	// ErrInsufficientData means there is not enough data yet for the
	// requested analysis.
	ErrInsufficientData = analytics.ErrInsufficientData

	// ErrModelNotTrained is returned by Predict before a model has been fitted
	// for the user.
	ErrModelNotTrained = analytics.ErrMissingModel

	// ErrUnknownFeature is returned when a prediction names a feature the
	// model does not know.
	ErrUnknownFeature = errors.New("unknown feature")
)
