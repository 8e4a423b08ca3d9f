package service

import (
	"errors"

	"github.com/aibek/estate-leases/internal/schedule"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidDivision surfaces the calendar sentinel unchanged so HTTP
	// callers only ever match service-level errors.
	ErrInvalidDivision = schedule.ErrInvalidDivision

	ErrAlreadyGenerated       = errors.New("schedule already generated")
	ErrCannotReschedule       = errors.New("contract cannot be rescheduled")
	ErrOverlappingPeriod      = errors.New("contract period overlaps an active contract")
	ErrConcurrentModification = errors.New("contract was modified concurrently")
)
