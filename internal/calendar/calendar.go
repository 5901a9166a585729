// Package calendar defines the calendar collaborator contract: conversion
// of civil dates to lunar moments and stem-branch pillar computation.
// The zodiac and constellation lookups are pure in-process tables.
package calendar

import (
	"context"
	"errors"

	"ziwei-lab/internal/domain"
)

// ErrInvalidDate is returned for unparseable or out-of-calendar-range input.
var ErrInvalidDate = errors.New("invalid date")

// Service converts birth dates between calendars and computes pillars.
// Implementations: the remote JSON-RPC client and the in-process stub.
type Service interface {
	// ToLunarMoment converts a date string in the given calendar to a
	// lunar moment. Returns ErrInvalidDate on bad input.
	ToLunarMoment(ctx context.Context, date string, dateType domain.DateType) (*domain.LunarMoment, error)

	// FourPillars computes the year/month/day/hour pillars for a lunar
	// moment and a time of day.
	FourPillars(ctx context.Context, moment *domain.LunarMoment, hour, minute int) (domain.FourPillars, error)
}
