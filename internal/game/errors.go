package game

import "errors"

var (
	ErrNotEnoughParticipants = errors.New("at least 2 participants are required")
	ErrTooManyParticipants   = errors.New("too many participants")
	ErrLayoutExhausted       = errors.New("arena too small for the participant count")
	ErrUnknownMap            = errors.New("unknown map")
	ErrMatchInProgress       = errors.New("match already in progress")
	ErrMatchNotFound         = errors.New("match not found")
)
