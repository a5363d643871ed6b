package models

import "errors"

// Custom errors
var (
	ErrUnknownTeam       = errors.New("unknown team code")
	ErrInvalidSnapshot   = errors.New("invalid snapshot")
	ErrNotFound          = errors.New("record not found")
	ErrInvalidPrediction = errors.New("prediction outside [0, 1]")
)
