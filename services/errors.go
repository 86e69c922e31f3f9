package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
var (
	// Not-found errors.
	ErrNotFound           = errors.New("requested resource not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrCourtNotFound      = errors.New("court not found")
	ErrCategoryNotFound   = errors.New("category not found")

	// Validation and business-rule errors.
	ErrValidationFailed       = errors.New("validation failed")
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrTeamNameRequired       = errors.New("team name is required")
	ErrInvalidFormat          = errors.New("unknown tournament format")
	ErrInvalidScoringSettings = errors.New("invalid scoring settings")
	ErrInvalidScore           = errors.New("invalid match score")
	ErrMatchNotStartable      = errors.New("match cannot be started in its current state")
	ErrMatchNotCompletable    = errors.New("match cannot be completed in its current state")
	ErrMatchAlreadyCompleted  = errors.New("match is already completed")
	ErrRegistrationClosed     = errors.New("tournament registration is closed")

	// Stage errors.
	ErrStageTransitionInvalid = errors.New("stage transition is not allowed")
	ErrStageIncomplete        = errors.New("current stage still has unfinished matches")
	ErrTournamentCompleted    = errors.New("tournament is already completed")

	// Conflict errors.
	ErrTournamentNameConflict = errors.New("tournament name already exists")
	ErrCourtNumberConflict    = errors.New("court number is already in use")
	ErrTournamentConflict     = errors.New("tournament was modified concurrently, reload and retry")

	// Court errors.
	ErrCourtNotAvailable = errors.New("court is not available")
)
