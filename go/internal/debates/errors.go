package debates

import "errors"

var (
	ErrNotEnoughParticipants = errors.New("at least 2 participants are required")
	ErrDebateNotFound        = errors.New("debate not found")
	ErrParticipantNotFound   = errors.New("participant not found")
	ErrTeamNotFound          = errors.New("team not found")
	ErrAwardNotFound         = errors.New("award not found")
	ErrDuplicateAward        = errors.New("participant already has this award")
	ErrInvalidStatus         = errors.New("invalid debate status")
	ErrInvalidAwardType      = errors.New("invalid award type")
	ErrNegativeScore         = errors.New("score cannot be negative")
	ErrMissingField          = errors.New("missing required field")
)
