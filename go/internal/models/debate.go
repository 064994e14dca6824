package models

import (
	"time"

	"github.com/google/uuid"
)

// DebateStatus is the lifecycle position of a debate
type DebateStatus string

const (
	DebateStatusUpcoming   DebateStatus = "upcoming"
	DebateStatusInProgress DebateStatus = "in_progress"
	DebateStatusCompleted  DebateStatus = "completed"
)

// Valid reports whether s is a known status.
func (s DebateStatus) Valid() bool {
	switch s {
	case DebateStatusUpcoming, DebateStatusInProgress, DebateStatusCompleted:
		return true
	}
	return false
}

// Side is one of the two teams in a debate.
type Side string

const (
	SideFor     Side = "for"
	SideAgainst Side = "against"
)

// Debate represents a scheduled debate event
type Debate struct {
	ID            uuid.UUID    `json:"id" db:"id"`
	OrganizerID   uuid.UUID    `json:"organizer_id" db:"organizer_id"`
	Title         string       `json:"title" db:"title"`
	Topic         string       `json:"topic" db:"topic"`
	DebateDate    time.Time    `json:"debate_date" db:"debate_date"`
	NumberOfTeams int          `json:"number_of_teams" db:"number_of_teams"`
	Status        DebateStatus `json:"status" db:"status"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at" db:"updated_at"`
}

// DebateDetail is a debate with its roster and team scores
type DebateDetail struct {
	Debate       Debate        `json:"debate"`
	Participants []Participant `json:"participants"`
	Teams        []Team        `json:"teams"`
}
