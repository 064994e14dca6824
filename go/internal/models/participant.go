package models

import (
	"time"

	"github.com/google/uuid"
)

// Participant is a debater assigned to one side
type Participant struct {
	ID              uuid.UUID `json:"id" db:"id"`
	DebateID        uuid.UUID `json:"debate_id" db:"debate_id"`
	Name            string    `json:"name" db:"name"`
	Team            Side      `json:"team" db:"team"`
	IndividualScore int       `json:"individual_score" db:"individual_score"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// Team holds the aggregate score for one side
type Team struct {
	ID        uuid.UUID `json:"id" db:"id"`
	DebateID  uuid.UUID `json:"debate_id" db:"debate_id"`
	TeamName  Side      `json:"team_name" db:"team_name"`
	TeamScore int       `json:"team_score" db:"team_score"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
