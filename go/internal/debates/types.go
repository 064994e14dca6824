package debates

import (
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/debatify/go/internal/models"
)

// DefaultTopicSuggestions is how many topics SuggestTopics returns by default.
const DefaultTopicSuggestions = 5

// CreateDebateRequest represents the data needed to create a new debate
type CreateDebateRequest struct {
	OrganizerID  uuid.UUID `json:"organizer_id"`
	Title        string    `json:"title"`
	Topic        string    `json:"topic"`
	DebateDate   time.Time `json:"debate_date"`
	Participants []string  `json:"participants"`
}

// NewParticipant is a roster entry after team assignment.
type NewParticipant struct {
	Name string
	Team models.Side
}

// CreateDebateParams is what the repository writes in one transaction.
type CreateDebateParams struct {
	OrganizerID  uuid.UUID
	Title        string
	Topic        string
	DebateDate   time.Time
	Status       models.DebateStatus
	Participants []NewParticipant
}

// GrantAwardRequest represents the data needed to grant an award
type GrantAwardRequest struct {
	DebateID      uuid.UUID        `json:"debate_id"`
	ParticipantID uuid.UUID        `json:"participant_id"`
	AwardType     models.AwardType `json:"award_type"`
}
