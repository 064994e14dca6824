package debates

import "github.com/mcdev12/debatify/go/internal/models"

// Wire messages for DebateService. IDs travel as strings and are parsed at
// the service boundary.

type CreateDebateMessage struct {
	OrganizerID  string   `json:"organizer_id"`
	Title        string   `json:"title"`
	Topic        string   `json:"topic"`
	DebateDate   string   `json:"debate_date"`
	Participants []string `json:"participants"`
}

type DebateDetailResponse struct {
	Detail *models.DebateDetail `json:"detail"`
}

type GetDebateMessage struct {
	ID string `json:"id"`
}

type ListDebatesMessage struct {
	OrganizerID string `json:"organizer_id,omitempty"`
}

type ListDebatesResponse struct {
	Debates []models.Debate `json:"debates"`
}

type UpdateDebateStatusMessage struct {
	ID     string              `json:"id"`
	Status models.DebateStatus `json:"status"`
}

type DebateResponse struct {
	Debate *models.Debate `json:"debate"`
}

type UpdateScoreMessage struct {
	ID    string `json:"id"`
	Score int    `json:"score"`
}

type ParticipantResponse struct {
	Participant *models.Participant `json:"participant"`
}

type TeamResponse struct {
	Team *models.Team `json:"team"`
}

type ListAwardsMessage struct {
	DebateID string `json:"debate_id"`
}

type ListAwardsResponse struct {
	Awards []models.Award `json:"awards"`
}

type GrantAwardMessage struct {
	DebateID      string           `json:"debate_id"`
	ParticipantID string           `json:"participant_id"`
	AwardType     models.AwardType `json:"award_type"`
}

type AwardResponse struct {
	Award *models.Award `json:"award"`
}

type RemoveAwardMessage struct {
	ID string `json:"id"`
}

type RemoveAwardResponse struct{}

type SuggestTopicsMessage struct {
	Limit int `json:"limit,omitempty"`
}

type SuggestTopicsResponse struct {
	Topics []models.DebateTopic `json:"topics"`
}
