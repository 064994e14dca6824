package models

import (
	"time"

	"github.com/google/uuid"
)

// AwardType is a recognition granted to a participant
type AwardType string

const (
	AwardHonorableMention AwardType = "honorable_mention"
	AwardBestSpeaker      AwardType = "best_speaker"
	AwardBestDebater      AwardType = "best_debater"
	AwardMostCreative     AwardType = "most_creative"
)

var awardLabels = map[AwardType]string{
	AwardHonorableMention: "Honorable Mention",
	AwardBestSpeaker:      "Best Speaker",
	AwardBestDebater:      "Best Debater",
	AwardMostCreative:     "Most Creative Debater",
}

// Label is the display name, or the raw value for unknown types.
func (t AwardType) Label() string {
	if l, ok := awardLabels[t]; ok {
		return l
	}
	return string(t)
}

// Valid reports whether t is a known award type.
func (t AwardType) Valid() bool {
	_, ok := awardLabels[t]
	return ok
}

// Award represents an award granted in a debate
type Award struct {
	ID            uuid.UUID `json:"id" db:"id"`
	DebateID      uuid.UUID `json:"debate_id" db:"debate_id"`
	ParticipantID uuid.UUID `json:"participant_id" db:"participant_id"`
	AwardType     AwardType `json:"award_type" db:"award_type"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// DebateTopic is a suggested motion
type DebateTopic struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Topic     string    `json:"topic" db:"topic"`
	Category  *string   `json:"category,omitempty" db:"category"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
