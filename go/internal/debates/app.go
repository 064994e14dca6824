package debates

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/debatify/go/internal/datastore"
	"github.com/mcdev12/debatify/go/internal/models"
)

// DebatesRepository defines what the app layer needs from the repository
type DebatesRepository interface {
	CreateDebate(ctx context.Context, params CreateDebateParams) (*models.DebateDetail, error)
	GetDebate(ctx context.Context, id uuid.UUID) (*models.Debate, error)
	ListDebates(ctx context.Context, organizerID uuid.UUID) ([]models.Debate, error)
	UpdateDebateStatus(ctx context.Context, id uuid.UUID, status models.DebateStatus) (*models.Debate, error)

	GetParticipant(ctx context.Context, id uuid.UUID) (*models.Participant, error)
	ListParticipants(ctx context.Context, debateID uuid.UUID) ([]models.Participant, error)
	UpdateParticipantScore(ctx context.Context, id uuid.UUID, score int) (*models.Participant, error)

	ListTeams(ctx context.Context, debateID uuid.UUID) ([]models.Team, error)
	UpdateTeamScore(ctx context.Context, id uuid.UUID, score int) (*models.Team, error)

	ListAwards(ctx context.Context, debateID uuid.UUID) ([]models.Award, error)
	CreateAward(ctx context.Context, req GrantAwardRequest) (*models.Award, error)
	DeleteAward(ctx context.Context, id uuid.UUID) error

	ListTopics(ctx context.Context, limit int) ([]models.DebateTopic, error)
}

// Shuffler permutes n elements through swap, like rand.Shuffle.
type Shuffler func(n int, swap func(i, j int))

// App handles debate business logic
type App struct {
	repo    DebatesRepository
	shuffle Shuffler
}

// NewApp creates a new debates App
func NewApp(repo DebatesRepository) *App {
	return &App{
		repo:    repo,
		shuffle: rand.Shuffle,
	}
}

// WithShuffler replaces the random team assignment.
func (a *App) WithShuffler(s Shuffler) *App {
	a.shuffle = s
	return a
}

// CreateDebate validates the request, splits participants into two sides and
// stores the debate with its roster and both teams.
func (a *App) CreateDebate(ctx context.Context, req CreateDebateRequest) (*models.DebateDetail, error) {
	if err := validateCreateDebateRequest(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	names := cleanNames(req.Participants)
	if len(names) < 2 {
		return nil, ErrNotEnoughParticipants
	}

	detail, err := a.repo.CreateDebate(ctx, CreateDebateParams{
		OrganizerID:  req.OrganizerID,
		Title:        strings.TrimSpace(req.Title),
		Topic:        strings.TrimSpace(req.Topic),
		DebateDate:   req.DebateDate,
		Status:       models.DebateStatusUpcoming,
		Participants: a.assignTeams(names),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create debate: %w", err)
	}

	log.Info().
		Str("debate_id", detail.Debate.ID.String()).
		Str("title", detail.Debate.Title).
		Int("participants", len(detail.Participants)).
		Msg("created debate")
	return detail, nil
}

// assignTeams shuffles names and puts the first half, rounded up, on the
// "for" side.
func (a *App) assignTeams(names []string) []NewParticipant {
	shuffled := append([]string(nil), names...)
	a.shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	half := (len(shuffled) + 1) / 2
	out := make([]NewParticipant, len(shuffled))
	for i, name := range shuffled {
		side := models.SideAgainst
		if i < half {
			side = models.SideFor
		}
		out[i] = NewParticipant{Name: name, Team: side}
	}
	return out
}

// ListDebates returns debates by date, soonest first. A nil organizer lists
// every debate.
func (a *App) ListDebates(ctx context.Context, organizerID uuid.UUID) ([]models.Debate, error) {
	debates, err := a.repo.ListDebates(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list debates: %w", err)
	}
	return debates, nil
}

// GetDebate returns a debate with its participants and teams.
func (a *App) GetDebate(ctx context.Context, id uuid.UUID) (*models.DebateDetail, error) {
	debate, err := a.repo.GetDebate(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrDebateNotFound)
	}

	participants, err := a.repo.ListParticipants(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	teams, err := a.repo.ListTeams(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	return &models.DebateDetail{Debate: *debate, Participants: participants, Teams: teams}, nil
}

// UpdateDebateStatus moves a debate through its lifecycle.
func (a *App) UpdateDebateStatus(ctx context.Context, id uuid.UUID, status models.DebateStatus) (*models.Debate, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	debate, err := a.repo.UpdateDebateStatus(ctx, id, status)
	if err != nil {
		return nil, notFound(err, ErrDebateNotFound)
	}

	log.Info().Str("debate_id", id.String()).Str("status", string(status)).Msg("updated debate status")
	return debate, nil
}

// UpdateParticipantScore sets a participant's individual score.
func (a *App) UpdateParticipantScore(ctx context.Context, id uuid.UUID, score int) (*models.Participant, error) {
	if score < 0 {
		return nil, ErrNegativeScore
	}
	p, err := a.repo.UpdateParticipantScore(ctx, id, score)
	if err != nil {
		return nil, notFound(err, ErrParticipantNotFound)
	}
	return p, nil
}

// UpdateTeamScore sets a team's score.
func (a *App) UpdateTeamScore(ctx context.Context, id uuid.UUID, score int) (*models.Team, error) {
	if score < 0 {
		return nil, ErrNegativeScore
	}
	t, err := a.repo.UpdateTeamScore(ctx, id, score)
	if err != nil {
		return nil, notFound(err, ErrTeamNotFound)
	}
	return t, nil
}

// ListAwards returns the awards granted in a debate.
func (a *App) ListAwards(ctx context.Context, debateID uuid.UUID) ([]models.Award, error) {
	awards, err := a.repo.ListAwards(ctx, debateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list awards: %w", err)
	}
	return awards, nil
}

// GrantAward gives a participant an award. A participant holds each award
// type at most once.
func (a *App) GrantAward(ctx context.Context, req GrantAwardRequest) (*models.Award, error) {
	if !req.AwardType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAwardType, req.AwardType)
	}

	participant, err := a.repo.GetParticipant(ctx, req.ParticipantID)
	if err != nil {
		return nil, notFound(err, ErrParticipantNotFound)
	}
	if participant.DebateID != req.DebateID {
		return nil, fmt.Errorf("%w: not in debate %s", ErrParticipantNotFound, req.DebateID)
	}

	existing, err := a.repo.ListAwards(ctx, req.DebateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list awards: %w", err)
	}
	for _, aw := range existing {
		if aw.ParticipantID == req.ParticipantID && aw.AwardType == req.AwardType {
			return nil, ErrDuplicateAward
		}
	}

	award, err := a.repo.CreateAward(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to grant award: %w", err)
	}

	log.Info().
		Str("participant", participant.Name).
		Str("award", req.AwardType.Label()).
		Msg("granted award")
	return award, nil
}

// RemoveAward deletes an award.
func (a *App) RemoveAward(ctx context.Context, id uuid.UUID) error {
	if err := a.repo.DeleteAward(ctx, id); err != nil {
		return notFound(err, ErrAwardNotFound)
	}
	return nil
}

// SuggestTopics returns up to limit topics; non-positive uses the default.
func (a *App) SuggestTopics(ctx context.Context, limit int) ([]models.DebateTopic, error) {
	if limit <= 0 {
		limit = DefaultTopicSuggestions
	}
	topics, err := a.repo.ListTopics(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	return topics, nil
}

func validateCreateDebateRequest(req CreateDebateRequest) error {
	switch {
	case req.OrganizerID == uuid.Nil:
		return fmt.Errorf("%w: organizer_id", ErrMissingField)
	case strings.TrimSpace(req.Title) == "":
		return fmt.Errorf("%w: title", ErrMissingField)
	case strings.TrimSpace(req.Topic) == "":
		return fmt.Errorf("%w: topic", ErrMissingField)
	case req.DebateDate.IsZero():
		return fmt.Errorf("%w: debate_date", ErrMissingField)
	}
	return nil
}

func cleanNames(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, n := range raw {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// notFound maps a repository miss onto the domain sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, datastore.ErrNotFound) {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	return err
}
