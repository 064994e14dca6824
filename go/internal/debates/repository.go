package debates

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/debatify/go/internal/datastore"
	"github.com/mcdev12/debatify/go/internal/models"
)

const (
	tableDebates      = "debates"
	tableParticipants = "participants"
	tableTeams        = "teams"
	tableAwards       = "awards"
	tableTopics       = "debate_topics"
)

// DB defines what the repository needs from the data store
type DB interface {
	Executor() datastore.Executor
	InTx(ctx context.Context, fn func(datastore.Executor) error) error
}

// Repository implements debate data access operations
type Repository struct {
	db DB
}

// NewRepository creates a new debates repository
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// CreateDebate writes the debate, its participants and both teams in one
// transaction.
func (r *Repository) CreateDebate(ctx context.Context, params CreateDebateParams) (*models.DebateDetail, error) {
	var detail models.DebateDetail

	err := r.db.InTx(ctx, func(ex datastore.Executor) error {
		debate, err := datastore.Insert[models.Debate](ctx, ex, tableDebates, datastore.Values{
			"organizer_id":    params.OrganizerID,
			"title":           params.Title,
			"topic":           params.Topic,
			"debate_date":     params.DebateDate,
			"number_of_teams": 2,
			"status":          string(params.Status),
		})
		if err != nil {
			return err
		}

		rows := make([]datastore.Values, 0, len(params.Participants))
		for _, p := range params.Participants {
			rows = append(rows, datastore.Values{
				"debate_id": debate.ID,
				"name":      p.Name,
				"team":      string(p.Team),
			})
		}
		participants, err := datastore.InsertMany[models.Participant](ctx, ex, tableParticipants, rows)
		if err != nil {
			return err
		}

		teams, err := datastore.InsertMany[models.Team](ctx, ex, tableTeams, []datastore.Values{
			{"debate_id": debate.ID, "team_name": string(models.SideFor), "team_score": 0},
			{"debate_id": debate.ID, "team_name": string(models.SideAgainst), "team_score": 0},
		})
		if err != nil {
			return err
		}

		detail = models.DebateDetail{Debate: debate, Participants: participants, Teams: teams}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create debate: %w", err)
	}
	return &detail, nil
}

// GetDebate retrieves a debate by ID
func (r *Repository) GetDebate(ctx context.Context, id uuid.UUID) (*models.Debate, error) {
	debate, err := datastore.SelectOne[models.Debate](ctx, r.db.Executor(), datastore.From(tableDebates).Eq("id", id))
	if err != nil {
		return nil, fmt.Errorf("failed to get debate: %w", err)
	}
	return &debate, nil
}

// ListDebates retrieves debates ordered by date
func (r *Repository) ListDebates(ctx context.Context, organizerID uuid.UUID) ([]models.Debate, error) {
	q := datastore.From(tableDebates).Order("debate_date", false)
	if organizerID != uuid.Nil {
		q = q.Eq("organizer_id", organizerID)
	}
	debates, err := datastore.Select[models.Debate](ctx, r.db.Executor(), q)
	if err != nil {
		return nil, fmt.Errorf("failed to list debates: %w", err)
	}
	return debates, nil
}

// UpdateDebateStatus updates only the status of a debate
func (r *Repository) UpdateDebateStatus(ctx context.Context, id uuid.UUID, status models.DebateStatus) (*models.Debate, error) {
	debate, err := datastore.UpdateOne[models.Debate](ctx, r.db.Executor(),
		datastore.From(tableDebates).Eq("id", id),
		datastore.Values{"status": string(status), "updated_at": time.Now().UTC()})
	if err != nil {
		return nil, fmt.Errorf("failed to update debate status: %w", err)
	}
	return &debate, nil
}

// GetParticipant retrieves a participant by ID
func (r *Repository) GetParticipant(ctx context.Context, id uuid.UUID) (*models.Participant, error) {
	p, err := datastore.SelectOne[models.Participant](ctx, r.db.Executor(), datastore.From(tableParticipants).Eq("id", id))
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return &p, nil
}

// ListParticipants retrieves the roster of a debate
func (r *Repository) ListParticipants(ctx context.Context, debateID uuid.UUID) ([]models.Participant, error) {
	ps, err := datastore.Select[models.Participant](ctx, r.db.Executor(),
		datastore.From(tableParticipants).Eq("debate_id", debateID).Order("created_at", false))
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return ps, nil
}

// UpdateParticipantScore sets the individual score of a participant
func (r *Repository) UpdateParticipantScore(ctx context.Context, id uuid.UUID, score int) (*models.Participant, error) {
	p, err := datastore.UpdateOne[models.Participant](ctx, r.db.Executor(),
		datastore.From(tableParticipants).Eq("id", id),
		datastore.Values{"individual_score": score})
	if err != nil {
		return nil, fmt.Errorf("failed to update participant score: %w", err)
	}
	return &p, nil
}

// ListTeams retrieves both teams of a debate
func (r *Repository) ListTeams(ctx context.Context, debateID uuid.UUID) ([]models.Team, error) {
	teams, err := datastore.Select[models.Team](ctx, r.db.Executor(),
		datastore.From(tableTeams).Eq("debate_id", debateID).Order("team_name", true))
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// UpdateTeamScore sets the score of a team
func (r *Repository) UpdateTeamScore(ctx context.Context, id uuid.UUID, score int) (*models.Team, error) {
	t, err := datastore.UpdateOne[models.Team](ctx, r.db.Executor(),
		datastore.From(tableTeams).Eq("id", id),
		datastore.Values{"team_score": score})
	if err != nil {
		return nil, fmt.Errorf("failed to update team score: %w", err)
	}
	return &t, nil
}

// ListAwards retrieves the awards of a debate
func (r *Repository) ListAwards(ctx context.Context, debateID uuid.UUID) ([]models.Award, error) {
	awards, err := datastore.Select[models.Award](ctx, r.db.Executor(),
		datastore.From(tableAwards).Eq("debate_id", debateID).Order("created_at", false))
	if err != nil {
		return nil, fmt.Errorf("failed to list awards: %w", err)
	}
	return awards, nil
}

// CreateAward stores a granted award
func (r *Repository) CreateAward(ctx context.Context, req GrantAwardRequest) (*models.Award, error) {
	award, err := datastore.Insert[models.Award](ctx, r.db.Executor(), tableAwards, datastore.Values{
		"debate_id":      req.DebateID,
		"participant_id": req.ParticipantID,
		"award_type":     string(req.AwardType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create award: %w", err)
	}
	return &award, nil
}

// DeleteAward removes an award by ID
func (r *Repository) DeleteAward(ctx context.Context, id uuid.UUID) error {
	n, err := datastore.Delete(ctx, r.db.Executor(), datastore.From(tableAwards).Eq("id", id))
	if err != nil {
		return fmt.Errorf("failed to delete award: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("award %s: %w", id, datastore.ErrNotFound)
	}
	return nil
}

// ListTopics retrieves suggested topics
func (r *Repository) ListTopics(ctx context.Context, limit int) ([]models.DebateTopic, error) {
	topics, err := datastore.Select[models.DebateTopic](ctx, r.db.Executor(),
		datastore.From(tableTopics).Take(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	return topics, nil
}
