package debates

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/debatify/go/internal/datastore"
	"github.com/mcdev12/debatify/go/internal/models"
)

// fakeRepo is an in-memory DebatesRepository.
type fakeRepo struct {
	mu           sync.Mutex
	debates      map[uuid.UUID]models.Debate
	participants map[uuid.UUID]models.Participant
	teams        map[uuid.UUID]models.Team
	awards       map[uuid.UUID]models.Award
	topics       []models.DebateTopic
	created      []CreateDebateParams
	failCreate   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		debates:      map[uuid.UUID]models.Debate{},
		participants: map[uuid.UUID]models.Participant{},
		teams:        map[uuid.UUID]models.Team{},
		awards:       map[uuid.UUID]models.Award{},
	}
}

func missing(table string, id uuid.UUID) error {
	return fmt.Errorf("%s %s: %w", table, id, datastore.ErrNotFound)
}

func (f *fakeRepo) CreateDebate(_ context.Context, p CreateDebateParams) (*models.DebateDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	f.created = append(f.created, p)

	now := time.Now()
	d := models.Debate{
		ID: uuid.New(), OrganizerID: p.OrganizerID, Title: p.Title, Topic: p.Topic,
		DebateDate: p.DebateDate, NumberOfTeams: 2, Status: p.Status, CreatedAt: now, UpdatedAt: now,
	}
	f.debates[d.ID] = d

	detail := &models.DebateDetail{Debate: d}
	for _, np := range p.Participants {
		part := models.Participant{ID: uuid.New(), DebateID: d.ID, Name: np.Name, Team: np.Team, CreatedAt: now}
		f.participants[part.ID] = part
		detail.Participants = append(detail.Participants, part)
	}
	for _, side := range []models.Side{models.SideFor, models.SideAgainst} {
		t := models.Team{ID: uuid.New(), DebateID: d.ID, TeamName: side, CreatedAt: now}
		f.teams[t.ID] = t
		detail.Teams = append(detail.Teams, t)
	}
	return detail, nil
}

func (f *fakeRepo) GetDebate(_ context.Context, id uuid.UUID) (*models.Debate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.debates[id]
	if !ok {
		return nil, missing("debates", id)
	}
	return &d, nil
}

func (f *fakeRepo) ListDebates(_ context.Context, organizerID uuid.UUID) ([]models.Debate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Debate
	for _, d := range f.debates {
		if organizerID == uuid.Nil || d.OrganizerID == organizerID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DebateDate.Before(out[j].DebateDate) })
	return out, nil
}

func (f *fakeRepo) UpdateDebateStatus(_ context.Context, id uuid.UUID, status models.DebateStatus) (*models.Debate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.debates[id]
	if !ok {
		return nil, missing("debates", id)
	}
	d.Status = status
	f.debates[id] = d
	return &d, nil
}

func (f *fakeRepo) GetParticipant(_ context.Context, id uuid.UUID) (*models.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.participants[id]
	if !ok {
		return nil, missing("participants", id)
	}
	return &p, nil
}

func (f *fakeRepo) ListParticipants(_ context.Context, debateID uuid.UUID) ([]models.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Participant
	for _, p := range f.participants {
		if p.DebateID == debateID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateParticipantScore(_ context.Context, id uuid.UUID, score int) (*models.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.participants[id]
	if !ok {
		return nil, missing("participants", id)
	}
	p.IndividualScore = score
	f.participants[id] = p
	return &p, nil
}

func (f *fakeRepo) ListTeams(_ context.Context, debateID uuid.UUID) ([]models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Team
	for _, t := range f.teams {
		if t.DebateID == debateID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateTeamScore(_ context.Context, id uuid.UUID, score int) (*models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.teams[id]
	if !ok {
		return nil, missing("teams", id)
	}
	t.TeamScore = score
	f.teams[id] = t
	return &t, nil
}

func (f *fakeRepo) ListAwards(_ context.Context, debateID uuid.UUID) ([]models.Award, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Award
	for _, a := range f.awards {
		if a.DebateID == debateID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateAward(_ context.Context, req GrantAwardRequest) (*models.Award, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := models.Award{ID: uuid.New(), DebateID: req.DebateID, ParticipantID: req.ParticipantID, AwardType: req.AwardType, CreatedAt: time.Now()}
	f.awards[a.ID] = a
	return &a, nil
}

func (f *fakeRepo) DeleteAward(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.awards[id]; !ok {
		return missing("awards", id)
	}
	delete(f.awards, id)
	return nil
}

func (f *fakeRepo) ListTopics(_ context.Context, limit int) ([]models.DebateTopic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit > len(f.topics) {
		limit = len(f.topics)
	}
	return append([]models.DebateTopic(nil), f.topics[:limit]...), nil
}
