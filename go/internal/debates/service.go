package debates

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mcdev12/debatify/go/internal/models"
	"github.com/mcdev12/debatify/go/internal/rpcjson"
)

// DebateServiceName is the fully-qualified name of the service.
const DebateServiceName = "debatify.debate.v1.DebateService"

// Procedure paths, laid out the way protoc-gen-connect-go names them.
const (
	CreateDebateProcedure           = "/" + DebateServiceName + "/CreateDebate"
	GetDebateProcedure              = "/" + DebateServiceName + "/GetDebate"
	ListDebatesProcedure            = "/" + DebateServiceName + "/ListDebates"
	UpdateDebateStatusProcedure     = "/" + DebateServiceName + "/UpdateDebateStatus"
	UpdateParticipantScoreProcedure = "/" + DebateServiceName + "/UpdateParticipantScore"
	UpdateTeamScoreProcedure        = "/" + DebateServiceName + "/UpdateTeamScore"
	ListAwardsProcedure             = "/" + DebateServiceName + "/ListAwards"
	GrantAwardProcedure             = "/" + DebateServiceName + "/GrantAward"
	RemoveAwardProcedure            = "/" + DebateServiceName + "/RemoveAward"
	SuggestTopicsProcedure          = "/" + DebateServiceName + "/SuggestTopics"
)

// DebatesApp defines what the service layer needs from the debates application
type DebatesApp interface {
	CreateDebate(ctx context.Context, req CreateDebateRequest) (*models.DebateDetail, error)
	GetDebate(ctx context.Context, id uuid.UUID) (*models.DebateDetail, error)
	ListDebates(ctx context.Context, organizerID uuid.UUID) ([]models.Debate, error)
	UpdateDebateStatus(ctx context.Context, id uuid.UUID, status models.DebateStatus) (*models.Debate, error)
	UpdateParticipantScore(ctx context.Context, id uuid.UUID, score int) (*models.Participant, error)
	UpdateTeamScore(ctx context.Context, id uuid.UUID, score int) (*models.Team, error)
	ListAwards(ctx context.Context, debateID uuid.UUID) ([]models.Award, error)
	GrantAward(ctx context.Context, req GrantAwardRequest) (*models.Award, error)
	RemoveAward(ctx context.Context, id uuid.UUID) error
	SuggestTopics(ctx context.Context, limit int) ([]models.DebateTopic, error)
}

// Service implements DebateService over connect
type Service struct {
	app DebatesApp
}

// NewService creates a new debates connect service
func NewService(app DebatesApp) *Service {
	return &Service{app: app}
}

// NewDebateServiceHandler builds an HTTP handler for every procedure. It
// returns the path to mount it on.
func NewDebateServiceHandler(svc *Service, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(opts, rpcjson.Option())

	mux := http.NewServeMux()
	mux.Handle(CreateDebateProcedure, connect.NewUnaryHandler(CreateDebateProcedure, svc.CreateDebate, opts...))
	mux.Handle(GetDebateProcedure, connect.NewUnaryHandler(GetDebateProcedure, svc.GetDebate, opts...))
	mux.Handle(ListDebatesProcedure, connect.NewUnaryHandler(ListDebatesProcedure, svc.ListDebates, opts...))
	mux.Handle(UpdateDebateStatusProcedure, connect.NewUnaryHandler(UpdateDebateStatusProcedure, svc.UpdateDebateStatus, opts...))
	mux.Handle(UpdateParticipantScoreProcedure, connect.NewUnaryHandler(UpdateParticipantScoreProcedure, svc.UpdateParticipantScore, opts...))
	mux.Handle(UpdateTeamScoreProcedure, connect.NewUnaryHandler(UpdateTeamScoreProcedure, svc.UpdateTeamScore, opts...))
	mux.Handle(ListAwardsProcedure, connect.NewUnaryHandler(ListAwardsProcedure, svc.ListAwards, opts...))
	mux.Handle(GrantAwardProcedure, connect.NewUnaryHandler(GrantAwardProcedure, svc.GrantAward, opts...))
	mux.Handle(RemoveAwardProcedure, connect.NewUnaryHandler(RemoveAwardProcedure, svc.RemoveAward, opts...))
	mux.Handle(SuggestTopicsProcedure, connect.NewUnaryHandler(SuggestTopicsProcedure, svc.SuggestTopics, opts...))

	return "/" + DebateServiceName + "/", mux
}

// CreateDebate creates a debate and assigns its participants to teams
func (s *Service) CreateDebate(ctx context.Context, req *connect.Request[CreateDebateMessage]) (*connect.Response[DebateDetailResponse], error) {
	organizerID, err := uuid.Parse(req.Msg.OrganizerID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("organizer_id: %w", err))
	}
	date, err := parseDebateDate(req.Msg.DebateDate)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	detail, err := s.app.CreateDebate(ctx, CreateDebateRequest{
		OrganizerID:  organizerID,
		Title:        req.Msg.Title,
		Topic:        req.Msg.Topic,
		DebateDate:   date,
		Participants: req.Msg.Participants,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&DebateDetailResponse{Detail: detail}), nil
}

// GetDebate retrieves a debate with participants and teams
func (s *Service) GetDebate(ctx context.Context, req *connect.Request[GetDebateMessage]) (*connect.Response[DebateDetailResponse], error) {
	id, err := uuid.Parse(req.Msg.ID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	detail, err := s.app.GetDebate(ctx, id)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&DebateDetailResponse{Detail: detail}), nil
}

// ListDebates lists debates by date
func (s *Service) ListDebates(ctx context.Context, req *connect.Request[ListDebatesMessage]) (*connect.Response[ListDebatesResponse], error) {
	var organizerID uuid.UUID
	if req.Msg.OrganizerID != "" {
		id, err := uuid.Parse(req.Msg.OrganizerID)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		organizerID = id
	}

	debates, err := s.app.ListDebates(ctx, organizerID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListDebatesResponse{Debates: debates}), nil
}

// UpdateDebateStatus changes the status of a debate
func (s *Service) UpdateDebateStatus(ctx context.Context, req *connect.Request[UpdateDebateStatusMessage]) (*connect.Response[DebateResponse], error) {
	id, err := uuid.Parse(req.Msg.ID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	debate, err := s.app.UpdateDebateStatus(ctx, id, req.Msg.Status)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&DebateResponse{Debate: debate}), nil
}

// UpdateParticipantScore sets an individual score
func (s *Service) UpdateParticipantScore(ctx context.Context, req *connect.Request[UpdateScoreMessage]) (*connect.Response[ParticipantResponse], error) {
	id, err := uuid.Parse(req.Msg.ID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	p, err := s.app.UpdateParticipantScore(ctx, id, req.Msg.Score)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ParticipantResponse{Participant: p}), nil
}

// UpdateTeamScore sets a team score
func (s *Service) UpdateTeamScore(ctx context.Context, req *connect.Request[UpdateScoreMessage]) (*connect.Response[TeamResponse], error) {
	id, err := uuid.Parse(req.Msg.ID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	t, err := s.app.UpdateTeamScore(ctx, id, req.Msg.Score)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&TeamResponse{Team: t}), nil
}

// ListAwards lists the awards of a debate
func (s *Service) ListAwards(ctx context.Context, req *connect.Request[ListAwardsMessage]) (*connect.Response[ListAwardsResponse], error) {
	debateID, err := uuid.Parse(req.Msg.DebateID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	awards, err := s.app.ListAwards(ctx, debateID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListAwardsResponse{Awards: awards}), nil
}

// GrantAward grants an award to a participant
func (s *Service) GrantAward(ctx context.Context, req *connect.Request[GrantAwardMessage]) (*connect.Response[AwardResponse], error) {
	debateID, err := uuid.Parse(req.Msg.DebateID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("debate_id: %w", err))
	}
	participantID, err := uuid.Parse(req.Msg.ParticipantID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("participant_id: %w", err))
	}

	award, err := s.app.GrantAward(ctx, GrantAwardRequest{
		DebateID:      debateID,
		ParticipantID: participantID,
		AwardType:     req.Msg.AwardType,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&AwardResponse{Award: award}), nil
}

// RemoveAward removes an award
func (s *Service) RemoveAward(ctx context.Context, req *connect.Request[RemoveAwardMessage]) (*connect.Response[RemoveAwardResponse], error) {
	id, err := uuid.Parse(req.Msg.ID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if err := s.app.RemoveAward(ctx, id); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&RemoveAwardResponse{}), nil
}

// SuggestTopics returns suggested motions
func (s *Service) SuggestTopics(ctx context.Context, req *connect.Request[SuggestTopicsMessage]) (*connect.Response[SuggestTopicsResponse], error) {
	topics, err := s.app.SuggestTopics(ctx, req.Msg.Limit)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&SuggestTopicsResponse{Topics: topics}), nil
}

// parseDebateDate accepts a full timestamp or a plain calendar date.
func parseDebateDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("debate_date: %q is not a date", s)
	}
	return t, nil
}

func toConnectError(err error) error {
	switch {
	case errors.Is(err, ErrNotEnoughParticipants),
		errors.Is(err, ErrMissingField),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidAwardType),
		errors.Is(err, ErrNegativeScore):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ErrDebateNotFound),
		errors.Is(err, ErrParticipantNotFound),
		errors.Is(err, ErrTeamNotFound),
		errors.Is(err, ErrAwardNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ErrDuplicateAward):
		return connect.NewError(connect.CodeAlreadyExists, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
