package debates

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mcdev12/debatify/go/internal/rpcjson"
)

// DebateServiceClient calls DebateService over connect.
type DebateServiceClient struct {
	createDebate           *connect.Client[CreateDebateMessage, DebateDetailResponse]
	getDebate              *connect.Client[GetDebateMessage, DebateDetailResponse]
	listDebates            *connect.Client[ListDebatesMessage, ListDebatesResponse]
	updateDebateStatus     *connect.Client[UpdateDebateStatusMessage, DebateResponse]
	updateParticipantScore *connect.Client[UpdateScoreMessage, ParticipantResponse]
	updateTeamScore        *connect.Client[UpdateScoreMessage, TeamResponse]
	listAwards             *connect.Client[ListAwardsMessage, ListAwardsResponse]
	grantAward             *connect.Client[GrantAwardMessage, AwardResponse]
	removeAward            *connect.Client[RemoveAwardMessage, RemoveAwardResponse]
	suggestTopics          *connect.Client[SuggestTopicsMessage, SuggestTopicsResponse]
}

// NewDebateServiceClient constructs a client for the service at baseURL.
func NewDebateServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *DebateServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append(opts, rpcjson.Option())

	return &DebateServiceClient{
		createDebate:           connect.NewClient[CreateDebateMessage, DebateDetailResponse](httpClient, baseURL+CreateDebateProcedure, opts...),
		getDebate:              connect.NewClient[GetDebateMessage, DebateDetailResponse](httpClient, baseURL+GetDebateProcedure, opts...),
		listDebates:            connect.NewClient[ListDebatesMessage, ListDebatesResponse](httpClient, baseURL+ListDebatesProcedure, opts...),
		updateDebateStatus:     connect.NewClient[UpdateDebateStatusMessage, DebateResponse](httpClient, baseURL+UpdateDebateStatusProcedure, opts...),
		updateParticipantScore: connect.NewClient[UpdateScoreMessage, ParticipantResponse](httpClient, baseURL+UpdateParticipantScoreProcedure, opts...),
		updateTeamScore:        connect.NewClient[UpdateScoreMessage, TeamResponse](httpClient, baseURL+UpdateTeamScoreProcedure, opts...),
		listAwards:             connect.NewClient[ListAwardsMessage, ListAwardsResponse](httpClient, baseURL+ListAwardsProcedure, opts...),
		grantAward:             connect.NewClient[GrantAwardMessage, AwardResponse](httpClient, baseURL+GrantAwardProcedure, opts...),
		removeAward:            connect.NewClient[RemoveAwardMessage, RemoveAwardResponse](httpClient, baseURL+RemoveAwardProcedure, opts...),
		suggestTopics:          connect.NewClient[SuggestTopicsMessage, SuggestTopicsResponse](httpClient, baseURL+SuggestTopicsProcedure, opts...),
	}
}

func (c *DebateServiceClient) CreateDebate(ctx context.Context, req *connect.Request[CreateDebateMessage]) (*connect.Response[DebateDetailResponse], error) {
	return c.createDebate.CallUnary(ctx, req)
}

func (c *DebateServiceClient) GetDebate(ctx context.Context, req *connect.Request[GetDebateMessage]) (*connect.Response[DebateDetailResponse], error) {
	return c.getDebate.CallUnary(ctx, req)
}

func (c *DebateServiceClient) ListDebates(ctx context.Context, req *connect.Request[ListDebatesMessage]) (*connect.Response[ListDebatesResponse], error) {
	return c.listDebates.CallUnary(ctx, req)
}

func (c *DebateServiceClient) UpdateDebateStatus(ctx context.Context, req *connect.Request[UpdateDebateStatusMessage]) (*connect.Response[DebateResponse], error) {
	return c.updateDebateStatus.CallUnary(ctx, req)
}

func (c *DebateServiceClient) UpdateParticipantScore(ctx context.Context, req *connect.Request[UpdateScoreMessage]) (*connect.Response[ParticipantResponse], error) {
	return c.updateParticipantScore.CallUnary(ctx, req)
}

func (c *DebateServiceClient) UpdateTeamScore(ctx context.Context, req *connect.Request[UpdateScoreMessage]) (*connect.Response[TeamResponse], error) {
	return c.updateTeamScore.CallUnary(ctx, req)
}

func (c *DebateServiceClient) ListAwards(ctx context.Context, req *connect.Request[ListAwardsMessage]) (*connect.Response[ListAwardsResponse], error) {
	return c.listAwards.CallUnary(ctx, req)
}

func (c *DebateServiceClient) GrantAward(ctx context.Context, req *connect.Request[GrantAwardMessage]) (*connect.Response[AwardResponse], error) {
	return c.grantAward.CallUnary(ctx, req)
}

func (c *DebateServiceClient) RemoveAward(ctx context.Context, req *connect.Request[RemoveAwardMessage]) (*connect.Response[RemoveAwardResponse], error) {
	return c.removeAward.CallUnary(ctx, req)
}

func (c *DebateServiceClient) SuggestTopics(ctx context.Context, req *connect.Request[SuggestTopicsMessage]) (*connect.Response[SuggestTopicsResponse], error) {
	return c.suggestTopics.CallUnary(ctx, req)
}
