package backend

import (
	"context"

	"github.com/quotemate/gateway/internal/core/domain"
)

const (
	endpointMatchSubs     = "/match-subs"
	endpointFileMatchSubs = "/sub-file/match-subs"
	endpointMatchProjects = "/proj-for-sub/match-projects"
)

func (c *Client) MatchSubcontractors(ctx context.Context, filter domain.MatchFilter) (*domain.MatchSet, error) {
	body, err := c.postJSON(ctx, endpointMatchSubs, filter)
	if err != nil {
		return nil, err
	}
	return domain.DecodeMatchSet(body)
}

func (c *Client) MatchSubcontractorsFromFile(ctx context.Context, filter domain.MatchFilter) (*domain.MatchSet, error) {
	body, err := c.postJSON(ctx, endpointFileMatchSubs, filter)
	if err != nil {
		return nil, err
	}
	return domain.DecodeMatchSet(body)
}

func (c *Client) MatchProjects(ctx context.Context, filter domain.MatchFilter) ([]domain.ProjectMatch, error) {
	body, err := c.postJSON(ctx, endpointMatchProjects, filter)
	if err != nil {
		return nil, err
	}
	return domain.DecodeProjectMatches(body)
}
