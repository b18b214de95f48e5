package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/quotemate/gateway/internal/core/domain"
)

const (
	endpointSubcontractor = "/retell/subcontractor/{id}"
	endpointProject       = "/retell/project/{id}"
	endpointContacted     = "/retell/builder/{id}/contacted-subcontractors"
	endpointStartCall     = "/retell/start-call"
	endpointWebhook       = "/webhook"
)

func (c *Client) Subcontractor(ctx context.Context, id string) (json.RawMessage, error) {
	return c.getByID(ctx, endpointSubcontractor, id)
}

func (c *Client) Project(ctx context.Context, id string) (json.RawMessage, error) {
	return c.getByID(ctx, endpointProject, id)
}

func (c *Client) ContactedSubcontractors(ctx context.Context, builderID string) (json.RawMessage, error) {
	return c.getByID(ctx, endpointContacted, builderID)
}

func (c *Client) getByID(ctx context.Context, endpoint, id string) (json.RawMessage, error) {
	req := c.http.R().SetPathParam("id", id)
	body, _, err := c.do(ctx, req, http.MethodGet, endpoint)
	if err != nil {
		return nil, err
	}
	return requireJSON(endpoint, body)
}

func (c *Client) StartCall(ctx context.Context, call domain.CallRequest) error {
	_, err := c.postJSON(ctx, endpointStartCall, call)
	return err
}

func (c *Client) TriggerWebhook(ctx context.Context, call domain.WebhookCall) error {
	_, err := c.postJSON(ctx, endpointWebhook, call)
	return err
}
