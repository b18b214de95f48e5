package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/quotemate/gateway/internal/core/domain"
)

const (
	endpointLogin  = "/auth/login"
	endpointSignup = "/auth/signup"
)

type authResponse struct {
	Success *bool        `json:"success"`
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// Login calls POST /auth/login. A response with success=false is returned
// as a *domain.BackendError carrying the backend's message.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	body, err := c.postJSON(ctx, endpointLogin, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrBackendContract, endpointLogin, err)
	}
	if resp.Success == nil || !*resp.Success {
		return nil, &domain.BackendError{Endpoint: endpointLogin, Status: 200, Message: resp.Message}
	}
	if resp.User == nil {
		return nil, fmt.Errorf("%w: %s: missing user", domain.ErrBackendContract, endpointLogin)
	}
	return resp.User, nil
}

// Signup calls POST /auth/signup and returns the backend's message.
func (c *Client) Signup(ctx context.Context, email, password, userType string) (string, error) {
	body, err := c.postJSON(ctx, endpointSignup, map[string]string{
		"email":    email,
		"password": password,
		"userType": userType,
	})
	if err != nil {
		var be *domain.BackendError
		if errors.As(err, &be) && be.Message == "" {
			be.Message = "Signup failed"
		}
		return "", err
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrBackendContract, endpointSignup, err)
	}
	if resp.Success != nil && !*resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "Signup failed"
		}
		return "", &domain.BackendError{Endpoint: endpointSignup, Status: 200, Message: msg}
	}
	return resp.Message, nil
}
