package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"weather-console/internal/models"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authEnvelope is the response shape of both auth endpoints:
// {status, data: {user, accessToken}, message}.
type authEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    *struct {
		User        models.UserRecord `json:"user"`
		AccessToken string            `json:"accessToken"`
	} `json:"data"`
}

// SignIn exchanges credentials for a user record and bearer token.
// A non-success status comes back as *ServiceError with the server's
// message; transport failures come back wrapping ErrNetwork.
func (c *Client) SignIn(ctx context.Context, email, password string) (*models.AuthResult, error) {
	return c.auth(ctx, "/auth/signin", "signin", email, password)
}

// SignUp registers a new account. Local preconditions (password match,
// minimum length) are the caller's job and have already been checked
// by the time this runs.
func (c *Client) SignUp(ctx context.Context, email, password string) (*models.AuthResult, error) {
	return c.auth(ctx, "/auth/signup", "signup", email, password)
}

func (c *Client) auth(ctx context.Context, path, endpoint, email, password string) (*models.AuthResult, error) {
	body, err := json.Marshal(credentials{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if corrID := extractCorrelationID(ctx); corrID != "" {
		req.Header.Set("X-Correlation-ID", corrID)
	}

	resp, err := c.do(req, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", ErrNetwork, err)
	}

	var env authEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", ErrNetwork, err)
	}

	// The envelope status decides success, not the HTTP code: the
	// service reports failures as {status:"error"} bodies.
	if env.Status == "success" && env.Data != nil && env.Data.AccessToken != "" {
		return &models.AuthResult{
			User:        env.Data.User,
			AccessToken: env.Data.AccessToken,
		}, nil
	}
	return nil, &ServiceError{Message: env.Message}
}
