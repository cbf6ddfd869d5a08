package rancher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/redfroggy/stackdeploy/internal/apiclient"
)

// Client is the subset of the API client the resolver needs.
type Client interface {
	Get(ctx context.Context, url string) (*apiclient.Response, error)
}

// Resolver turns environment and stack names into resource URLs.
type Resolver struct {
	client  Client
	baseURL string
	logger  *slog.Logger
}

func NewResolver(client Client, baseURL string, logger *slog.Logger) *Resolver {
	return &Resolver{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// StacksURL returns the stacks collection link of the named environment.
// Every error returned here aborts a deployment.
func (r *Resolver) StacksURL(ctx context.Context, environment string) (string, error) {
	envURL := fmt.Sprintf("%s/projects?name=%s", r.baseURL, url.QueryEscape(environment))

	resp, err := r.client.Get(ctx, envURL)
	if err != nil {
		return "", fmt.Errorf("failed to look up environment '%s': %w", environment, err)
	}
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmptyEnvironmentResponse, envURL)
	}
	if !resp.IsSuccess() {
		return "", &StatusError{URL: envURL, StatusCode: resp.StatusCode}
	}

	var projects ProjectCollection
	if err := resp.DecodeJSON(&projects); err != nil {
		return "", &ShapeError{Resource: "project list", URL: envURL, Err: err}
	}
	if len(projects.Data) == 0 || projects.Data[0].Links.Stacks == "" {
		return "", fmt.Errorf("%w: %s", ErrEnvironmentNotFound, environment)
	}
	return projects.Data[0].Links.Stacks, nil
}

// StackURL returns the self link of the named stack inside the named environment.
// found is false when the stack does not exist or could not be resolved; that is not an error.
func (r *Resolver) StackURL(ctx context.Context, environment, stackName string) (stackURL string, found bool, err error) {
	stacksURL, err := r.StacksURL(ctx, environment)
	if err != nil {
		var shapeErr *ShapeError
		if errors.As(err, &shapeErr) {
			r.logger.Error("Environment response could not be read, treating stack as absent", "environment", environment, "error", err)
			return "", false, nil
		}
		return "", false, err
	}

	lookupURL, err := withNameQuery(stacksURL, stackName)
	if err != nil {
		r.logger.Error("Invalid stacks collection link", "url", stacksURL, "error", err)
		return "", false, nil
	}

	resp, err := r.client.Get(ctx, lookupURL)
	if err != nil {
		r.logger.Error("Stack lookup failed", "stack", stackName, "error", err)
		return "", false, nil
	}
	if !resp.IsSuccess() {
		r.logger.Error("Stack lookup returned an error status", "stack", stackName, "status", resp.StatusCode)
		return "", false, nil
	}

	var stacks StackCollection
	if err := resp.DecodeJSON(&stacks); err != nil {
		r.logger.Error("Stack lookup response could not be read", "stack", stackName, "error", &ShapeError{Resource: "stack list", URL: lookupURL, Err: err})
		return "", false, nil
	}
	if len(stacks.Data) == 0 || stacks.Data[0].Links.Self == "" {
		r.logger.Debug("Stack not found", "environment", environment, "stack", stackName)
		return "", false, nil
	}
	return stacks.Data[0].Links.Self, true, nil
}

// StackState reports the current state of a stack resource. gone is true once the
// stack returns 404 or has reached a removed state.
func (r *Resolver) StackState(ctx context.Context, stackURL string) (state string, gone bool, err error) {
	resp, err := r.client.Get(ctx, stackURL)
	if err != nil {
		return "", false, fmt.Errorf("failed to read stack state: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return "", true, nil
	}
	if !resp.IsSuccess() {
		return "", false, &StatusError{URL: stackURL, StatusCode: resp.StatusCode}
	}

	var stack Stack
	if err := resp.DecodeJSON(&stack); err != nil {
		return "", false, &ShapeError{Resource: "stack", URL: stackURL, Err: err}
	}
	switch stack.State {
	case "removed", "purged", "purging":
		return stack.State, true, nil
	}
	return stack.State, false, nil
}

func withNameQuery(rawURL, name string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("name", name)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
