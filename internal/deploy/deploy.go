package deploy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redfroggy/stackdeploy/internal/apiclient"
	"github.com/redfroggy/stackdeploy/internal/compose"
	"github.com/redfroggy/stackdeploy/internal/config"
	"github.com/redfroggy/stackdeploy/internal/rancher"
)

// Client is the HTTP surface the deployer needs.
type Client interface {
	Get(ctx context.Context, url string) (*apiclient.Response, error)
	Post(ctx context.Context, url string, payload any) (*apiclient.Response, error)
	Delete(ctx context.Context, url string) (*apiclient.Response, error)
}

// Deployer replaces a stack by deleting it and creating it again from its descriptors.
// Delete and create are not transactional: a failed create leaves the environment without the stack.
type Deployer struct {
	client   Client
	resolver *rancher.Resolver
	settler  Settler
	logger   *slog.Logger
}

func NewDeployer(client Client, resolver *rancher.Resolver, settler Settler, logger *slog.Logger) *Deployer {
	return &Deployer{
		client:   client,
		resolver: resolver,
		settler:  settler,
		logger:   logger,
	}
}

// Deploy runs one redeploy of request.Stack in request.Environment. HTTP statuses on delete and
// create are recorded in the Result and never returned as errors; use Result.CheckStatus for that.
// The returned Result is never nil.
func (d *Deployer) Deploy(ctx context.Context, request config.DeploymentRequest) (*Result, error) {
	start := time.Now()
	result := &Result{RunID: CreateRunID(), Phase: PhaseIdle}
	defer func() { result.Duration = time.Since(start) }()
	logger := d.logger.With("runID", result.RunID)
	environment := request.Environment
	stackName := request.Stack.Name

	result.Phase = PhaseResolvingForDelete
	stackURL, found, err := d.resolver.StackURL(ctx, environment, stackName)
	if err != nil {
		if errors.Is(err, rancher.ErrEnvironmentNotFound) {
			logger.Error("Environment does not exist", "environment", environment)
		}
		return result, fmt.Errorf("failed to resolve stack '%s': %w", stackName, err)
	}

	if found {
		result.Phase = PhaseDeleting
		result.StackURL = stackURL
		logger.Info("Deleting existing stack", "stack", stackName, "url", stackURL)

		resp, err := d.client.Delete(ctx, stackURL)
		if err != nil {
			return result, fmt.Errorf("failed to delete stack '%s': %w", stackName, err)
		}
		result.DeleteIssued = true
		result.DeleteStatus = resp.StatusCode
		logStatus(logger, "Delete request completed", resp, "stack", stackName)
	} else {
		logger.Info("No existing stack to delete", "environment", environment, "stack", stackName)
	}

	result.Phase = PhaseSettling
	if err := d.settler.Settle(ctx, result.StackURL); err != nil {
		return result, fmt.Errorf("failed while waiting for stack removal: %w", err)
	}

	// An interrupted settle still recreates the stack. Request timeouts bound the rest of the run.
	ctx = context.WithoutCancel(ctx)

	result.Phase = PhaseResolvingForCreate
	stacksURL, err := d.resolver.StacksURL(ctx, environment)
	if err != nil {
		return result, fmt.Errorf("failed to resolve environment '%s' for create: %w", environment, err)
	}

	result.Phase = PhaseCreating
	dockerCompose, ok := compose.Load(request.Stack.DockerComposeFile, logger)
	if !ok {
		logger.Warn("No docker-compose descriptor available, skipping stack creation", "path", request.Stack.DockerComposeFile)
		result.Phase = PhaseDone
		return result, nil
	}
	if services := compose.ServiceNames(dockerCompose); len(services) > 0 {
		logger.Info("Descriptor services", "services", strings.Join(services, ","))
	}
	rancherCompose, _ := compose.Load(request.Stack.RancherComposeFile, logger)

	payload := rancher.NewStackPayload(
		stackName,
		request.Stack.Description,
		dockerCompose,
		rancherCompose,
		request.Stack.StartOnCreate,
	)
	logger.Info("Creating stack", "environment", environment, "stack", stackName)
	resp, err := d.client.Post(ctx, stacksURL, payload)
	if err != nil {
		return result, fmt.Errorf("failed to create stack '%s': %w", stackName, err)
	}
	result.CreateIssued = true
	result.CreateStatus = resp.StatusCode
	logStatus(logger, "Create request completed", resp, "stack", stackName)

	result.Phase = PhaseDone
	return result, nil
}

func logStatus(logger *slog.Logger, msg string, resp *apiclient.Response, args ...any) {
	args = append(args, "status", resp.StatusCode)
	if resp.IsSuccess() {
		logger.Info(msg, args...)
		return
	}
	logger.Warn(msg, args...)
}
