package workflows

import (
	"context"
	"errors"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/a-z-nath/portfolio-api/internal/domains/projects/application/types"
	"github.com/a-z-nath/portfolio-api/internal/domains/projects/domain"
	"github.com/a-z-nath/portfolio-api/internal/domains/projects/ports"
	projectactivities "github.com/a-z-nath/portfolio-api/internal/durable/temporal/activities/projects"
	projectworkflows "github.com/a-z-nath/portfolio-api/internal/durable/temporal/workflows/projects"
)

var (
	_ ports.SyncOrchestrator = (*TemporalSyncWorkflows)(nil)
	_ ports.SyncOrchestrator = (*InlineSyncWorkflows)(nil)
)

// ErrSyncWorkflowFailed wraps failures reported by the durable sync workflow.
var ErrSyncWorkflowFailed = errors.New("sync workflow failed")

// TemporalSyncWorkflows starts sync workflows on a Temporal cluster.
type TemporalSyncWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalSyncWorkflows wires a Temporal client into the orchestrator.
func NewTemporalSyncWorkflows(c client.Client) *TemporalSyncWorkflows {
	return &TemporalSyncWorkflows{client: c, taskQueue: projectworkflows.SyncTaskQueue}
}

// RunSync starts the sync workflow and waits for its result. A trigger that
// arrives while a sync is running waits on that run instead of starting another.
func (o *TemporalSyncWorkflows) RunSync(ctx context.Context) (*types.SyncResult, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal sync workflows not configured")
	}
	options := client.StartWorkflowOptions{
		ID:        projectworkflows.SyncWorkflowID,
		TaskQueue: o.taskQueue,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		projectworkflows.SyncWorkflow,
		projectworkflows.SyncWorkflowInput{TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, projectworkflows.SyncWorkflowID, alreadyStarted.RunId)
	}
	var result types.SyncResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, workflowError(err)
	}
	return &result, nil
}

// InlineSyncWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineSyncWorkflows struct {
	service ports.Service
}

// NewInlineSyncWorkflows wraps the projects service for synchronous execution.
func NewInlineSyncWorkflows(service ports.Service) *InlineSyncWorkflows {
	return &InlineSyncWorkflows{service: service}
}

// RunSync delegates to the application service without durable orchestration.
func (o *InlineSyncWorkflows) RunSync(ctx context.Context) (*types.SyncResult, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline sync workflows not configured")
	}
	return o.service.Sync(ctx)
}

// workflowError rebuilds the domain error carried by the activity failure so
// callers see the same error kinds as with an inline sync.
func workflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return fmt.Errorf("%w: %w", ErrSyncWorkflowFailed, err)
	}
	switch appErr.Type() {
	case projectactivities.RemoteFetchErrorType:
		fetchErr := &domain.RemoteFetchError{Err: appErr.Unwrap()}
		if appErr.HasDetails() {
			var (
				code   int
				status string
			)
			if detailsErr := appErr.Details(&code, &status); detailsErr == nil {
				fetchErr.StatusCode = code
				fetchErr.Status = status
			}
		}
		return fmt.Errorf("%w: %w", ErrSyncWorkflowFailed, fetchErr)
	case projectactivities.StorageErrorType:
		return fmt.Errorf("%w: %w: %s", ErrSyncWorkflowFailed, domain.ErrStorage, appErr.Message())
	}
	return fmt.Errorf("%w: %s", ErrSyncWorkflowFailed, appErr.Message())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
