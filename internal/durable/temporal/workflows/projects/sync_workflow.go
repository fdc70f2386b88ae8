package projects

import (
	"go.temporal.io/sdk/workflow"

	projecttypes "github.com/a-z-nath/portfolio-api/internal/domains/projects/application/types"
	"github.com/a-z-nath/portfolio-api/internal/durable/temporal/sequences"
)

const (
	// SyncWorkflowName is the public identifier for registering the workflow.
	SyncWorkflowName = "projects.workflows.Sync"
	// SyncTaskQueue is the queue consumed by the worker processing sync workflows.
	SyncTaskQueue = "PROJECT_SYNC"
	// SyncWorkflowID is shared by every sync so at most one runs at a time.
	SyncWorkflowID = "project-sync"
)

// SyncWorkflowInput carries request metadata into the workflow.
type SyncWorkflowInput struct {
	TraceID string
}

// SyncWorkflow mirrors the featured GitHub repositories into the project store.
func SyncWorkflow(ctx workflow.Context, input SyncWorkflowInput) (*projecttypes.SyncResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("SyncWorkflow started", withTraceID(input.TraceID)...)
	result, err := sequences.RunProjectSyncSequence(ctx)
	if err != nil {
		logger.Error("SyncWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	logger.Info("SyncWorkflow completed", withTraceID(input.TraceID, "created", result.Created, "updated", result.Updated)...)
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
