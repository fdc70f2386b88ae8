package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	projecttypes "github.com/a-z-nath/portfolio-api/internal/domains/projects/application/types"
	projectactivities "github.com/a-z-nath/portfolio-api/internal/durable/temporal/activities/projects"
)

// RunProjectSyncSequence executes the activity that mirrors featured repositories.
func RunProjectSyncSequence(ctx workflow.Context) (*projecttypes.SyncResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("project sync sequence started")
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var result projecttypes.SyncResult
	if err := workflow.ExecuteActivity(ctx, projectactivities.SyncFeaturedActivityName).Get(ctx, &result); err != nil {
		logger.Error("project sync sequence failed", "error", err)
		return nil, err
	}
	logger.Info("project sync sequence completed", "created", result.Created, "updated", result.Updated)
	return &result, nil
}
