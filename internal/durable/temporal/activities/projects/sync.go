package projects

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/a-z-nath/portfolio-api/internal/domains/projects/application"
	projecttypes "github.com/a-z-nath/portfolio-api/internal/domains/projects/application/types"
	"github.com/a-z-nath/portfolio-api/internal/domains/projects/domain"
	"github.com/a-z-nath/portfolio-api/internal/domains/projects/ports"
)

const (
	// SyncFeaturedActivityName mirrors featured GitHub repositories into the project store.
	SyncFeaturedActivityName = "projects.activities.SyncFeatured"

	// StorageErrorType tags activity failures caused by the project store.
	StorageErrorType = "ProjectStorageError"
	// RemoteFetchErrorType tags upstream fetch failures. Details carry the
	// HTTP status code and status line.
	RemoteFetchErrorType = "RemoteFetchError"
)

// Activities groups activities that operate on the projects bounded context.
type Activities struct {
	service ports.Service
}

// NewActivities wires the projects service into the Temporal activities bundle.
func NewActivities(service ports.Service) *Activities {
	return &Activities{service: service}
}

// SyncFeatured runs one sync. Upstream fetch failures stay retryable so the
// workflow retry policy applies; storage failures are not retried.
func (a *Activities) SyncFeatured(ctx context.Context) (*projecttypes.SyncResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("project sync activity not initialized")
		return nil, errors.New("project sync activity not initialized")
	}
	logger.Info("SyncFeatured activity started")
	result, err := a.service.Sync(ctx)
	if err != nil {
		logger.Error("SyncFeatured activity failed", "error", err)
		if application.IsStorageError(err) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), StorageErrorType, err)
		}
		var fetchErr *domain.RemoteFetchError
		if errors.As(err, &fetchErr) {
			return nil, temporal.NewApplicationErrorWithCause(err.Error(), RemoteFetchErrorType, fetchErr.Err, fetchErr.StatusCode, fetchErr.Status)
		}
		return nil, err
	}
	logger.Info("SyncFeatured activity completed",
		"created", result.Created, "updated", result.Updated, "errors", len(result.Errors), "total", result.Total)
	return result, nil
}
