package portfolioserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	projectstypes "github.com/a-z-nath/portfolio-api/internal/domains/projects/application/types"
	projectsports "github.com/a-z-nath/portfolio-api/internal/domains/projects/ports"
	apierrors "github.com/a-z-nath/portfolio-api/internal/shared/errors"
)

// SyncResponse is returned after a successful sync.
type SyncResponse struct {
	Message          string                    `json:"message"`
	Stats            *projectstypes.SyncResult `json:"stats"`
	CacheInvalidated bool                      `json:"cacheInvalidated"`
}

// SyncDescription advertises the sync capability.
type SyncDescription struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}

// SyncAPI triggers the GitHub sync and invalidates the projects cache on success.
type SyncAPI struct {
	service   projectsports.Service
	workflows projectsports.SyncOrchestrator
	token     string
	logger    *slog.Logger
}

// NewSyncAPI creates a SyncAPI. Requests must carry "Bearer <token>".
func NewSyncAPI(service projectsports.Service, workflows projectsports.SyncOrchestrator, token string, logger *slog.Logger) SyncAPI {
	if logger == nil {
		logger = slog.Default()
	}
	return SyncAPI{service: service, workflows: workflows, token: token, logger: logger}
}

// Post /api/sync
// Pulls featured repositories from GitHub into the store
func (api *SyncAPI) Sync(c *gin.Context) {
	ctx := c.Request.Context()
	result, err := api.runSync(ctx)
	if err != nil {
		api.logger.ErrorContext(ctx, "sync failed",
			slog.String("error", err.Error()),
			slog.String("request_id", RequestIDFrom(c)))
		apierrors.Respond(c, apierrors.NewSyncFailure(syncFailureReason(err)))
		return
	}
	invalidated := true
	if err := api.service.InvalidateCache(ctx); err != nil {
		invalidated = false
		api.logger.WarnContext(ctx, "sync completed but cache invalidation failed",
			slog.String("error", err.Error()),
			slog.String("request_id", RequestIDFrom(c)))
	}
	c.JSON(http.StatusOK, SyncResponse{
		Message:          "Sync completed successfully",
		Stats:            result,
		CacheInvalidated: invalidated,
	})
}

// Get /api/sync
// Describes the sync endpoints
func (api *SyncAPI) Describe(c *gin.Context) {
	c.JSON(http.StatusOK, SyncDescription{
		Message: "Sync endpoint is working. Use POST with authorization to sync.",
		Endpoints: map[string]string{
			"sync":     "POST /api/sync",
			"projects": "GET /api/projects",
		},
	})
}

func (api *SyncAPI) runSync(ctx context.Context) (*projectstypes.SyncResult, error) {
	if api.workflows != nil {
		return api.workflows.RunSync(ctx)
	}
	return api.service.Sync(ctx)
}
