package portfolioserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	projectsapp "github.com/a-z-nath/portfolio-api/internal/domains/projects/application"
	"github.com/a-z-nath/portfolio-api/internal/domains/projects/domain"
	apierrors "github.com/a-z-nath/portfolio-api/internal/shared/errors"
)

const (
	syncReasonRemoteRequest = "GitHub API request failed"
	syncReasonStorage       = "Failed to update projects"
	syncReasonUnknown       = "Unknown error"
)

var projectsResponder = apierrors.NewChainedResponder(func(err error) (apierrors.APIError, bool) {
	if projectsapp.IsStorageError(err) {
		return apierrors.ErrFetchProjects, true
	}
	return apierrors.APIError{}, false
})

func respondProjectsError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	projectsResponder.RespondError(c, err)
}

// syncFailureReason reduces a sync error to a fixed client-facing string.
// Only the upstream HTTP status line is passed through.
func syncFailureReason(err error) string {
	var fetchErr *domain.RemoteFetchError
	switch {
	case errors.As(err, &fetchErr):
		if fetchErr.StatusCode != 0 {
			return fetchErr.Error()
		}
		return syncReasonRemoteRequest
	case projectsapp.IsStorageError(err):
		return syncReasonStorage
	default:
		return syncReasonUnknown
	}
}
