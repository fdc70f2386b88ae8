package projects

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	projecttypes "github.com/a-z-nath/portfolio-api/internal/domains/projects/application/types"
	"github.com/a-z-nath/portfolio-api/internal/domains/projects/domain"
)

type stubService struct {
	result *projecttypes.SyncResult
	err    error
}

func (s *stubService) FeaturedProjects(context.Context) (*projecttypes.FeaturedLookup, error) {
	return nil, errors.New("not used")
}

func (s *stubService) Sync(context.Context) (*projecttypes.SyncResult, error) {
	return s.result, s.err
}

func (s *stubService) InvalidateCache(context.Context) error { return nil }

func TestSyncFeatured_Success(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestActivityEnvironment()
	acts := NewActivities(&stubService{result: &projecttypes.SyncResult{Created: 4, Errors: []string{}, Total: 4}})
	env.RegisterActivity(acts.SyncFeatured)

	value, err := env.ExecuteActivity(acts.SyncFeatured)
	require.NoError(t, err)
	var result projecttypes.SyncResult
	require.NoError(t, value.Get(&result))
	require.Equal(t, 4, result.Created)
}

func TestSyncFeatured_StorageErrorIsNonRetryable(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestActivityEnvironment()
	storageErr := fmt.Errorf("%w: reconcile featured projects: disk full", domain.ErrStorage)
	acts := NewActivities(&stubService{err: storageErr})
	env.RegisterActivity(acts.SyncFeatured)

	_, err := env.ExecuteActivity(acts.SyncFeatured)
	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	require.True(t, appErr.NonRetryable())
	require.Equal(t, StorageErrorType, appErr.Type())
}

func TestSyncFeatured_RemoteErrorIsRetryable(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestActivityEnvironment()
	acts := NewActivities(&stubService{err: &domain.RemoteFetchError{StatusCode: 502, Status: "502 Bad Gateway"}})
	env.RegisterActivity(acts.SyncFeatured)

	_, err := env.ExecuteActivity(acts.SyncFeatured)
	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	require.False(t, appErr.NonRetryable())
	require.Equal(t, RemoteFetchErrorType, appErr.Type())

	var (
		code   int
		status string
	)
	require.NoError(t, appErr.Details(&code, &status))
	require.Equal(t, 502, code)
	require.Equal(t, "502 Bad Gateway", status)
}
