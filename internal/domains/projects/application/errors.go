package application

import (
	"errors"

	"github.com/a-z-nath/portfolio-api/internal/domains/projects/domain"
)

// IsStorageError reports whether err originated in the project store.
func IsStorageError(err error) bool {
	return errors.Is(err, domain.ErrStorage)
}

// IsRemoteFetchError reports whether err is an upstream fetch failure.
func IsRemoteFetchError(err error) bool {
	var fetchErr *domain.RemoteFetchError
	return errors.As(err, &fetchErr)
}

func mapFetchError(err error) error {
	if err == nil || IsRemoteFetchError(err) {
		return err
	}
	return &domain.RemoteFetchError{Err: err}
}
