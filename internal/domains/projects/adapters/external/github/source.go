package github

import (
	"context"
	"errors"

	githubclient "github.com/a-z-nath/portfolio-api/internal/clients/http/github"
	"github.com/a-z-nath/portfolio-api/internal/domains/projects/domain"
	"github.com/a-z-nath/portfolio-api/internal/domains/projects/ports"
)

// Searcher is the slice of the GitHub client the source depends on.
type Searcher interface {
	SearchRepositories(ctx context.Context, query string) ([]githubclient.Repository, error)
}

// Source implements the featured repository port on top of the GitHub search API.
type Source struct {
	client Searcher
	owner  string
	topic  string
}

// NewSource wires a GitHub client into the source adapter.
func NewSource(client Searcher, owner, topic string) *Source {
	if topic == "" {
		topic = domain.FeaturedTopic
	}
	return &Source{client: client, owner: owner, topic: topic}
}

// FeaturedRepositories lists the owner's repositories tagged with the featured topic.
func (s *Source) FeaturedRepositories(ctx context.Context) ([]domain.RemoteRepository, error) {
	if s == nil || s.client == nil {
		return nil, &domain.RemoteFetchError{Err: errors.New("github source not configured")}
	}
	if s.owner == "" {
		return nil, &domain.RemoteFetchError{Err: errors.New("github owner is required")}
	}
	items, err := s.client.SearchRepositories(ctx, githubclient.FeaturedQuery(s.owner, s.topic))
	if err != nil {
		var statusErr *githubclient.StatusError
		if errors.As(err, &statusErr) {
			return nil, &domain.RemoteFetchError{StatusCode: statusErr.StatusCode, Status: statusErr.Status, Err: err}
		}
		return nil, &domain.RemoteFetchError{Err: err}
	}
	repos := make([]domain.RemoteRepository, 0, len(items))
	for _, item := range items {
		repos = append(repos, ToRemoteRepository(item))
	}
	return repos, nil
}

// ToRemoteRepository converts the GitHub payload into the domain shape.
func ToRemoteRepository(item githubclient.Repository) domain.RemoteRepository {
	repo := domain.RemoteRepository{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		HTMLURL:     item.HTMLURL,
		Homepage:    copyString(item.Homepage),
		Language:    item.Language,
		Stars:       item.StargazersCount,
		Topics:      append([]string{}, item.Topics...),
	}
	if !item.UpdatedAt.IsZero() {
		updatedAt := item.UpdatedAt.UTC()
		repo.UpdatedAt = &updatedAt
	}
	return repo
}

// copyString keeps GitHub's value as returned, including an empty homepage.
func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

var _ ports.RepositorySource = (*Source)(nil)
