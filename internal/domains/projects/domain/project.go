package domain

import (
	"encoding/json"
	"slices"
	"sort"
	"strings"
	"time"
)

// FeaturedTopic is the GitHub topic that selects a repository for the portfolio.
const FeaturedTopic = "featured"

// Topics is the serialized form of a repository topic list as kept in storage.
type Topics string

// EncodeTopics serializes a topic list. A nil list is stored as an empty JSON array.
func EncodeTopics(topics []string) Topics {
	if topics == nil {
		topics = []string{}
	}
	raw, err := json.Marshal(topics)
	if err != nil {
		return Topics("[]")
	}
	return Topics(raw)
}

// Decode parses the stored topic list. Empty storage decodes to an empty list.
func (t Topics) Decode() ([]string, error) {
	if strings.TrimSpace(string(t)) == "" {
		return []string{}, nil
	}
	var topics []string
	if err := json.Unmarshal([]byte(t), &topics); err != nil {
		return []string{}, err
	}
	if topics == nil {
		topics = []string{}
	}
	return topics, nil
}

// Project is a GitHub repository mirrored into the local store. ID is the
// upstream repository id and never changes between syncs.
type Project struct {
	ID              int64
	Name            string
	Description     *string
	URL             string
	Homepage        *string
	Language        *string
	Stars           int
	Topics          Topics
	CreatedAt       time.Time
	UpdatedAt       time.Time
	GitHubUpdatedAt *time.Time
	Featured        bool
	DisplayOrder    int
}

// RemoteRepository is the upstream view of a repository returned by the source.
type RemoteRepository struct {
	ID          int64
	Name        string
	Description *string
	HTMLURL     string
	Homepage    *string
	Language    *string
	Stars       int
	Topics      []string
	UpdatedAt   *time.Time
}

// HasTopic reports whether the repository is tagged with topic.
func (r RemoteRepository) HasTopic(topic string) bool {
	return slices.Contains(r.Topics, topic)
}

// NewProjectFromRemote builds a project row for a repository seen for the first time.
func NewProjectFromRemote(repo RemoteRepository, topic string, now time.Time) *Project {
	p := &Project{ID: repo.ID, CreatedAt: now}
	p.ApplyRemote(repo, topic, now)
	return p
}

// ApplyRemote overwrites every mutable field with the upstream values.
// CreatedAt and DisplayOrder are local and left untouched.
func (p *Project) ApplyRemote(repo RemoteRepository, topic string, now time.Time) {
	description := ""
	if repo.Description != nil {
		description = *repo.Description
	}
	p.Name = repo.Name
	p.Description = &description
	p.URL = repo.HTMLURL
	p.Language = cloneString(repo.Language)
	p.Stars = repo.Stars
	p.Topics = EncodeTopics(repo.Topics)
	p.Homepage = cloneString(repo.Homepage)
	p.GitHubUpdatedAt = cloneTime(repo.UpdatedAt)
	p.Featured = repo.HasTopic(topic)
	p.UpdatedAt = now
}

// Clone returns a deep copy of the project.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Description = cloneString(p.Description)
	clone.Homepage = cloneString(p.Homepage)
	clone.Language = cloneString(p.Language)
	clone.GitHubUpdatedAt = cloneTime(p.GitHubUpdatedAt)
	return &clone
}

// SortByRank orders projects by stars descending, then by upstream update time
// descending. Projects without an upstream timestamp sort last within a star count.
func SortByRank(projects []*Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		a, b := projects[i], projects[j]
		if a.Stars != b.Stars {
			return a.Stars > b.Stars
		}
		switch {
		case a.GitHubUpdatedAt == nil:
			return false
		case b.GitHubUpdatedAt == nil:
			return true
		default:
			return a.GitHubUpdatedAt.After(*b.GitHubUpdatedAt)
		}
	})
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	s := *v
	return &s
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	t := *v
	return &t
}
