package types

import "time"

// ProjectView is the public shape of a featured project.
type ProjectView struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Description  *string  `json:"description"`
	HTMLURL      string   `json:"html_url"`
	Homepage     *string  `json:"homepage"`
	Language     *string  `json:"language"`
	Stars        int      `json:"stargazers_count"`
	Topics       []string `json:"topics"`
	CreatedAt    *string  `json:"created_at"`
	UpdatedAt    *string  `json:"updated_at"`
	Featured     bool     `json:"featured"`
	DisplayOrder int      `json:"display_order"`
}

// FeaturedProjectsView is the payload served by the projects endpoint.
type FeaturedProjectsView struct {
	Projects []ProjectView `json:"projects"`
	Count    int           `json:"count"`
	LastSync *string       `json:"lastSync"`
}

// CachedProjects pairs a computed payload with the instant it was computed.
type CachedProjects struct {
	View     FeaturedProjectsView `json:"view"`
	CachedAt time.Time            `json:"cachedAt"`
}

// Valid reports whether both the payload and its timestamp are present.
func (c *CachedProjects) Valid() bool {
	return c != nil && !c.CachedAt.IsZero()
}

// FeaturedLookup is the outcome of a featured projects read.
type FeaturedLookup struct {
	Entry    *CachedProjects
	CacheHit bool
}
