package portfolioserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	projectsports "github.com/a-z-nath/portfolio-api/internal/domains/projects/ports"
)

const (
	// CacheControlProjects lets shared caches hold the list for an hour and serve it stale for a day.
	CacheControlProjects = "public, s-maxage=3600, stale-while-revalidate=86400"

	cacheHit  = "HIT"
	cacheMiss = "MISS"
)

// ProjectsAPI serves the featured projects list.
type ProjectsAPI struct {
	service projectsports.Service
}

// NewProjectsAPI creates a ProjectsAPI backed by the provided service.
func NewProjectsAPI(service projectsports.Service) ProjectsAPI {
	return ProjectsAPI{service: service}
}

// Get /api/projects
// Lists featured projects, stars descending
func (api *ProjectsAPI) GetProjects(c *gin.Context) {
	lookup, err := api.service.FeaturedProjects(c.Request.Context())
	if err != nil {
		respondProjectsError(c, err)
		return
	}
	state := cacheMiss
	if lookup.CacheHit {
		state = cacheHit
	}
	c.Header("X-Cache", state)
	c.Header("X-Cache-Timestamp", lookup.Entry.CachedAt.UTC().Format(time.RFC3339))
	c.Header("Cache-Control", CacheControlProjects)
	c.JSON(http.StatusOK, lookup.Entry.View)
}
