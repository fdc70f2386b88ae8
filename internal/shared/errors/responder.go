package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Responder writes APIError bodies and stops the handler chain.
type Responder struct{}

// DefaultResponder is shared by the package-level helpers.
var DefaultResponder = &Responder{}

// Respond aborts the request with the error's status and JSON body.
func (r *Responder) Respond(c *gin.Context, apiErr APIError) {
	status := apiErr.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, apiErr)
}

// RespondError converts a standard error to an APIError and responds.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		r.Respond(c, apiErr)
		return
	}
	r.Respond(c, ErrInternal)
}

// Respond is a convenience function using the default responder.
func Respond(c *gin.Context, apiErr APIError) {
	DefaultResponder.Respond(c, apiErr)
}

// RespondError is a convenience function using the default responder.
func RespondError(c *gin.Context, err error) {
	DefaultResponder.RespondError(c, err)
}

// ErrorMapper maps domain/application errors to an APIError.
type ErrorMapper func(err error) (APIError, bool)

// ChainedResponder supports custom error mapping.
type ChainedResponder struct {
	*Responder
	mappers []ErrorMapper
}

// NewChainedResponder creates a responder with custom error mappers.
func NewChainedResponder(mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{
		Responder: DefaultResponder,
		mappers:   mappers,
	}
}

// AddMapper adds an error mapper to the chain.
func (r *ChainedResponder) AddMapper(mapper ErrorMapper) {
	r.mappers = append(r.mappers, mapper)
}

// RespondError tries each mapper before falling back to default handling.
func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if apiErr, ok := mapper(err); ok {
			r.Respond(c, apiErr)
			return
		}
	}
	r.Responder.RespondError(c, err)
}

// HTTPStatusFromError extracts HTTP status from an error if possible.
func HTTPStatusFromError(err error) int {
	var apiErr APIError
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		return apiErr.Status
	}
	return http.StatusInternalServerError
}
