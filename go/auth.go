package portfolioserver

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apierrors "github.com/a-z-nath/portfolio-api/internal/shared/errors"
)

// RequireBearerToken admits a request only when its Authorization header is
// exactly "Bearer <token>". An empty token admits nothing.
func RequireBearerToken(token string) gin.HandlerFunc {
	expected := []byte("Bearer " + token)
	return func(c *gin.Context) {
		if token == "" {
			apierrors.Respond(c, apierrors.ErrUnauthorized)
			return
		}
		got := []byte(c.GetHeader("Authorization"))
		if subtle.ConstantTimeCompare(got, expected) != 1 {
			apierrors.Respond(c, apierrors.ErrUnauthorized)
			return
		}
		c.Next()
	}
}
