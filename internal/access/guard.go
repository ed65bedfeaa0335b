package access

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"testea/internal/config"
)

// RequireProjectAccess reports whether any access cookie the request
// carries grants the project id. Every prefixed cookie is verified in turn;
// corrupt or expired tokens are skipped, never an error. Cost is linear in
// the number of project cookies the browser holds, which in practice is the
// handful of projects a user has unlocked.
func RequireProjectAccess(store *CookieStore, codec *Codec, projectID string, now time.Time) bool {
	policy := NewPolicy()
	for _, token := range store.All() {
		claims, err := codec.Verify(token, now)
		if err != nil {
			continue
		}
		if policy.CanAccessProject(projectID, AccessContext{ProjectToken: &claims}) {
			return true
		}
	}
	return false
}

// RequireAccess is the route-level gate for mutation endpoints: requests
// without a valid grant for the :param project id are rejected before the
// handler runs.
func RequireAccess(codec *Codec, cfg config.AccessConfig, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID := c.Param(param)
		if projectID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "project id required"})
			return
		}
		store := NewCookieStore(c.Writer, c.Request, cfg)
		if !RequireProjectAccess(store, codec, projectID, time.Now()) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "project access required"})
			return
		}
		c.Next()
	}
}
